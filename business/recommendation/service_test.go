//go:build !integration

package recommendation

import (
	"context"
	"errors"
	"testing"

	"travelDiscovery/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestService(places *fakePlaces, history *fakeHistory, cfgRepo ConfigRepository, gen Generator) *Service {
	if history == nil {
		history = &fakeHistory{}
	}
	return NewService(places, history, cfgRepo, gen, testLocales(), DefaultConfig())
}

func TestRecommend_NoRowsGivesEmptyList(t *testing.T) {
	places := &fakePlaces{}
	svc := newTestService(places, nil, nil, &fakeGenerator{out: `{"categories":["cafe"],"locales":["Hanoi"]}`})

	got, err := svc.Recommend(context.Background(), uuid.New(), RecommendRequest{Query: "coffee", MaxResults: 10})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, places.calls)
}

func TestRetrieve_EmptyCafeQuery(t *testing.T) {
	places := &fakePlaces{}
	crit := domain.SearchCriteria{Categories: []string{"cafe"}, Locales: []string{"Hanoi"}}

	candidates, err := NewCandidateRetriever(places).Retrieve(context.Background(), crit, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.Place{}, candidates)
	assert.Equal(t, crit, places.lastCrit)

	assert.Equal(t, []domain.ScoredCandidate{}, Score(candidates, crit, domain.NewUserContext(), 10))
}

func TestRetrieve_OverFetchesThreeTimes(t *testing.T) {
	var rows []domain.Place
	for i := 0; i < 40; i++ {
		rows = append(rows, place("p", "cafe", "Hanoi", 4.5))
	}
	places := &fakePlaces{rows: rows}

	got, err := NewCandidateRetriever(places).Retrieve(context.Background(), domain.SearchCriteria{}, 7, 3)

	require.NoError(t, err)
	assert.Equal(t, 21, places.lastLimit)
	assert.Len(t, got, 21)
}

func TestRetrieve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	places := &fakePlaces{}
	_, err := NewCandidateRetriever(places).Retrieve(ctx, domain.SearchCriteria{}, 10, 3)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, places.calls)
}

func TestRecommend_RanksAndProjects(t *testing.T) {
	history := &fakeHistory{
		saved: []domain.SavedPlace{
			{PlaceType: "restaurant", City: "Hanoi", PriceRange: "$$"},
			{PlaceType: "restaurant", City: "Hanoi", PriceRange: "$$"},
		},
		ratings: []int{4, 4},
	}
	best := place("Bun Cha Huong Lien", "restaurant", "Hanoi", 4.7)
	best.PriceRange = "$$"
	places := &fakePlaces{rows: []domain.Place{
		place("Temple of Literature", "landmark", "Hanoi", 4.6),
		best,
		place("Hotel Metropole", "hotel", "Hanoi", 3.0),
	}}

	svc := newTestService(places, history, nil, nil)
	got, err := svc.Recommend(context.Background(), uuid.New(), RecommendRequest{MaxResults: 2})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, best.ID, got[0].ID)
	assert.Equal(t, 6, places.lastLimit)
	for _, rp := range got {
		assert.GreaterOrEqual(t, rp.Score, 0.0)
		assert.LessOrEqual(t, rp.Score, 1.0)
		assert.NotEmpty(t, rp.Reasons)
		assert.LessOrEqual(t, len(rp.Reasons), 3)
	}
}

func TestRecommend_DefaultsAndCapsMaxResults(t *testing.T) {
	places := &fakePlaces{}
	svc := newTestService(places, nil, nil, nil)

	_, err := svc.Recommend(context.Background(), uuid.New(), RecommendRequest{})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxResults*3, places.lastLimit)

	_, err = svc.Recommend(context.Background(), uuid.New(), RecommendRequest{MaxResults: 500})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxResultsCap*3, places.lastLimit)
}

func TestRecommend_RetrievalErrorIsReturned(t *testing.T) {
	svc := newTestService(&fakePlaces{err: errors.New("pq: too many connections")}, nil, nil, nil)

	_, err := svc.Recommend(context.Background(), uuid.New(), RecommendRequest{MaxResults: 5})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "find candidates")
}

func TestRecommend_GeneratorFailureNeverSurfaces(t *testing.T) {
	history := &fakeHistory{saved: []domain.SavedPlace{{PlaceType: "cafe", City: "Hanoi"}}}
	svc := newTestService(&fakePlaces{rows: []domain.Place{place("c", "cafe", "Hanoi", 4.2)}}, history, nil, &fakeGenerator{err: errUpstream})

	got, err := svc.Recommend(context.Background(), uuid.New(), RecommendRequest{Query: "latte", MaxResults: 5})

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecommend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	places := &fakePlaces{}
	_, err := newTestService(places, nil, nil, nil).Recommend(ctx, uuid.New(), RecommendRequest{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, places.calls)
}

func TestRecommend_EmitsSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	svc := newTestService(&fakePlaces{}, nil, nil, nil)
	_, err := svc.Recommend(context.Background(), uuid.New(), RecommendRequest{MaxResults: 3})
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "recommendation.Recommend", spans[0].Name)

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, PathDefault, attrs["criteria_path"])
	assert.Equal(t, int64(0), attrs["results"])
}

func TestResolveCriteria_Explains(t *testing.T) {
	history := &fakeHistory{saved: []domain.SavedPlace{{PlaceType: "hotel", City: "Hue"}}}
	svc := newTestService(&fakePlaces{}, history, nil, nil)

	got, err := svc.ResolveCriteria(context.Background(), uuid.New(), "", "saigon")

	require.NoError(t, err)
	assert.Equal(t, PathDefault, got.Path)
	assert.Equal(t, []string{"hotel"}, got.Context.SavedCategories)
	assert.Equal(t, []string{"Ho Chi Minh City"}, got.Criteria.Locales)
}

func TestLoadConfig_FallsBackToDefaults(t *testing.T) {
	t.Run("repository error", func(t *testing.T) {
		svc := newTestService(&fakePlaces{}, nil, &fakeConfigRepo{err: errors.New("relation does not exist")}, nil)
		assert.Equal(t, DefaultConfig(), svc.loadConfig(context.Background()))
	})

	t.Run("missing row", func(t *testing.T) {
		svc := newTestService(&fakePlaces{}, nil, &fakeConfigRepo{}, nil)
		assert.Equal(t, DefaultConfig(), svc.loadConfig(context.Background()))
	})

	t.Run("override", func(t *testing.T) {
		repo := &fakeConfigRepo{found: true, row: domain.RecommendationConfig{
			Scope:             "default",
			WCategoryMatch:    0.9,
			WRating:           -2,
			DefaultMinQuality: 4.9,
			PopularCategories: []string{"Hotel", "spaceport"},
			PopularLocales:    []string{"saigon", "Gotham"},
		}}
		cfg := newTestService(&fakePlaces{}, nil, repo, nil).loadConfig(context.Background())

		assert.Equal(t, 0.9, cfg.Weights.CategoryMatch)
		assert.Equal(t, 0.0, cfg.Weights.Rating)
		assert.Equal(t, 4.5, cfg.DefaultMinQuality)
		assert.Equal(t, []string{"hotel"}, cfg.PopularCategories)
		assert.Equal(t, []string{"Ho Chi Minh City"}, cfg.PopularLocales)
	})
}

func TestGetConfig_DefaultsWhenNothingStored(t *testing.T) {
	svc := newTestService(&fakePlaces{}, nil, &fakeConfigRepo{}, nil)

	row, err := svc.GetConfig(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "default", row.Scope)
	assert.Equal(t, defaultWCategoryMatch, row.WCategoryMatch)

	_, err = svc.GetConfig(context.Background(), "beta")
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestUpsertConfig(t *testing.T) {
	t.Run("rejects unknown names", func(t *testing.T) {
		repo := &fakeConfigRepo{}
		svc := newTestService(&fakePlaces{}, nil, repo, nil)

		_, err := svc.UpsertConfig(context.Background(), domain.RecommendationConfig{
			PopularCategories: []string{"cafe", "spaceport"},
			PopularLocales:    []string{"Gotham"},
		})

		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "spaceport")
		assert.Contains(t, err.Error(), "Gotham")
		assert.Empty(t, repo.stored)
	})

	t.Run("normalizes and stores", func(t *testing.T) {
		repo := &fakeConfigRepo{}
		svc := newTestService(&fakePlaces{}, nil, repo, nil)

		got, err := svc.UpsertConfig(context.Background(), domain.RecommendationConfig{
			WRating:           0.5,
			DefaultMinQuality: 5,
			PopularCategories: []string{" Cafe "},
			PopularLocales:    []string{"hcmc", "Ha Noi"},
		})

		require.NoError(t, err)
		assert.Equal(t, "default", got.Scope)
		assert.Equal(t, 4.5, got.DefaultMinQuality)
		assert.Equal(t, []string{"cafe"}, []string(got.PopularCategories))
		assert.Equal(t, []string{"Ho Chi Minh City", "Hanoi"}, []string(got.PopularLocales))
		require.Len(t, repo.stored, 1)
	})

	t.Run("no storage", func(t *testing.T) {
		svc := newTestService(&fakePlaces{}, nil, nil, nil)
		_, err := svc.UpsertConfig(context.Background(), domain.RecommendationConfig{})
		assert.Error(t, err)
	})
}
