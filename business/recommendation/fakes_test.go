//go:build !integration

package recommendation

import (
	"context"
	"errors"
	"sync"

	"travelDiscovery/domain"

	"github.com/google/uuid"
)

type fakeHistory struct {
	saved   []domain.SavedPlace
	trips   []domain.TripSummary
	ratings []int

	savedErr  error
	tripsErr  error
	ratingErr error

	mu     sync.Mutex
	limits map[string]int
}

func (f *fakeHistory) record(scan string, limit int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limits == nil {
		f.limits = map[string]int{}
	}
	f.limits[scan] = limit
}

func (f *fakeHistory) SavedPlaces(_ context.Context, _ uuid.UUID, limit int) ([]domain.SavedPlace, error) {
	f.record("saved", limit)
	return f.saved, f.savedErr
}

func (f *fakeHistory) RecentTrips(_ context.Context, _ uuid.UUID, limit int) ([]domain.TripSummary, error) {
	f.record("trips", limit)
	return f.trips, f.tripsErr
}

func (f *fakeHistory) RecentRatings(_ context.Context, _ uuid.UUID, limit int) ([]int, error) {
	f.record("ratings", limit)
	return f.ratings, f.ratingErr
}

type fakePlaces struct {
	rows      []domain.Place
	err       error
	lastLimit int
	lastCrit  domain.SearchCriteria
	calls     int
}

func (f *fakePlaces) FindCandidates(_ context.Context, crit domain.SearchCriteria, limit int) ([]domain.Place, error) {
	f.calls++
	f.lastLimit = limit
	f.lastCrit = crit
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

// fakeGenerator returns out/err, or blocks until ctx is done when block is set.
type fakeGenerator struct {
	out     string
	err     error
	block   bool
	calls   int
	prompts []string
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.out, f.err
}

type fakeConfigRepo struct {
	row    domain.RecommendationConfig
	found  bool
	err    error
	stored []domain.RecommendationConfig
}

func (f *fakeConfigRepo) GetConfig(_ context.Context, scope string) (domain.RecommendationConfig, bool, error) {
	if f.err != nil {
		return domain.RecommendationConfig{}, false, f.err
	}
	if !f.found || f.row.Scope != scope {
		return domain.RecommendationConfig{}, false, nil
	}
	return f.row, true, nil
}

func (f *fakeConfigRepo) UpsertConfig(_ context.Context, cfg domain.RecommendationConfig) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, cfg)
	f.row, f.found = cfg, true
	return nil
}

var errUpstream = errors.New("upstream 503")

func testLocales() *LocaleTable {
	return MustLoadLocaleTable()
}

func ratingPtr(v float64) *float64 { return &v }

func place(name, category, city string, rating float64) domain.Place {
	return domain.Place{
		ID:            uuid.New(),
		Name:          name,
		PlaceType:     category,
		City:          city,
		AverageRating: rating,
	}
}
