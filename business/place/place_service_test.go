//go:build !integration

package place

import (
	"context"
	"errors"
	"testing"

	"travelDiscovery/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	places     map[uuid.UUID]domain.Place
	items      []domain.Place
	total      int64
	err        error
	lastFilter domain.PlaceSearchFilter
	searches   int
	lookups    int
}

func (f *fakeRepo) Search(_ context.Context, filter domain.PlaceSearchFilter) ([]domain.Place, int64, error) {
	f.searches++
	f.lastFilter = filter
	return f.items, f.total, f.err
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Place, error) {
	f.lookups++
	if f.err != nil {
		return domain.Place{}, f.err
	}
	p, ok := f.places[id]
	if !ok {
		return domain.Place{}, domain.ErrPlaceNotFound
	}
	return p, nil
}

type memCache struct {
	places   map[uuid.UUID]domain.Place
	searches map[string]domain.PlaceSearchResult
	failGet  bool
}

func newMemCache() *memCache {
	return &memCache{places: map[uuid.UUID]domain.Place{}, searches: map[string]domain.PlaceSearchResult{}}
}

func (m *memCache) GetPlace(_ context.Context, id uuid.UUID) (*domain.Place, error) {
	if m.failGet {
		return nil, errors.New("redis: connection refused")
	}
	p, ok := m.places[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memCache) SetPlace(_ context.Context, p domain.Place) error {
	m.places[p.ID] = p
	return nil
}

func (m *memCache) GetSearch(_ context.Context, f domain.PlaceSearchFilter) (*domain.PlaceSearchResult, error) {
	if m.failGet {
		return nil, errors.New("redis: connection refused")
	}
	r, ok := m.searches[f.Q+"|"+f.SortBy]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memCache) SetSearch(_ context.Context, f domain.PlaceSearchFilter, r domain.PlaceSearchResult) error {
	m.searches[f.Q+"|"+f.SortBy] = r
	return nil
}

func TestSearchPlaces_NormalizesFilter(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewPlaceService(repo, nil)

	got, err := svc.SearchPlaces(context.Background(), domain.PlaceSearchFilter{
		Q:         "  pho ",
		PlaceType: "Restaurant",
		Tags:      []string{" Rooftop", ""},
		SortBy:    "popularity",
		Limit:     1000,
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.Place{}, got.Items)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, maxLimit, got.Limit)
	assert.Equal(t, "pho", repo.lastFilter.Q)
	assert.Equal(t, "restaurant", repo.lastFilter.PlaceType)
	assert.Equal(t, []string{"rooftop"}, repo.lastFilter.Tags)
	assert.Equal(t, "name", repo.lastFilter.SortBy)
}

func TestSearchPlaces_UsesCache(t *testing.T) {
	repo := &fakeRepo{items: []domain.Place{{ID: uuid.New(), Name: "Cong Caphe"}}, total: 1}
	cache := newMemCache()
	svc := NewPlaceService(repo, cache)

	filter := domain.PlaceSearchFilter{Q: "caphe", SortBy: "rating"}
	first, err := svc.SearchPlaces(context.Background(), filter)
	require.NoError(t, err)
	second, err := svc.SearchPlaces(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.searches)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), second.Total)
}

func TestSearchPlaces_RepositoryError(t *testing.T) {
	svc := NewPlaceService(&fakeRepo{err: errors.New("db down")}, nil)

	_, err := svc.SearchPlaces(context.Background(), domain.PlaceSearchFilter{})
	assert.Error(t, err)
}

func TestGetPlace(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{places: map[uuid.UUID]domain.Place{id: {ID: id, Name: "Hoan Kiem Lake"}}}

	t.Run("found and cached", func(t *testing.T) {
		cache := newMemCache()
		svc := NewPlaceService(repo, cache)

		p, err := svc.GetPlace(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Hoan Kiem Lake", p.Name)
		assert.Contains(t, cache.places, id)

		before := repo.lookups
		_, err = svc.GetPlace(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, before, repo.lookups)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := NewPlaceService(repo, nil).GetPlace(context.Background(), uuid.New())
		assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
	})

	t.Run("nil id", func(t *testing.T) {
		_, err := NewPlaceService(repo, nil).GetPlace(context.Background(), uuid.Nil)
		assert.Error(t, err)
	})

	t.Run("cache failure is bypassed", func(t *testing.T) {
		cache := newMemCache()
		cache.failGet = true

		p, err := NewPlaceService(repo, cache).GetPlace(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
	})
}
