package place

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"travelDiscovery/domain"
	"travelDiscovery/pkg/logger"

	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// PlaceRepository contract interface
type PlaceRepository interface {
	Search(ctx context.Context, filter domain.PlaceSearchFilter) ([]domain.Place, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Place, error)
}

// PlaceCache is an optional read-through cache. A miss is (nil, nil).
type PlaceCache interface {
	GetPlace(ctx context.Context, id uuid.UUID) (*domain.Place, error)
	SetPlace(ctx context.Context, place domain.Place) error
	GetSearch(ctx context.Context, filter domain.PlaceSearchFilter) (*domain.PlaceSearchResult, error)
	SetSearch(ctx context.Context, filter domain.PlaceSearchFilter, result domain.PlaceSearchResult) error
}

type placeService struct {
	placeRepo PlaceRepository
	cache     PlaceCache
}

// NewPlaceService builds the service; cache may be nil.
func NewPlaceService(placeRepo PlaceRepository, cache PlaceCache) *placeService {
	return &placeService{
		placeRepo: placeRepo,
		cache:     cache,
	}
}

func (s *placeService) SearchPlaces(ctx context.Context, filter domain.PlaceSearchFilter) (domain.PlaceSearchResult, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when search places")
		return domain.PlaceSearchResult{}, fmt.Errorf("context error: %w", err)
	}

	filter = NormalizeFilter(filter)

	if s.cache != nil {
		cached, err := s.cache.GetSearch(ctx, filter)
		if err != nil {
			logger.Warn("place search cache read failed", "error", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	items, total, err := s.placeRepo.Search(ctx, filter)
	if err != nil {
		logger.Error("failed to search places", err)
		return domain.PlaceSearchResult{}, err
	}
	if items == nil {
		items = []domain.Place{}
	}

	result := domain.PlaceSearchResult{
		Items: items,
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	}

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, filter, result); err != nil {
			logger.Warn("place search cache write failed", "error", err)
		}
	}

	return result, nil
}

func (s *placeService) GetPlace(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
	if id == uuid.Nil {
		logger.Error("invalid place id")
		return nil, errors.New("invalid place id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get place")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if s.cache != nil {
		cached, err := s.cache.GetPlace(ctx, id)
		if err != nil {
			logger.Warn("place cache read failed", "place_id", id.String(), "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	p, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrPlaceNotFound) {
			logger.Error("failed to find place by id", err)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPlace(ctx, p); err != nil {
			logger.Warn("place cache write failed", "place_id", id.String(), "error", err)
		}
	}

	return &p, nil
}

// NormalizeFilter applies paging defaults and canonical casing so equal
// queries share a cache entry.
func NormalizeFilter(f domain.PlaceSearchFilter) domain.PlaceSearchFilter {
	f.Q = strings.TrimSpace(f.Q)
	f.PlaceType = strings.ToLower(strings.TrimSpace(f.PlaceType))
	f.City = strings.TrimSpace(f.City)

	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	f.Tags = tags

	switch f.SortBy {
	case "rating", "name", "newest":
	default:
		f.SortBy = "name"
	}

	if f.Page <= 0 {
		f.Page = defaultPage
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.MinRating < 0 {
		f.MinRating = 0
	}
	return f
}
