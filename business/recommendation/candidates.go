package recommendation

import (
	"context"
	"fmt"

	"travelDiscovery/domain"
)

// PlaceRepository runs the conjunctive candidate query. Order is unspecified.
type PlaceRepository interface {
	FindCandidates(ctx context.Context, crit domain.SearchCriteria, limit int) ([]domain.Place, error)
}

type CandidateRetriever struct {
	places PlaceRepository
}

func NewCandidateRetriever(places PlaceRepository) *CandidateRetriever {
	return &CandidateRetriever{places: places}
}

// Retrieve over-fetches overFetch × maxResults rows so the scorer has room to reorder.
func (r *CandidateRetriever) Retrieve(ctx context.Context, crit domain.SearchCriteria, maxResults, overFetch int) ([]domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if maxResults <= 0 {
		return []domain.Place{}, nil
	}
	if overFetch <= 0 {
		overFetch = defaultOverFetchFactor
	}

	candidateLimit := maxResults * overFetch
	places, err := r.places.FindCandidates(ctx, crit, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	if len(places) > candidateLimit {
		places = places[:candidateLimit]
	}
	if places == nil {
		places = []domain.Place{}
	}

	candidatesRetrieved.Observe(float64(len(places)))
	return places, nil
}
