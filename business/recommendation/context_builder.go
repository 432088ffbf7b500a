package recommendation

import (
	"context"
	"strings"

	"travelDiscovery/domain"
	"travelDiscovery/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// UserHistoryRepository gives bounded read access to a user's history.
type UserHistoryRepository interface {
	SavedPlaces(ctx context.Context, userID uuid.UUID, limit int) ([]domain.SavedPlace, error)
	RecentTrips(ctx context.Context, userID uuid.UUID, limit int) ([]domain.TripSummary, error)
	RecentRatings(ctx context.Context, userID uuid.UUID, limit int) ([]int, error)
}

// ContextBuilder aggregates saved places, recent trips and past ratings into a UserContext.
type ContextBuilder struct {
	history      UserHistoryRepository
	savedWindow  int
	tripWindow   int
	ratingWindow int
}

func NewContextBuilder(history UserHistoryRepository, cfg Config) *ContextBuilder {
	return &ContextBuilder{
		history:      history,
		savedWindow:  positiveOr(cfg.SavedWindow, defaultSavedWindow),
		tripWindow:   positiveOr(cfg.TripWindow, defaultTripWindow),
		ratingWindow: positiveOr(cfg.RatingWindow, defaultRatingWindow),
	}
}

// Build never fails. Each scan is independent: a failing scan only leaves its
// part of the profile empty.
func (b *ContextBuilder) Build(ctx context.Context, userID uuid.UUID) domain.UserContext {
	uc := domain.NewUserContext()
	if b.history == nil {
		return uc
	}

	var (
		saved   []domain.SavedPlace
		trips   []domain.TripSummary
		ratings []int
	)

	traceID := logger.TraceIDFromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	g.Go(func() error {
		rows, err := b.history.SavedPlaces(gctx, userID, b.savedWindow)
		if err != nil {
			logger.Warn("saved places scan failed", "trace_id", traceID, "user_id", userID.String(), "error", err)
			return nil
		}
		saved = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.history.RecentTrips(gctx, userID, b.tripWindow)
		if err != nil {
			logger.Warn("trip scan failed", "trace_id", traceID, "user_id", userID.String(), "error", err)
			return nil
		}
		trips = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.history.RecentRatings(gctx, userID, b.ratingWindow)
		if err != nil {
			logger.Warn("rating scan failed", "trace_id", traceID, "user_id", userID.String(), "error", err)
			return nil
		}
		ratings = rows
		return nil
	})
	_ = g.Wait()

	applySaved(&uc, saved)
	applyTrips(&uc, trips)
	applyRatings(&uc, ratings)

	return uc
}

func applySaved(uc *domain.UserContext, saved []domain.SavedPlace) {
	var (
		categoryOrder []string
		tiers         []string
	)

	for _, sp := range saved {
		category := strings.ToLower(strings.TrimSpace(sp.PlaceType))
		if category == "" {
			continue
		}

		if _, seen := uc.SavedCountPerCategory[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		uc.SavedCountPerCategory[category]++

		if city := strings.TrimSpace(sp.City); city != "" {
			uc.VisitedLocales = appendUniqueFold(uc.VisitedLocales, city)
		}
		if tier, ok := priceTier(category, sp.PriceRange); ok {
			tiers = append(tiers, tier)
		}
		if sub, ok := subcategory(category, sp.CuisineType); ok {
			uc.PreferredSubcategories = appendUniqueFold(uc.PreferredSubcategories, sub)
		}
	}

	uc.SavedCategories = rankByCount(categoryOrder, uc.SavedCountPerCategory)
	if len(uc.SavedCategories) > 0 {
		uc.RecentActivityFocus = uc.SavedCategories[0]
	}
	uc.PricePreference = mode(tiers)
}

func applyTrips(uc *domain.UserContext, trips []domain.TripSummary) {
	for _, t := range trips {
		if city := strings.TrimSpace(t.FirstStopCity); city != "" {
			uc.VisitedLocales = appendUniqueFold(uc.VisitedLocales, city)
		}
	}
}

func applyRatings(uc *domain.UserContext, ratings []int) {
	if len(ratings) == 0 {
		return
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	uc.AvgRatingGiven = &avg
}

// rankByCount orders keys by count desc; equal counts keep first-seen order.
func rankByCount(order []string, counts map[string]int) []string {
	out := append([]string(nil), order...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && counts[out[j]] > counts[out[j-1]]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}

// mode returns the most frequent value, ties going to the one seen first.
func mode(values []string) string {
	counts := make(map[string]int, len(values))
	best, bestCount := "", 0
	for _, v := range values {
		counts[v]++
	}
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

func appendUniqueFold(list []string, v string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
