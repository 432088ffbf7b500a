package postgres

import (
	"context"
	"fmt"

	"travelDiscovery/business/recommendation"
	"travelDiscovery/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserHistoryRepository reads saved_list_items, trips and reviews for the
// recommendation profile. Every scan is bounded by its limit.
type UserHistoryRepository struct {
	DB *gorm.DB
}

// Compile-time check that the struct implements the interface.
var _ recommendation.UserHistoryRepository = (*UserHistoryRepository)(nil)

func NewUserHistoryRepository(db *gorm.DB) *UserHistoryRepository {
	return &UserHistoryRepository{DB: db}
}

func (r *UserHistoryRepository) SavedPlaces(ctx context.Context, userID uuid.UUID, limit int) ([]domain.SavedPlace, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.SavedPlace
	err := r.DB.WithContext(ctx).
		Table("saved_list_items sli").
		Select(`p.id AS place_id, p.place_type, COALESCE(p.city, '') AS city,
			COALESCE(rs.price_range, c.price_range, '') AS price_range,
			COALESCE(rs.cuisine_type, '') AS cuisine_type,
			sli.saved_at`).
		Joins("JOIN saved_lists sl ON sl.id = sli.list_id").
		Joins("JOIN places p ON p.id = sli.place_id").
		Joins("LEFT JOIN restaurants rs ON rs.id = p.id").
		Joins("LEFT JOIN cafes c ON c.id = p.id").
		Where("sl.user_id = ?", userID).
		Order("sli.saved_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load saved places: %w", err)
	}

	return rows, nil
}

func (r *UserHistoryRepository) RecentTrips(ctx context.Context, userID uuid.UUID, limit int) ([]domain.TripSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.TripSummary
	err := r.DB.WithContext(ctx).
		Table("trips t").
		Select(`t.id AS trip_id, t.created_at,
			COALESCE((SELECT p.city FROM trip_stops ts JOIN places p ON p.id = ts.place_id
				WHERE ts.trip_id = t.id ORDER BY ts.stop_order ASC LIMIT 1), '') AS first_stop_city`).
		Where("t.user_id = ?", userID).
		Order("t.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}

	return rows, nil
}

func (r *UserHistoryRepository) RecentRatings(ctx context.Context, userID uuid.UUID, limit int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ratings []int
	err := r.DB.WithContext(ctx).
		Table("reviews").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Pluck("rating", &ratings).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	return ratings, nil
}
