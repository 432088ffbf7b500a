package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedPlace is one place from a user's saved lists, reduced to the
// attributes the recommendation profile needs.
type SavedPlace struct {
	PlaceID     uuid.UUID `gorm:"column:place_id"`
	PlaceType   string    `gorm:"column:place_type"`
	City        string    `gorm:"column:city"`
	PriceRange  string    `gorm:"column:price_range"`
	CuisineType string    `gorm:"column:cuisine_type"`
	SavedAt     time.Time `gorm:"column:saved_at"`
}

// TripSummary is a trip with the city of its first stop, empty when the trip has no stops.
type TripSummary struct {
	TripID        uuid.UUID `gorm:"column:trip_id"`
	FirstStopCity string    `gorm:"column:first_stop_city"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}
