package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Place categories.
const (
	CategoryHotel      = "hotel"
	CategoryRestaurant = "restaurant"
	CategoryLandmark   = "landmark"
	CategoryCafe       = "cafe"
)

// Categories lists every known place category.
var Categories = []string{CategoryHotel, CategoryRestaurant, CategoryLandmark, CategoryCafe}

const VerificationApproved = "approved"

// CREATE TABLE public.places (
//     id                  UUID PRIMARY KEY,
//     owner_id            UUID REFERENCES profiles(id),
//     name                VARCHAR(100) NOT NULL,
//     place_type          VARCHAR(50) NOT NULL,
//     address             TEXT,
//     city                VARCHAR(100),
//     country             VARCHAR(100),
//     main_image_url      VARCHAR(255),
//     average_rating      NUMERIC(2,1) DEFAULT 0,
//     review_count        INTEGER DEFAULT 0,
//     description         TEXT,
//     opening_hours       JSONB,
//     verification_status VARCHAR(20) DEFAULT 'pending',
//     created_at          TIMESTAMPTZ DEFAULT NOW()
// );
//
// Category attributes live in restaurants / cafes / hotels / landmarks, keyed by places.id.

type Place struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name               string            `gorm:"column:name" json:"name"`
	PlaceType          string            `gorm:"column:place_type" json:"place_type"`
	Address            string            `gorm:"column:address" json:"address,omitempty"`
	City               string            `gorm:"column:city" json:"city,omitempty"`
	Country            string            `gorm:"column:country" json:"country,omitempty"`
	MainImageURL       string            `gorm:"column:main_image_url" json:"main_image_url,omitempty"`
	AverageRating      float64           `gorm:"column:average_rating;type:numeric" json:"average_rating"`
	ReviewCount        int               `gorm:"column:review_count" json:"review_count"`
	Description        string            `gorm:"column:description" json:"description,omitempty"`
	OpeningHours       datatypes.JSONMap `gorm:"column:opening_hours;type:jsonb" json:"opening_hours,omitempty"`
	VerificationStatus string            `gorm:"column:verification_status" json:"-"`
	CreatedAt          time.Time         `gorm:"column:created_at" json:"created_at"`

	// joined, read-only
	PriceRange        string         `gorm:"column:price_range;->" json:"price_range,omitempty"`
	CuisineType       string         `gorm:"column:cuisine_type;->" json:"cuisine_type,omitempty"`
	HotelClass        int            `gorm:"column:hotel_class;->" json:"hotel_class,omitempty"`
	PricePerNight     float64        `gorm:"column:price_per_night;->" json:"price_per_night,omitempty"`
	TicketPrice       float64        `gorm:"column:ticket_price;->" json:"ticket_price,omitempty"`
	CoffeeSpecialties string         `gorm:"column:coffee_specialties;->" json:"coffee_specialties,omitempty"`
	Amenities         pq.StringArray `gorm:"column:amenities;type:text[];->" json:"amenities,omitempty"`
	Tags              pq.StringArray `gorm:"column:tag_names;type:text[];->" json:"tags"`
}

func (Place) TableName() string {
	return "places"
}

// PlaceSearchFilter is the public place search query.
type PlaceSearchFilter struct {
	Q         string   `json:"q,omitempty"`
	PlaceType string   `json:"place_type,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	City      string   `json:"city,omitempty"`
	MinRating float64  `json:"min_rating,omitempty"`
	SortBy    string   `json:"sort_by,omitempty"` // rating | name | newest
	Page      int      `json:"page"`
	Limit     int      `json:"limit"`
}

type PlaceSearchResult struct {
	Items []Place `json:"items"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Total int64   `json:"total_items"`
}
