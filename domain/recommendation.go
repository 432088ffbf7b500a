package domain

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// UserContext is the behavioral profile derived from a user's history.
// It is built per request and never persisted.
type UserContext struct {
	// ordered by saved count desc, then first seen
	SavedCategories        []string       `json:"saved_categories"`
	SavedCountPerCategory  map[string]int `json:"saved_count_per_category"`
	VisitedLocales         []string       `json:"visited_locales"`
	PricePreference        string         `json:"price_preference,omitempty"`
	AvgRatingGiven         *float64       `json:"avg_rating_given,omitempty"`
	PreferredSubcategories []string       `json:"preferred_subcategories"`
	RecentActivityFocus    string         `json:"recent_activity_focus,omitempty"`
}

func NewUserContext() UserContext {
	return UserContext{
		SavedCategories:        []string{},
		SavedCountPerCategory:  map[string]int{},
		VisitedLocales:         []string{},
		PreferredSubcategories: []string{},
	}
}

// HasSignal reports whether the profile carries anything to personalize on.
func (uc UserContext) HasSignal() bool {
	return len(uc.SavedCategories) > 0 || len(uc.VisitedLocales) > 0
}

func (uc UserContext) HasSavedCategory(category string) bool {
	for _, c := range uc.SavedCategories {
		if c == category {
			return true
		}
	}
	return false
}

func (uc UserContext) HasVisited(locale string) bool {
	for _, l := range uc.VisitedLocales {
		if strings.EqualFold(l, locale) {
			return true
		}
	}
	return false
}

// MatchPriority weights each ranking factor. Weights are independent
// multipliers and need not sum to 1.
type MatchPriority struct {
	CategoryMatch float64 `json:"category_match"`
	Rating        float64 `json:"rating"`
	Price         float64 `json:"price"`
	Location      float64 `json:"location"`
	Keywords      float64 `json:"keywords"`
}

// SearchCriteria is the resolved set of filters and weights for one request.
type SearchCriteria struct {
	Categories    []string      `json:"categories"`
	Locales       []string      `json:"locales"`
	Keywords      []string      `json:"keywords"`
	MinQuality    float64       `json:"min_quality"`
	PriceTiers    []string      `json:"price_tiers"`
	MustHaveTags  []string      `json:"must_have_tags"`
	ExcludeTags   []string      `json:"exclude_tags"`
	Reasoning     string        `json:"reasoning"`
	MatchPriority MatchPriority `json:"match_priority"`
}

type ScoredCandidate struct {
	Place   Place
	Score   float64
	Reasons []string
}

// RecommendedPlace is the public projection returned by the recommendations API.
type RecommendedPlace struct {
	Place
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// CREATE TABLE public.recommendation_configs (
//     scope               TEXT PRIMARY KEY,
//     w_category_match    NUMERIC NOT NULL,
//     w_rating            NUMERIC NOT NULL,
//     w_price             NUMERIC NOT NULL,
//     w_location          NUMERIC NOT NULL,
//     w_keywords          NUMERIC NOT NULL,
//     default_min_quality NUMERIC NOT NULL,
//     popular_categories  TEXT[],
//     popular_locales     TEXT[],
//     updated_at          TIMESTAMPTZ DEFAULT NOW()
// );

type RecommendationConfig struct {
	Scope             string         `gorm:"column:scope;primaryKey" json:"scope"`
	WCategoryMatch    float64        `gorm:"column:w_category_match" json:"w_category_match" validate:"gte=0"`
	WRating           float64        `gorm:"column:w_rating" json:"w_rating" validate:"gte=0"`
	WPrice            float64        `gorm:"column:w_price" json:"w_price" validate:"gte=0"`
	WLocation         float64        `gorm:"column:w_location" json:"w_location" validate:"gte=0"`
	WKeywords         float64        `gorm:"column:w_keywords" json:"w_keywords" validate:"gte=0"`
	DefaultMinQuality float64        `gorm:"column:default_min_quality" json:"default_min_quality" validate:"gte=0,lte=5"`
	PopularCategories pq.StringArray `gorm:"column:popular_categories;type:text[]" json:"popular_categories"`
	PopularLocales    pq.StringArray `gorm:"column:popular_locales;type:text[]" json:"popular_locales"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RecommendationConfig) TableName() string {
	return "recommendation_configs"
}

// CriteriaExplanation shows how a request was interpreted. Used by the debug endpoint.
type CriteriaExplanation struct {
	Path     string         `json:"path"`
	Context  UserContext    `json:"user_context"`
	Criteria SearchCriteria `json:"criteria"`
}
