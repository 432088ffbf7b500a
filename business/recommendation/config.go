package recommendation

import (
	"context"
	"time"

	"travelDiscovery/domain"
)

type Config struct {
	Weights           domain.MatchPriority
	DefaultMinQuality float64
	// no min_quality above this is ever emitted; a 5.0 floor would match almost nothing
	MaxMinQuality float64

	PopularCategories []string
	PopularLocales    []string

	SavedWindow  int
	TripWindow   int
	RatingWindow int

	KeywordLimit          int
	FallbackCategoryLimit int
	FallbackLocaleLimit   int
	OverFetchFactor       int
	DefaultMaxResults     int
	MaxResultsCap         int

	AssistTimeout time.Duration
	Scope         string
}

const (
	defaultWCategoryMatch    = 0.30
	defaultWRating           = 0.25
	defaultWPrice            = 0.15
	defaultWLocation         = 0.10
	defaultWKeywords         = 0.20
	defaultMinQuality        = 4.0
	defaultMaxMinQuality     = 4.5
	defaultSavedWindow       = 100
	defaultTripWindow        = 10
	defaultRatingWindow      = 50
	defaultKeywordLimit      = 5
	defaultFallbackCats      = 3
	defaultFallbackLocales   = 2
	defaultOverFetchFactor   = 3
	defaultMaxResults        = 10
	defaultMaxResultsCap     = 50
	defaultAssistTimeout     = 8 * time.Second
	defaultConfigScope       = "default"
	ratingFallbackBar        = 4.0
	ratingFallbackMultiplier = 0.8
)

func DefaultConfig() Config {
	return Config{
		Weights: domain.MatchPriority{
			CategoryMatch: defaultWCategoryMatch,
			Rating:        defaultWRating,
			Price:         defaultWPrice,
			Location:      defaultWLocation,
			Keywords:      defaultWKeywords,
		},
		DefaultMinQuality: defaultMinQuality,
		MaxMinQuality:     defaultMaxMinQuality,

		PopularCategories: []string{domain.CategoryRestaurant, domain.CategoryCafe, domain.CategoryLandmark},
		PopularLocales:    []string{"Hanoi", "Ho Chi Minh City", "Da Nang"},

		SavedWindow:  defaultSavedWindow,
		TripWindow:   defaultTripWindow,
		RatingWindow: defaultRatingWindow,

		KeywordLimit:          defaultKeywordLimit,
		FallbackCategoryLimit: defaultFallbackCats,
		FallbackLocaleLimit:   defaultFallbackLocales,
		OverFetchFactor:       defaultOverFetchFactor,
		DefaultMaxResults:     defaultMaxResults,
		MaxResultsCap:         defaultMaxResultsCap,

		AssistTimeout: defaultAssistTimeout,
		Scope:         defaultConfigScope,
	}
}

// ConfigRepository reads and writes per-scope overrides of weights and default lists.
type ConfigRepository interface {
	GetConfig(ctx context.Context, scope string) (domain.RecommendationConfig, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.RecommendationConfig) error
}
