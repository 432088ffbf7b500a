package postgres

import (
	"context"
	"errors"

	"travelDiscovery/business/recommendation"
	"travelDiscovery/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecommendationConfigRepository struct {
	DB *gorm.DB
}

var _ recommendation.ConfigRepository = (*RecommendationConfigRepository)(nil)

func NewRecommendationConfigRepository(db *gorm.DB) *RecommendationConfigRepository {
	return &RecommendationConfigRepository{DB: db}
}

func (r *RecommendationConfigRepository) GetConfig(ctx context.Context, scope string) (domain.RecommendationConfig, bool, error) {
	var cfg domain.RecommendationConfig

	err := r.DB.WithContext(ctx).
		Where("scope = ?", scope).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RecommendationConfig{}, false, nil
	}
	if err != nil {
		return domain.RecommendationConfig{}, false, err
	}

	return cfg, true, nil
}

func (r *RecommendationConfigRepository) UpsertConfig(ctx context.Context, cfg domain.RecommendationConfig) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "scope"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"w_category_match",
				"w_rating",
				"w_price",
				"w_location",
				"w_keywords",
				"default_min_quality",
				"popular_categories",
				"popular_locales",
				"updated_at",
			}),
		}).
		Create(&cfg).Error
}
