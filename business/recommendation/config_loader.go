package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"travelDiscovery/domain"
	"travelDiscovery/pkg/logger"
)

// loadConfig reads the override row for the configured scope, falling back to
// defaultCfg on any repository error or missing row.
func (s *Service) loadConfig(ctx context.Context) Config {
	if s.cfgRepo == nil {
		return s.defaultCfg
	}

	row, ok, err := s.cfgRepo.GetConfig(ctx, s.defaultCfg.Scope)
	if err != nil {
		logger.Warn("recommendation config unavailable, using defaults", "trace_id", logger.TraceIDFromContext(ctx), "scope", s.defaultCfg.Scope, "error", err)
		return s.defaultCfg
	}
	if !ok {
		return s.defaultCfg
	}

	return applyOverride(s.defaultCfg, row, s.locales)
}

// applyOverride starts from base so any unset or invalid field keeps a sane value.
func applyOverride(base Config, row domain.RecommendationConfig, locales *LocaleTable) Config {
	cfg := base
	cfg.Weights = domain.MatchPriority{
		CategoryMatch: nonNegative(row.WCategoryMatch),
		Rating:        nonNegative(row.WRating),
		Price:         nonNegative(row.WPrice),
		Location:      nonNegative(row.WLocation),
		Keywords:      nonNegative(row.WKeywords),
	}

	if row.DefaultMinQuality > 0 {
		cfg.DefaultMinQuality = clampQuality(row.DefaultMinQuality, base.MaxMinQuality)
	}

	if cats := knownCategories(row.PopularCategories); len(cats) > 0 {
		cfg.PopularCategories = cats
	}
	if locs := locales.NormalizeAll(row.PopularLocales); len(locs) > 0 {
		cfg.PopularLocales = locs
	}

	return cfg
}

// configRow renders cfg as a storable row.
func configRow(cfg Config) domain.RecommendationConfig {
	return domain.RecommendationConfig{
		Scope:             cfg.Scope,
		WCategoryMatch:    cfg.Weights.CategoryMatch,
		WRating:           cfg.Weights.Rating,
		WPrice:            cfg.Weights.Price,
		WLocation:         cfg.Weights.Location,
		WKeywords:         cfg.Weights.Keywords,
		DefaultMinQuality: cfg.DefaultMinQuality,
		PopularCategories: append([]string(nil), cfg.PopularCategories...),
		PopularLocales:    append([]string(nil), cfg.PopularLocales...),
	}
}

// GetConfig returns the effective config for scope, as stored or as defaults.
func (s *Service) GetConfig(ctx context.Context, scope string) (domain.RecommendationConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationConfig{}, fmt.Errorf("context error: %w", err)
	}
	if scope == "" {
		scope = s.defaultCfg.Scope
	}

	if s.cfgRepo != nil {
		row, ok, err := s.cfgRepo.GetConfig(ctx, scope)
		if err != nil {
			return domain.RecommendationConfig{}, fmt.Errorf("load recommendation config: %w", err)
		}
		if ok {
			return row, nil
		}
	}

	if scope != s.defaultCfg.Scope {
		return domain.RecommendationConfig{}, domain.ErrConfigNotFound
	}
	return configRow(s.defaultCfg), nil
}

// UpsertConfig validates and stores an override row.
func (s *Service) UpsertConfig(ctx context.Context, row domain.RecommendationConfig) (domain.RecommendationConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationConfig{}, fmt.Errorf("context error: %w", err)
	}
	if s.cfgRepo == nil {
		return domain.RecommendationConfig{}, errors.New("recommendation config storage not configured")
	}
	if row.Scope == "" {
		row.Scope = s.defaultCfg.Scope
	}

	var unknown []string
	for _, c := range row.PopularCategories {
		if !IsKnownCategory(strings.ToLower(strings.TrimSpace(c))) {
			unknown = append(unknown, c)
		}
	}
	for _, l := range row.PopularLocales {
		if _, ok := s.locales.Normalize(l); !ok {
			unknown = append(unknown, l)
		}
	}
	if len(unknown) > 0 {
		return domain.RecommendationConfig{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(unknown, ", "))
	}

	row.PopularCategories = knownCategories(row.PopularCategories)
	row.PopularLocales = s.locales.NormalizeAll(row.PopularLocales)
	row.DefaultMinQuality = clampQuality(row.DefaultMinQuality, s.defaultCfg.MaxMinQuality)

	if err := s.cfgRepo.UpsertConfig(ctx, row); err != nil {
		return domain.RecommendationConfig{}, fmt.Errorf("save recommendation config: %w", err)
	}

	logger.Info("recommendation config updated", "scope", row.Scope)
	return row, nil
}

// ErrInvalidConfig marks an override naming unknown categories or locales.
var ErrInvalidConfig = errors.New("unknown categories or locales")

func knownCategories(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if !IsKnownCategory(c) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clampQuality(v, ceiling float64) float64 {
	if v < 0 {
		return 0
	}
	if v > ceiling {
		return ceiling
	}
	return v
}
