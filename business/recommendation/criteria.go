package recommendation

import (
	"context"
	"fmt"
	"strings"

	"travelDiscovery/domain"
	"travelDiscovery/pkg/logger"
)

// Generator produces a JSON document from a prompt. A nil Generator means no
// generative service is configured.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Criteria resolution paths.
const (
	PathDefault  = "default"
	PathAssisted = "assisted"
	PathFallback = "fallback"
)

const maxCauseLen = 120

type CriteriaResolver struct {
	generator Generator
	locales   *LocaleTable
}

func NewCriteriaResolver(generator Generator, locales *LocaleTable) *CriteriaResolver {
	if locales == nil {
		locales = NewLocaleTable(nil)
	}
	return &CriteriaResolver{generator: generator, locales: locales}
}

// Resolve never fails. It returns the criteria and the path that produced them.
func (r *CriteriaResolver) Resolve(ctx context.Context, uc domain.UserContext, query, localeFilter string, cfg Config) (domain.SearchCriteria, string) {
	query = strings.TrimSpace(query)
	localeFilter = strings.TrimSpace(localeFilter)

	var (
		crit domain.SearchCriteria
		path string
	)

	switch {
	case r.generator == nil || (!uc.HasSignal() && query == ""):
		crit, path = defaultCriteria(query, localeFilter, cfg), PathDefault
	default:
		assisted, err := r.assist(ctx, uc, query, localeFilter, cfg)
		if err != nil {
			logger.Warn("criteria assist failed, using fallback", "trace_id", logger.TraceIDFromContext(ctx), "error", err)
			crit, path = fallbackCriteria(uc, query, localeFilter, cfg, err), PathFallback
		} else {
			crit, path = assisted, PathAssisted
		}
	}

	crit = r.finalize(crit, localeFilter, cfg)
	criteriaResolutions.WithLabelValues(path).Inc()
	return crit, path
}

// assist makes the single bounded generative call.
func (r *CriteriaResolver) assist(ctx context.Context, uc domain.UserContext, query, localeFilter string, cfg Config) (domain.SearchCriteria, error) {
	timeout := cfg.AssistTimeout
	if timeout <= 0 {
		timeout = defaultAssistTimeout
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := r.generator.GenerateJSON(actx, buildPrompt(uc, query, localeFilter, cfg, r.locales))
	if err != nil {
		return domain.SearchCriteria{}, err
	}
	return decodeCriteria(raw, cfg)
}

func defaultCriteria(query, localeFilter string, cfg Config) domain.SearchCriteria {
	crit := domain.SearchCriteria{
		Categories:    append([]string(nil), cfg.PopularCategories...),
		Locales:       append([]string(nil), cfg.PopularLocales...),
		Keywords:      queryKeywords(query, cfg.KeywordLimit),
		MinQuality:    cfg.DefaultMinQuality,
		MatchPriority: cfg.Weights,
		Reasoning:     "Popular picks among highly rated places.",
	}
	if localeFilter != "" {
		crit.Locales = []string{localeFilter}
	}
	if query != "" {
		crit.Reasoning = fmt.Sprintf("Popular picks matching %q.", query)
	}
	return crit
}

// fallbackCriteria is built from the profile alone when the assisted call fails.
func fallbackCriteria(uc domain.UserContext, query, localeFilter string, cfg Config, cause error) domain.SearchCriteria {
	crit := domain.SearchCriteria{
		Categories:    firstN(uc.SavedCategories, cfg.FallbackCategoryLimit),
		Locales:       firstN(uc.VisitedLocales, cfg.FallbackLocaleLimit),
		Keywords:      queryKeywords(query, cfg.KeywordLimit),
		MinQuality:    cfg.DefaultMinQuality,
		MatchPriority: cfg.Weights,
	}
	if len(crit.Categories) == 0 {
		crit.Categories = append([]string(nil), cfg.PopularCategories...)
	}
	if localeFilter != "" {
		crit.Locales = []string{localeFilter}
	} else if len(crit.Locales) == 0 {
		crit.Locales = append([]string(nil), cfg.PopularLocales...)
	}
	if uc.PricePreference != "" {
		crit.PriceTiers = []string{uc.PricePreference}
	}

	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	if len(msg) > maxCauseLen {
		msg = msg[:maxCauseLen] + "..."
	}
	crit.Reasoning = fmt.Sprintf("Fallback criteria (assist failed: %s) based on your saved places and trips.", msg)
	return crit
}

// finalize applies the rules shared by every path.
func (r *CriteriaResolver) finalize(crit domain.SearchCriteria, localeFilter string, cfg Config) domain.SearchCriteria {
	crit.Locales = r.locales.NormalizeAll(crit.Locales)
	if localeFilter != "" {
		if canonical, ok := r.locales.Normalize(localeFilter); ok {
			crit.Locales = []string{canonical}
		} else {
			// an explicit filter is honoured even when we have no alias for it
			crit.Locales = []string{localeFilter}
		}
	}

	ceiling := cfg.MaxMinQuality
	if ceiling <= 0 || ceiling > defaultMaxMinQuality {
		ceiling = defaultMaxMinQuality
	}
	crit.MinQuality = clampQuality(crit.MinQuality, ceiling)

	crit.MatchPriority = domain.MatchPriority{
		CategoryMatch: nonNegative(crit.MatchPriority.CategoryMatch),
		Rating:        nonNegative(crit.MatchPriority.Rating),
		Price:         nonNegative(crit.MatchPriority.Price),
		Location:      nonNegative(crit.MatchPriority.Location),
		Keywords:      nonNegative(crit.MatchPriority.Keywords),
	}

	crit.Categories = nonNil(crit.Categories)
	crit.Locales = nonNil(crit.Locales)
	crit.Keywords = nonNil(crit.Keywords)
	crit.PriceTiers = nonNil(crit.PriceTiers)
	crit.MustHaveTags = nonNil(crit.MustHaveTags)
	crit.ExcludeTags = nonNil(crit.ExcludeTags)
	return crit
}

func queryKeywords(query string, limit int) []string {
	return firstN(strings.Fields(query), limit)
}

func firstN(in []string, n int) []string {
	if n > 0 && len(in) > n {
		in = in[:n]
	}
	return append([]string{}, in...)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
