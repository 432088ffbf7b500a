package recommendation

import (
	"context"
	"fmt"

	"travelDiscovery/domain"
	"travelDiscovery/pkg/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type RecommendRequest struct {
	Query      string
	Locale     string
	MaxResults int
}

type Service struct {
	cfgRepo    ConfigRepository
	defaultCfg Config
	locales    *LocaleTable

	contextBuilder *ContextBuilder
	resolver       *CriteriaResolver
	retriever      *CandidateRetriever
}

// NewService wires the pipeline. generator may be nil when no generative
// service is configured; cfgRepo may be nil to always use defaultCfg.
func NewService(
	places PlaceRepository,
	history UserHistoryRepository,
	cfgRepo ConfigRepository,
	generator Generator,
	locales *LocaleTable,
	defaultCfg Config,
) *Service {
	if locales == nil {
		locales = MustLoadLocaleTable()
	}
	return &Service{
		cfgRepo:        cfgRepo,
		defaultCfg:     defaultCfg,
		locales:        locales,
		contextBuilder: NewContextBuilder(history, defaultCfg),
		resolver:       NewCriteriaResolver(generator, locales),
		retriever:      NewCandidateRetriever(places),
	}
}

// Recommend runs context -> criteria -> candidates -> score for one user.
// Only retrieval errors and cancellation are returned.
func (s *Service) Recommend(ctx context.Context, userID uuid.UUID, req RecommendRequest) ([]domain.RecommendedPlace, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	ctx, span := startSpan(ctx, "recommendation.Recommend",
		attribute.String("user_id", userID.String()),
		attribute.Bool("has_query", req.Query != ""),
		attribute.String("locale_filter", req.Locale),
	)
	defer span.End()

	cfg := s.loadConfig(ctx)
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = cfg.DefaultMaxResults
	}
	if cfg.MaxResultsCap > 0 && maxResults > cfg.MaxResultsCap {
		maxResults = cfg.MaxResultsCap
	}

	uc := s.contextBuilder.Build(ctx, userID)
	if err := ctx.Err(); err != nil {
		spanError(span, err, "cancelled after context build")
		return nil, fmt.Errorf("context error: %w", err)
	}

	crit, path := s.resolver.Resolve(ctx, uc, req.Query, req.Locale, cfg)
	if err := ctx.Err(); err != nil {
		spanError(span, err, "cancelled after criteria resolution")
		return nil, fmt.Errorf("context error: %w", err)
	}
	span.SetAttributes(attribute.String("criteria_path", path))

	candidates, err := s.retriever.Retrieve(ctx, crit, maxResults, cfg.OverFetchFactor)
	if err != nil {
		spanError(span, err, "candidate retrieval failed")
		return nil, err
	}

	scored := Score(candidates, crit, uc, maxResults)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	span.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.Int("results", len(scored)),
	)

	logger.Debug("recommendation_resolved",
		"trace_id", logger.TraceIDFromContext(ctx),
		"user_id", userID.String(),
		"path", path,
		"categories", crit.Categories,
		"locales", crit.Locales,
		"candidates", len(candidates),
		"results", len(scored),
	)

	out := make([]domain.RecommendedPlace, 0, len(scored))
	for i, sc := range scored {
		logger.Debug("recommendation_item",
			"trace_id", logger.TraceIDFromContext(ctx),
			"rank", i+1,
			"place_id", sc.Place.ID.String(),
			"score", sc.Score,
			"reasons", sc.Reasons,
		)
		out = append(out, domain.RecommendedPlace{
			Place:   sc.Place,
			Score:   sc.Score,
			Reasons: sc.Reasons,
		})
	}

	return out, nil
}

// ResolveCriteria runs only the first two stages and reports which path was taken.
func (s *Service) ResolveCriteria(ctx context.Context, userID uuid.UUID, query, locale string) (domain.CriteriaExplanation, error) {
	if err := ctx.Err(); err != nil {
		return domain.CriteriaExplanation{}, fmt.Errorf("context error: %w", err)
	}

	cfg := s.loadConfig(ctx)
	uc := s.contextBuilder.Build(ctx, userID)
	crit, path := s.resolver.Resolve(ctx, uc, query, locale, cfg)

	return domain.CriteriaExplanation{Path: path, Context: uc, Criteria: crit}, nil
}
