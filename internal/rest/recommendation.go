package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"travelDiscovery/business/recommendation"
	"travelDiscovery/domain"
	"travelDiscovery/pkg/logger"
	"travelDiscovery/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
		timeout  time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, userID uuid.UUID, req recommendation.RecommendRequest) ([]domain.RecommendedPlace, error)
		ResolveCriteria(ctx context.Context, userID uuid.UUID, query, locale string) (domain.CriteriaExplanation, error)
	}

	RecommendationQuery struct {
		Query      string `query:"query" validate:"max=200"`
		City       string `query:"city" validate:"max=100"`
		MaxResults int    `query:"max_results" validate:"min=1,max=50"`
	}
)

const defaultMaxResults = 10

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
		timeout:  15 * time.Second,
	}
}

// GET /api/v1/places/recommendations?query=coffee&city=hanoi&max_results=10
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	}()

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	q := RecommendationQuery{MaxResults: defaultMaxResults}
	if err := c.Bind(&q); err != nil {
		metrics.RecommendRequests.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid query parameters"})
	}
	if err := h.validate.Struct(&q); err != nil {
		metrics.RecommendRequests.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.service.Recommend(ctx, userID, recommendation.RecommendRequest{
		Query:      q.Query,
		Locale:     q.City,
		MaxResults: q.MaxResults,
	})
	if err != nil {
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: "request cancelled"})
		}
		logger.Error("failed to build recommendations", "user_id", userID.String(), "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to load recommendations"})
	}

	outcome := "ok"
	if len(recs) == 0 {
		outcome = "empty"
	}
	metrics.RecommendRequests.WithLabelValues(outcome).Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// GET /api/v1/places/recommendations/criteria?query=coffee&city=hanoi
func (h *RecommendationHandler) DebugCriteria(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	q := RecommendationQuery{MaxResults: defaultMaxResults}
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid query parameters"})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	explanation, err := h.service.ResolveCriteria(ctx, userID, q.Query, q.City)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(explanation))
}
