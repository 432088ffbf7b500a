package rest

import (
	"context"
	"errors"
	"net/http"

	"travelDiscovery/business/recommendation"
	"travelDiscovery/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RecommendationConfigService interface {
	GetConfig(ctx context.Context, scope string) (domain.RecommendationConfig, error)
	UpsertConfig(ctx context.Context, row domain.RecommendationConfig) (domain.RecommendationConfig, error)
}

type RecommendationAdminHandler struct {
	validate *validator.Validate
	service  RecommendationConfigService
}

func NewRecommendationAdminHandler(svc RecommendationConfigService) *RecommendationAdminHandler {
	return &RecommendationAdminHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// GET /api/v1/admin/recommendations/config?scope=default
func (h *RecommendationAdminHandler) GetConfig(c echo.Context) error {
	cfg, err := h.service.GetConfig(c.Request().Context(), c.QueryParam("scope"))
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "config not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, cfg)
}

// PUT /api/v1/admin/recommendations/config
// body: RecommendationConfig JSON
func (h *RecommendationAdminHandler) UpsertConfig(c echo.Context) error {
	var body domain.RecommendationConfig
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	if err := h.validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	saved, err := h.service.UpsertConfig(c.Request().Context(), body)
	if err != nil {
		if errors.Is(err, recommendation.ErrInvalidConfig) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, saved)
}
