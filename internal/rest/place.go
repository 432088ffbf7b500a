package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"travelDiscovery/domain"
	"travelDiscovery/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PlaceService interface {
	SearchPlaces(ctx context.Context, filter domain.PlaceSearchFilter) (domain.PlaceSearchResult, error)
	GetPlace(ctx context.Context, id uuid.UUID) (*domain.Place, error)
}

type PlaceHandler struct {
	placeService PlaceService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewPlaceHandler(placeService PlaceService) *PlaceHandler {
	return &PlaceHandler{
		placeService: placeService,
		validator:    validator.New(),
		timeout:      10 * time.Second,
	}
}

type SearchPlacesQuery struct {
	Q         string  `query:"q" validate:"max=100"`
	PlaceType string  `query:"place_type" validate:"omitempty,oneof=hotel restaurant landmark cafe"`
	Tags      string  `query:"tags"` // comma separated
	City      string  `query:"city" validate:"max=100"`
	MinRating float64 `query:"min_rating" validate:"gte=0,lte=5"`
	SortBy    string  `query:"sort_by" validate:"omitempty,oneof=rating name newest"`
	Page      int     `query:"page" validate:"gte=0"`
	Limit     int     `query:"limit" validate:"gte=0,lte=100"`
}

// GET /api/v1/places?q=pho&place_type=restaurant&tags=rooftop,wifi&sort_by=rating
func (h *PlaceHandler) SearchPlaces(c echo.Context) error {
	var q SearchPlacesQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid query parameters"})
	}
	if err := h.validator.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	filter := domain.PlaceSearchFilter{
		Q:         q.Q,
		PlaceType: q.PlaceType,
		City:      q.City,
		MinRating: q.MinRating,
		SortBy:    q.SortBy,
		Page:      q.Page,
		Limit:     q.Limit,
	}
	if q.Tags != "" {
		filter.Tags = strings.Split(q.Tags, ",")
	}

	result, err := h.placeService.SearchPlaces(ctx, filter)
	if err != nil {
		logger.Error("Failed to search places", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to search places"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/places/:id
func (h *PlaceHandler) GetPlaceByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid place id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p, err := h.placeService.GetPlace(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to load place"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(p))
}
