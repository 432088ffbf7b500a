package router

import (
	"net/http"

	"travelDiscovery/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupPlaceRoutes(api *echo.Group, handler *rest.PlaceHandler) {
	places := api.Group("/places")

	places.GET("", handler.SearchPlaces)
	places.GET("/:id", handler.GetPlaceByID)
}

// Static segments win over /places/:id in echo's router, so these can share the prefix.
func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, authRequired echo.MiddlewareFunc) {
	reco := api.Group("/places/recommendations", authRequired)
	reco.GET("", handler.Recommend)
	reco.GET("/criteria", handler.DebugCriteria)
}

func SetRecommendationAdminRoutes(api *echo.Group, handler *rest.RecommendationAdminHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/recommendations", authRequired, adminOnly)

	admin.GET("/config", handler.GetConfig)
	admin.PUT("/config", handler.UpsertConfig)
}

func SetOpsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
