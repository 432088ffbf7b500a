package middleware

import (
	"travelDiscovery/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = "X-Request-ID"

// RequestID propagates or creates a request id and stores it as the logger trace id.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(HeaderRequestID)
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}

			c.SetRequest(req.WithContext(logger.ContextWithTraceID(req.Context(), id)))
			c.Response().Header().Set(HeaderRequestID, id)

			return next(c)
		}
	}
}
