package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"travelDiscovery/pkg/logger"

	jsonres "travelDiscovery/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape handlers (unknown routes, bind failures, panics
// recovered by echo) in the same envelope the auth middleware uses.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = fmt.Sprint(he.Message)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("unhandled request error",
			"trace_id", logger.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(code)
	} else {
		respErr = c.JSON(code, jsonres.Error(errorCode(code), message, nil))
	}
	if respErr != nil {
		logger.Error("failed to write error response", respErr)
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_SERVER_ERROR"
		}
		return "ERROR"
	}
}
