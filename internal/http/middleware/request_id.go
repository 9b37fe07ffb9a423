package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	RequestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request_id"
)

// RequestID attaches an id to every request for log correlation. An id
// supplied by the caller is kept so clients can trace their own calls;
// otherwise a fresh one is issued. The id is echoed in the response
// header and surfaces in every error body.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Set(requestIDContextKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

// GetRequestID returns the id stored by RequestID, or "" outside it.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(requestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}
