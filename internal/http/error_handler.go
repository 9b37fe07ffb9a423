package http

import (
	"asset-service/internal/http/handler"
	"asset-service/internal/http/middleware"
	apperrors "asset-service/pkg/errors"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	msgInternalServerError = "internal server error"
	msgStorageUnavailable  = "storage temporarily unavailable"
	unknownRequestID       = "unknown"
)

// CustomHTTPErrorHandler translates every failure into the uniform
// outcome shape: a stable machine-readable kind, a human-readable
// message, the failing field where one exists, and a retryable flag.
// Internal detail is logged server-side and never sent to the caller.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	detail := handler.ErrorDetail{
		Kind:    apperrors.KindUnexpected,
		Message: msgInternalServerError,
	}
	code := http.StatusInternalServerError

	var appErr *apperrors.AppError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &appErr):
		detail.Kind = appErr.Kind
		detail.Field = appErr.Field
		detail.Retryable = appErr.Retryable

		switch appErr.Kind {
		case apperrors.KindValidation:
			code = http.StatusBadRequest
			detail.Message = appErr.Message
		case apperrors.KindNotFound:
			code = http.StatusNotFound
			detail.Message = appErr.Message
		case apperrors.KindUnauthorized:
			code = http.StatusUnauthorized
			detail.Message = appErr.Message
		case apperrors.KindPersistence:
			if appErr.Retryable {
				code = http.StatusServiceUnavailable
			}
			detail.Message = msgStorageUnavailable
		default:
			detail.Kind = apperrors.KindUnexpected
		}
	case errors.As(err, &httpErr):
		// Errors raised by Echo itself or by middleware.
		code = httpErr.Code
		detail.Kind = kindForStatus(code)
		detail.Message = fmt.Sprintf("%v", httpErr.Message)
	}

	requestID := middleware.GetRequestID(c)
	if requestID == "" {
		requestID = unknownRequestID
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("request %s failed with status %d: %v", requestID, code, err)
	} else {
		c.Logger().Warnf("request %s rejected with status %d: %v", requestID, code, err)
	}

	response := handler.ErrorResponse{
		Error:     detail,
		RequestID: requestID,
	}

	if jsonErr := c.JSON(code, response); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return apperrors.KindValidation
	case http.StatusNotFound:
		return apperrors.KindNotFound
	case http.StatusUnauthorized:
		return apperrors.KindUnauthorized
	default:
		return apperrors.KindUnexpected
	}
}
