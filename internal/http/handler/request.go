package handler

import (
	apperrors "asset-service/pkg/errors"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20 // Keep parser bound aligned with global body limit.
)

// bindRawJSON decodes the request body into a keyed raw-message bag so
// the validation pipeline can distinguish absent keys from explicit
// nulls. Nothing past the validation boundary sees this bag.
func bindRawJSON(c echo.Context) (map[string]json.RawMessage, error) {
	decoder, err := strictDecoder(c)
	if err != nil {
		return nil, err
	}

	raw := map[string]json.RawMessage{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, apperrors.Validation("", msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, apperrors.Validation("", msgInvalidRequestBody)
	}

	return raw, nil
}

func bindStrictJSON(c echo.Context, dst interface{}) error {
	decoder, err := strictDecoder(c)
	if err != nil {
		return err
	}
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return apperrors.Validation("", msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperrors.Validation("", msgInvalidRequestBody)
	}

	return nil
}

func strictDecoder(c echo.Context) (*json.Decoder, error) {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return nil, echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	return json.NewDecoder(body), nil
}
