package handler

import (
	"asset-service/internal/domain/asset"
)

// ErrorDetail is the uniform outcome shape produced for every failed
// operation, independent of which handler failed.
type ErrorDetail struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable"`
}

type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// AssetResponse wraps the entity with a freshly presigned download
// locator for its image key. The locator is generated per read and
// never stored.
type AssetResponse struct {
	*asset.Asset
	ImageURL string `json:"imageUrl,omitempty"`
}
