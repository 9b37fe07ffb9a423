package handler

import (
	"asset-service/internal/activity"
	"asset-service/internal/domain/asset"
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

type AssetRepository interface {
	Create(ctx context.Context, input asset.CreateAssetInput) (*asset.Asset, error)
	GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error)
	ListByOwner(ctx context.Context, filter asset.ListAssetsFilter) ([]*asset.Asset, error)
	Update(ctx context.Context, id uuid.UUID, ownerID string, input asset.UpdateAssetInput) (*asset.Asset, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) (bool, error)
}

// ObjectStore exchanges opaque object keys for time-limited locators
type ObjectStore interface {
	GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string) (string, error)
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string) (string, error)
}

// ActivityRecorder is notified of completed operations, best-effort
type ActivityRecorder interface {
	RecordFromContext(c echo.Context, assetID *uuid.UUID, action activity.Action, status activity.Status, metadata map[string]any) error
}
