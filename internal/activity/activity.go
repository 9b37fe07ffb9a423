package activity

import (
	"asset-service/internal/auth"
	"asset-service/internal/http/middleware"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// Action represents the operation being recorded
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry is an append-only side record of an asset operation. Entries
// are notified to the activity store, never orchestrated with the
// resource write itself.
type Entry struct {
	ID        uuid.UUID
	ActorID   string
	AssetID   *uuid.UUID
	Action    Action
	Status    Status
	RequestID string
	Metadata  map[string]any
	CreatedAt time.Time
}

const recordTimeout = 500 * time.Millisecond

// Recorder writes activity entries best-effort
type Recorder struct {
	pool *pgxpool.Pool
}

func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record inserts a single activity row. Failures are returned so the
// caller can log them; they must never fail the request.
func (r *Recorder) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var metadataJSON []byte
	var err error
	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO asset_activity (
			id, actor_id, asset_id, action, status, request_id, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	_, err = r.pool.Exec(recordCtx, query,
		entry.ID,
		entry.ActorID,
		entry.AssetID,
		entry.Action,
		entry.Status,
		entry.RequestID,
		metadataJSON,
		entry.CreatedAt,
	)

	return err
}

// RecordFromContext builds an entry from an Echo request context
func (r *Recorder) RecordFromContext(c echo.Context, assetID *uuid.UUID, action Action, status Status, metadata map[string]any) error {
	entry := &Entry{
		AssetID:   assetID,
		Action:    action,
		Status:    status,
		RequestID: middleware.GetRequestID(c),
		Metadata:  metadata,
	}

	if ownerID, err := auth.GetOwnerID(c); err == nil {
		entry.ActorID = ownerID
	}

	return r.Record(c.Request().Context(), entry)
}
