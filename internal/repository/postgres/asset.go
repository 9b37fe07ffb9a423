package postgres

import (
	"asset-service/internal/domain/asset"
	apperrors "asset-service/pkg/errors"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const assetColumns = "id, owner_id, name, description, category, image_key, created_at, updated_at"

type AssetRepository struct {
	db *DB
}

func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Create(ctx context.Context, input asset.CreateAssetInput) (*asset.Asset, error) {
	query := `
		INSERT INTO assets (owner_id, name, description, category, image_key)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''))
		RETURNING ` + assetColumns

	a := &asset.Asset{}
	err := r.db.Pool.QueryRow(ctx, query,
		input.OwnerID, input.Name, deref(input.Description), input.Category, deref(input.ImageKey),
	).Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.Description, &a.Category, &a.ImageKey, &a.CreatedAt, &a.UpdatedAt,
	)

	if err != nil {
		return nil, translateError(errFailedCreateAssetFmt, err)
	}

	return a, nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	a := &asset.Asset{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.Description, &a.Category, &a.ImageKey, &a.CreatedAt, &a.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAssetNotFound)
		}
		return nil, translateError(errFailedGetAssetFmt, err)
	}

	return a, nil
}

// ListByOwner filters in the statement itself so rows belonging to
// other owners are never loaded.
func (r *AssetRepository) ListByOwner(ctx context.Context, filter asset.ListAssetsFilter) ([]*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE owner_id = $1`
	args := []interface{}{filter.OwnerID}

	if filter.Category != nil {
		query += " AND category = $2"
		args = append(args, *filter.Category)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(errFailedListAssetsFmt, err)
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		a := &asset.Asset{}
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Description, &a.Category, &a.ImageKey, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, translateError(errFailedScanAssetFmt, err)
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(errIterateAssetsFmt, err)
	}

	return assets, nil
}

// Update touches only the keys present in input. The owner predicate is
// part of the statement, so a row owned by someone else reports the
// same NotFound as an absent id. id, owner_id and created_at are never
// in the SET list.
func (r *AssetRepository) Update(ctx context.Context, id uuid.UUID, ownerID string, input asset.UpdateAssetInput) (*asset.Asset, error) {
	query := "UPDATE assets SET updated_at = NOW()"
	args := []interface{}{id, ownerID}
	argCount := 2

	if input.Name != nil {
		argCount++
		query += fmt.Sprintf(", name = $%d", argCount)
		args = append(args, *input.Name)
	}

	if input.Description != nil {
		argCount++
		query += fmt.Sprintf(", description = NULLIF($%d, '')", argCount)
		args = append(args, *input.Description)
	}

	if input.Category != nil {
		argCount++
		query += fmt.Sprintf(", category = $%d", argCount)
		args = append(args, *input.Category)
	}

	if input.ImageKey != nil {
		argCount++
		query += fmt.Sprintf(", image_key = NULLIF($%d, '')", argCount)
		args = append(args, *input.ImageKey)
	}

	query += " WHERE id = $1 AND owner_id = $2 RETURNING " + assetColumns

	a := &asset.Asset{}
	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.Description, &a.Category, &a.ImageKey, &a.CreatedAt, &a.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAssetNotFound)
		}
		return nil, translateError(errFailedUpdateAssetFmt, err)
	}

	return a, nil
}

// Delete is owner-scoped like Update. Zero rows affected is not an
// error; the handler treats both outcomes as the same success.
func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID, ownerID string) (bool, error) {
	query := "DELETE FROM assets WHERE id = $1 AND owner_id = $2"
	result, err := r.db.Pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, translateError(errFailedDeleteAssetFmt, err)
	}

	return result.RowsAffected() > 0, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
