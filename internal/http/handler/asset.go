package handler

import (
	"asset-service/internal/activity"
	"asset-service/internal/auth"
	"asset-service/internal/domain/asset"
	"asset-service/internal/validation"
	apperrors "asset-service/pkg/errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AssetHandler struct {
	assetRepo   AssetRepository
	objectStore ObjectStore
	recorder    ActivityRecorder
	listLimit   int
}

func NewAssetHandler(assetRepo AssetRepository, objectStore ObjectStore, recorder ActivityRecorder, listLimit int) *AssetHandler {
	if listLimit <= 0 {
		listLimit = defaultAssetListLimit
	}
	return &AssetHandler{
		assetRepo:   assetRepo,
		objectStore: objectStore,
		recorder:    recorder,
		listLimit:   listLimit,
	}
}

func (h *AssetHandler) CreateAsset(c echo.Context) error {
	ownerID, err := auth.GetOwnerID(c)
	if err != nil {
		return err
	}

	raw, err := bindRawJSON(c)
	if err != nil {
		return err
	}

	fields, err := validation.Validate(raw, validation.ModeCreate)
	if err != nil {
		return err
	}

	created, err := h.assetRepo.Create(c.Request().Context(), asset.CreateAssetInput{
		OwnerID:     ownerID,
		Name:        *fields.Name,
		Description: fields.Description,
		Category:    *fields.Category,
		ImageKey:    fields.ImageKey,
	})
	if err != nil {
		return err
	}

	h.record(c, &created.ID, activity.ActionCreate, map[string]any{
		"name":     created.Name,
		"category": string(created.Category),
	})

	return c.JSON(http.StatusCreated, h.assetResponse(c, created))
}

func (h *AssetHandler) GetAsset(c echo.Context) error {
	ownerID, err := auth.GetOwnerID(c)
	if err != nil {
		return err
	}

	assetID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return apperrors.Validation(paramID, msgInvalidAssetID)
	}

	record, err := h.assetRepo.GetByID(c.Request().Context(), assetID)
	if err != nil {
		return err
	}

	if err := auth.Authorize(ownerID, record.OwnerID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.assetResponse(c, record))
}

func (h *AssetHandler) ListAssets(c echo.Context) error {
	ownerID, err := auth.GetOwnerID(c)
	if err != nil {
		return err
	}

	filter := asset.ListAssetsFilter{OwnerID: ownerID}

	if raw := c.QueryParam(queryCategory); raw != "" {
		category, err := validation.Category(raw)
		if err != nil {
			return err
		}
		filter.Category = &category
	}

	filter.Limit, filter.Offset, err = parsePaginationParams(c, h.listLimit, defaultAssetListOffset)
	if err != nil {
		return err
	}

	records, err := h.assetRepo.ListByOwner(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	responses := make([]*AssetResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, h.assetResponse(c, record))
	}

	return c.JSON(http.StatusOK, responses)
}

func (h *AssetHandler) UpdateAsset(c echo.Context) error {
	ownerID, err := auth.GetOwnerID(c)
	if err != nil {
		return err
	}

	assetID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return apperrors.Validation(paramID, msgInvalidAssetID)
	}

	raw, err := bindRawJSON(c)
	if err != nil {
		return err
	}

	fields, err := validation.Validate(raw, validation.ModeUpdate)
	if err != nil {
		return err
	}

	updated, err := h.assetRepo.Update(c.Request().Context(), assetID, ownerID, asset.UpdateAssetInput{
		Name:        fields.Name,
		Description: fields.Description,
		Category:    fields.Category,
		ImageKey:    fields.ImageKey,
	})
	if err != nil {
		return err
	}

	h.record(c, &assetID, activity.ActionUpdate, nil)

	return c.JSON(http.StatusOK, h.assetResponse(c, updated))
}

// DeleteAsset is idempotent: deleting an id that no longer exists, or
// never existed, produces the identical success outcome.
func (h *AssetHandler) DeleteAsset(c echo.Context) error {
	ownerID, err := auth.GetOwnerID(c)
	if err != nil {
		return err
	}

	assetID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return apperrors.Validation(paramID, msgInvalidAssetID)
	}

	deleted, err := h.assetRepo.Delete(c.Request().Context(), assetID, ownerID)
	if err != nil {
		return err
	}

	h.record(c, &assetID, activity.ActionDelete, map[string]any{
		"deleted": deleted,
	})

	return c.NoContent(http.StatusNoContent)
}

type GetUploadURLRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// GetUploadURL hands out a presigned upload locator together with the
// object key the client should later attach to an asset as imageKey.
func (h *AssetHandler) GetUploadURL(c echo.Context) error {
	ownerID, err := auth.GetOwnerID(c)
	if err != nil {
		return err
	}

	var req GetUploadURLRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}
	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)

	if req.FileName == "" || strings.ContainsAny(req.FileName, "/\\") || strings.Contains(req.FileName, "..") {
		return apperrors.Validation("fileName", msgFileNameInvalid)
	}

	if _, _, err := mime.ParseMediaType(req.ContentType); err != nil {
		return apperrors.Validation("contentType", msgContentTypeInvalid)
	}

	objectKey := fmt.Sprintf("%s/%s/%s", ownerID, uuid.New(), req.FileName)

	uploadURL, err := h.objectStore.GeneratePresignedUploadURL(c.Request().Context(), objectKey, req.ContentType)
	if err != nil {
		return apperrors.Unexpected(msgUploadURLGenerateFail, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		jsonKeyUploadURL: uploadURL,
		jsonKeyImageKey:  objectKey,
	})
}

func (h *AssetHandler) assetResponse(c echo.Context, record *asset.Asset) *AssetResponse {
	response := &AssetResponse{Asset: record}

	if record.ImageKey != nil && *record.ImageKey != "" && h.objectStore != nil {
		url, err := h.objectStore.GeneratePresignedDownloadURL(c.Request().Context(), *record.ImageKey)
		if err != nil {
			c.Logger().Warnf("failed to presign download URL for asset %s: %v", record.ID, err)
		} else {
			response.ImageURL = url
		}
	}

	return response
}

func (h *AssetHandler) record(c echo.Context, assetID *uuid.UUID, action activity.Action, metadata map[string]any) {
	if h.recorder == nil {
		return
	}
	if err := h.recorder.RecordFromContext(c, assetID, action, activity.StatusSuccess, metadata); err != nil {
		c.Logger().Warnf("failed to record %s activity for asset %s: %v", action, assetID, err)
	}
}

func parsePaginationParams(c echo.Context, defaultLimit, defaultOffset int) (limit int, offset int, err error) {
	limit = defaultLimit
	offset = defaultOffset

	if limitStr := c.QueryParam(queryLimit); limitStr != "" {
		parsedLimit, parseErr := strconv.Atoi(limitStr)
		if parseErr != nil || parsedLimit <= 0 {
			return 0, 0, apperrors.Validation(queryLimit, msgInvalidLimit)
		}

		if parsedLimit > maxPaginationLimit {
			limit = maxPaginationLimit
		} else {
			limit = parsedLimit
		}
	}

	if offsetStr := c.QueryParam(queryOffset); offsetStr != "" {
		parsedOffset, parseErr := strconv.Atoi(offsetStr)
		if parseErr != nil || parsedOffset < 0 || parsedOffset > maxPaginationOffset {
			return 0, 0, apperrors.Validation(queryOffset, msgInvalidOffset)
		}

		offset = parsedOffset
	}

	return limit, offset, nil
}
