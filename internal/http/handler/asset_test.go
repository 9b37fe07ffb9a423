package handler

import (
	"asset-service/internal/activity"
	"asset-service/internal/auth"
	"asset-service/internal/domain/asset"
	apperrors "asset-service/pkg/errors"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssetRepo struct {
	assets map[uuid.UUID]*asset.Asset
	now    time.Time
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{
		assets: map[uuid.UUID]*asset.Asset{},
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so successive writes get distinct timestamps
func (f *fakeAssetRepo) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeAssetRepo) Create(_ context.Context, input asset.CreateAssetInput) (*asset.Asset, error) {
	now := f.tick()
	a := &asset.Asset{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: normalizeNullable(input.Description),
		Category:    input.Category,
		ImageKey:    normalizeNullable(input.ImageKey),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.assets[a.ID] = a

	copied := *a
	return &copied, nil
}

func (f *fakeAssetRepo) GetByID(_ context.Context, id uuid.UUID) (*asset.Asset, error) {
	a, ok := f.assets[id]
	if !ok {
		return nil, apperrors.NotFound("asset not found")
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAssetRepo) ListByOwner(_ context.Context, filter asset.ListAssetsFilter) ([]*asset.Asset, error) {
	var result []*asset.Asset
	for _, a := range f.assets {
		if a.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Category != nil && a.Category != *filter.Category {
			continue
		}
		copied := *a
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset >= len(result) {
		return nil, nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (f *fakeAssetRepo) Update(_ context.Context, id uuid.UUID, ownerID string, input asset.UpdateAssetInput) (*asset.Asset, error) {
	a, ok := f.assets[id]
	if !ok || a.OwnerID != ownerID {
		return nil, apperrors.NotFound("asset not found")
	}

	if input.Name != nil {
		a.Name = *input.Name
	}
	if input.Description != nil {
		a.Description = normalizeNullable(input.Description)
	}
	if input.Category != nil {
		a.Category = *input.Category
	}
	if input.ImageKey != nil {
		a.ImageKey = normalizeNullable(input.ImageKey)
	}
	a.UpdatedAt = f.tick()

	copied := *a
	return &copied, nil
}

func (f *fakeAssetRepo) Delete(_ context.Context, id uuid.UUID, ownerID string) (bool, error) {
	a, ok := f.assets[id]
	if !ok || a.OwnerID != ownerID {
		return false, nil
	}
	delete(f.assets, id)
	return true, nil
}

func normalizeNullable(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	copied := *value
	return &copied
}

type fakeObjectStore struct {
	uploads   []string
	downloads []string
}

func (f *fakeObjectStore) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string) (string, error) {
	f.uploads = append(f.uploads, objectKey)
	return "https://signed.example/upload/" + objectKey, nil
}

func (f *fakeObjectStore) GeneratePresignedDownloadURL(_ context.Context, objectKey string) (string, error) {
	f.downloads = append(f.downloads, objectKey)
	return "https://signed.example/download/" + objectKey, nil
}

type fakeRecorder struct {
	entries []activity.Action
}

func (f *fakeRecorder) RecordFromContext(_ echo.Context, _ *uuid.UUID, action activity.Action, _ activity.Status, _ map[string]any) error {
	f.entries = append(f.entries, action)
	return nil
}

type handlerFixture struct {
	echo    *echo.Echo
	repo    *fakeAssetRepo
	store   *fakeObjectStore
	rec     *fakeRecorder
	handler *AssetHandler
}

func newFixture() *handlerFixture {
	repo := newFakeAssetRepo()
	store := &fakeObjectStore{}
	rec := &fakeRecorder{}
	return &handlerFixture{
		echo:    echo.New(),
		repo:    repo,
		store:   store,
		rec:     rec,
		handler: NewAssetHandler(repo, store, rec, defaultAssetListLimit),
	}
}

func (fx *handlerFixture) request(method, target, body, ownerID string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)
	if ownerID != "" {
		c.Set(auth.ContextKeyOwnerID, ownerID)
	}
	return c, rec
}

func (fx *handlerFixture) mustCreate(t *testing.T, ownerID, body string) *AssetResponse {
	t.Helper()
	c, rec := fx.request(http.MethodPost, "/api/assets", body, ownerID)
	require.NoError(t, fx.handler.CreateAsset(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var response AssetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return &response
}

func requireAppError(t *testing.T, err error, kind, field string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, field, appErr.Field)
}

func TestCreateAsset_EchoesInputWithGeneratedIDAndTimestamps(t *testing.T) {
	fx := newFixture()

	response := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image"}`)

	assert.NotEqual(t, uuid.Nil, response.ID)
	assert.Equal(t, "u1", response.OwnerID)
	assert.Equal(t, "Logo", response.Name)
	assert.Equal(t, asset.CategoryImage, response.Category)
	assert.Nil(t, response.Description)
	assert.True(t, response.CreatedAt.Equal(response.UpdatedAt))
	assert.Equal(t, []activity.Action{activity.ActionCreate}, fx.rec.entries)
}

func TestCreateAsset_EmptyNameRejected(t *testing.T) {
	fx := newFixture()

	c, _ := fx.request(http.MethodPost, "/api/assets", `{"name":"","category":"image"}`, "u1")
	err := fx.handler.CreateAsset(c)

	requireAppError(t, err, apperrors.KindValidation, "name")
	assert.Empty(t, fx.repo.assets)
}

func TestCreateAsset_PresignsImageKeyWithoutPersistingURL(t *testing.T) {
	fx := newFixture()

	response := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image","imageKey":"u1/k/logo.png"}`)

	assert.Equal(t, "https://signed.example/download/u1/k/logo.png", response.ImageURL)

	stored := fx.repo.assets[response.ID]
	require.NotNil(t, stored)
	require.NotNil(t, stored.ImageKey)
	assert.Equal(t, "u1/k/logo.png", *stored.ImageKey)
}

func TestGetAsset_ForeignOwnerIndistinguishableFromAbsent(t *testing.T) {
	fx := newFixture()
	created := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image"}`)

	c, _ := fx.request(http.MethodGet, "/api/assets/"+created.ID.String(), "", "u2")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	foreignErr := fx.handler.GetAsset(c)

	c, _ = fx.request(http.MethodGet, "/api/assets/"+uuid.NewString(), "", "u2")
	c.SetParamNames(paramID)
	c.SetParamValues(uuid.NewString())
	absentErr := fx.handler.GetAsset(c)

	var foreignAppErr, absentAppErr *apperrors.AppError
	require.ErrorAs(t, foreignErr, &foreignAppErr)
	require.ErrorAs(t, absentErr, &absentAppErr)
	assert.Equal(t, apperrors.KindNotFound, foreignAppErr.Kind)
	assert.Equal(t, absentAppErr.Kind, foreignAppErr.Kind)
	assert.Equal(t, absentAppErr.Message, foreignAppErr.Message)
}

func TestUpdateAsset_PatchTouchesOnlyPresentFields(t *testing.T) {
	fx := newFixture()
	created := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image","description":"original"}`)

	c, rec := fx.request(http.MethodPatch, "/api/assets/"+created.ID.String(), `{"name":"New Logo"}`, "u1")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	require.NoError(t, fx.handler.UpdateAsset(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated AssetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))

	assert.Equal(t, "New Logo", updated.Name)
	assert.Equal(t, asset.CategoryImage, updated.Category)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "original", *updated.Description)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}

func TestUpdateAsset_SamePayloadTwiceIsIdempotentOnFields(t *testing.T) {
	fx := newFixture()
	created := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image"}`)

	apply := func() *AssetResponse {
		c, rec := fx.request(http.MethodPatch, "/api/assets/"+created.ID.String(), `{"name":"New Logo","description":"v2"}`, "u1")
		c.SetParamNames(paramID)
		c.SetParamValues(created.ID.String())
		require.NoError(t, fx.handler.UpdateAsset(c))

		var response AssetResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		return &response
	}

	first := apply()
	second := apply()

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, first.Category, second.Category)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestUpdateAsset_ExplicitNullClearsDescription(t *testing.T) {
	fx := newFixture()
	created := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image","description":"original"}`)

	c, rec := fx.request(http.MethodPatch, "/api/assets/"+created.ID.String(), `{"description":null}`, "u1")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	require.NoError(t, fx.handler.UpdateAsset(c))

	var updated AssetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Nil(t, updated.Description)
}

func TestUpdateAsset_OwnerIDAlwaysRejected(t *testing.T) {
	fx := newFixture()
	created := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image"}`)

	// Rejected even when the supplied value equals the current owner.
	c, _ := fx.request(http.MethodPatch, "/api/assets/"+created.ID.String(), `{"ownerId":"u1"}`, "u1")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	err := fx.handler.UpdateAsset(c)

	requireAppError(t, err, apperrors.KindValidation, "ownerId")
	assert.Equal(t, "u1", fx.repo.assets[created.ID].OwnerID)
}

func TestUpdateAsset_EmptyPayloadRejected(t *testing.T) {
	fx := newFixture()
	created := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image"}`)

	c, _ := fx.request(http.MethodPatch, "/api/assets/"+created.ID.String(), `{}`, "u1")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	err := fx.handler.UpdateAsset(c)

	requireAppError(t, err, apperrors.KindValidation, "")
}

func TestUpdateAsset_ForeignOwnerMaskedAsNotFound(t *testing.T) {
	fx := newFixture()
	created := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image"}`)

	c, _ := fx.request(http.MethodPatch, "/api/assets/"+created.ID.String(), `{"name":"Hijack"}`, "u2")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	err := fx.handler.UpdateAsset(c)

	requireAppError(t, err, apperrors.KindNotFound, "")
	assert.Equal(t, "Logo", fx.repo.assets[created.ID].Name)
}

func TestDeleteAsset_Idempotent(t *testing.T) {
	fx := newFixture()
	created := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image"}`)

	deleteOnce := func() int {
		c, rec := fx.request(http.MethodDelete, "/api/assets/"+created.ID.String(), "", "u1")
		c.SetParamNames(paramID)
		c.SetParamValues(created.ID.String())
		require.NoError(t, fx.handler.DeleteAsset(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, deleteOnce())
	assert.Equal(t, http.StatusNoContent, deleteOnce())

	c, _ := fx.request(http.MethodGet, "/api/assets/"+created.ID.String(), "", "u1")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	err := fx.handler.GetAsset(c)
	requireAppError(t, err, apperrors.KindNotFound, "")
}

func TestListAssets_OwnerIsolation(t *testing.T) {
	fx := newFixture()
	fx.mustCreate(t, "u1", `{"name":"A","category":"image"}`)
	fx.mustCreate(t, "u1", `{"name":"B","category":"document"}`)
	fx.mustCreate(t, "u2", `{"name":"C","category":"image"}`)

	c, rec := fx.request(http.MethodGet, "/api/assets", "", "u1")
	require.NoError(t, fx.handler.ListAssets(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var responses []*AssetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responses))

	require.Len(t, responses, 2)
	for _, response := range responses {
		assert.Equal(t, "u1", response.OwnerID)
	}
	// Default order is newest first.
	assert.Equal(t, "B", responses[0].Name)
	assert.Equal(t, "A", responses[1].Name)
}

func TestListAssets_CategoryFilter(t *testing.T) {
	fx := newFixture()
	fx.mustCreate(t, "u1", `{"name":"A","category":"image"}`)
	fx.mustCreate(t, "u1", `{"name":"B","category":"document"}`)

	c, rec := fx.request(http.MethodGet, "/api/assets?category=document", "", "u1")
	require.NoError(t, fx.handler.ListAssets(c))

	var responses []*AssetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responses))
	require.Len(t, responses, 1)
	assert.Equal(t, "B", responses[0].Name)

	c, _ = fx.request(http.MethodGet, "/api/assets?category=audio", "", "u1")
	err := fx.handler.ListAssets(c)
	requireAppError(t, err, apperrors.KindValidation, "category")
}

func TestGetUploadURL_ReturnsKeyAndLocator(t *testing.T) {
	fx := newFixture()

	c, rec := fx.request(http.MethodPost, "/api/assets/upload-url", `{"fileName":"logo.png","contentType":"image/png"}`, "u1")
	require.NoError(t, fx.handler.GetUploadURL(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.True(t, strings.HasPrefix(response[jsonKeyImageKey], "u1/"))
	assert.True(t, strings.HasSuffix(response[jsonKeyImageKey], "/logo.png"))
	assert.NotEmpty(t, response[jsonKeyUploadURL])
}

func TestGetUploadURL_RejectsPathTraversal(t *testing.T) {
	fx := newFixture()

	c, _ := fx.request(http.MethodPost, "/api/assets/upload-url", `{"fileName":"../logo.png","contentType":"image/png"}`, "u1")
	err := fx.handler.GetUploadURL(c)
	requireAppError(t, err, apperrors.KindValidation, "fileName")
}

func TestScenario_CreateUpdateDeleteLifecycle(t *testing.T) {
	fx := newFixture()

	created := fx.mustCreate(t, "u1", `{"name":"Logo","category":"image"}`)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	c, rec := fx.request(http.MethodPatch, "/api/assets/"+created.ID.String(), `{"name":"New Logo"}`, "u1")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	require.NoError(t, fx.handler.UpdateAsset(c))

	var updated AssetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "New Logo", updated.Name)
	assert.Equal(t, asset.CategoryImage, updated.Category)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))

	c, rec = fx.request(http.MethodDelete, "/api/assets/"+created.ID.String(), "", "u1")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	require.NoError(t, fx.handler.DeleteAsset(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = fx.request(http.MethodGet, "/api/assets/"+created.ID.String(), "", "u1")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	requireAppError(t, fx.handler.GetAsset(c), apperrors.KindNotFound, "")

	c, rec = fx.request(http.MethodDelete, "/api/assets/"+created.ID.String(), "", "u1")
	c.SetParamNames(paramID)
	c.SetParamValues(created.ID.String())
	require.NoError(t, fx.handler.DeleteAsset(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
