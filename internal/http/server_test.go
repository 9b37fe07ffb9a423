package http

import (
	"asset-service/internal/auth"
	"asset-service/internal/config"
	"asset-service/internal/domain/asset"
	"asset-service/internal/http/handler"
	"asset-service/internal/http/middleware"
	apperrors "asset-service/pkg/errors"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssetRepo struct{}

func (stubAssetRepo) Create(_ context.Context, _ asset.CreateAssetInput) (*asset.Asset, error) {
	return &asset.Asset{}, nil
}

func (stubAssetRepo) GetByID(_ context.Context, _ uuid.UUID) (*asset.Asset, error) {
	return nil, apperrors.NotFound("asset not found")
}

func (stubAssetRepo) ListByOwner(_ context.Context, _ asset.ListAssetsFilter) ([]*asset.Asset, error) {
	return nil, nil
}

func (stubAssetRepo) Update(_ context.Context, _ uuid.UUID, _ string, _ asset.UpdateAssetInput) (*asset.Asset, error) {
	return nil, apperrors.NotFound("asset not found")
}

func (stubAssetRepo) Delete(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

func TestServer_OwnerRateLimitingThroughMiddlewareChain(t *testing.T) {
	jwtService := auth.NewJWTService("server-test-secret-with-enough-len", time.Hour)

	server := NewServer(&ServerDependencies{
		Config:           &config.Config{App: config.AppConfig{PageSize: 100}},
		AssetRepo:        stubAssetRepo{},
		AuthMiddleware:   auth.NewMiddleware(jwtService),
		OwnerRateLimiter: middleware.NewRateLimiter(1, 1),
	})

	send := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		return rec.Code
	}

	tokenA, err := jwtService.Generate("owner-a")
	require.NoError(t, err)
	tokenB, err := jwtService.Generate("owner-b")
	require.NoError(t, err)

	// Every request arrives from the same client IP, yet each owner
	// gets an independent bucket because the limiter on the group runs
	// after the token has been verified.
	assert.Equal(t, http.StatusOK, send(tokenA))
	assert.Equal(t, http.StatusTooManyRequests, send(tokenA))
	assert.Equal(t, http.StatusOK, send(tokenB))

	// Unauthenticated traffic is rejected before the owner limiter.
	assert.Equal(t, http.StatusUnauthorized, send(""))
}

func TestServer_ErrorResponsesCarryRequestID(t *testing.T) {
	jwtService := auth.NewJWTService("server-test-secret-with-enough-len", time.Hour)

	server := NewServer(&ServerDependencies{
		Config:         &config.Config{App: config.AppConfig{PageSize: 100}},
		AssetRepo:      stubAssetRepo{},
		AuthMiddleware: auth.NewMiddleware(jwtService),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var response handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	// The id issued by the request ID middleware reaches the body.
	assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), response.RequestID)
	assert.NotEqual(t, unknownRequestID, response.RequestID)
}

func TestServer_HealthCheck(t *testing.T) {
	jwtService := auth.NewJWTService("server-test-secret-with-enough-len", time.Hour)

	server := NewServer(&ServerDependencies{
		Config:         &config.Config{App: config.AppConfig{PageSize: 100}},
		AssetRepo:      stubAssetRepo{},
		AuthMiddleware: auth.NewMiddleware(jwtService),
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), statusOK)
}
