package http

import (
	"asset-service/internal/auth"
	"asset-service/internal/config"
	"asset-service/internal/http/handler"
	"asset-service/internal/http/middleware"
	"context"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"
)

type ServerDependencies struct {
	Config         *config.Config
	AssetRepo      handler.AssetRepository
	ObjectStore    handler.ObjectStore
	Recorder       handler.ActivityRecorder
	AuthMiddleware *auth.Middleware

	// OwnerRateLimiter guards the authenticated routes; a default is
	// applied when nil.
	OwnerRateLimiter *middleware.RateLimiter
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware first, so all logs have request ID
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	// Before authentication the limiter can only key by client IP.
	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	assetHandler := handler.NewAssetHandler(deps.AssetRepo, deps.ObjectStore, deps.Recorder, deps.Config.App.PageSize)

	e.GET("/health", healthCheck)

	api := e.Group("/api")
	api.Use(deps.AuthMiddleware.RequireJWT())

	// Owner-keyed limiting only works after RequireJWT has stored the
	// caller identity, so this limiter lives on the group, not on e.
	ownerRateLimiter := deps.OwnerRateLimiter
	if ownerRateLimiter == nil {
		ownerRateLimiter = middleware.NewOwnerRateLimiter()
	}
	api.Use(ownerRateLimiter.Middleware())

	api.POST("/assets", assetHandler.CreateAsset)
	api.GET("/assets", assetHandler.ListAssets)
	api.GET("/assets/:id", assetHandler.GetAsset)
	api.PATCH("/assets/:id", assetHandler.UpdateAsset)
	api.DELETE("/assets/:id", assetHandler.DeleteAsset)
	api.POST("/assets/upload-url", assetHandler.GetUploadURL)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP drives the assembled server without a listening socket.
func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.echo.ServeHTTP(w, r)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
