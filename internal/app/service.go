package app

import (
	"asset-service/internal/activity"
	"asset-service/internal/auth"
	"asset-service/internal/config"
	assethttp "asset-service/internal/http"
	"asset-service/internal/repository/postgres"
	"asset-service/internal/storage/s3"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const (
	errFailedLoadConfigFmt     = "failed to load config: %w"
	errFailedConnectDBFmt      = "failed to connect to database: %w"
	errFailedCreateS3ClientFmt = "failed to create S3 client: %w"
)

// Service represents the asset tracking application
type Service struct {
	config *config.Config
	db     *postgres.DB
	server *assethttp.Server
}

// NewService wires up all dependencies and returns a configured Service
func NewService() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf(errFailedLoadConfigFmt, err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf(errFailedConnectDBFmt, err)
	}

	s3Client, err := s3.NewClient(&cfg.AWS, cfg.App.PresignedURLExpiry)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf(errFailedCreateS3ClientFmt, err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)

	server := assethttp.NewServer(&assethttp.ServerDependencies{
		Config:         cfg,
		AssetRepo:      postgres.NewAssetRepository(db),
		ObjectStore:    s3Client,
		Recorder:       activity.NewRecorder(db.Pool),
		AuthMiddleware: auth.NewMiddleware(jwtService),
	})

	return &Service{
		config: cfg,
		db:     db,
		server: server,
	}, nil
}

// Start runs the HTTP server until SIGINT or SIGTERM, then shuts down
// gracefully within the configured timeout.
func (s *Service) Start() error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.server.Start(":" + s.config.Server.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		s.db.Close()
		return err
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.db.Close()
	return err
}
