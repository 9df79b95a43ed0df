package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/videocatalog/video-metadata-service/docs"
	"github.com/videocatalog/video-metadata-service/internal/api"
	"github.com/videocatalog/video-metadata-service/internal/core/service"
	"github.com/videocatalog/video-metadata-service/internal/core/token"
	"github.com/videocatalog/video-metadata-service/internal/infrastructure/config"
	mongodb "github.com/videocatalog/video-metadata-service/internal/infrastructure/db/mongo"
	redisdb "github.com/videocatalog/video-metadata-service/internal/infrastructure/db/redis"
	"github.com/videocatalog/video-metadata-service/internal/infrastructure/feed"
	"github.com/videocatalog/video-metadata-service/internal/infrastructure/http/handlers"
	"github.com/videocatalog/video-metadata-service/internal/infrastructure/queue"
	"github.com/videocatalog/video-metadata-service/internal/infrastructure/telemetry"
	"github.com/videocatalog/video-metadata-service/pkg/logger"
)

const (
	serviceName     = "video-metadata-service"
	shutdownTimeout = 15 * time.Second
)

// @title                       Video Metadata Catalog API
// @version                     1.0
// @description                 Catalog of video metadata from multiple platforms, behind bearer-token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(loggerOptions(cfg))
	if cfg.UsesDevSecret() {
		log.Warn().Msg("using the built-in development JWT secret; set JWT_SECRET before deploying")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
	log.Info().Msg("service stopped")
}

func loggerOptions(cfg *config.Config) logger.Options {
	return logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
		Version: cfg.Version,
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	shutdownTracing, err := telemetry.InitTraceProvider(ctx, cfg.OTLPEndpoint, cfg.Version)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("trace provider shutdown")
		}
	}()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: serviceName})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	videoRepo := mongodb.NewVideoRepository(db)
	eventRepo := mongodb.NewAuthEventRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, videoRepo, eventRepo); err != nil {
		return err
	}

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, eventRepo, logger.Component("audit"))
	dispatcher.Start(ctx)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := dispatcher.Shutdown(drainCtx); err != nil {
			log.Warn().Err(err).Msg("audit dispatcher did not drain")
		}
	}()

	// --- Services ---
	codec, err := token.NewCodec(cfg.Auth.JWTSecret, token.WithIssuer(cfg.Auth.Issuer))
	if err != nil {
		return err
	}
	authService, err := service.NewAuthService(userRepo, codec, dispatcher, logger.Component("auth"), service.AuthOptions{
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		return err
	}
	if cfg.Auth.SeedUsers {
		if err := authService.SeedUsers(ctx, service.DefaultSeedUsers); err != nil {
			return err
		}
	}

	statsCache := redisdb.NewStatsCache(rdb, cfg.Redis.StatsCacheTTL)
	videoService := service.NewVideoService(videoRepo, statsCache, feed.NewStaticFeed(), logger.Component("videos"))

	e := api.NewRouter(api.Deps{
		Auth:   authService,
		Videos: videoService,
		Readiness: map[string]handlers.Pinger{
			"mongodb": handlers.MongoPinger(db),
			"redis":   handlers.RedisPinger(rdb),
		},
		PublicPaths: cfg.Auth.PublicPaths,
		Version:     cfg.Version,
		Logger:      logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
