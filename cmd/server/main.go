package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogserver/internal/config"
	apphttp "blogserver/internal/http"
	"blogserver/internal/repository"
	"blogserver/internal/repository/memory"
	"blogserver/internal/repository/sqlite"
	"blogserver/internal/service"
	"blogserver/internal/snapshot"
	"blogserver/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		userRepo     repository.UserRepository
		postRepo     repository.PostRepository
		favoriteRepo repository.FavoriteRepository
		snapshotter  *snapshot.Snapshotter
	)

	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			logger.Fatalf("open database: %v", err)
		}
		defer db.Close()

		userRepo = sqlite.NewUserRepository(db)
		postRepo = sqlite.NewPostRepository(db)
		favoriteRepo = sqlite.NewFavoriteRepository(db)
		logger.Infof("using sqlite backend at %s", cfg.Database.Path)

	case "memory":
		store := memory.NewStore(cfg.Snapshot.Path)
		if err := store.Load(); err != nil {
			logger.Fatalf("load snapshot: %v", err)
		}

		userRepo = memory.NewUserRepository(store)
		postRepo = memory.NewPostRepository(store)
		favoriteRepo = memory.NewFavoriteRepository(store)

		storageSvc := buildStorage(ctx, cfg, logger)
		snapshotter = snapshot.New(snapshot.Config{
			Interval:  time.Duration(cfg.Snapshot.IntervalMinutes) * time.Minute,
			Bucket:    cfg.Storage.Bucket,
			KeyPrefix: cfg.Storage.KeyPrefix,
			Keep:      cfg.Snapshot.Keep,
			Logger:    logger,
		}, store, storageSvc)
		snapshotter.Start(ctx)
		logger.Infof("using in-memory backend, snapshots at %s", cfg.Snapshot.Path)

	default:
		logger.Fatalf("unknown database driver %q", cfg.Database.Driver)
	}

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := postRepo.Init(ctx); err != nil {
		logger.Fatalf("init post repository: %v", err)
	}
	if err := favoriteRepo.Init(ctx); err != nil {
		logger.Fatalf("init favorite repository: %v", err)
	}

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, userRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo)
	authService := service.NewAuthService(
		userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, postService, favoriteService, authService)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if snapshotter != nil {
		snapshotter.Shutdown(shutdownCtx)
	}

	logger.Info("bye")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) storage.Service {
	if cfg.Storage.Bucket == "" {
		return nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		logger.Warnf("load aws config: %v; snapshot mirroring disabled", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("mirroring snapshots to s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client)
}
