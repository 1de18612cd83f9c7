package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-bulletin-api/api/swagger"
	"github.com/noah-isme/sma-bulletin-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-bulletin-api/internal/middleware"
	"github.com/noah-isme/sma-bulletin-api/internal/repository"
	"github.com/noah-isme/sma-bulletin-api/internal/service"
	"github.com/noah-isme/sma-bulletin-api/pkg/cache"
	"github.com/noah-isme/sma-bulletin-api/pkg/config"
	"github.com/noah-isme/sma-bulletin-api/pkg/database"
	"github.com/noah-isme/sma-bulletin-api/pkg/jobs"
	"github.com/noah-isme/sma-bulletin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-bulletin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-bulletin-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-bulletin-api/pkg/storage"
)

// @title SMA Bulletin API
// @version 1.0.0
// @description Announcements, attachments and school calendar
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Calendar.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			// Calendar views are still served from Postgres.
			logr.Warn("redis unavailable, calendar cache disabled", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client)
			defer redisRepo.Close() //nolint:errcheck
			cacheRepo = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Calendar.CacheTTL, logr, cacheRepo != nil)

	files, err := storage.NewLocalStorage(cfg.Attachments.StorageDir)
	if err != nil {
		return err
	}
	signer := storage.NewSignedURLSigner(cfg.Attachments.SignedURLSecret, cfg.Attachments.SignedURLTTL)

	announcementRepo := repository.NewAnnouncementRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)

	validate := validator.New()
	attachmentSvc := service.NewAttachmentService(attachmentRepo, announcementRepo, files, signer, logr, service.AttachmentServiceConfig{
		MaxFileSize:  cfg.Attachments.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Attachments.AllowedMIMEs,
		APIPrefix:    cfg.APIPrefix,
	})
	announcementSvc := service.NewAnnouncementService(announcementRepo, attachmentSvc, validate, metrics, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, cacheSvc, validate, metrics, logr, service.CalendarServiceConfig{
		CacheTTL:    cfg.Calendar.CacheTTL,
		MaxPageSize: cfg.Calendar.MaxPageSize,
		FeedName:    cfg.Calendar.FeedName,
	})
	tokens := service.NewTokenService(service.TokenConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
	}, logr)

	if cfg.ExpirySweep.Enabled {
		sweeper := service.NewExpirySweeper(announcementSvc, logr)
		queue := jobs.NewQueue("expiry-sweep", sweeper.Handle, jobs.QueueConfig{
			MaxRetries: cfg.ExpirySweep.Retries,
			RetryDelay: 30 * time.Second,
			Timeout:    5 * time.Minute,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()
		if err := sweeper.Schedule(queue, cfg.ExpirySweep.Schedule); err != nil {
			return err
		}
		defer sweeper.Stop()
		if err := sweeper.Trigger(); err != nil {
			logr.Warn("initial expiry sweep not queued", zap.Error(err))
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	handler.Router{
		Tokens:        tokens,
		Announcements: handler.NewAnnouncementHandler(announcementSvc),
		Attachments:   handler.NewAttachmentHandler(attachmentSvc),
		Calendar:      handler.NewCalendarHandler(calendarSvc),
		Metrics:       handler.NewMetricsHandler(metrics, db),
	}.Register(r, cfg.APIPrefix)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
