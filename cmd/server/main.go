package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/akore648/videotube/internal/config"
	"github.com/akore648/videotube/internal/events"
	"github.com/akore648/videotube/internal/httpserver"
	"github.com/akore648/videotube/internal/logging"
	"github.com/akore648/videotube/internal/media"
	"github.com/akore648/videotube/internal/middleware"
	"github.com/akore648/videotube/internal/repo"
	"github.com/akore648/videotube/internal/search"
	"github.com/akore648/videotube/internal/service"
	"github.com/akore648/videotube/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := cfg.InitDB()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	uploader, err := storage.NewS3Uploader(context.Background(), storage.Options{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatalf("s3 init: %v", err)
	}

	esClient, err := search.NewClient(logger, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Fatalf("elasticsearch init: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaAddress)

	r := repo.New(db)

	tokenSvc := &service.TokenService{
		Repo:          r,
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}
	userSvc := &service.UserService{Repo: r, Tokens: tokenSvc, Uploader: uploader, Producer: producer}
	channelSvc := &service.ChannelService{Repo: r}
	videoSvc := &service.VideoService{
		Repo:     r,
		Uploader: uploader,
		Indexer:  &search.Indexer{ES: esClient, IndexName: cfg.ESIndex},
		Producer: producer,
		Probe:    media.ProbeDuration,
	}
	subSvc := &service.SubscriptionService{Repo: r, Producer: producer}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Auth:          &httpserver.AuthHTTP{Users: userSvc, Tokens: tokenSvc},
		Users:         &httpserver.UserHTTP{Users: userSvc},
		Channels:      &httpserver.ChannelHTTP{Channels: channelSvc},
		Videos:        &httpserver.VideoHTTP{Videos: videoSvc, Channels: channelSvc, ES: esClient, ESIndex: cfg.ESIndex},
		Subscriptions: &httpserver.SubscriptionHTTP{Subscriptions: subSvc},
		Session:       middleware.NewSessionAuth(r, cfg.AccessSecret),
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close", "error", err)
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}

	logger.Info("shutdown complete")
}
