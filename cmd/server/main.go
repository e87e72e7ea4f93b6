package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pdfNormalizer/cache"
	"pdfNormalizer/config"
	"pdfNormalizer/converter"
	"pdfNormalizer/database"
	"pdfNormalizer/ghostscript"
	"pdfNormalizer/handlers"
	"pdfNormalizer/kafka"
	"pdfNormalizer/middleware"
	"pdfNormalizer/repository"
	"pdfNormalizer/service"
	"pdfNormalizer/storage"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("PDF normalizer starting", zap.String("port", cfg.Port))

	store, err := storage.New(cfg.UploadDir, cfg.OutputDir, logger)
	if err != nil {
		logger.Fatal("Failed to prepare storage directories", zap.Error(err))
	}

	// The audit trail, status cache, and event stream are side channels;
	// a missing backend degrades to logging only.
	var repo repository.Repository
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Warn("Postgres unavailable, conversion records disabled", zap.Error(err))
		} else {
			defer db.Close()
			repo = repository.NewPostgresRepo(db)
		}
	}

	var statusCache *cache.StatusCache
	if cfg.RedisAddr != "" {
		redisCache, err := database.ConnectCache(cfg.RedisAddr)
		if err != nil {
			logger.Warn("Redis unavailable, status cache disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			statusCache = cache.NewStatusCache(redisCache)
		}
	}

	var producer kafka.Producer
	if cfg.KafkaBrokers != "" {
		producer, err = kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","))
		if err != nil {
			logger.Warn("Kafka unavailable, conversion events disabled", zap.Error(err))
		} else {
			defer producer.Close()
		}
	}

	engine := ghostscript.NewEngine(cfg.GhostscriptBin, cfg.ConvertTimeout, cfg.MaxConcurrent, logger)
	conv := converter.New(engine, store, logger)
	svc := service.NewConvertService(conv, store, repo, statusCache, producer, cfg.KafkaTopic, logger)
	handler := handlers.NewConvertHandler(svc, store, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/convert", handler.Convert)
	mux.HandleFunc("/output/", handler.Download)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	chain := middleware.TraceID(
		middleware.Logging(logger)(
			middleware.Recovery(logger)(mux),
		),
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: chain,
	}

	go func() {
		logger.Info("Server started", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}
