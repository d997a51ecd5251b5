package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/TeoSigno88/public-OCR-extractor/internal/extraction/handler"
	extractionmetrics "github.com/TeoSigno88/public-OCR-extractor/internal/extraction/metrics"
	"github.com/TeoSigno88/public-OCR-extractor/internal/extraction/service"
	httpapi "github.com/TeoSigno88/public-OCR-extractor/internal/http"
	"github.com/TeoSigno88/public-OCR-extractor/internal/imaging"
	"github.com/TeoSigno88/public-OCR-extractor/internal/ocr/tesseract"
	"github.com/TeoSigno88/public-OCR-extractor/internal/platform/config"
	"github.com/TeoSigno88/public-OCR-extractor/internal/platform/httpserver"
	"github.com/TeoSigno88/public-OCR-extractor/internal/platform/logger"
	"github.com/TeoSigno88/public-OCR-extractor/internal/platform/memcache"
	platformmetrics "github.com/TeoSigno88/public-OCR-extractor/internal/platform/metrics"
	"github.com/TeoSigno88/public-OCR-extractor/internal/platform/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Extraction logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(extractionmetrics.New()),
		service.WithLanguage(cfg.Language),
		service.WithBatchLimit(cfg.BatchLimit),
		service.WithImagingOptions(imaging.Options{
			MinWidth: cfg.MinWidth,
			Contrast: cfg.Contrast,
		}),
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithCache(redis.NewCache(redisClient), cfg.CacheTTL))
		log.Info("redis result cache enabled", "ttl", cfg.CacheTTL.String())
	} else if cfg.CacheTTL > 0 {
		opts = append(opts, service.WithCache(memcache.New(), cfg.CacheTTL))
		log.Info("in-process result cache enabled", "ttl", cfg.CacheTTL.String())
	}

	svc := service.New(tesseract.New(), opts...)
	router := httpapi.NewRouter(handler.New(svc, log), platformmetrics.New())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting ocr-extractor", "addr", cfg.Addr, "language", cfg.Language)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
