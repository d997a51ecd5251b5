// Package config loads runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string

	// Language is the tesseract language pack used for recognition.
	Language string

	// MinWidth is the width below which uploaded images are upscaled
	// before recognition.
	MinWidth int

	// Contrast is the contrast boost percentage applied during
	// preprocessing.
	Contrast float64

	// BatchLimit bounds how many batch images are processed concurrently.
	BatchLimit int

	CacheTTL time.Duration

	Redis RedisConfig
}

// RedisConfig holds the optional result cache connection settings. An empty
// URL disables caching.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:       getString("OCR_EXTRACTOR_ADDR", ":8080"),
		Language:   getString("OCR_LANGUAGE", "ita"),
		MinWidth:   getInt("OCR_MIN_WIDTH", 1500),
		Contrast:   float64(getInt("OCR_CONTRAST", 60)),
		BatchLimit: getInt("OCR_BATCH_LIMIT", 4),
		CacheTTL:   getDuration("OCR_CACHE_TTL", 15*time.Minute),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
