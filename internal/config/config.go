package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all server settings in correct types
type Config struct {
	Port              string
	DownloadDir       string
	MaxConcurrentJobs int
	Retention         time.Duration
	ReaperInterval    time.Duration
	InfoCacheTTL      time.Duration
	DeliverOnce       bool
	AllowedOrigins    string
}

// Load: The only way to get config in the app
func Load() *Config {
	cfg := &Config{
		Port:              getEnv("PORT", ":8080"),
		DownloadDir:       getEnv("DOWNLOAD_DIR", "downloads"),
		MaxConcurrentJobs: getEnvAsInt("MAX_CONCURRENT_JOBS", 3),
		Retention:         time.Duration(getEnvAsInt("RETENTION_MINUTES", 60)) * time.Minute,
		ReaperInterval:    time.Duration(getEnvAsInt("REAPER_INTERVAL_SECONDS", 300)) * time.Second,
		InfoCacheTTL:      time.Duration(getEnvAsInt("INFO_CACHE_TTL_SECONDS", 300)) * time.Second,
		DeliverOnce:       getEnvAsBool("DELIVER_ONCE", false),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
	}

	validate(cfg)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	str := getEnv(key, "")
	if val, err := strconv.Atoi(str); err == nil {
		return val
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	str := getEnv(key, "")
	if val, err := strconv.ParseBool(str); err == nil {
		return val
	}
	return fallback
}

// validate ensures the server won't crash due to misconfiguration
func validate(cfg *Config) {
	if cfg.MaxConcurrentJobs < 1 {
		log.Println("⚠️ Warning: MAX_CONCURRENT_JOBS must be at least 1. Resetting to 3.")
		cfg.MaxConcurrentJobs = 3
	}
	if cfg.Retention < time.Minute {
		log.Println("⚠️ Warning: RETENTION_MINUTES must be at least 1. Resetting to 60.")
		cfg.Retention = time.Hour
	}
	if cfg.ReaperInterval < time.Second {
		log.Println("⚠️ Warning: REAPER_INTERVAL_SECONDS must be at least 1. Resetting to 300.")
		cfg.ReaperInterval = 5 * time.Minute
	}
}
