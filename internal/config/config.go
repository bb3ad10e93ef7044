package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnv      = "dev"
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultDataDir  = "./data"
	defaultMaxDepth = 3
	defaultCacheTTL = 5 * time.Minute
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	DBPath        string
	Port          string
	DataDir       string
	SessionSecret string
	MaxDepth      int
	CacheTTL      time.Duration
}

// IsDev reports whether the service runs in the local development environment.
func (c Config) IsDev() bool {
	return c.Env == "" || strings.EqualFold(c.Env, defaultEnv)
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real environment variables.
	if _, err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: reading .env: %v", err)
	}

	cfg := Config{
		Env:           os.Getenv("APP_ENV"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		DataDir:       os.Getenv("DATA_DIR"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		MaxDepth:      defaultMaxDepth,
		CacheTTL:      defaultCacheTTL,
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}

	if raw := os.Getenv("MAX_DEPTH"); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil || depth < 0 {
			log.Printf("warning: MAX_DEPTH=%q is not a non-negative integer, using %d", raw, defaultMaxDepth)
		} else {
			cfg.MaxDepth = depth
		}
	}
	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			log.Printf("warning: CACHE_TTL=%q is not a positive duration, using %s", raw, defaultCacheTTL)
		} else {
			cfg.CacheTTL = ttl
		}
	}

	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set; profile cookies use an empty key")
	}

	return cfg
}
