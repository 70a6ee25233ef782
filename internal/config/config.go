package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Corpus sourcing modes. Exactly one is active per deployment.
const (
	CorpusModeManifest = "manifest"
	CorpusModeDir      = "dir"
)

// Config holds all runtime settings, read from the environment.
type Config struct {
	// Database
	DBType      string        // "sqlite" or "postgres"
	DBPath      string        // sqlite file path
	DatabaseURL string        // postgres DSN
	DBTimeout   time.Duration // per-operation deadline

	// Image corpus
	CorpusMode     string // "manifest" or "dir"
	CorpusManifest string // path to the flat image list
	CorpusDir      string // root directory with one folder per group
	ImageBaseURL   string // URL prefix for images in manifest mode
	GroupCount     int

	// HTTP
	HTTPAddr string

	// Export
	ExportDir           string
	ExportIntervalHours int // 0 disables the scheduled export

	// Notifications
	TelegramToken string
	AdminChatID   int64
}

// Load reads configuration from a .env file (if present) and the
// environment. Missing values fall back to defaults that run a local
// sqlite + manifest deployment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := &Config{
		DBType:              getEnv("DB_TYPE", "sqlite"),
		DBPath:              getEnv("DB_PATH", "data/aquascore.db"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBTimeout:           time.Duration(getEnvInt("DB_TIMEOUT_SECONDS", 15)) * time.Second,
		CorpusMode:          getEnv("CORPUS_MODE", CorpusModeManifest),
		CorpusManifest:      getEnv("CORPUS_MANIFEST", "image_names.txt"),
		CorpusDir:           os.Getenv("CORPUS_DIR"),
		ImageBaseURL:        os.Getenv("IMAGE_BASE_URL"),
		GroupCount:          getEnvInt("STUDY_GROUP_COUNT", 6),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		ExportDir:           getEnv("EXPORT_DIR", "exports"),
		ExportIntervalHours: getEnvInt("EXPORT_INTERVAL_HOURS", 24),
		TelegramToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if chatID := os.Getenv("STUDY_ADMIN_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid STUDY_ADMIN_CHAT_ID %q: %v", chatID, err)
		}
		cfg.AdminChatID = id
	}

	switch cfg.DBType {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}

	switch cfg.CorpusMode {
	case CorpusModeManifest, CorpusModeDir:
	default:
		return nil, fmt.Errorf("unsupported CORPUS_MODE %q", cfg.CorpusMode)
	}
	if cfg.CorpusMode == CorpusModeDir && cfg.CorpusDir == "" {
		return nil, fmt.Errorf("CORPUS_MODE=dir requires CORPUS_DIR")
	}
	if cfg.DBType == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DB_TYPE=postgres requires DATABASE_URL")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Ignoring non-numeric %s=%q, using %d", key, v, fallback)
	}
	return fallback
}
