package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"photo-archive/internal/logging"
	"photo-archive/internal/workers"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration.
type Config struct {
	Port         string
	DatabasePath string

	// Blob store (S3-compatible, e.g. MinIO)
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// Pagination and ingest tuning
	DefaultPageSize int
	PageSizeLimit   int
	UploadBatchSize int

	ThumbnailsEnabled bool
}

// LoadConfig loads and validates configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "/data/archive.db"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET", "photo-archive"),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		DefaultPageSize:   getEnvInt("DEFAULT_PAGE_SIZE", 20),
		PageSizeLimit:     getEnvInt("PAGE_SIZE_LIMIT", 100),
		UploadBatchSize:   getEnvInt("UPLOAD_BATCH_SIZE", workers.ForIO(8)),
		ThumbnailsEnabled: getEnvBool("THUMBNAILS_ENABLED", true),
	}

	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required")
	}
	if cfg.DefaultPageSize < 1 || cfg.DefaultPageSize > cfg.PageSizeLimit {
		return nil, fmt.Errorf("DEFAULT_PAGE_SIZE must be between 1 and PAGE_SIZE_LIMIT (%d)", cfg.PageSizeLimit)
	}
	if cfg.UploadBatchSize < 1 {
		return nil, fmt.Errorf("UPLOAD_BATCH_SIZE must be at least 1")
	}

	dbDir := filepath.Dir(cfg.DatabasePath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("database directory %s not writable: %w", dbDir, err)
	}

	logConfiguration(cfg)
	return cfg, nil
}

func logConfiguration(cfg *Config) {
	logging.Info("photo-archive %s (commit %s, built %s, %s)", Version, Commit, BuildTime, GoVersion)
	logging.Info("configuration:")
	logging.Info("  PORT=%s", cfg.Port)
	logging.Info("  DATABASE_PATH=%s", cfg.DatabasePath)
	logging.Info("  S3_ENDPOINT=%s S3_REGION=%s S3_BUCKET=%s", cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket)
	logging.Info("  DEFAULT_PAGE_SIZE=%d PAGE_SIZE_LIMIT=%d UPLOAD_BATCH_SIZE=%d",
		cfg.DefaultPageSize, cfg.PageSizeLimit, cfg.UploadBatchSize)
	logging.Info("  THUMBNAILS_ENABLED=%v", cfg.ThumbnailsEnabled)
}

// LogServerStarted logs the final boot line.
func LogServerStarted(port string, elapsed time.Duration) {
	logging.Info("server listening on :%s (startup took %s)", port, elapsed.Round(time.Millisecond))
}

// LogShutdown logs a shutdown step.
func LogShutdown(step string) {
	logging.Info("shutdown: %s", step)
}

// LogFatal logs a fatal error and exits.
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
