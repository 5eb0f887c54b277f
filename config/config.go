package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir  string `json:"log_dir"`
	TempDir string `json:"temp_dir"`

	// Public base URL used to build short links
	PublicBaseURL string `json:"public_base_url"`

	// CORS Configuration
	CORS CORSConfig `json:"cors"`

	// Rate Limiting
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Database settings. Path may be empty: the service then runs
	// without persistence and view-tracking lookups return 503.
	Database DatabaseConfig `json:"database"`

	// Object storage settings. Bucket may be empty: the cut action
	// then returns 503.
	Storage StorageConfig `json:"storage"`

	// Clip workflow settings
	Clip ClipConfig `json:"clip"`

	// Application version
	Version string `json:"version"`

	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type CORSConfig struct {
	Enabled        bool     `json:"enabled"`
	AllowedOrigins []string `json:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers"`
	MaxAge         int      `json:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	BurstSize         int  `json:"burst_size"`
}

type DatabaseConfig struct {
	Path               string        `json:"path"`
	MaxConnections     int           `json:"max_connections"`
	MaxIdleConnections int           `json:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `json:"conn_max_lifetime"`
}

type StorageConfig struct {
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
	// CDNBaseURL overrides the endpoint-derived public URL when set.
	CDNBaseURL string `json:"cdn_base_url"`
}

type ClipConfig struct {
	// YtdlpPath is the yt-dlp executable.
	YtdlpPath string `json:"ytdlp_path"`
	// FFmpegPath is the ffmpeg executable.
	FFmpegPath string `json:"ffmpeg_path"`
	// FFmpegMode selects the trim policy: "copy" or "reencode".
	FFmpegMode string `json:"ffmpeg_mode"`
	// DownloadTimeout bounds the source download step.
	DownloadTimeout time.Duration `json:"download_timeout"`
	// TranscodeTimeout bounds the trim step.
	TranscodeTimeout time.Duration `json:"transcode_timeout"`
	// DeterministicCodes makes short codes a hash of (video_id, start)
	// so repeated creation is idempotent.
	DeterministicCodes bool `json:"deterministic_codes"`
	// StrictResolve surfaces resolver failures during clip creation
	// instead of falling back to placeholder metadata.
	StrictResolve bool `json:"strict_resolve"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		ReadTimeout: getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		// The cut action downloads and transcodes inside the request,
		// so the write deadline must cover both steps.
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Minute),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		LogDir:  getEnv("LOG_DIR", "/var/log/cliphunter"),
		TempDir: getEnv("TEMP_DIR", "/tmp/cliphunter"),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "https://cliphunter.app"),

		Version: getEnv("VERSION", "1.0.0"),

		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		// Wildcard origins with credentials disallowed; browsers
		// reject the combination.
		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "OPTIONS"},
			),
			AllowedHeaders: getEnvAsStringSlice("CORS_ALLOWED_HEADERS", []string{"*"}),
			MaxAge:         getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
		},

		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", ""),
			MaxConnections:     getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		Storage: StorageConfig{
			AccessKey:  getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:  getEnv("STORAGE_SECRET_KEY", ""),
			Region:     getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:   getEnv("STORAGE_ENDPOINT", ""),
			Bucket:     getEnv("STORAGE_BUCKET", ""),
			CDNBaseURL: getEnv("STORAGE_CDN_BASE_URL", ""),
		},

		Clip: ClipConfig{
			YtdlpPath:          getEnv("YTDLP_PATH", "yt-dlp"),
			FFmpegPath:         getEnv("FFMPEG_PATH", "ffmpeg"),
			FFmpegMode:         getEnv("FFMPEG_MODE", "reencode"),
			DownloadTimeout:    getEnvAsDuration("DOWNLOAD_TIMEOUT", 5*time.Minute),
			TranscodeTimeout:   getEnvAsDuration("TRANSCODE_TIMEOUT", 5*time.Minute),
			DeterministicCodes: getEnvAsBool("SHORTCODE_DETERMINISTIC", true),
			StrictResolve:      getEnvAsBool("CLIP_STRICT_RESOLVE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validatePaths(c); err != nil {
		return err
	}
	if err := validateTimeouts(c); err != nil {
		return err
	}
	if c.Clip.FFmpegMode != "copy" && c.Clip.FFmpegMode != "reencode" {
		return fmt.Errorf("invalid FFMPEG_MODE %q: must be copy or reencode", c.Clip.FFmpegMode)
	}
	return nil
}

// StorageConfigured reports whether the object store can be used.
func (c *Config) StorageConfigured() bool {
	return c.Storage.Bucket != "" && c.Storage.AccessKey != "" && c.Storage.SecretKey != ""
}

// DatabaseConfigured reports whether the record store can be used.
func (c *Config) DatabaseConfigured() bool {
	return c.Database.Path != ""
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{c.TempDir, "temp directory"},
	}
	if c.Database.Path != "" {
		paths = append(paths, struct {
			path string
			name string
		}{filepath.Dir(c.Database.Path), "database directory"})
	}

	for _, p := range paths {
		if err := os.MkdirAll(p.path, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p.name, err)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.Clip.DownloadTimeout <= 0 {
		return fmt.Errorf("download timeout must be positive")
	}
	if c.Clip.TranscodeTimeout <= 0 {
		return fmt.Errorf("transcode timeout must be positive")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}
