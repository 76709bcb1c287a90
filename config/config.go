package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	Env            string   `env:"ENV" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LocalStorePath string   `env:"LOCAL_STORE_PATH" envDefault:"wardrobe.db"`
	CacheDir       string   `env:"CACHE_DIR" envDefault:"cache/images"`
	PublicBaseURL  string   `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	ChromePath     string   `env:"CHROME_PATH"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	Database       Database
	Gemini         Gemini  `envPrefix:"GEMINI_"`
	Drive          Drive
	Storage        Storage `envPrefix:"MINIO_"`
}

// Database contains remote collection connection parameters.
// An empty DSN and host disables the Postgres collection.
type Database struct {
	URL          string        `env:"DATABASE_URL"`
	Host         string        `env:"DB_HOST"`
	Port         string        `env:"DB_PORT" envDefault:"5432"`
	User         string        `env:"DB_USER"`
	Password     string        `env:"DB_PASSWORD"`
	Name         string        `env:"DB_NAME"`
	SSLMode      string        `env:"DB_SSLMODE" envDefault:"disable"`
	PollInterval time.Duration `env:"DB_POLL_INTERVAL" envDefault:"2s"`
}

// Gemini contains parameters of the multimodal generation service.
type Gemini struct {
	APIKey     string        `env:"API_KEY"`
	BaseURL    string        `env:"BASE_URL" envDefault:"https://generativelanguage.googleapis.com/"`
	APIVersion string        `env:"API_VERSION" envDefault:"v1beta"`
	TextModel  string        `env:"TEXT_MODEL" envDefault:"gemini-2.5-flash-preview-09-2025"`
	ImageModel string        `env:"IMAGE_MODEL" envDefault:"gemini-2.5-flash-image-preview"`
	RateLimit  float64       `env:"RATE_LIMIT" envDefault:"1"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"90s"`
}

// Drive contains Google Drive import parameters.
type Drive struct {
	CredentialsPath string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	FolderID        string `env:"BASE_GOOGLE_DRIVE_FOLDER_ID"`
}

// Storage contains object storage parameters for try-on downloads.
// An empty endpoint disables archiving.
type Storage struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"armario-tryon"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// PORT from Render doesn't include the colon, local setups sometimes do
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")

	return &cfg, nil
}

// DSN returns the Postgres connection string, or "" when no database is configured
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
