package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultValues(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "wardrobe.db", cfg.LocalStorePath)
	assert.Equal(t, "cache/images", cfg.CacheDir)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 2*time.Second, cfg.Database.PollInterval)
	assert.Equal(t, "https://generativelanguage.googleapis.com/", cfg.Gemini.BaseURL)
	assert.Equal(t, "v1beta", cfg.Gemini.APIVersion)
	assert.Equal(t, "gemini-2.5-flash-image-preview", cfg.Gemini.ImageModel)
	assert.Equal(t, 1.0, cfg.Gemini.RateLimit)
	assert.Equal(t, "armario-tryon", cfg.Storage.Bucket)
	assert.False(t, cfg.IsProduction())
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name:    "port with leading colon",
			envVars: map[string]string{"PORT": ":9090"},
			expected: func(cfg *Config) {
				assert.Equal(t, "9090", cfg.Port)
			},
		},
		{
			name: "gemini override",
			envVars: map[string]string{
				"GEMINI_API_KEY":    "key-123",
				"GEMINI_RATE_LIMIT": "2.5",
				"GEMINI_TIMEOUT":    "10s",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "key-123", cfg.Gemini.APIKey)
				assert.Equal(t, 2.5, cfg.Gemini.RateLimit)
				assert.Equal(t, 10*time.Second, cfg.Gemini.Timeout)
			},
		},
		{
			name: "storage override",
			envVars: map[string]string{
				"MINIO_ENDPOINT":    "minio.example.com:9000",
				"MINIO_BUCKET_NAME": "custom-bucket",
				"MINIO_USE_SSL":     "true",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "minio.example.com:9000", cfg.Storage.Endpoint)
				assert.Equal(t, "custom-bucket", cfg.Storage.Bucket)
				assert.True(t, cfg.Storage.UseSSL)
			},
		},
		{
			name:    "allowed origins",
			envVars: map[string]string{"ALLOWED_ORIGINS": "http://localhost:5173,https://armario.example.com"},
			expected: func(cfg *Config) {
				assert.Equal(t, []string{"http://localhost:5173", "https://armario.example.com"}, cfg.AllowedOrigins)
			},
		},
		{
			name:    "production",
			envVars: map[string]string{"ENV": "production"},
			expected: func(cfg *Config) {
				assert.True(t, cfg.IsProduction())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := NewConfig()
			require.NoError(t, err)

			tt.expected(cfg)
		})
	}
}

func TestDatabase_DSN(t *testing.T) {
	t.Run("url wins", func(t *testing.T) {
		d := Database{URL: "postgres://u:p@h:5432/db", Host: "ignored"}
		assert.Equal(t, "postgres://u:p@h:5432/db", d.DSN())
	})

	t.Run("built from parts", func(t *testing.T) {
		d := Database{Host: "db", Port: "5433", User: "u", Password: "p", Name: "wardrobe", SSLMode: "disable"}
		assert.Equal(t, "host=db port=5433 user=u password=p dbname=wardrobe sslmode=disable", d.DSN())
	})

	t.Run("missing parts disables database", func(t *testing.T) {
		assert.Equal(t, "", Database{Host: "db"}.DSN())
	})
}
