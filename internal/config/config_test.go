// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv unsets keys for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_DefaultsFileAndEnv(t *testing.T) {
	clearEnv(t, "DATABASE_URL", "ENVIRONMENT", "STORAGE_DRIVER", "STORAGE_BUCKET",
		"STORAGE_MAX_UPLOAD_SIZE", "JWT_ACCESS_TOKEN_EXPIRE", "SEARCH_COURSES_INDEX")
	path := writeConfig(t, `
database:
  url: postgres://file/db
redis:
  url: redis://file:6379
storage:
  driver: s3
  bucket: course-images
`)
	t.Setenv("REDIS_URL", "redis://env:6379")
	t.Setenv("CATALOG_CACHE_TTL", "90s")

	c, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/db", c.Database.URL)
	assert.Equal(t, "redis://env:6379", c.Redis.URL)
	assert.Equal(t, StorageS3, c.Storage.Driver)
	assert.Equal(t, "course-images", c.Storage.Bucket)
	assert.Equal(t, int64(5<<20), c.Storage.MaxUploadSize)
	assert.Equal(t, 90*time.Second, c.Catalog.CacheTTL)
	assert.Equal(t, time.Hour, c.JWT.AccessTokenExpire)
	assert.Equal(t, "courses", c.Search.CoursesIndex)
	assert.True(t, c.IsDevelopment())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	clearEnv(t, "DATABASE_URL")
	path := writeConfig(t, "redis:\n  url: redis://x:6379\n")

	_, err := load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: "postgres://x"},
		Redis:    RedisConfig{URL: "redis://x"},
		JWT: JWTConfig{
			PrivateKeyPath:    "priv.pem",
			PublicKeyPath:     "pub.pem",
			AccessTokenExpire: time.Hour,
		},
		Server:  ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
		Storage: StorageConfig{Driver: StorageNone, MaxUploadSize: 1024},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "ftp" }, "unknown storage driver"},
		{"bucket required", func(c *Config) { c.Storage.Driver = StorageGCS }, "STORAGE_BUCKET is required"},
		{"upload size", func(c *Config) { c.Storage.MaxUploadSize = 0 }, "max_upload_size"},
		{"search without addresses", func(c *Config) { c.Search.Enabled = true }, "ELASTICSEARCH_URL"},
		{"notify without broker", func(c *Config) { c.Notify.Enabled = true }, "AMQP_URL"},
		{
			"wildcard cors with credentials",
			func(c *Config) {
				c.CORS.AllowCredentials = true
				c.CORS.AllowedOrigins = []string{"*"}
			},
			"CORS wildcard",
		},
		{
			"insecure otel in production",
			func(c *Config) {
				c.App.Environment = "production"
				c.Otel.Enabled = true
				c.Otel.Insecure = true
			},
			"OTEL_INSECURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 5000}
	assert.Equal(t, "127.0.0.1:5000", s.Address())
}
