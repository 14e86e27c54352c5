package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/tds/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
zones: ./catalog/zones
personas: https://example.com/personas.json
store: redis
redis:
  addr: redis:6379
  ttl: 24h
allowed_origins: [https://app.example.com]
log:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./catalog/zones", cfg.Zones)
	assert.Equal(t, "https://example.com/personas.json", cfg.Personas)
	assert.Equal(t, config.StoreRedis, cfg.Store)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "store: file\naddr: :9000\n")
	t.Setenv("TDS_ADDR", ":7000")
	t.Setenv("TDS_STORE_PATH", "/var/lib/tds")
	t.Setenv("TDS_ALLOWED_ORIGINS", "http://a,http://b")
	t.Setenv("TDS_REDIS_DB", "3")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.StoreFile, cfg.Store)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "/var/lib/tds", cfg.StorePath)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.AllowedOrigins)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("Missing Explicit File", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("Bad YAML", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "store: [unclosed"))
		assert.Error(t, err)
	})
	t.Run("Bad Env", func(t *testing.T) {
		t.Setenv("TDS_REDIS_DB", "three")
		_, err := config.Load(writeFile(t, ""))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"Defaults", func(*config.Config) {}, false},
		{"Unknown Store", func(c *config.Config) { c.Store = "s3" }, true},
		{"Redis Without Addr", func(c *config.Config) { c.Store = config.StoreRedis; c.Redis.Addr = "" }, true},
		{"Unknown Level", func(c *config.Config) { c.Log.Level = "loud" }, true},
		{"Unknown Format", func(c *config.Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
