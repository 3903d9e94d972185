package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	t.Setenv("INKLY_CONFIG", "")

	path := writeTempJSON(t, map[string]any{
		"http_addr":               "www.example:9000",
		"database_dsn":            "inkly.db",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "2h",
		"log_backend":             "zap",
		"s3_bucket":               "bucket",
		"avatar_url_expiry":       "5m",
	})

	t.Run("overlays present fields only", func(t *testing.T) {
		var cfg Config
		cfg.LoadDefaults()
		require.NoError(t, parseJSON(&cfg, []string{"-config", path}))

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "inkly.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, 5*time.Minute, cfg.AvatarURLExpiry)

		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "us-east-1", cfg.S3Region)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := Config{HTTPAddr: "defaults:1234", SecretKey: "key"}
		require.NoError(t, parseJSON(&cfg, nil))
		assert.Equal(t, Config{HTTPAddr: "defaults:1234", SecretKey: "key"}, cfg)
	})

	t.Run("env var names the file", func(t *testing.T) {
		t.Setenv("INKLY_CONFIG", path)
		var cfg Config
		require.NoError(t, parseJSON(&cfg, nil))
		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		assert.Error(t, parseJSON(&Config{}, []string{"-c", bad}))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseJSON(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})
}

func TestLoad_FlagsOverrideJSON(t *testing.T) {
	t.Setenv("INKLY_CONFIG", "")
	path := writeTempJSON(t, map[string]any{"http_addr": ":1111", "log_level": "warn"})

	cfg, err := Load([]string{"-c", path, "-a", ":2222"})
	require.NoError(t, err)
	assert.Equal(t, ":2222", cfg.HTTPAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
}
