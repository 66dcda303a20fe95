package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settings = []string{
	"STORE_BACKEND", "STORE_URL", "STORE_KEY", "DATABASE_URL", "HTTP_PORT",
	"LOG_LEVEL", "LOG_FILE", "STORE_TIMEOUT", "TIMEZONE",
}

// clearEnv blanks every setting for the test and unsets it, so godotenv can
// still write it.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range settings {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_URL", "https://example.supabase.co")
	t.Setenv("STORE_KEY", "anon")

	cfg, err := LoadConfig("", quiet())
	require.NoError(t, err)
	assert.Equal(t, BackendREST, cfg.StoreBackend)
	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
}

func TestLoadConfigRequiresStoreSettings(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig("", quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_URL, STORE_KEY not set for rest backend")

	t.Setenv("STORE_BACKEND", "postgres")
	_, err = LoadConfig("", quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL not set")

	t.Setenv("STORE_BACKEND", "Memory")
	cfg, err := LoadConfig("", quiet())
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", ":9090")

	path := filepath.Join(t.TempDir(), "logfoto.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"STORE_BACKEND=memory\nHTTP_PORT=:7070\nSTORE_TIMEOUT=2s\nTIMEZONE=UTC\n",
	), 0o600))

	cfg, err := LoadConfig(path, quiet())
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, ":9090", cfg.HTTPPort, "process environment wins over the file")
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, time.UTC, cfg.Location())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.env"), quiet())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{StoreBackend: "kafka", StoreTimeout: time.Second, Timezone: "UTC"}
	assert.ErrorContains(t, cfg.Validate(), "unknown STORE_BACKEND")

	cfg = &Config{StoreBackend: BackendMemory, StoreTimeout: time.Second, Timezone: "Mars/Olympus"}
	assert.ErrorContains(t, cfg.Validate(), "invalid TIMEZONE")
	assert.Equal(t, time.UTC, cfg.Location())

	cfg = &Config{StoreBackend: BackendMemory, Timezone: "UTC"}
	assert.ErrorContains(t, cfg.Validate(), "STORE_TIMEOUT must be positive")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&Config{LogLevel: "debug"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("sku", "ABC123").Info("Product registered")
	assert.Contains(t, buf.String(), `"sku":"ABC123"`)
	assert.Contains(t, buf.String(), `"msg":"Product registered"`)

	_, err = NewLogger(&Config{LogLevel: "loud"}, &buf)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "logfoto.log")
	logger, err = NewLogger(&Config{LogLevel: "info", LogFile: file}, nil)
	require.NoError(t, err)
	logger.Info("to file")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
