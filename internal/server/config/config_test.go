package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, RelayRedis, cfg.RelayKind)
	assert.NotEmpty(t, cfg.ContentKey)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("ENDPOINT_ADDR", ":9999")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("RELAY_KIND", RelayMatrix)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddr)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, RelayMatrix, cfg.RelayKind)
	// Untouched fields keep defaults.
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"endpoint_addr": ":7070",
		"sweep_interval": "15m",
		"relay_domain": "example.org"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.Equal(t, "example.org", cfg.RelayDomain)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
}

func TestFilterArgs(t *testing.T) {
	args := []string{"-c", "conf.json", "-a", ":1234", "-test.v", "-d", "dsn"}
	got := filterArgs(args, []string{"-a", "-d"})
	assert.Equal(t, []string{"-a", ":1234", "-d", "dsn"}, got)
}
