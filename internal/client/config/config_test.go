package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cakeplanner/internal/client/repositories/session"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:8080", c.ServerURL)
	assert.Equal(t, "/api/events/stream", c.StreamPath)
	assert.Equal(t, session.BackendMemory, c.SessionStore)
	assert.Zero(t, c.HTTPTimeout)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadConfig_NoArgs(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := writeFile(t, "cake.json", `{
		"server_url": "https://cake.example.com",
		"session_store": "sqlite",
		"session_dsn": "/tmp/s.db",
		"http_timeout": "15s",
		"session_ttl": 3600000000000
	}`)

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)

	want := defaults()
	want.ServerURL = "https://cake.example.com"
	want.SessionStore = "sqlite"
	want.SessionDSN = "/tmp/s.db"
	want.HTTPTimeout = 15 * time.Second
	want.SessionTTL = time.Hour
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := writeFile(t, "cake.yaml", `
server_url: https://cake.example.com
session_store: redis
redis_addr: redis:6379
session_ttl: 12h
log_level: debug
`)

	cfg, err := LoadConfig([]string{"-config", path})
	require.NoError(t, err)

	want := defaults()
	want.ServerURL = "https://cake.example.com"
	want.SessionStore = "redis"
	want.RedisAddr = "redis:6379"
	want.SessionTTL = 12 * time.Hour
	want.LogLevel = "debug"
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "cake.yml", "server_url: https://from-file\nlog_level: info\n")

	cfg, err := LoadConfig([]string{
		"-c", path,
		"-a", "https://from-flag",
		"-s", "sqlite",
		"-d", "s.db",
		"-r", "r:1",
		"-t", "5s",
		"-o", "/tmp/dl",
		"-unrelated", "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://from-flag", cfg.ServerURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.SessionStore)
	assert.Equal(t, "s.db", cfg.SessionDSN)
	assert.Equal(t, "r:1", cfg.RedisAddr)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "/tmp/dl", cfg.DownloadDir)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
		want string
	}{
		{
			name: "missing file",
			args: func(t *testing.T) []string { return []string{"-c", filepath.Join(t.TempDir(), "nope.json")} },
			want: "read config",
		},
		{
			name: "invalid json",
			args: func(t *testing.T) []string { return []string{"-c", writeFile(t, "bad.json", "{ not json")} },
			want: "parse config",
		},
		{
			name: "invalid duration in yaml",
			args: func(t *testing.T) []string {
				return []string{"-c", writeFile(t, "bad.yaml", "http_timeout: soon\n")}
			},
			want: "invalid duration",
		},
		{
			name: "invalid duration flag",
			args: func(*testing.T) []string { return []string{"-t", "abc"} },
			want: "parse flags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.args(t))
			require.ErrorContains(t, err, tt.want)
			assert.Nil(t, cfg)
		})
	}
}

func TestSessionOptions(t *testing.T) {
	c := defaults()
	c.SessionStore = session.BackendRedis
	c.RedisAddr = "r:6379"
	c.SessionTTL = time.Minute

	opts := c.SessionOptions()
	assert.Equal(t, session.Options{
		Backend:   session.BackendRedis,
		SQLiteDSN: "cakeplanner.db",
		RedisAddr: "r:6379",
		TTL:       time.Minute,
	}, opts)
}
