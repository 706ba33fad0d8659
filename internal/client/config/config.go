package config

import (
	"time"

	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/repositories/session"
)

// Config holds runtime settings for the cakeplanner CLI.
type Config struct {
	// ServerURL is the backend base URL, e.g. "https://cake.example.com".
	ServerURL string
	// StreamPath is the notification stream path relative to ServerURL.
	StreamPath string

	// SessionStore selects where the session survives between commands:
	// memory, sqlite or redis.
	SessionStore string
	SessionDSN   string
	RedisAddr    string
	// SessionTTL bounds how long a Redis-stored session lives; 0 keeps it
	// until logout.
	SessionTTL time.Duration

	// HTTPTimeout bounds regular API calls; 0 means no client-side limit.
	// The notification stream is never subject to it.
	HTTPTimeout time.Duration

	LogLevel    string
	DownloadDir string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.StreamPath = api.StreamPath
	c.SessionStore = session.BackendMemory
	c.SessionDSN = "cakeplanner.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.SessionTTL = 0
	c.HTTPTimeout = 0
	c.LogLevel = "warn"
	c.DownloadDir = "downloads"
}

// SessionOptions translates the session settings for session.Open.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Backend:   c.SessionStore,
		SQLiteDSN: c.SessionDSN,
		RedisAddr: c.RedisAddr,
		TTL:       c.SessionTTL,
	}
}

// LoadConfig applies defaults, then the optional config file named by -c or
// -config, then command-line flags. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
