package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/cakeplanner/internal/flagx"
	"github.com/dmitrijs2005/cakeplanner/internal/timex"
)

// fileConfig is the on-disk shape of Config. Durations go through
// timex.Duration so files may say "30s" or give nanoseconds.
type fileConfig struct {
	ServerURL    string         `json:"server_url" yaml:"server_url"`
	StreamPath   string         `json:"stream_path" yaml:"stream_path"`
	SessionStore string         `json:"session_store" yaml:"session_store"`
	SessionDSN   string         `json:"session_dsn" yaml:"session_dsn"`
	RedisAddr    string         `json:"redis_addr" yaml:"redis_addr"`
	SessionTTL   timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	HTTPTimeout  timex.Duration `json:"http_timeout" yaml:"http_timeout"`
	LogLevel     string         `json:"log_level" yaml:"log_level"`
	DownloadDir  string         `json:"download_dir" yaml:"download_dir"`
}

func toFile(c *Config) fileConfig {
	return fileConfig{
		ServerURL:    c.ServerURL,
		StreamPath:   c.StreamPath,
		SessionStore: c.SessionStore,
		SessionDSN:   c.SessionDSN,
		RedisAddr:    c.RedisAddr,
		SessionTTL:   timex.Duration{Duration: c.SessionTTL},
		HTTPTimeout:  timex.Duration{Duration: c.HTTPTimeout},
		LogLevel:     c.LogLevel,
		DownloadDir:  c.DownloadDir,
	}
}

func (fc fileConfig) apply(c *Config) {
	c.ServerURL = fc.ServerURL
	c.StreamPath = fc.StreamPath
	c.SessionStore = fc.SessionStore
	c.SessionDSN = fc.SessionDSN
	c.RedisAddr = fc.RedisAddr
	c.SessionTTL = fc.SessionTTL.Duration
	c.HTTPTimeout = fc.HTTPTimeout.Duration
	c.LogLevel = fc.LogLevel
	c.DownloadDir = fc.DownloadDir
}

// parseFile overlays cfg with the file named by -c/-config in args. Keys the
// file leaves out keep their current value. Files ending in .yaml or .yml
// are read as YAML, anything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFrom(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	fc := toFile(cfg)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}
