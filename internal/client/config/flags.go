package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/cakeplanner/internal/flagx"
)

var knownFlags = []string{"-a", "-s", "-d", "-r", "-t", "-l", "-o"}

// parseFlags overlays cfg with command-line flags:
//
//	-a string     backend base URL
//	-s string     session store: memory, sqlite or redis
//	-d string     SQLite session database path
//	-r string     Redis address
//	-t duration   timeout for regular API calls (0 = none)
//	-l string     log level: debug, info, warn, error
//	-o string     directory for calendar downloads
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("cakeplanner", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend base URL")
	fs.StringVar(&cfg.SessionStore, "s", cfg.SessionStore, "session store (memory|sqlite|redis)")
	fs.StringVar(&cfg.SessionDSN, "d", cfg.SessionDSN, "SQLite session database")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address")
	fs.DurationVar(&cfg.HTTPTimeout, "t", cfg.HTTPTimeout, "API call timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
