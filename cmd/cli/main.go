package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/cakeplanner/internal/buildinfo"
	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/cli"
	"github.com/dmitrijs2005/cakeplanner/internal/client/config"
	"github.com/dmitrijs2005/cakeplanner/internal/client/notify"
	sessionrepo "github.com/dmitrijs2005/cakeplanner/internal/client/repositories/session"
	"github.com/dmitrijs2005/cakeplanner/internal/client/session"
	"github.com/dmitrijs2005/cakeplanner/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}

}

// run wires the client together; deferred cleanups run before main exits.
func run(args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(os.Stderr, cfg.LogLevel)

	client, err := api.NewHTTPClient(cfg.ServerURL, cfg.HTTPTimeout, logger)
	if err != nil {
		return err
	}

	repo, closer, err := sessionrepo.Open(ctx, cfg.SessionOptions())
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer closer.Close()

	mgr := session.NewManager(client, repo, logger)
	client.SetTokenSource(mgr)
	if err := mgr.Restore(ctx); err != nil {
		logger.Warn(ctx, "session restore failed", "err", err)
	}

	// The stream stays open until the user stops watching, so it gets a
	// client without the API timeout.
	channel := notify.NewChannel(&http.Client{}, mgr, logger)

	app := cli.NewApp(mgr, client, channel, cli.Options{
		StreamURL:   client.URL(cfg.StreamPath, nil),
		DownloadDir: cfg.DownloadDir,
	}, logger, os.Stdin, os.Stdout)

	app.Run(ctx)
	return nil
}
