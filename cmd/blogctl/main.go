// Command blogctl — клиент учётных записей blogapp для командной строки.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/blogapp/internal/client/api"
	"github.com/magabrotheeeer/blogapp/internal/client/cli"
	"github.com/magabrotheeeer/blogapp/internal/client/config"
	"github.com/magabrotheeeer/blogapp/internal/client/logs"
	"github.com/magabrotheeeer/blogapp/internal/client/session"
	"github.com/magabrotheeeer/blogapp/internal/client/store"
)

func main() {
	printer := logs.New()

	cfg, err := config.Load()
	if err != nil {
		printer.Error("cannot read config: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		printer.Error("cannot open session store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	client, err := api.New(cfg.ServerURL)
	if err != nil {
		printer.Error("%v", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sess := session.New(st, client, logger)
	app := cli.NewApp(sess, client, printer, os.Stdin, os.Stderr)
	app.SetVerbose(cfg.Verbose)

	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		printer.Error("%v", err)
		stop()
		_ = st.Close()
		os.Exit(1)
	}
}
