package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/cardsync/internal/buildinfo"
	"github.com/dmitrijs2005/cardsync/internal/client/cli"
	"github.com/dmitrijs2005/cardsync/internal/client/config"
	"github.com/dmitrijs2005/cardsync/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	// service-level logs go to stderr; user-facing lines use the stdlib log
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
