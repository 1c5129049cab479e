package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cardsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the sync server (default from Config)
//	-t int        request timeout in seconds (default from Config)
//	-d string     SQLite DSN of the local store
//	-pull=bool    pull automatically at login
//	-push=bool    push automatically on status change
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-pull", "-push"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the sync server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "SQLite DSN of the local store")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.BoolVar(&cfg.AutoPull, "pull", cfg.AutoPull, "pull automatically at login")
	fs.BoolVar(&cfg.AutoPush, "push", cfg.AutoPush, "push automatically on status change")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
