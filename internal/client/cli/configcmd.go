package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
)

// ShowConfig prints the server-distributed config cached at last login:
// the managed server URL and the shared API keys (keys redacted).
func (a *App) ShowConfig(ctx context.Context) error {
	cfg, err := a.auth.CachedServerConfig(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if cfg == nil {
		fmt.Println("No server config cached; log in first")
		return nil
	}

	fmt.Printf("Managed server URL: %s\n", cfg.ManagedServerURL)
	for name, key := range cfg.SharedAPIKeys {
		fmt.Printf("  %-12s model=%s key=%s\n", name, key.Model, redact(key.Key))
	}
	return nil
}

// SetConfig pushes a new managed server URL (admin only; the server
// enforces it). The shared API keys already cached are carried along
// unchanged so the push does not wipe them.
func (a *App) SetConfig(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: setconfig <managed-server-url>")
		return nil
	}
	if a.session == nil || !a.session.IsAdmin {
		fmt.Println("Only admins may push server config")
		return nil
	}

	cfg, err := a.auth.CachedServerConfig(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if cfg == nil {
		cfg = &models.ServerConfig{}
	}
	cfg.ManagedServerURL = args[0]

	if err := a.auth.PushServerConfig(ctx, *cfg); err != nil {
		if !a.sessionExpired(ctx, err) {
			log.Println(err.Error())
		}
		return err
	}
	fmt.Println("Success!")
	return nil
}

func redact(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
