package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/cardsync/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username and password and attempts to
// create a new account on the server. On success it prints "Success!" and
// returns nil; the user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, userName, password); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts the user for credentials and authenticates against the
// server. On success the session is persisted, the login-time sync policy
// runs (first login or auto-pull), and the app switches to online mode.
//
// If the server is unreachable and a session from a previous run is still
// stored, the app keeps it and continues in offline mode: progress recorded
// offline stays pending until the next successful push.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	session, err := a.auth.Login(ctx, userName, password, a.config.ServerEndpointAddr)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) && a.session.Valid() {
			log.Printf("Server unavailable, continuing offline with the stored session")
			a.setMode(ModeOffline)
			return nil
		}
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.session = session
	a.setMode(ModeOnline)
	log.Printf("Login successful")

	if err := a.orchestrator.HandleLogin(ctx, a.session); err != nil {
		if !a.sessionExpired(ctx, err) {
			// the session stays usable; pending changes wait for the next push
			log.Printf("Login sync failed: %s", err.Error())
		}
	}
	return nil
}

// sessionExpired reacts to the server rejecting the token: the service
// layer already destroyed the stored session, so drop the in-memory copy
// too and tell the user to log in again. Returns true when err was an
// authentication failure.
func (a *App) sessionExpired(ctx context.Context, err error) bool {
	if !errors.Is(err, api.ErrUnauthenticated) {
		return false
	}
	_ = a.auth.InvalidateSession(ctx)
	a.session = nil
	log.Println("Session expired, please log in again")
	return true
}

// Logout clears the stored session and the cached server config. Local
// progress stays on the device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.session = nil
	fmt.Println("Logged out")
	return nil
}
