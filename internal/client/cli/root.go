package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if a.session.Valid() {
		s = a.session.Username + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive loop until the user exits. A connectivity
// watcher flips the online/offline indicator in the background.
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to CardSync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	go func() {
		a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, scanner)
}
