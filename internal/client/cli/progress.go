package cli

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
)

// Mark records a study-status change for a card: usage is
// "mark <card> <status>" with status one of active, unsure, learned,
// deleted. The change lands locally first; when auto-push is on and a
// session exists it is pushed right away, otherwise it stays pending for
// the next sync.
func (a *App) Mark(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: mark <card> <status> (active|unsure|learned|deleted)")
		return nil
	}
	cardID, status := args[0], args[1]

	entry, err := a.ledger.Set(ctx, cardID, models.CardStatus(status))
	if err != nil {
		log.Printf("error: %s", err.Error())
		return err
	}
	fmt.Printf("%s -> %s\n", cardID, entry.Status)

	if a.isLoggedIn() {
		if err := a.orchestrator.HandleStatusChange(ctx, a.session); err != nil {
			if !a.sessionExpired(ctx, err) {
				log.Printf("Push failed, change kept for the next sync: %s", err.Error())
			}
		}
	}
	return nil
}

// List prints the local progress ledger, pending cards marked with '*'.
func (a *App) List(ctx context.Context) error {
	snapshot, err := a.ledger.Snapshot(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	pending, err := a.ledger.Pending(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		e := snapshot[id]
		mark := " "
		if _, ok := pending[id]; ok {
			mark = "*"
		}
		fmt.Printf("%s %-20s %-8s %d\n", mark, id, e.Status, e.UpdatedAt)
	}
	fmt.Printf("%d cards, %d pending\n", len(snapshot), len(pending))
	return nil
}

// Sync runs a manual full round-trip: pull, merge, push.
func (a *App) Sync(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}
	if err := a.orchestrator.ManualSync(ctx, a.session); err != nil {
		if !a.sessionExpired(ctx, err) {
			log.Printf("Sync failed: %s", err.Error())
		}
		return err
	}
	fmt.Println("Sync complete")
	return nil
}

// Resync re-sends the whole local ledger: every card is flagged pending and
// a full round-trip runs. Useful after restoring the local database from a
// backup, when the pending flags no longer reflect what the server has.
func (a *App) Resync(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}
	if err := a.orchestrator.ForceResync(ctx, a.session); err != nil {
		if !a.sessionExpired(ctx, err) {
			log.Printf("Resync failed: %s", err.Error())
		}
		return err
	}
	fmt.Println("Resync complete")
	return nil
}
