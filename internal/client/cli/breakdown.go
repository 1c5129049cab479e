package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/client/services"
)

// Breakdowns lists the cached term-breakdown dictionary.
func (a *App) Breakdowns(ctx context.Context) error {
	all, err := a.breakdowns.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		b := all[id]
		fmt.Printf("%-20s %s (%d parts)\n", id, b.Term, len(b.Parts))
	}
	fmt.Printf("%d breakdowns cached\n", len(all))
	return nil
}

// Breakdown shows a single cached breakdown: usage is "breakdown <card>".
func (a *App) Breakdown(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: breakdown <card>")
		return nil
	}

	b, err := a.breakdowns.Get(ctx, args[0])
	if err != nil {
		log.Println(err.Error())
		return err
	}

	printBreakdown(b)
	return nil
}

// Contribute builds a breakdown interactively and submits it to the shared
// dictionary: usage is "contribute <card>". The server rejects an overwrite
// of existing content unless the caller is an administrator.
func (a *App) Contribute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: contribute <card>")
		return nil
	}
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}
	cardID := args[0]

	term, err := getSimpleText(a.reader, "Term", os.Stdout)
	if err != nil {
		return err
	}

	b := services.AutoFill(term)
	b.CardID = cardID

	for i := range b.Parts {
		meaning, err := getSimpleText(a.reader, fmt.Sprintf("Meaning of %q (empty to skip)", b.Parts[i].Fragment), os.Stdout)
		if err != nil {
			return err
		}
		b.Parts[i].Meaning = meaning
	}

	literal, err := getSimpleText(a.reader, "Literal translation (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	b.LiteralTranslation = literal

	notes, err := GetMultiline(a.reader, "Notes", os.Stdout)
	if err != nil {
		return err
	}
	b.Notes = notes

	if err := a.breakdowns.Save(ctx, a.session, b); err != nil {
		if !a.sessionExpired(ctx, err) {
			log.Printf("Save failed: %s", err.Error())
		}
		return err
	}
	fmt.Println("Saved")
	return nil
}

// Autofill splits a term into candidate fragments without touching the
// server: usage is "autofill <term>".
func (a *App) Autofill(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: autofill <term>")
		return nil
	}

	b := services.AutoFill(strings.Join(args, " "))
	printBreakdown(&b)
	return nil
}

func printBreakdown(b *models.TermBreakdown) {
	fmt.Println(b.Term)
	for _, p := range b.Parts {
		fmt.Printf("  %-15s %s\n", p.Fragment, p.Meaning)
	}
	if b.LiteralTranslation != "" {
		fmt.Printf("  = %s\n", b.LiteralTranslation)
	}
	if b.Notes != "" {
		fmt.Println(b.Notes)
	}
	if b.UpdatedBy != "" {
		fmt.Printf("  (by %s)\n", b.UpdatedBy)
	}
}
