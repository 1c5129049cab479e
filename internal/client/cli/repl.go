package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Mark(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Sync(ctx context.Context) error
	Resync(ctx context.Context) error
	Breakdowns(ctx context.Context) error
	Breakdown(ctx context.Context, args []string) error
	Contribute(ctx context.Context, args []string) error
	Autofill(ctx context.Context, args []string) error
	ShowConfig(ctx context.Context) error
	SetConfig(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the CardSync CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                  — show available commands
//	  - register              — create an account
//	  - login                 — authenticate
//	  - mark <card> <status>  — record progress (synced after login)
//	  - list                  — list local progress
//	  - breakdowns            — list cached term breakdowns
//	  - breakdown <card>      — show one breakdown
//	  - autofill <term>       — split a term into candidate fragments
//	  - exit | quit           — leave the program
//
//	Logged in, additionally:
//	  - sync                  — full pull-merge-push round-trip
//	  - resync                — flag the whole ledger dirty and sync
//	  - contribute <card>     — submit a breakdown to the shared dictionary
//	  - config                — show the server-distributed config
//	  - setconfig <url>       — push the managed server URL (admin)
//	  - logout                — log out
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cs> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: mark, (l)ist, sync, resync, breakdowns, breakdown, contribute, autofill, config, setconfig, logout, exit")
			} else {
				printlnFn("Available commands: register, login, mark, (l)ist, breakdowns, breakdown, autofill, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "mark":
			_ = a.Mark(ctx, args)

		case "l", "list":
			_ = a.List(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "resync":
			_ = a.Resync(ctx)

		case "breakdowns":
			_ = a.Breakdowns(ctx)

		case "breakdown":
			_ = a.Breakdown(ctx, args)

		case "contribute":
			_ = a.Contribute(ctx, args)

		case "autofill":
			_ = a.Autofill(ctx, args)

		case "config":
			_ = a.ShowConfig(ctx)

		case "setconfig":
			_ = a.SetConfig(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
