package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Mark(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "mark")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Sync(ctx context.Context) error { f.calls = append(f.calls, "sync"); return nil }
func (f *fakeExec) Resync(ctx context.Context) error {
	f.calls = append(f.calls, "resync")
	return nil
}
func (f *fakeExec) Breakdowns(ctx context.Context) error {
	f.calls = append(f.calls, "breakdowns")
	return nil
}
func (f *fakeExec) Breakdown(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "breakdown")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Contribute(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "contribute")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Autofill(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "autofill")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) ShowConfig(ctx context.Context) error {
	f.calls = append(f.calls, "config")
	return nil
}
func (f *fakeExec) SetConfig(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "setconfig")
	f.args = append(f.args, args)
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"mark abc123 learned",
		"list",
		"breakdown abc123",
		"sync",
		"resync",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "mark", "list", "breakdown", "sync", "resync"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_ArgsPassedThrough(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("mark abc123 unsure\nautofill dampf-schiff\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.args) != 2 {
		t.Fatalf("unexpected args: %v", exec.args)
	}
	if got := strings.Join(exec.args[0], " "); got != "abc123 unsure" {
		t.Fatalf("mark args: %q", got)
	}
	if got := strings.Join(exec.args[1], " "); got != "dampf-schiff" {
		t.Fatalf("autofill args: %q", got)
	}
}

func TestRunREPL_EmptyLinesAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("\n   \nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
