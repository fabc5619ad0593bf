package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string

	// err is returned by every command when set.
	err error
	// dropSession signs the user out during the next command.
	dropSession bool
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
	if f.dropSession {
		f.loggedIn = false
		f.dropSession = false
	}
	return f.err
}

func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Profile(context.Context) error    { return f.record("profile") }
func (f *fakeExec) Update(context.Context) error     { return f.record("update") }
func (f *fakeExec) Verify(context.Context) error     { return f.record("verify") }
func (f *fakeExec) Status(context.Context) error     { return f.record("status") }
func (f *fakeExec) ClearError(context.Context) error { return f.record("clear-error") }
func (f *fakeExec) Prefs(context.Context) error      { return f.record("prefs") }
func (f *fakeExec) Theme(_ context.Context, name string) error {
	return f.record("theme", name)
}
func (f *fakeExec) Scheme(_ context.Context, name string) error {
	return f.record("scheme", name)
}
func (f *fakeExec) Font(_ context.Context, size string) error {
	return f.record("font", size)
}
func (f *fakeExec) Animations(context.Context) error { return f.record("animations") }
func (f *fakeExec) ResetPrefs(context.Context) error { return f.record("reset-prefs") }

// captureOutput replaces the print seams and returns the printed lines.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint, origPrintln := printFn, printlnFn
	printFn = func(...any) (int, error) { return 0, nil }
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() {
		printFn, printlnFn = origPrint, origPrintln
	})
	return &lines
}

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, input(
		"help",
		"login",
		"help",
		"profile",
		"theme dark",
		"scheme blue",
		"font large",
		"animations",
		"prefs",
		"foobar",
		"logout",
		"exit",
	))

	assert.Equal(t, []string{"login", "profile", "theme", "scheme", "font", "animations", "prefs", "logout"}, exec.calls)
	assert.Equal(t, []string{"dark", "blue", "large"}, exec.args)

	assert.Contains(t, *out, helpLoggedOut)
	assert.Contains(t, *out, helpLoggedIn)
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_SessionCommandsNeedLogin(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, input("profile", "update", "verify", "logout", "quit"))

	assert.Empty(t, exec.calls)
	assert.Len(t, *out, 5)
	assert.Equal(t, "Please log in first (type 'login').", (*out)[0])
}

func TestRunREPL_UsageWithoutArgument(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, input("theme", "scheme", "font", "quit"))

	assert.Empty(t, exec.calls)
	assert.Equal(t, []string{
		"Usage: theme <light|dark|auto>",
		"Usage: scheme <name> (see 'prefs')",
		"Usage: font <small|medium|large|xlarge>",
		"Bye!",
	}, *out)
}

func TestRunREPL_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{name: "plain error is printed", err: errors.New("boom"), want: []string{"Error: boom", "Bye!"}},
		{name: "reported error is not repeated", err: fmt.Errorf("%w: Login failed", errReported), want: []string{"Bye!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t)
			exec := &fakeExec{err: tt.err}
			runREPL(context.Background(), exec, func() string { return "" }, input("status", "quit"))
			assert.Equal(t, tt.want, *out)
		})
	}
}

func TestRunREPL_SessionEnded(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true, dropSession: true}
	runREPL(context.Background(), exec, func() string { return "" }, input("verify", "help", "quit"))

	require.Equal(t, []string{"verify"}, exec.calls)
	assert.Equal(t, []string{
		"Your session has ended. Please log in again.",
		helpLoggedOut,
		"Bye!",
	}, *out)
}

func TestRunREPL_LogoutIsNotReportedAsEnded(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, input("logout", "quit"))

	assert.Equal(t, []string{"Bye!"}, *out)
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, input("status"))
	assert.Equal(t, []string{"status"}, exec.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, input("status", "status"))
	assert.Empty(t, exec.calls)
}
