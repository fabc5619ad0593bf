package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printFn and printlnFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printFn   = fmt.Print
	printlnFn = fmt.Println
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Update(ctx context.Context) error
	Verify(ctx context.Context) error
	Status(ctx context.Context) error
	ClearError(ctx context.Context) error
	Prefs(ctx context.Context) error
	Theme(ctx context.Context, name string) error
	Scheme(ctx context.Context, name string) error
	Font(ctx context.Context, size string) error
	Animations(ctx context.Context) error
	ResetPrefs(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, status, clear-error, prefs, theme, scheme, font, animations, reset-prefs, exit"
	helpLoggedIn  = "Available commands: profile, update, verify, logout, status, clear-error, prefs, theme, scheme, font, animations, reset-prefs, exit"
)

// sessionCommands need a signed-in user.
var sessionCommands = map[string]bool{
	"profile": true,
	"update":  true,
	"verify":  true,
	"logout":  true,
}

// runREPL starts a simple read-eval-print loop for the toolkit client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF, when ctx is done, or
// when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                        show available commands
//	  - status                      show session and connectivity
//	  - clear-error                 dismiss the last session error
//	  - prefs                       show display preferences
//	  - theme <light|dark|auto>     pick a theme
//	  - scheme <name>               pick a colour scheme
//	  - font <size>                 pick a font size
//	  - animations                  toggle animations
//	  - reset-prefs                 restore default preferences
//	  - exit | quit                 leave the program
//
//	Not logged in:
//	  - register, login
//
//	Logged in:
//	  - profile, update, verify, logout
//
// Errors the notifier has already shown are not printed again. When a
// command ends with the user signed out without asking for it, the REPL
// says so and falls back to the logged-out command set.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printFn(fmt.Sprintf("biz %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if sessionCommands[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first (type 'login').")
			continue
		}

		wasLoggedIn := a.isLoggedIn()
		var cmdErr error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "update":
			cmdErr = a.Update(ctx)
		case "verify":
			cmdErr = a.Verify(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "clear-error":
			cmdErr = a.ClearError(ctx)
		case "prefs":
			cmdErr = a.Prefs(ctx)

		case "theme":
			if len(args) == 0 {
				printlnFn("Usage: theme <light|dark|auto>")
				continue
			}
			cmdErr = a.Theme(ctx, args[0])
		case "scheme":
			if len(args) == 0 {
				printlnFn("Usage: scheme <name> (see 'prefs')")
				continue
			}
			cmdErr = a.Scheme(ctx, args[0])
		case "font":
			if len(args) == 0 {
				printlnFn("Usage: font <small|medium|large|xlarge>")
				continue
			}
			cmdErr = a.Font(ctx, args[0])

		case "animations":
			cmdErr = a.Animations(ctx)
		case "reset-prefs":
			cmdErr = a.ResetPrefs(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil && !errors.Is(cmdErr, errReported) {
			printlnFn("Error:", cmdErr)
		}
		if wasLoggedIn && !a.isLoggedIn() && cmd != "logout" {
			printlnFn("Your session has ended. Please log in again.")
		}
	}
}
