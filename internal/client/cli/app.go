package cli

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/biztoolkit/internal/client/api"
	"github.com/dmitrijs2005/biztoolkit/internal/client/config"
	"github.com/dmitrijs2005/biztoolkit/internal/client/preferences"
	"github.com/dmitrijs2005/biztoolkit/internal/client/session"
	"github.com/dmitrijs2005/biztoolkit/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Session is the part of the session container the REPL drives.
type Session interface {
	State() session.State
	Load(ctx context.Context) session.Result
	Login(ctx context.Context, email, password string) session.Result
	Register(ctx context.Context, input api.RegisterInput) session.Result
	Logout() session.Result
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) session.Result
	VerifyToken(ctx context.Context) session.Result
	ClearError()
}

// Preferences is the part of the preference container the REPL drives.
type Preferences interface {
	State() preferences.State
	SetTheme(ctx context.Context, t preferences.Theme) error
	SetColorScheme(ctx context.Context, c preferences.ColorScheme) error
	SetFontSize(ctx context.Context, f preferences.FontSize) error
	ToggleAnimations(ctx context.Context) error
	ResetAll(ctx context.Context) error
}

// Pinger checks whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	session Session
	prefs   Preferences
	pinger  Pinger
	logger  logging.Logger

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp builds the REPL over already wired containers. Commands read from
// in and print to out.
func NewApp(c *config.Config, sess Session, prefs Preferences, p Pinger, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{
		config:  c,
		session: sess,
		prefs:   prefs,
		pinger:  p,
		logger:  logger,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

// Run loads the persisted session and serves the REPL until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	a.session.Load(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

// checkOnline pings the backend once and records the resulting mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.pinger.Ping(ctx)
	cancel()

	if err != nil {
		a.logger.Debug(ctx, "health check failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the backend every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
