// Package preferences holds the client's cosmetic preferences and writes
// every change through to persistent storage.
//
// Two OS signals are mirrored into the state: reduced motion for the whole
// lifetime of the container, dark mode only while the theme is auto.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/biztoolkit/internal/client/state"
	"github.com/dmitrijs2005/biztoolkit/internal/client/storage"
	"github.com/dmitrijs2005/biztoolkit/internal/client/system"
	"github.com/dmitrijs2005/biztoolkit/internal/logging"
)

// Service is the preference state container.
type Service struct {
	store  storage.Store
	env    system.Environment
	logger logging.Logger

	st *state.Store[State, Action]

	// mu serializes persistence, dispatch and the OS subscriptions.
	mu         sync.Mutex
	closed     bool
	stopMotion func()
	stopDark   func()
}

// New hydrates the container from store and attaches the OS signals of
// env. Stored values that are missing or not understood fall back to the
// defaults.
func New(ctx context.Context, store storage.Store, env system.Environment, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	if env == nil {
		env = system.NewStaticEnvironment()
	}

	s := &Service{store: store, env: env, logger: logger}

	initial := s.hydrate(ctx)
	motion := env.Query(system.QueryReducedMotion)
	initial.SystemReducedMotion = motion.Matches()
	s.st = state.New(initial, Reduce)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopMotion = motion.Subscribe(s.onReducedMotion)
	if initial.Theme == ThemeAuto {
		s.attachDark()
	}
	return s
}

func (s *Service) hydrate(ctx context.Context) State {
	st := Defaults()

	read := func(key string) (string, bool) {
		v, err := s.store.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				s.logger.Error(ctx, "failed to read preference", "key", key, "error", err)
			}
			return "", false
		}
		return v, true
	}

	if v, ok := read(storage.KeyTheme); ok {
		if t, err := ParseTheme(v); err == nil {
			st.Theme = t
		} else {
			s.logger.Warn(ctx, "ignoring stored preference", "key", storage.KeyTheme, "value", v)
		}
	}
	if v, ok := read(storage.KeyColorScheme); ok {
		if c, err := ParseColorScheme(v); err == nil {
			st.ColorScheme = c
		} else {
			s.logger.Warn(ctx, "ignoring stored preference", "key", storage.KeyColorScheme, "value", v)
		}
	}
	if v, ok := read(storage.KeyFontSize); ok {
		if f, err := ParseFontSize(v); err == nil {
			st.FontSize = f
		} else {
			s.logger.Warn(ctx, "ignoring stored preference", "key", storage.KeyFontSize, "value", v)
		}
	}
	if v, ok := read(storage.KeyAnimations); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			st.AnimationsEnabled = b
		} else {
			s.logger.Warn(ctx, "ignoring stored preference", "key", storage.KeyAnimations, "value", v)
		}
	}
	return st
}

// State returns the current snapshot.
func (s *Service) State() State {
	return s.st.State()
}

// Subscribe registers fn for every subsequent snapshot. fn must not call
// back into s.
func (s *Service) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.st.Subscribe(fn)
}

// Close detaches the OS subscriptions. Later operations fail with
// ErrClosed. Close is idempotent.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopMotion()
	s.detachDark()
}

func (s *Service) SetTheme(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, t)
	}
	return s.apply(ctx, storage.KeyTheme, string(t), themeSet{Theme: t}, func() {
		if t == ThemeAuto {
			s.attachDark()
		} else {
			s.detachDark()
		}
	})
}

func (s *Service) SetColorScheme(ctx context.Context, c ColorScheme) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidColorScheme, c)
	}
	return s.apply(ctx, storage.KeyColorScheme, string(c), colorSchemeSet{ColorScheme: c}, nil)
}

func (s *Service) SetFontSize(ctx context.Context, f FontSize) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFontSize, f)
	}
	return s.apply(ctx, storage.KeyFontSize, string(f), fontSizeSet{FontSize: f}, nil)
}

func (s *Service) ToggleAnimations(ctx context.Context) error {
	return s.applyLocked(ctx, func() error {
		next := !s.st.State().AnimationsEnabled
		return s.store.Set(ctx, storage.KeyAnimations, strconv.FormatBool(next))
	}, animationsToggled{}, nil)
}

// ResetAll restores the user-settable defaults and removes their persisted
// keys in one transaction. The reduced-motion mirror is kept.
func (s *Service) ResetAll(ctx context.Context) error {
	return s.applyLocked(ctx, func() error {
		return s.store.DeleteMany(ctx, storage.PreferenceKeys...)
	}, preferencesReset{}, s.detachDark)
}

func (s *Service) apply(ctx context.Context, key, value string, a Action, after func()) error {
	return s.applyLocked(ctx, func() error {
		return s.store.Set(ctx, key, value)
	}, a, after)
}

// applyLocked persists, then dispatches, then runs after, all under s.mu.
// A persistence failure leaves the state unchanged.
func (s *Service) applyLocked(ctx context.Context, persist func() error, a Action, after func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if err := persist(); err != nil {
		s.logger.Error(ctx, "failed to persist preferences", "error", err)
		return fmt.Errorf("persist preferences: %w", err)
	}
	next := s.st.Dispatch(a)
	if after != nil {
		after()
	}
	s.logger.Debug(ctx, "preferences changed",
		"theme", next.Theme, "color_scheme", next.ColorScheme,
		"font_size", next.FontSize, "animations", next.AnimationsEnabled)
	return nil
}

// attachDark starts mirroring OS dark mode. Must be called under s.mu.
func (s *Service) attachDark() {
	if s.stopDark != nil {
		return
	}
	q := s.env.Query(system.QueryDarkScheme)
	s.stopDark = q.Subscribe(s.onSystemDark)
	s.st.Dispatch(systemDarkChanged{Matches: q.Matches()})
}

// detachDark stops mirroring OS dark mode. Must be called under s.mu.
func (s *Service) detachDark() {
	if s.stopDark == nil {
		return
	}
	s.stopDark()
	s.stopDark = nil
}

func (s *Service) onReducedMotion(matches bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.st.Dispatch(reducedMotionChanged{Matches: matches})
}

func (s *Service) onSystemDark(matches bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.stopDark == nil {
		return
	}
	s.st.Dispatch(systemDarkChanged{Matches: matches})
}
