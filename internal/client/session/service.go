package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/biztoolkit/internal/client/api"
	"github.com/dmitrijs2005/biztoolkit/internal/client/notify"
	"github.com/dmitrijs2005/biztoolkit/internal/client/state"
	"github.com/dmitrijs2005/biztoolkit/internal/client/storage"
	"github.com/dmitrijs2005/biztoolkit/internal/logging"
)

var (
	ErrClosed           = errors.New("session: closed")
	ErrSuperseded       = errors.New("session: superseded by a newer request")
	ErrNotAuthenticated = errors.New("session: not authenticated")
)

const (
	msgLoadFailed     = "Failed to load user"
	msgLoginFailed    = "Login failed"
	msgRegisterFailed = "Registration failed"
	msgUpdateFailed   = "Update failed"
	msgVerifyFailed   = "Token verification failed"

	msgLoginOK    = "Login successful!"
	msgRegisterOK = "Registration successful!"
	msgLogoutOK   = "Logged out successfully"
	msgUpdateOK   = "Profile updated successfully"
)

// Result is what a session operation reports to its caller.
type Result struct {
	Success bool
	// Error is the user-facing message. It is empty on success and when
	// the outcome was dropped with ErrClosed or ErrSuperseded.
	Error string
	// Err is the underlying cause, including ErrClosed and ErrSuperseded.
	Err error
}

func failure(msg string, err error) Result {
	return Result{Error: msg, Err: err}
}

// aborted reports an outcome nobody should be told about.
func aborted(err error) Result {
	return Result{Err: err}
}

// Service is the session state container.
type Service struct {
	api      api.Client
	store    storage.Store
	notifier notify.Notifier
	logger   logging.Logger

	st *state.Store[State, Action]

	// mu orders commits against seq and closed.
	mu     sync.Mutex
	seq    uint64
	closed bool

	lifetime context.Context
	cancel   context.CancelFunc
}

func New(client api.Client, store storage.Store, notifier notify.Notifier, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	lifetime, cancel := context.WithCancel(context.Background())
	return &Service{
		api:      client,
		store:    store,
		notifier: notifier,
		logger:   logger,
		st:       state.New(InitialState(), Reduce),
		lifetime: lifetime,
		cancel:   cancel,
	}
}

// State returns the current snapshot.
func (s *Service) State() State {
	return s.st.State()
}

// Subscribe registers fn for every subsequent snapshot. fn runs on the
// goroutine that caused the transition and must not call back into s.
func (s *Service) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.st.Subscribe(fn)
}

// Close cancels every in-flight call. Operations still running return
// ErrClosed without touching state. Close is idempotent.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// begin issues the next sequence number.
func (s *Service) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	s.seq++
	return s.seq, nil
}

// commit runs apply if seq is still the latest issued and the container is
// open. apply runs under s.mu so persistence and dispatch stay in step.
func (s *Service) commit(seq uint64, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if seq != s.seq {
		return ErrSuperseded
	}
	apply()
	return nil
}

// scope derives the context for one network call: caller values, the
// container's cancellation.
func (s *Service) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.lifetime, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

func (s *Service) discarded(ctx context.Context, op string, err error) Result {
	s.logger.Warn(ctx, "discarding response", "op", op, "reason", err)
	return aborted(err)
}

// forgetToken removes the persisted token. Must be called under s.mu.
func (s *Service) forgetToken(ctx context.Context) {
	if err := s.store.Delete(ctx, storage.KeyToken); err != nil {
		s.logger.Error(ctx, "failed to remove persisted token", "error", err)
	}
}

// Load restores the session from the persisted token. It is meant to run
// once at startup. A missing token is not a failure.
func (s *Service) Load(ctx context.Context) Result {
	seq, err := s.begin()
	if err != nil {
		return aborted(err)
	}
	if err := s.commit(seq, func() { s.st.Dispatch(requestStarted{}) }); err != nil {
		return s.discarded(ctx, "load", err)
	}

	token, err := s.store.Get(ctx, storage.KeyToken)
	switch {
	case errors.Is(err, storage.ErrNotFound) || (err == nil && token == ""):
		if err := s.commit(seq, func() { s.st.Dispatch(noSession{}) }); err != nil {
			return s.discarded(ctx, "load", err)
		}
		s.logger.Info(ctx, "no persisted session")
		return Result{}
	case err != nil:
		s.logger.Error(ctx, "failed to read persisted token", "error", err)
		if err := s.commit(seq, func() { s.st.Dispatch(storageFailed{Message: msgLoadFailed}) }); err != nil {
			return s.discarded(ctx, "load", err)
		}
		s.notifier.Error(msgLoadFailed)
		return failure(msgLoadFailed, err)
	}

	opCtx, done := s.scope(ctx)
	user, err := s.api.GetProfile(opCtx)
	done()

	if err != nil {
		msg := api.Message(err, msgLoadFailed)
		if cerr := s.commit(seq, func() {
			s.forgetToken(ctx)
			s.st.Dispatch(signInFailed{Message: msg})
		}); cerr != nil {
			return s.discarded(ctx, "load", cerr)
		}
		s.logger.Info(ctx, "persisted session rejected", "error", err)
		s.notifier.Error(msg)
		return failure(msg, err)
	}

	if err := s.commit(seq, func() { s.st.Dispatch(signedIn{Token: token, User: *user}) }); err != nil {
		return s.discarded(ctx, "load", err)
	}
	s.logger.Info(ctx, "session restored", "user_id", user.ID)
	return Result{Success: true}
}

// Login signs in with email and password.
func (s *Service) Login(ctx context.Context, email, password string) Result {
	return s.signIn(ctx, "login", msgLoginOK, msgLoginFailed, func(ctx context.Context) (*api.AuthResponse, error) {
		return s.api.Login(ctx, api.Credentials{Email: email, Password: password})
	})
}

// Register creates an account and signs in with it.
func (s *Service) Register(ctx context.Context, input api.RegisterInput) Result {
	return s.signIn(ctx, "register", msgRegisterOK, msgRegisterFailed, func(ctx context.Context) (*api.AuthResponse, error) {
		return s.api.Register(ctx, input)
	})
}

func (s *Service) signIn(ctx context.Context, op, okMsg, fallback string, call func(context.Context) (*api.AuthResponse, error)) Result {
	seq, err := s.begin()
	if err != nil {
		return aborted(err)
	}
	if err := s.commit(seq, func() { s.st.Dispatch(requestStarted{}) }); err != nil {
		return s.discarded(ctx, op, err)
	}

	opCtx, done := s.scope(ctx)
	resp, err := call(opCtx)
	done()

	if err != nil {
		msg := api.Message(err, fallback)
		if cerr := s.commit(seq, func() {
			s.forgetToken(ctx)
			s.st.Dispatch(signInFailed{Message: msg})
		}); cerr != nil {
			return s.discarded(ctx, op, cerr)
		}
		s.logger.Info(ctx, op+" failed", "error", err)
		s.notifier.Error(msg)
		return failure(msg, err)
	}

	var persistErr error
	if cerr := s.commit(seq, func() {
		if persistErr = s.store.Set(ctx, storage.KeyToken, resp.Token); persistErr != nil {
			s.forgetToken(ctx)
			s.st.Dispatch(signInFailed{Message: fallback})
			return
		}
		s.st.Dispatch(signedIn{Token: resp.Token, User: resp.User})
	}); cerr != nil {
		return s.discarded(ctx, op, cerr)
	}

	if persistErr != nil {
		s.logger.Error(ctx, "failed to persist token", "op", op, "error", persistErr)
		s.notifier.Error(fallback)
		return failure(fallback, persistErr)
	}

	s.logger.Info(ctx, op+" succeeded", "user_id", resp.User.ID)
	s.notifier.Success(okMsg)
	return Result{Success: true}
}

// Logout drops the session locally. It makes no network call and
// supersedes any operation still in flight.
func (s *Service) Logout() Result {
	ctx := context.Background()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return aborted(ErrClosed)
	}
	s.seq++
	s.forgetToken(ctx)
	s.st.Dispatch(loggedOut{})
	s.mu.Unlock()

	s.logger.Info(ctx, "logged out")
	s.notifier.Success(msgLogoutOK)
	return Result{Success: true}
}

// UpdateProfile sends a partial profile and merges the members the server
// returns into the current user. On failure the state is left as it was.
func (s *Service) UpdateProfile(ctx context.Context, update api.ProfileUpdate) Result {
	seq, err := s.begin()
	if err != nil {
		return aborted(err)
	}

	opCtx, done := s.scope(ctx)
	fields, err := s.api.UpdateProfile(opCtx, update)
	done()

	if err != nil {
		msg := api.Message(err, msgUpdateFailed)
		if cerr := s.commit(seq, func() {}); cerr != nil {
			return s.discarded(ctx, "update", cerr)
		}
		s.logger.Info(ctx, "profile update failed", "error", err)
		s.notifier.Error(msg)
		return failure(msg, err)
	}

	var applyErr error
	if err := s.commit(seq, func() {
		cur := s.st.State()
		if !cur.Authenticated() || cur.User == nil {
			applyErr = ErrNotAuthenticated
			return
		}
		if _, applyErr = cur.User.Merge(fields); applyErr != nil {
			return
		}
		s.st.Dispatch(userPatched{Fields: fields})
	}); err != nil {
		return s.discarded(ctx, "update", err)
	}
	if applyErr != nil {
		s.logger.Warn(ctx, "profile update not applied", "error", applyErr)
		s.notifier.Error(msgUpdateFailed)
		return failure(msgUpdateFailed, applyErr)
	}
	s.logger.Info(ctx, "profile updated")
	s.notifier.Success(msgUpdateOK)
	return Result{Success: true}
}

// VerifyToken asks the backend whether the persisted token is still valid.
// It changes no state itself; a rejected token is handled by the global
// 401 rule.
func (s *Service) VerifyToken(ctx context.Context) Result {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return aborted(ErrClosed)
	}

	opCtx, done := s.scope(ctx)
	err := s.api.VerifyToken(opCtx)
	done()

	if err != nil {
		return failure(api.Message(err, msgVerifyFailed), err)
	}
	return Result{Success: true}
}

// ClearError resets the error message only.
func (s *Service) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.st.Dispatch(errorCleared{})
}

// HandleUnauthorized is the handler for 401 responses from the API client.
// It forces the session to unauthenticated only while the session still
// holds rejected; a rejection of an older token leaves a newer session
// alone.
func (s *Service) HandleUnauthorized(rejected string) {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || rejected == "" {
		return
	}
	if s.st.State().Token != rejected {
		s.logger.Debug(ctx, "ignoring 401 for a stale token")
		return
	}
	s.st.Dispatch(unauthorized{})
	s.logger.Info(ctx, "session rejected by server")
}
