package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/biztoolkit/internal/client/api"
	"github.com/dmitrijs2005/biztoolkit/internal/client/storage"
)

// fakeAPI returns preset outputs and records inputs. A nil func field
// answers with errNotConfigured.
type fakeAPI struct {
	mu sync.Mutex

	loginFn    func(ctx context.Context, c api.Credentials) (*api.AuthResponse, error)
	registerFn func(ctx context.Context, in api.RegisterInput) (*api.AuthResponse, error)
	profileFn  func(ctx context.Context) (*api.User, error)
	updateFn   func(ctx context.Context, u api.ProfileUpdate) (api.UserFields, error)
	verifyFn   func(ctx context.Context) error

	logins   []api.Credentials
	updates  []api.ProfileUpdate
	profiles int
}

var errNotConfigured = errors.New("fake: not configured")

func (f *fakeAPI) Login(ctx context.Context, c api.Credentials) (*api.AuthResponse, error) {
	f.mu.Lock()
	f.logins = append(f.logins, c)
	fn := f.loginFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errNotConfigured
	}
	return fn(ctx, c)
}

func (f *fakeAPI) Register(ctx context.Context, in api.RegisterInput) (*api.AuthResponse, error) {
	if f.registerFn == nil {
		return nil, errNotConfigured
	}
	return f.registerFn(ctx, in)
}

func (f *fakeAPI) GetProfile(ctx context.Context) (*api.User, error) {
	f.mu.Lock()
	f.profiles++
	f.mu.Unlock()
	if f.profileFn == nil {
		return nil, errNotConfigured
	}
	return f.profileFn(ctx)
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, u api.ProfileUpdate) (api.UserFields, error) {
	f.mu.Lock()
	f.updates = append(f.updates, u)
	f.mu.Unlock()
	if f.updateFn == nil {
		return nil, errNotConfigured
	}
	return f.updateFn(ctx, u)
}

func (f *fakeAPI) VerifyToken(ctx context.Context) error {
	if f.verifyFn == nil {
		return errNotConfigured
	}
	return f.verifyFn(ctx)
}

func (f *fakeAPI) Ping(context.Context) error { return nil }

func (f *fakeAPI) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logins)
}

// failingStore wraps a MemoryStore and fails the configured operations.
type failingStore struct {
	*storage.MemoryStore
	getErr error
	setErr error
}

func (s *failingStore) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func authOK(token, name string) func(context.Context, api.Credentials) (*api.AuthResponse, error) {
	return func(context.Context, api.Credentials) (*api.AuthResponse, error) {
		return &api.AuthResponse{Token: token, User: api.User{ID: "id-" + name, Name: name}}, nil
	}
}

// swapHandler serves through whichever handler was set last.
type swapHandler struct {
	mu   sync.RWMutex
	next http.Handler
}

func (h *swapHandler) set(next http.Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = next
}

func (h *swapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	next := h.next
	h.mu.RUnlock()
	next.ServeHTTP(w, r)
}

// loginGate holds the first login request whose body contains marker until
// release is closed.
type loginGate struct {
	next    http.Handler
	marker  []byte
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newLoginGate(next http.Handler, marker string) *loginGate {
	return &loginGate{
		next:    next,
		marker:  []byte(marker),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *loginGate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/auth/login" {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		if bytes.Contains(body, g.marker) {
			held := false
			g.once.Do(func() { held = true })
			if held {
				close(g.entered)
				<-g.release
			}
		}
	}
	g.next.ServeHTTP(w, r)
}
