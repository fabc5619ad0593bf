package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/biztoolkit/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenValidity = 24 * time.Hour
	DefaultSecret        = "mockapi-development-secret"

	maxBodyBytes = 1 << 20
)

type ctxKey int

const userIDKey ctxKey = iota

// Handler serves the auth endpoints under /api.
type Handler struct {
	svc    *Service
	logger logging.Logger
}

func NewHandler(svc *Service, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Options configures NewRouter. Zero values select the defaults.
type Options struct {
	Secret        []byte
	TokenValidity time.Duration
	// BcryptCost below bcrypt.MinCost falls back to bcrypt.DefaultCost.
	BcryptCost int
	Logger     logging.Logger
}

// NewRouter builds a ready-to-serve mock backend with its own user store.
func NewRouter(opts Options) http.Handler {
	if opts.TokenValidity <= 0 {
		opts.TokenValidity = DefaultTokenValidity
	}
	if len(opts.Secret) == 0 {
		opts.Secret = []byte(DefaultSecret)
	}
	svc := NewService(NewUserStore(), opts.Secret, opts.TokenValidity)
	if opts.BcryptCost >= bcrypt.MinCost {
		svc.bcryptCost = opts.BcryptCost
	}
	return NewHandler(svc, opts.Logger).Routes()
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAuth)
				r.Get("/profile", h.getProfile)
				r.Put("/profile", h.updateProfile)
				r.Post("/verify-token", h.verifyToken)
			})
		})
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		u, err := h.svc.Authenticate(strings.TrimSpace(token))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type userResponse struct {
	User any `json:"user"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, ErrInvalidBody)
		return
	}

	token, u, err := h.svc.Register(in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: u})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, ErrInvalidBody)
		return
	}

	token, u, err := h.svc.Login(in.Email, in.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Profile(userIDFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: u})
}

// updateProfile answers with the id plus only the members that changed.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, ErrInvalidBody)
		return
	}

	u, changed, err := h.svc.UpdateProfile(userIDFrom(r.Context()), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	partial := map[string]any{"id": u.ID}
	for _, name := range changed {
		switch name {
		case "name":
			partial[name] = u.Name
		case "email":
			partial[name] = u.Email
		case "businessProfile":
			partial[name] = u.BusinessProfile
		}
	}
	writeJSON(w, http.StatusOK, userResponse{User: partial})
}

func (h *Handler) verifyToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "userId": userIDFrom(r.Context())})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	pe := toPublic(err)
	if pe.status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, pe.status, map[string]string{"message": pe.message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
