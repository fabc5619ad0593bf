package api

import "context"

// Client is the backend contract consumed by the state containers.
type Client interface {
	Login(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	GetProfile(ctx context.Context) (*User, error)
	// UpdateProfile returns the members of the user the server sent back.
	UpdateProfile(ctx context.Context, update ProfileUpdate) (UserFields, error)
	VerifyToken(ctx context.Context) error
	Ping(ctx context.Context) error
}

// TokenSource gives the transport access to the persisted bearer token.
type TokenSource interface {
	// Token returns "" when no token is persisted.
	Token(ctx context.Context) (string, error)
	// ClearToken removes the persisted token only if it is still token and
	// reports whether it did.
	ClearToken(ctx context.Context, token string) (bool, error)
}
