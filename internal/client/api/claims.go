package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the client can read out of its bearer token.
type Claims struct {
	UserID    string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token had expired at now. Tokens without an
// expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId,omitempty"`
}

// ParseClaims decodes a JWT bearer token without verifying its signature;
// the server remains the authority on validity.
func ParseClaims(token string) (*Claims, error) {
	tc := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, tc); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}

	c := &Claims{UserID: tc.UserID, Subject: tc.Subject}
	if tc.IssuedAt != nil {
		c.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}
