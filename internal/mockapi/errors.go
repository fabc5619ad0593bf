package mockapi

import (
	"errors"
	"net/http"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrMissingToken       = errors.New("missing bearer token")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrNameTooShort       = errors.New("name too short")
	ErrInvalidBody        = errors.New("invalid request body")
)

type publicError struct {
	status  int
	message string
}

// publicErrors maps sentinels to the status and message clients see.
var publicErrors = map[error]publicError{
	ErrUserExists:         {http.StatusConflict, "User already exists with this email"},
	ErrInvalidCredentials: {http.StatusUnauthorized, "Invalid email or password"},
	ErrInvalidToken:       {http.StatusUnauthorized, "Invalid token"},
	ErrTokenExpired:       {http.StatusUnauthorized, "Token expired"},
	ErrMissingToken:       {http.StatusUnauthorized, "No token, authorization denied"},
	ErrUserNotFound:       {http.StatusUnauthorized, "User not found"},
	ErrEmailRequired:      {http.StatusBadRequest, "Email is required"},
	ErrInvalidEmail:       {http.StatusBadRequest, "Please enter a valid email address"},
	ErrPasswordTooShort:   {http.StatusBadRequest, "Password must be at least 6 characters"},
	ErrNameTooShort:       {http.StatusBadRequest, "Name must be at least 2 characters"},
	ErrInvalidBody:        {http.StatusBadRequest, "Invalid request body"},
}

func toPublic(err error) publicError {
	for sentinel, pe := range publicErrors {
		if errors.Is(err, sentinel) {
			return pe
		}
	}
	return publicError{http.StatusInternalServerError, "Server error"}
}
