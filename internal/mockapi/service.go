package mockapi

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service implements the auth flows on top of a UserStore.
type Service struct {
	users         *UserStore
	secret        []byte
	tokenValidity time.Duration
	bcryptCost    int
	now           func() time.Time
}

func NewService(users *UserStore, secret []byte, tokenValidity time.Duration) *Service {
	return &Service{
		users:         users,
		secret:        secret,
		tokenValidity: tokenValidity,
		bcryptCost:    bcrypt.DefaultCost,
		now:           time.Now,
	}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePatch is a partial profile. Nil members are left unchanged.
type ProfilePatch struct {
	Name            *string          `json:"name,omitempty"`
	Email           *string          `json:"email,omitempty"`
	BusinessProfile *BusinessProfile `json:"businessProfile,omitempty"`
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func (s *Service) Register(in RegisterInput) (string, User, error) {
	if len(strings.TrimSpace(in.Name)) < minNameLength {
		return "", User{}, ErrNameTooShort
	}
	if err := validateEmail(in.Email); err != nil {
		return "", User{}, err
	}
	if len(in.Password) < minPasswordLength {
		return "", User{}, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return "", User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		CreatedAt:    s.now(),
		PasswordHash: hash,
	})
	if err != nil {
		return "", User{}, err
	}

	token, err := GenerateToken(u.ID, s.secret, s.tokenValidity, s.now())
	if err != nil {
		return "", User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// Login checks the password and issues a fresh token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(email, password string) (string, User, error) {
	if err := validateEmail(email); err != nil {
		return "", User{}, err
	}

	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(u.ID, s.secret, s.tokenValidity, s.now())
	if err != nil {
		return "", User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(token string) (User, error) {
	if token == "" {
		return User{}, ErrMissingToken
	}
	id, err := UserIDFromToken(token, s.secret)
	if err != nil {
		return User{}, err
	}
	return s.users.GetByID(id)
}

func (s *Service) Profile(userID string) (User, error) {
	return s.users.GetByID(userID)
}

// UpdateProfile applies patch and returns the updated user together with
// the JSON names of the members that were part of the patch.
func (s *Service) UpdateProfile(userID string, patch ProfilePatch) (User, []string, error) {
	var changed []string

	if patch.Name != nil {
		if len(strings.TrimSpace(*patch.Name)) < minNameLength {
			return User{}, nil, ErrNameTooShort
		}
		changed = append(changed, "name")
	}
	if patch.Email != nil {
		if err := validateEmail(*patch.Email); err != nil {
			return User{}, nil, err
		}
		changed = append(changed, "email")
	}
	if patch.BusinessProfile != nil {
		changed = append(changed, "businessProfile")
	}

	u, err := s.users.Update(userID, func(u *User) {
		if patch.Name != nil {
			u.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil {
			u.Email = *patch.Email
		}
		if patch.BusinessProfile != nil {
			u.BusinessProfile = *patch.BusinessProfile
		}
	})
	if err != nil {
		return User{}, nil, err
	}
	return u, changed, nil
}
