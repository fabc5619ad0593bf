package mockapi

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BusinessProfile mirrors the onboarding data stored per user.
type BusinessProfile struct {
	BusinessName        string `json:"businessName,omitempty"`
	Industry            string `json:"industry,omitempty"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	BusinessProfile BusinessProfile `json:"businessProfile"`
	CreatedAt       time.Time       `json:"createdAt"`

	PasswordHash []byte `json:"-"`
}

// UserStore keeps users in memory, indexed by id and by lowercased email.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create assigns an id and stores u. The email must be unused.
func (s *UserStore) Create(u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(u.Email)
	if _, ok := s.byEmail[key]; ok {
		return User{}, ErrUserExists
	}

	u.ID = uuid.NewString()
	u.Email = key
	stored := u
	s.byID[u.ID] = &stored
	s.byEmail[key] = u.ID
	return u, nil
}

func (s *UserStore) GetByID(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return *u, nil
}

func (s *UserStore) GetByEmail(email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return *s.byID[id], nil
}

// Update applies fn to the stored user under the write lock. Email changes
// are re-indexed and must not collide with another account.
func (s *UserStore) Update(id string, fn func(*User)) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}

	next := *u
	fn(&next)
	next.Email = normalizeEmail(next.Email)

	if next.Email != u.Email {
		if owner, taken := s.byEmail[next.Email]; taken && owner != id {
			return User{}, ErrUserExists
		}
		delete(s.byEmail, u.Email)
		s.byEmail[next.Email] = id
	}

	*u = next
	return next, nil
}
