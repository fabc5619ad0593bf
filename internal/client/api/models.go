package api

import (
	"encoding/json"
	"fmt"
)

// BusinessProfile is the business attached to a user during onboarding.
type BusinessProfile struct {
	BusinessName        string `json:"businessName,omitempty"`
	Industry            string `json:"industry,omitempty"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

// User is the profile object returned by the backend. Members this client
// does not model are kept in Extra and survive a round trip.
type User struct {
	ID              string           `json:"id,omitempty"`
	Name            string           `json:"name,omitempty"`
	Email           string           `json:"email,omitempty"`
	BusinessProfile *BusinessProfile `json:"businessProfile,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownUserFields = []string{"id", "name", "email", "businessProfile"}

type plainUser User

func (u User) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(plainUser(u))
	if err != nil || len(u.Extra) == 0 {
		return base, err
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range u.Extra {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

func (u *User) UnmarshalJSON(b []byte) error {
	var p plainUser
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for _, k := range knownUserFields {
		delete(m, k)
	}
	if len(m) > 0 {
		p.Extra = m
	} else {
		p.Extra = nil
	}

	*u = User(p)
	return nil
}

// NeedsOnboarding reports whether the business profile is still incomplete.
func (u User) NeedsOnboarding() bool {
	return u.BusinessProfile == nil || !u.BusinessProfile.OnboardingCompleted
}

// UserFields is a user object as its raw top-level members, as returned by
// a partial profile update.
type UserFields map[string]json.RawMessage

// Merge overlays patch onto u member by member: members present in patch
// replace those in u, all others are kept. Nested objects are replaced
// whole.
func (u User) Merge(patch UserFields) (User, error) {
	if len(patch) == 0 {
		return u, nil
	}

	b, err := json.Marshal(u)
	if err != nil {
		return User{}, err
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &m); err != nil {
		return User{}, err
	}
	for k, v := range patch {
		m[k] = v
	}

	merged, err := json.Marshal(m)
	if err != nil {
		return User{}, err
	}
	var out User
	if err := json.Unmarshal(merged, &out); err != nil {
		return User{}, fmt.Errorf("merge user: %w", err)
	}
	return out, nil
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the registration request body.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the partial profile sent to PUT /auth/profile.
// Nil members are not sent.
type ProfileUpdate struct {
	Name            *string          `json:"name,omitempty"`
	Email           *string          `json:"email,omitempty"`
	BusinessProfile *BusinessProfile `json:"businessProfile,omitempty"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
