package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_MergeIsShallow(t *testing.T) {
	prior := User{
		Name:            "A",
		Email:           "a@b.com",
		BusinessProfile: &BusinessProfile{BusinessName: "Acme", Industry: "retail", OnboardingCompleted: true},
	}

	merged, err := prior.Merge(UserFields{"name": json.RawMessage(`"B"`)})
	require.NoError(t, err)
	assert.Equal(t, "B", merged.Name)
	assert.Equal(t, "a@b.com", merged.Email)
	assert.Equal(t, prior.BusinessProfile, merged.BusinessProfile)

	merged, err = prior.Merge(UserFields{"businessProfile": json.RawMessage(`{"onboardingCompleted":false}`)})
	require.NoError(t, err)
	assert.Equal(t, &BusinessProfile{}, merged.BusinessProfile)
	assert.True(t, merged.NeedsOnboarding())
}

func TestUser_MergeKeepsUnknownMembers(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":"A","plan":"pro"}`), &u))

	merged, err := u.Merge(UserFields{"avatar": json.RawMessage(`"x.png"`)})
	require.NoError(t, err)
	assert.JSONEq(t, `"pro"`, string(merged.Extra["plan"]))
	assert.JSONEq(t, `"x.png"`, string(merged.Extra["avatar"]))

	b, err := json.Marshal(merged)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"A","plan":"pro","avatar":"x.png"}`, string(b))
}

func TestUser_MergeRejectsBadTypes(t *testing.T) {
	_, err := User{Name: "A"}.Merge(UserFields{"name": json.RawMessage(`42`)})
	require.Error(t, err)
}

func TestProfileUpdate_OmitsNilMembers(t *testing.T) {
	name := "B"
	b, err := json.Marshal(ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"B"}`, string(b))
}
