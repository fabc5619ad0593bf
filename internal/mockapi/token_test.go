package mockapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", secret, time.Hour, time.Now())
	require.NoError(t, err)

	got, err := UserIDFromToken(tok, secret)
	require.NoError(t, err)
	require.Equal(t, "user-123", got)
}

func TestUserIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("u1", secret, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = UserIDFromToken(tok, secret)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestUserIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", []byte("right-secret"), time.Hour, time.Now())
	require.NoError(t, err)

	_, err = UserIDFromToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserIDFromToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := UserIDFromToken("not.a.jwt", []byte("k"))
	require.ErrorIs(t, err, ErrInvalidToken)
}
