package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestReadAppearance(t *testing.T) {
	dir := t.TempDir()

	a, err := ReadAppearance(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Appearance{}, a)

	p := filepath.Join(dir, "appearance.yaml")
	writeFile(t, p, "reduced_motion: true\ncolor_scheme: dark\n")
	a, err = ReadAppearance(p)
	require.NoError(t, err)
	assert.Equal(t, Appearance{ReducedMotion: true, ColorScheme: "dark"}, a)

	writeFile(t, p, "color_scheme: sepia\n")
	_, err = ReadAppearance(p)
	require.Error(t, err)

	writeFile(t, p, "reduced_motion: [\n")
	_, err = ReadAppearance(p)
	require.Error(t, err)
}

func TestFileEnvironment_InitialValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), "appearance.yaml")
	writeFile(t, p, "reduced_motion: true\ncolor_scheme: dark\n")

	env, err := NewFileEnvironment(p, nil)
	require.NoError(t, err)
	defer env.Close()

	assert.True(t, env.Query(QueryReducedMotion).Matches())
	assert.True(t, env.Query(QueryDarkScheme).Matches())
}

func TestFileEnvironment_FollowsChanges(t *testing.T) {
	p := filepath.Join(t.TempDir(), "appearance.yaml")

	env, err := NewFileEnvironment(p, nil)
	require.NoError(t, err)
	defer env.Close()

	motion := env.Query(QueryReducedMotion)
	require.False(t, motion.Matches())

	changed := make(chan bool, 16)
	motion.Subscribe(func(v bool) { changed <- v })

	writeFile(t, p, "reduced_motion: true\n")
	require.Eventually(t, motion.Matches, 5*time.Second, 10*time.Millisecond)
	assert.True(t, <-changed)

	require.NoError(t, os.Remove(p))
	require.Eventually(t, func() bool { return !motion.Matches() }, 5*time.Second, 10*time.Millisecond)
}

func TestFileEnvironment_KeepsValuesOnBrokenFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "appearance.yaml")
	writeFile(t, p, "color_scheme: dark\n")

	env, err := NewFileEnvironment(p, nil)
	require.NoError(t, err)
	defer env.Close()

	writeFile(t, p, "color_scheme: neon\n")
	time.Sleep(100 * time.Millisecond)
	assert.True(t, env.Query(QueryDarkScheme).Matches())
}

func TestFileEnvironment_MissingDirectory(t *testing.T) {
	_, err := NewFileEnvironment(filepath.Join(t.TempDir(), "nope", "appearance.yaml"), nil)
	require.Error(t, err)
}

func TestFileEnvironment_CloseIsIdempotent(t *testing.T) {
	env, err := NewFileEnvironment(filepath.Join(t.TempDir(), "appearance.yaml"), nil)
	require.NoError(t, err)
	require.NoError(t, env.Close())
	require.NoError(t, env.Close())
}
