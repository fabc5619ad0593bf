package preferences

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/biztoolkit/internal/client/storage"
	"github.com/dmitrijs2005/biztoolkit/internal/client/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newService(t *testing.T, store storage.Store, env *system.StaticEnvironment) *Service {
	t.Helper()
	s := New(context.Background(), store, env, nil)
	t.Cleanup(s.Close)
	return s
}

func stored(t *testing.T, store storage.Store, key string) (string, bool) {
	t.Helper()
	v, err := store.Get(context.Background(), key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

type failingStore struct {
	*storage.MemoryStore
	err error
}

func (f *failingStore) Set(context.Context, string, string) error   { return f.err }
func (f *failingStore) DeleteMany(context.Context, ...string) error { return f.err }

func TestNew_Defaults(t *testing.T) {
	s := newService(t, storage.NewMemoryStore(), system.NewStaticEnvironment())
	assert.Equal(t, Defaults(), s.State())
	assert.True(t, s.State().EffectiveMotion())
}

func TestNew_HydratesAndIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.KeyTheme, "dark"))
	require.NoError(t, store.Set(ctx, storage.KeyColorScheme, "neon"))
	require.NoError(t, store.Set(ctx, storage.KeyFontSize, "large"))
	require.NoError(t, store.Set(ctx, storage.KeyAnimations, "maybe"))

	s := newService(t, store, system.NewStaticEnvironment())
	assert.Equal(t, State{
		Theme:             ThemeDark,
		ColorScheme:       ColorSchemeDefault,
		FontSize:          FontSizeLarge,
		AnimationsEnabled: true,
	}, s.State())
}

func TestSetters_WriteThrough(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := newService(t, store, system.NewStaticEnvironment())

	require.NoError(t, s.SetTheme(ctx, ThemeDark))
	require.NoError(t, s.SetColorScheme(ctx, ColorSchemePurple))
	require.NoError(t, s.SetFontSize(ctx, FontSizeSmall))
	require.NoError(t, s.ToggleAnimations(ctx))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		storage.KeyTheme:       "dark",
		storage.KeyColorScheme: "purple",
		storage.KeyFontSize:    "small",
		storage.KeyAnimations:  "false",
	}, all)

	require.NoError(t, s.ToggleAnimations(ctx))
	v, _ := stored(t, store, storage.KeyAnimations)
	assert.Equal(t, "true", v)
	assert.True(t, s.State().AnimationsEnabled)
}

func TestSetters_RejectInvalidLiterals(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := newService(t, store, system.NewStaticEnvironment())

	require.ErrorIs(t, s.SetTheme(ctx, "sepia"), ErrInvalidTheme)
	require.ErrorIs(t, s.SetColorScheme(ctx, "neon"), ErrInvalidColorScheme)
	require.ErrorIs(t, s.SetFontSize(ctx, "huge"), ErrInvalidFontSize)

	assert.Equal(t, Defaults(), s.State())
	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSetters_PersistFailureLeavesState(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: storage.NewMemoryStore(), err: errors.New("disk full")}
	s := newService(t, store, system.NewStaticEnvironment())

	require.Error(t, s.SetTheme(ctx, ThemeDark))
	require.Error(t, s.ToggleAnimations(ctx))
	require.Error(t, s.ResetAll(ctx))
	assert.Equal(t, Defaults(), s.State())
}

func TestRoundTrip_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	for _, theme := range Themes() {
		t.Run(string(theme), func(t *testing.T) {
			db, err := storage.Open(ctx, path)
			require.NoError(t, err)
			s := New(ctx, db, system.NewStaticEnvironment(), nil)
			require.NoError(t, s.SetTheme(ctx, theme))
			s.Close()
			require.NoError(t, db.Close())

			db, err = storage.Open(ctx, path)
			require.NoError(t, err)
			defer db.Close()
			reloaded := New(ctx, db, system.NewStaticEnvironment(), nil)
			defer reloaded.Close()
			assert.Equal(t, theme, reloaded.State().Theme)
		})
	}
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.KeyToken, "session-token"))

	env := system.NewStaticEnvironment()
	env.Set(system.QueryReducedMotion, true)
	s := newService(t, store, env)

	require.NoError(t, s.SetTheme(ctx, ThemeAuto))
	require.NoError(t, s.SetColorScheme(ctx, ColorSchemeWarm))
	require.NoError(t, s.SetFontSize(ctx, FontSizeXLarge))
	require.NoError(t, s.ToggleAnimations(ctx))

	require.NoError(t, s.ResetAll(ctx))

	want := Defaults()
	want.SystemReducedMotion = true
	assert.Equal(t, want, s.State())

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{storage.KeyToken: "session-token"}, all)
	assert.Equal(t, 0, env.Signal(system.QueryDarkScheme).Listeners())
}

func TestReducedMotionMirror(t *testing.T) {
	env := system.NewStaticEnvironment()
	s := newService(t, storage.NewMemoryStore(), env)
	require.True(t, s.State().AnimationsEnabled)
	require.True(t, s.State().EffectiveMotion())

	env.Set(system.QueryReducedMotion, true)
	assert.True(t, s.State().SystemReducedMotion)
	assert.False(t, s.State().EffectiveMotion())

	env.Set(system.QueryReducedMotion, false)
	assert.True(t, s.State().EffectiveMotion())
}

func TestReducedMotionReadAtStartup(t *testing.T) {
	env := system.NewStaticEnvironment()
	env.Set(system.QueryReducedMotion, true)

	s := newService(t, storage.NewMemoryStore(), env)
	assert.True(t, s.State().SystemReducedMotion)
}

func TestDarkModeSubscriptionFollowsAuto(t *testing.T) {
	ctx := context.Background()
	env := system.NewStaticEnvironment()
	dark := env.Signal(system.QueryDarkScheme)
	dark.Set(true)

	s := newService(t, storage.NewMemoryStore(), env)
	assert.Equal(t, 0, dark.Listeners())
	assert.False(t, s.State().IsDarkMode())

	require.NoError(t, s.SetTheme(ctx, ThemeAuto))
	assert.Equal(t, 1, dark.Listeners())
	assert.True(t, s.State().IsDarkMode())

	dark.Set(false)
	assert.Equal(t, ThemeLight, s.State().EffectiveTheme())
	dark.Set(true)
	assert.Equal(t, ThemeDark, s.State().EffectiveTheme())

	require.NoError(t, s.SetTheme(ctx, ThemeAuto))
	assert.Equal(t, 1, dark.Listeners(), "re-selecting auto must not subscribe twice")

	require.NoError(t, s.SetTheme(ctx, ThemeLight))
	assert.Equal(t, 0, dark.Listeners())
	dark.Set(false)
	dark.Set(true)
	assert.Equal(t, ThemeLight, s.State().EffectiveTheme())
}

func TestHydratedAutoSubscribes(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.KeyTheme, "auto"))

	env := system.NewStaticEnvironment()
	env.Set(system.QueryDarkScheme, true)

	s := newService(t, store, env)
	assert.True(t, s.State().IsDarkMode())
	assert.Equal(t, 1, env.Signal(system.QueryDarkScheme).Listeners())
}

func TestClose_DetachesEverything(t *testing.T) {
	ctx := context.Background()
	env := system.NewStaticEnvironment()
	s := New(ctx, storage.NewMemoryStore(), env, nil)
	require.NoError(t, s.SetTheme(ctx, ThemeAuto))

	s.Close()
	s.Close()

	assert.Equal(t, 0, env.Signal(system.QueryReducedMotion).Listeners())
	assert.Equal(t, 0, env.Signal(system.QueryDarkScheme).Listeners())

	before := s.State()
	env.Set(system.QueryReducedMotion, true)
	assert.Equal(t, before, s.State())
	require.ErrorIs(t, s.SetTheme(ctx, ThemeDark), ErrClosed)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := newService(t, storage.NewMemoryStore(), system.NewStaticEnvironment())

	var themes []Theme
	unsubscribe := s.Subscribe(func(st State) { themes = append(themes, st.Theme) })
	require.NoError(t, s.SetTheme(ctx, ThemeDark))
	unsubscribe()
	require.NoError(t, s.SetTheme(ctx, ThemeLight))

	assert.Equal(t, []Theme{ThemeDark}, themes)
}

func TestFileEnvironmentDrivesReducedMotion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appearance.yaml")

	env, err := system.NewFileEnvironment(path, nil)
	require.NoError(t, err)
	defer env.Close()

	s := New(context.Background(), storage.NewMemoryStore(), env, nil)
	defer s.Close()

	env.Set(system.QueryReducedMotion, true)
	assert.False(t, s.State().EffectiveMotion())
}
