package preferences

// State is a snapshot of the preferences. The System fields mirror the
// operating system and are not user settable.
type State struct {
	Theme             Theme
	ColorScheme       ColorScheme
	FontSize          FontSize
	AnimationsEnabled bool

	SystemReducedMotion bool
	// SystemDark follows the OS dark mode while Theme is auto and is
	// false otherwise.
	SystemDark bool
}

// Defaults returns the user-settable defaults with both system flags off.
func Defaults() State {
	return State{
		Theme:             ThemeLight,
		ColorScheme:       ColorSchemeDefault,
		FontSize:          FontSizeMedium,
		AnimationsEnabled: true,
	}
}

// EffectiveMotion reports whether animations should play.
func (s State) EffectiveMotion() bool {
	return s.AnimationsEnabled && !s.SystemReducedMotion
}

// EffectiveTheme resolves auto against the OS dark mode.
func (s State) EffectiveTheme() Theme {
	if s.Theme != ThemeAuto {
		return s.Theme
	}
	if s.SystemDark {
		return ThemeDark
	}
	return ThemeLight
}

func (s State) IsDarkMode() bool {
	return s.EffectiveTheme() == ThemeDark
}

// Action is a preference transition.
type Action interface {
	preferenceAction()
}

type (
	themeSet             struct{ Theme Theme }
	colorSchemeSet       struct{ ColorScheme ColorScheme }
	fontSizeSet          struct{ FontSize FontSize }
	animationsToggled    struct{}
	reducedMotionChanged struct{ Matches bool }
	systemDarkChanged    struct{ Matches bool }
	// preferencesReset restores the user fields and keeps the OS mirrors.
	preferencesReset struct{}
)

func (themeSet) preferenceAction()             {}
func (colorSchemeSet) preferenceAction()       {}
func (fontSizeSet) preferenceAction()          {}
func (animationsToggled) preferenceAction()    {}
func (reducedMotionChanged) preferenceAction() {}
func (systemDarkChanged) preferenceAction()    {}
func (preferencesReset) preferenceAction()     {}

// Reduce is the preference reducer.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case themeSet:
		s.Theme = a.Theme
		if a.Theme != ThemeAuto {
			s.SystemDark = false
		}
	case colorSchemeSet:
		s.ColorScheme = a.ColorScheme
	case fontSizeSet:
		s.FontSize = a.FontSize
	case animationsToggled:
		s.AnimationsEnabled = !s.AnimationsEnabled
	case reducedMotionChanged:
		s.SystemReducedMotion = a.Matches
	case systemDarkChanged:
		s.SystemDark = a.Matches && s.Theme == ThemeAuto
	case preferencesReset:
		next := Defaults()
		next.SystemReducedMotion = s.SystemReducedMotion
		return next
	}
	return s
}
