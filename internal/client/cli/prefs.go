package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/biztoolkit/internal/client/preferences"
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Prefs prints the display preferences and the available choices.
func (a *App) Prefs(_ context.Context) error {
	st := a.prefs.State()

	theme := string(st.Theme)
	if st.Theme == preferences.ThemeAuto {
		theme = fmt.Sprintf("auto (%s)", st.EffectiveTheme())
	}
	fmt.Fprintf(a.out, "Theme:        %s\n", theme)

	scheme := string(st.ColorScheme)
	if p, ok := preferences.PaletteFor(st.ColorScheme); ok {
		scheme = fmt.Sprintf("%s (%s)", p.Scheme, p.Name)
	}
	fmt.Fprintf(a.out, "Color scheme: %s\n", scheme)

	font := string(st.FontSize)
	if fs, ok := preferences.FontScaleFor(st.FontSize); ok {
		font = fmt.Sprintf("%s (x%g)", fs.Size, fs.Scale)
	}
	fmt.Fprintf(a.out, "Font size:    %s\n", font)

	motion := onOff(st.AnimationsEnabled)
	if st.SystemReducedMotion {
		motion += ", reduced by system"
	}
	fmt.Fprintf(a.out, "Animations:   %s\n", motion)

	fmt.Fprint(a.out, "Schemes:     ")
	for _, p := range preferences.Palettes() {
		fmt.Fprintf(a.out, " %s", p.Scheme)
	}
	fmt.Fprint(a.out, "\nFont sizes:  ")
	for _, fs := range preferences.FontScales() {
		fmt.Fprintf(a.out, " %s", fs.Size)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *App) Theme(ctx context.Context, name string) error {
	t, err := preferences.ParseTheme(name)
	if err != nil {
		return err
	}
	if err := a.prefs.SetTheme(ctx, t); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Theme set to %s.\n", t)
	return nil
}

func (a *App) Scheme(ctx context.Context, name string) error {
	c, err := preferences.ParseColorScheme(name)
	if err != nil {
		return err
	}
	if err := a.prefs.SetColorScheme(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Color scheme set to %s.\n", c)
	return nil
}

func (a *App) Font(ctx context.Context, size string) error {
	f, err := preferences.ParseFontSize(size)
	if err != nil {
		return err
	}
	if err := a.prefs.SetFontSize(ctx, f); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Font size set to %s.\n", f)
	return nil
}

func (a *App) Animations(ctx context.Context) error {
	if err := a.prefs.ToggleAnimations(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Animations %s.\n", onOff(a.prefs.State().AnimationsEnabled))
	return nil
}

func (a *App) ResetPrefs(ctx context.Context) error {
	if err := a.prefs.ResetAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Preferences reset to defaults.")
	return nil
}
