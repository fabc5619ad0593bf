package preferences

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTheme       = errors.New("invalid theme")
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	ErrInvalidFontSize    = errors.New("invalid font size")
	ErrClosed             = errors.New("preferences: closed")
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

var themes = []Theme{ThemeLight, ThemeDark, ThemeAuto}

func Themes() []Theme {
	return append([]Theme(nil), themes...)
}

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

func ParseTheme(s string) (Theme, error) {
	if t := Theme(s); t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

type ColorScheme string

const (
	ColorSchemeDefault ColorScheme = "default"
	ColorSchemeBlue    ColorScheme = "blue"
	ColorSchemeGreen   ColorScheme = "green"
	ColorSchemePurple  ColorScheme = "purple"
	ColorSchemeWarm    ColorScheme = "warm"
)

// Palette is the set of colours a color scheme stands for.
type Palette struct {
	Scheme    ColorScheme
	Name      string
	Primary   string
	Secondary string
	Accent    string
}

var palettes = []Palette{
	{Scheme: ColorSchemeDefault, Name: "Default", Primary: "#7c6df2", Secondary: "#f97316", Accent: "#14b8a6"},
	{Scheme: ColorSchemeBlue, Name: "Ocean Blue", Primary: "#3b82f6", Secondary: "#06b6d4", Accent: "#8b5cf6"},
	{Scheme: ColorSchemeGreen, Name: "Nature Green", Primary: "#22c55e", Secondary: "#84cc16", Accent: "#f59e0b"},
	{Scheme: ColorSchemePurple, Name: "Royal Purple", Primary: "#8b5cf6", Secondary: "#ec4899", Accent: "#f97316"},
	{Scheme: ColorSchemeWarm, Name: "Warm Sunset", Primary: "#f59e0b", Secondary: "#ef4444", Accent: "#8b5cf6"},
}

// Palettes lists every color scheme in display order.
func Palettes() []Palette {
	return append([]Palette(nil), palettes...)
}

// PaletteFor returns the palette of c, or false for an unknown scheme.
func PaletteFor(c ColorScheme) (Palette, bool) {
	for _, p := range palettes {
		if p.Scheme == c {
			return p, true
		}
	}
	return Palette{}, false
}

func (c ColorScheme) Valid() bool {
	_, ok := PaletteFor(c)
	return ok
}

func ParseColorScheme(s string) (ColorScheme, error) {
	if c := ColorScheme(s); c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidColorScheme, s)
}

type FontSize string

const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
	FontSizeXLarge FontSize = "xlarge"
)

// FontScale is the text scale factor a font size stands for.
type FontScale struct {
	Size  FontSize
	Name  string
	Scale float64
}

var fontScales = []FontScale{
	{Size: FontSizeSmall, Name: "Small", Scale: 0.875},
	{Size: FontSizeMedium, Name: "Medium", Scale: 1},
	{Size: FontSizeLarge, Name: "Large", Scale: 1.125},
	{Size: FontSizeXLarge, Name: "Extra Large", Scale: 1.25},
}

// FontScales lists every font size from smallest to largest.
func FontScales() []FontScale {
	return append([]FontScale(nil), fontScales...)
}

func FontScaleFor(f FontSize) (FontScale, bool) {
	for _, s := range fontScales {
		if s.Size == f {
			return s, true
		}
	}
	return FontScale{}, false
}

func (f FontSize) Valid() bool {
	_, ok := FontScaleFor(f)
	return ok
}

func ParseFontSize(s string) (FontSize, error) {
	if f := FontSize(s); f.Valid() {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFontSize, s)
}
