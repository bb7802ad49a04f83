package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// variantTheme is the default theme pinned to one variant, whatever the
// system preference.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func newVariantTheme(v fyne.ThemeVariant) *variantTheme {
	return &variantTheme{Theme: theme.DefaultTheme(), variant: v}
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

// isDark reports the variant in effect: the pinned one if set, else the system's.
func isDark(a fyne.App) bool {
	if t, ok := a.Settings().Theme().(*variantTheme); ok {
		return t.variant == theme.VariantDark
	}
	return a.Settings().ThemeVariant() == theme.VariantDark
}
