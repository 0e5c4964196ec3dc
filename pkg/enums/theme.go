package enums

import "fmt"

// Theme is the persisted display preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// String returns the literal string for the theme.
func (t Theme) String() string {
	return string(t)
}

// IsValid reports whether the theme is known.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme converts raw input into a Theme.
func ParseTheme(value string) (Theme, error) {
	switch Theme(value) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("invalid theme %q", value)
}
