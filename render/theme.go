package render

import (
	"github.com/jedib0t/go-pretty/table"
)

const (
	THEME_DARK   = "dark"
	THEME_LIGHT  = "light"
	THEME_BRIGHT = "bright"
)

// Theme toggle order
var Themes = []string{THEME_DARK, THEME_LIGHT, THEME_BRIGHT}

// Table style of a theme, unknown themes render dark
func Style(theme string) table.Style {
	switch theme {
	case THEME_LIGHT:
		return table.StyleLight
	case THEME_BRIGHT:
		return table.StyleColoredBright
	}
	return table.StyleColoredDark
}

// Theme following the given one
func NextTheme(theme string) string {
	for i, t := range Themes {
		if t == theme {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
