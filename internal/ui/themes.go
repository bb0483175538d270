// Package ui holds the ANSI color themes shared by the CLI output and the
// usage text.
package ui

import (
	"os"
	"strings"
	"sync"
)

// ThemeEnvVar selects the palette when colors are enabled ("dark" or
// "light").
const ThemeEnvVar = "FIBMOD_THEME"

// Theme maps output roles to ANSI escape codes.
type Theme struct {
	Name      string
	Primary   string // algorithm names, section titles
	Secondary string // the modulus in result lines
	Success   string // residues, "Success" status
	Warning   string // durations, periods
	Error     string
	Info      string // exponent digits
	Bold      string
	Underline string
	Reset     string
}

var (
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[38;5;141m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme is the zero palette used for -no-color, NO_COLOR and
	// machine readable output.
	NoColorTheme = Theme{Name: "none"}

	themeMu      sync.RWMutex
	currentTheme = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	currentTheme = t
}

// ThemeByName returns the theme called name, or DarkTheme for unknown names.
func ThemeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LightTheme.Name:
		return LightTheme
	case NoColorTheme.Name:
		return NoColorTheme
	default:
		return DarkTheme
	}
}

// InitTheme picks the theme for this run. noColor and a set NO_COLOR
// variable (https://no-color.org/) both disable colors; otherwise
// FIBMOD_THEME chooses the palette.
func InitTheme(noColor bool) {
	theme := ThemeByName(os.Getenv(ThemeEnvVar))
	if _, set := os.LookupEnv("NO_COLOR"); set || noColor {
		theme = NoColorTheme
	}
	SetCurrentTheme(theme)
}

// ColorReset returns the reset escape code of the current theme.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the primary color.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorUnderline returns the underline escape code.
func ColorUnderline() string { return GetCurrentTheme().Underline }
