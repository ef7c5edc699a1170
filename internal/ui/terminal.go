// Package ui holds the terminal styling used by the releasy CLI.
package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorMode selects when output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode converts a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (must be auto, always or never)", s)
	}
}

// Enabled resolves the mode for output written to f. Explicit modes win over
// the environment; in auto mode NO_COLOR, CLICOLOR_FORCE and CLICOLOR are
// consulted before falling back to TTY detection.
func (m ColorMode) Enabled(f *os.File) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if on, decided := colorFromEnv(); decided {
		return on
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// colorFromEnv reports the color choice made by the environment, if any.
func colorFromEnv() (on, decided bool) {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return false, true
	case strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1":
		return true, true
	case strings.TrimSpace(os.Getenv("CLICOLOR")) == "0":
		return false, true
	}
	return false, false
}
