package ui

import (
	"fmt"

	"github.com/alfredjeanlab/releasy/internal/model"
)

// ANSI256 color codes.
const (
	colorRepo   = 74  // blue
	colorBranch = 176 // magenta
	colorMuted  = 245 // medium gray
	colorOK     = 71  // green
	colorWarn   = 179 // amber
)

var colorEnabled = true

// SetColor turns styling on or off globally.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func paint(code int, s string) string {
	if !colorEnabled {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderRepo renders a repo as owner/name.
func RenderRepo(r model.Repo) string { return paint(colorRepo, r.String()) }

// RenderBranch renders a git branch name.
func RenderBranch(s string) string { return paint(colorBranch, s) }

// RenderMuted renders secondary text.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderOK renders a success marker or message.
func RenderOK(s string) string { return paint(colorOK, s) }

// RenderWarn renders a warning.
func RenderWarn(s string) string { return paint(colorWarn, s) }
