package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode controls when output is colored
type ColorMode string

const (
	// ColorAuto colors output when it goes to a terminal and NO_COLOR is unset
	ColorAuto ColorMode = "auto"
	// ColorAlways colors output unconditionally
	ColorAlways ColorMode = "always"
	// ColorNever disables color and text attributes
	ColorNever ColorMode = "never"
)

// ParseColorMode parses a --color value. The empty string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Styles holds the text styles used on the console
type Styles struct {
	Prompt lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles rendering for w according to mode
func NewStyles(w io.Writer, mode ColorMode) Styles {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI)
		}
	default:
		if os.Getenv("NO_COLOR") != "" {
			r.SetColorProfile(termenv.Ascii)
		}
	}

	return Styles{
		Prompt: r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		Error:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		Help:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// RenderLines styles each line of text on its own, so every line ends with a
// reset and lipgloss does not pad the block to a common width.
func RenderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
