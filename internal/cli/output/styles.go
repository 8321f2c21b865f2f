package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Brand colours.
const (
	colorAccent  = lipgloss.Color("#a78bfa")
	colorSuccess = lipgloss.Color("#4ade80")
	colorWarning = lipgloss.Color("#facc15")
	colorError   = lipgloss.Color("#f87171")
	colorInfo    = lipgloss.Color("#38bdf8")
	colorMuted   = lipgloss.Color("#94a3b8")
)

// Styles are the lipgloss styles used for text output.
type Styles struct {
	Header  lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles builds styles bound to w. Without a terminal the colour
// profile is plain ASCII so no escape codes are written.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if !isTTY {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(colorAccent),
		Header2: r.NewStyle().Bold(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Success: r.NewStyle().Foreground(colorSuccess),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
		Info:    r.NewStyle().Foreground(colorInfo),
		Key:     r.NewStyle().Foreground(colorMuted).Width(14),
	}
}
