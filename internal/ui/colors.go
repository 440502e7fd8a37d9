package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Default colors: title, ok, error, warning, help
const (
	ColorTitle = "#7D56F4"
	ColorOK    = "#04B575"
	ColorError = "#FF0000"
	ColorWarn  = "#FFA500"
	ColorHelp  = "#626262"
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// NewPalette builds a palette whose color profile follows w (plain text when w is not a terminal).
func NewPalette(w io.Writer, t, s, e, warn, h string) *Palette {
	r := lipgloss.NewRenderer(w)
	return &Palette{
		title: NewBold(r, t),
		ok:    NewBold(r, s),
		err:   NewBold(r, e),
		warn:  NewStyle(r, warn),
		help:  NewEm(r, h),
	}
}

// DefaultPalette returns a palette with the default colors for w.
func DefaultPalette(w io.Writer) *Palette {
	return NewPalette(w, ColorTitle, ColorOK, ColorError, ColorWarn, ColorHelp)
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) OK(s string) string    { return p.ok.Render(s) }
func (p *Palette) Err(s string) string   { return p.err.Render(s) }
func (p *Palette) Warn(s string) string  { return p.warn.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

func NewStyle(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return NewStyle(r, fg).Bold(true)
}

func NewEm(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return NewStyle(r, fg).Italic(true)
}
