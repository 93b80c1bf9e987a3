package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#FCC419", "#51CF66", "#FA5252", "#FFA94D", "#868E96")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	star   lipgloss.Style
	label  lipgloss.Style
	border lipgloss.Style
}

func NewPalette(accent, ok, errc, warn, muted string) *Palette {
	return &Palette{
		title:  NewBold(accent).MarginBottom(1),
		ok:     NewBold(ok),
		err:    NewBold(errc),
		warn:   NewStyle(warn),
		help:   NewEm(muted),
		star:   NewStyle(accent),
		label:  NewStyle(muted),
		border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(muted)).Padding(0, 1),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// stars renders rating (0-10) as filled and empty stars.
func (p *Palette) stars(rating float64) string {
	n := int(rating + 0.5)
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return p.star.Render(strings.Repeat("★", n)) + p.label.Render(strings.Repeat("☆", 10-n))
}
