package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/skillswap/internal/models"
)

// Brand colors; offers and requests get their own accent.
const (
	colorBrand   = "#F2C94C"
	colorOffer   = "#27AE60"
	colorRequest = "#2D9CDB"
	colorError   = "#EB5757"
	colorWarn    = "#F2994A"
	colorMuted   = "#828282"
)

var styles = NewPalette(colorBrand, colorOffer, colorRequest, colorError, colorWarn, colorMuted)

// Palette is the TUI stylesheet.
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	label   lipgloss.Style
	offer   lipgloss.Style
	request lipgloss.Style
}

func NewPalette(brand, offer, request, errColor, warn, muted string) *Palette {
	return &Palette{
		title:   NewBold(brand).MarginBottom(1),
		ok:      NewBold(offer),
		err:     NewBold(errColor),
		warn:    NewStyle(warn),
		help:    NewEm(muted),
		label:   NewBold(muted),
		offer:   NewBold(offer),
		request: NewBold(request),
	}
}

// postType renders t in its accent color.
func (p *Palette) postType(t models.PostType) string {
	if t == models.Request {
		return p.request.Render(string(t))
	}
	return p.offer.Render(string(t))
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
