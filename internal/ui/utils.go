package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPageHeader returns a boxed title with an optional subtitle line.
func RenderPageHeader(title, subtitle string) string {
	out := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Render(title)
	if subtitle != "" {
		out += "\n  " + StyleSubtle.Render(subtitle)
	}
	return out + "\n"
}

// Panel frames a short result (a backup summary, the signed-in account).
type Panel struct {
	Title  string
	Body   string
	Accent lipgloss.Color
	Width  int
}

func NewPanel(title, body string) *Panel {
	return &Panel{Title: title, Body: body, Accent: ColorSecondary}
}

func (p *Panel) WithBorderColor(c lipgloss.Color) *Panel {
	p.Accent = c
	return p
}

func (p *Panel) WithWidth(w int) *Panel {
	p.Width = w
	return p
}

func (p *Panel) Render() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 1)
	if p.Width > 0 {
		box = box.Width(p.Width)
	}
	lines := []string{p.Body}
	if p.Title != "" {
		lines = []string{lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Render(p.Title), p.Body}
	}
	return box.Render(strings.Join(lines, "\n"))
}

// RenderInfoPanel frames content with a cyan border.
func RenderInfoPanel(title, body string) string {
	return NewPanel(title, body).WithBorderColor(ColorCyan).Render()
}

// RenderSuccessPanel frames content with a green border.
func RenderSuccessPanel(title, body string) string {
	return NewPanel(title, body).WithBorderColor(ColorSuccess).Render()
}

// Truncate shortens s to maxLen runes, ending in "..." when there is room.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// WrapText word-wraps text to width columns. Existing line breaks are kept.
func WrapText(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
