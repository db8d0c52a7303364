package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(24)
	valStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

// panel lays out a title and aligned key/value lines in a box.
type panel struct {
	title string
	lines []string
}

func newPanel(title string) *panel { return &panel{title: title} }

func (p *panel) add(key, format string, args ...any) {
	p.lines = append(p.lines, keyStyle.Render(key)+valStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *panel) addStyled(key string, style lipgloss.Style, format string, args ...any) {
	p.lines = append(p.lines, keyStyle.Render(key)+style.Render(fmt.Sprintf(format, args...)))
}

func (p *panel) String() string {
	body := titleStyle.Render(p.title) + "\n\n" + strings.Join(p.lines, "\n")
	return boxStyle.Render(body)
}
