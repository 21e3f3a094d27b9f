package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bastiangx/langfilter/pkg/languagefilter"
)

type styles struct {
	title    lipgloss.Style
	ghost    lipgloss.Style
	code     lipgloss.Style
	selected lipgloss.Style
	status   lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"}
	return styles{
		title: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"}).
			Padding(0, 1),
		ghost: lipgloss.NewStyle().Foreground(subtle),
		code: lipgloss.NewStyle().Width(8).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		selected: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#d7827e", Dark: "#ebbcba"}),
		status: lipgloss.NewStyle().Italic(true).Foreground(subtle),
		help:   lipgloss.NewStyle().Foreground(subtle),
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Languages"))
	b.WriteString("\n\n")
	b.WriteString(m.ti.View())
	if rest := ghostTail(m.ti.Value(), m.ghost.Value()); rest != "" {
		b.WriteString(m.styles.ghost.Render(rest))
	}
	b.WriteString("\n\n")

	codes := m.results.Codes()
	langs := m.widget.Filter().Languages()
	sel := m.widget.SelectedLanguage()
	for i, code := range codes {
		if i == maxRows {
			b.WriteString(m.styles.status.Render(fmt.Sprintf("  … %d more", len(codes)-maxRows)))
			b.WriteString("\n")
			break
		}
		name, _ := langs.Name(code)
		line := m.styles.code.Render(code) + name
		if code == sel {
			line = m.styles.selected.Render("> " + code + "  " + name)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := m.statusLine()
	if m.widget.Pending() {
		status += " …"
	}
	b.WriteString(m.styles.status.Render(status))
	b.WriteString("\n")
	help := "tab complete • enter select • ctrl+c quit"
	if m.clear.Visible() {
		help = "esc clear • " + help
	}
	b.WriteString(m.styles.help.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) statusLine() string {
	switch {
	case m.last.Type == languagefilter.EventNoResults:
		return fmt.Sprintf("no languages match %q", m.last.Query)
	case m.last.Query == "":
		return fmt.Sprintf("%d languages", m.last.Count)
	default:
		return fmt.Sprintf("%d matches for %q", m.last.Count, m.last.Query)
	}
}

// ghostTail is the part of the suggestion that is not typed yet.
func ghostTail(input, suggestion string) string {
	in := []rune(input)
	s := []rune(suggestion)
	if len(in) == 0 || len(s) <= len(in) {
		return ""
	}
	return string(s[len(in):])
}
