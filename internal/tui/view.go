package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const promptGlyph = "> "

type styles struct {
	title    lipgloss.Style
	rule     lipgloss.Style
	helpKey  lipgloss.Style
	helpDesc lipgloss.Style
	number   lipgloss.Style
	prompt   lipgloss.Style
	buffer   lipgloss.Style
	cursor   lipgloss.Style
	notice   lipgloss.Style
	rainbow  [len(ColorSequence)]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	s := styles{
		title:    base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		rule:     base.Foreground(lipgloss.Color("#5E6472")),
		helpKey:  base.Foreground(lipgloss.Color("#909090")),
		helpDesc: base.Foreground(lipgloss.Color("#7D7A85")),
		number:   base.Foreground(lipgloss.Color("#7D7A85")),
		prompt:   base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		buffer:   base,
		cursor:   base.Reverse(true),
		notice:   base.Italic(true).Foreground(lipgloss.Color("#FFB454")),
	}
	for i, c := range ColorSequence {
		s.rainbow[i] = base.Foreground(lipgloss.Color(c))
	}
	return s
}

func (m *Model) View() string {
	sections := []string{m.renderHeader()}
	if entries := m.state.History(); len(entries) > 0 {
		lines := make([]string, 0, len(entries))
		for i, e := range entries {
			lines = append(lines, m.renderEntry(i+1, e.Text)...)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	sections = append(sections, m.renderInput())
	if m.notice != "" {
		sections = append(sections, m.styles.notice.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	title := m.styles.title.Render(m.text.Title)
	rule := m.styles.rule.Render(strings.Repeat("─", runewidth.StringWidth(m.text.Title)))
	return strings.Join([]string{title, rule, m.help.ShortHelpView(m.keys.ShortHelp()), ""}, "\n")
}

// renderEntry 渲染一条编号历史，超出宽度的部分折行并与编号后的文本对齐。
func (m *Model) renderEntry(n int, text string) []string {
	prefix := fmt.Sprintf("%d. ", n)
	indent := runewidth.StringWidth(prefix)
	rows := wrapSegments(Rainbow(text), m.width-indent)
	out := make([]string, 0, len(rows))
	for i, row := range rows {
		lead := strings.Repeat(" ", indent)
		if i == 0 {
			lead = m.styles.number.Render(prefix)
		}
		out = append(out, lead+m.renderSegments(row))
	}
	return out
}

func (m *Model) renderSegments(segs []Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(m.styleFor(seg.Color).Render(string(seg.Char)))
	}
	return b.String()
}

func (m *Model) styleFor(c Color) lipgloss.Style {
	for i, sc := range ColorSequence {
		if sc == c {
			return m.styles.rainbow[i]
		}
	}
	return m.styles.buffer
}

func (m *Model) renderInput() string {
	return m.styles.prompt.Render(promptGlyph) + m.state.Buffer() + m.styles.cursor.Render(" ")
}
