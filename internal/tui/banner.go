package tui

import (
	"rainbow-echo/internal/i18n"

	"github.com/charmbracelet/lipgloss"
)

// Banner 是测试模式下代替交互会话输出的静态横幅（无颜色）。
func Banner(language string) string {
	text := i18n.Normalize(language).Strings()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(text.Title + "\n" + text.Banner)
}
