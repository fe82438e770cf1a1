package tui

import (
	"unicode"

	"rainbow-echo/internal/i18n"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyKind int

const (
	KeyChar KeyKind = iota
	KeySubmit
	KeyDeleteLast
	KeyCancel
)

func (k KeyKind) String() string {
	switch k {
	case KeyChar:
		return "char"
	case KeySubmit:
		return "submit"
	case KeyDeleteLast:
		return "delete-last"
	case KeyCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// KeyEvent 是状态机消费的离散按键事件。Ctrl/Meta 置位时字符不会被追加。
type KeyEvent struct {
	Kind KeyKind
	Char rune
	Ctrl bool
	Meta bool
}

func Char(r rune) KeyEvent { return KeyEvent{Kind: KeyChar, Char: r} }

var (
	Submit     = KeyEvent{Kind: KeySubmit}
	DeleteLast = KeyEvent{Kind: KeyDeleteLast}
	Cancel     = KeyEvent{Kind: KeyCancel}
)

type keyMap struct {
	Submit key.Binding
	Delete key.Binding
	Quit   key.Binding
	Copy   key.Binding
}

func newKeyMap(text i18n.Strings, copyEnabled bool) keyMap {
	km := keyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", text.Submit)),
		Delete: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", text.Delete)),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", text.Quit)),
		Copy:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", text.Copy)),
	}
	km.Copy.SetEnabled(copyEnabled)
	return km
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Delete, k.Quit, k.Copy}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// classify 把 Bubble Tea 按键消息转换为零个或多个 KeyEvent。
// 一条消息里合并到达的多个字符（粘贴、一次读到的整块输入）拆成逐字符事件。
func classify(km keyMap, msg tea.KeyMsg) []KeyEvent {
	switch {
	case key.Matches(msg, km.Submit):
		return []KeyEvent{Submit}
	case key.Matches(msg, km.Delete):
		return []KeyEvent{DeleteLast}
	case key.Matches(msg, km.Quit):
		return []KeyEvent{Cancel}
	}
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		return nil
	}
	events := make([]KeyEvent, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		if !unicode.IsPrint(r) {
			continue
		}
		events = append(events, KeyEvent{Kind: KeyChar, Char: r, Meta: msg.Alt})
	}
	return events
}
