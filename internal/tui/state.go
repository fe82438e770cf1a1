package tui

import (
	"strings"

	"rainbow-echo/internal/history"
)

// State 是一个会话的全部可变状态：输入缓冲、提交历史、退出标记。
type State struct {
	buffer  []rune
	history *history.Log
	exiting bool
}

func NewState(h *history.Log) *State {
	if h == nil {
		h = history.New(nil)
	}
	return &State{history: h}
}

// Apply 处理一个按键事件；仅当本次事件使 exiting 从 false 变为 true 时返回 true。
func (s *State) Apply(ev KeyEvent) bool {
	if s.exiting {
		return false
	}
	switch ev.Kind {
	case KeySubmit:
		text := string(s.buffer)
		if strings.TrimSpace(text) == "" {
			return false
		}
		s.history.Append(text)
		s.buffer = s.buffer[:0]
	case KeyDeleteLast:
		if n := len(s.buffer); n > 0 {
			s.buffer = s.buffer[:n-1]
		}
	case KeyCancel:
		s.exiting = true
		return true
	case KeyChar:
		if ev.Ctrl || ev.Meta {
			return false
		}
		s.buffer = append(s.buffer, ev.Char)
	}
	return false
}

func (s *State) Buffer() string { return string(s.buffer) }

func (s *State) Exiting() bool { return s.exiting }

func (s *State) History() []history.Entry { return s.history.Entries() }

func (s *State) HistoryTexts() []string { return s.history.Texts() }
