package tui

import (
	"strings"
	"sync/atomic"
	"time"

	"rainbow-echo/internal/history"
	"rainbow-echo/internal/i18n"
	"rainbow-echo/internal/logger"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options 描述一个会话的可选依赖。
type Options struct {
	Language string
	// OnExit 在 exiting 首次变为 true 时调用（不在渲染协程上）。
	// 为 nil 时程序仅退出事件循环，进程如何结束由调用方决定。
	OnExit func()
	// Clipboard 为 nil 时禁用 ctrl+y。
	Clipboard func(string) error
	Now       func() time.Time
	// Renderer 为 nil 时按输出流自动选择。
	Renderer *lipgloss.Renderer
	Logger   *logger.LogEntry
}

type clipboardResultMsg struct {
	Count int
	Err   error
}

type Model struct {
	state     *State
	keys      keyMap
	help      help.Model
	styles    styles
	text      i18n.Strings
	width     int
	height    int
	notice    string
	initSize  bool
	onExit    func()
	clipboard func(string) error
	stopped   *atomic.Bool
	log       *logger.LogEntry
}

func New(opts Options) *Model {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("tui")
	}
	text := i18n.Normalize(opts.Language).Strings()
	st := newStyles(r)
	h := help.New()
	h.Styles.ShortKey = st.helpKey
	h.Styles.ShortDesc = st.helpDesc
	h.Styles.ShortSeparator = st.helpDesc
	h.Styles.Ellipsis = st.helpDesc

	return &Model{
		state:     NewState(history.New(opts.Now)),
		keys:      newKeyMap(text, opts.Clipboard != nil),
		help:      h,
		styles:    st,
		text:      text,
		width:     80,
		height:    24,
		onExit:    opts.OnExit,
		clipboard: opts.Clipboard,
		stopped:   &atomic.Bool{},
		log:       log,
	}
}

func (m *Model) Init() tea.Cmd {
	if !m.initSize {
		return nil
	}
	w, h := m.width, m.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.stopped.Load() {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case clipboardResultMsg:
		switch {
		case msg.Err != nil:
			m.notice = m.text.CopyFailed + ": " + msg.Err.Error()
			m.log.Warnf("clipboard copy failed: %v", msg.Err)
		default:
			m.notice = m.text.Copied
			m.log.WithField("entries", msg.Count).Info("history copied")
		}
		return m, nil
	case tea.KeyMsg:
		if m.state.Exiting() {
			return m, nil
		}
		if m.clipboard != nil && key.Matches(msg, m.keys.Copy) {
			return m, m.copyHistory()
		}
		m.notice = ""
		for _, ev := range classify(m.keys, msg) {
			before := m.state.history.Len()
			if m.state.Apply(ev) {
				return m, m.exit()
			}
			if m.state.history.Len() > before {
				m.log.WithField("entries", m.state.history.Len()).Debug("input submitted")
			}
		}
	}
	return m, nil
}

// exit 在退出转换时触发一次：先执行回调，再结束事件循环。
func (m *Model) exit() tea.Cmd {
	m.log.Info("exit requested")
	onExit := m.onExit
	if onExit == nil {
		return tea.Quit
	}
	return tea.Sequence(func() tea.Msg {
		onExit()
		return nil
	}, tea.Quit)
}

func (m *Model) copyHistory() tea.Cmd {
	texts := m.state.HistoryTexts()
	if len(texts) == 0 {
		m.notice = m.text.Empty
		return nil
	}
	clip := m.clipboard
	return func() tea.Msg {
		return clipboardResultMsg{Count: len(texts), Err: clip(strings.Join(texts, "\n"))}
	}
}

// State exposes the session state for callers holding the model directly.
func (m *Model) State() *State {
	return m.state
}
