package tui

import (
	"testing"
	"time"

	"rainbow-echo/internal/history"
)

func typeText(s *State, text string) {
	for _, r := range text {
		s.Apply(Char(r))
	}
}

func TestStateSubmitAppendsHistory(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewState(history.New(func() time.Time { return ts }))

	s.Apply(Char('h'))
	s.Apply(Char('i'))
	s.Apply(Submit)

	got := s.History()
	if len(got) != 1 || got[0].Text != "hi" || !got[0].TS.Equal(ts) {
		t.Fatalf("history = %+v, want [{hi %v}]", got, ts)
	}
	if s.Buffer() != "" {
		t.Fatalf("buffer = %q, want empty", s.Buffer())
	}
}

func TestStateSubmitSequenceKeepsOrder(t *testing.T) {
	s := NewState(nil)
	inputs := []string{"one", " two ", "three"}
	for _, in := range inputs {
		typeText(s, in)
		s.Apply(Submit)
	}
	got := s.HistoryTexts()
	if len(got) != len(inputs) {
		t.Fatalf("history len = %d, want %d", len(got), len(inputs))
	}
	for i := range inputs {
		if got[i] != inputs[i] {
			t.Fatalf("history[%d] = %q, want %q", i, got[i], inputs[i])
		}
	}
	entries := s.History()
	for i := 1; i < len(entries); i++ {
		if entries[i].TS.Before(entries[i-1].TS) {
			t.Fatalf("timestamps decrease at %d", i)
		}
	}
	if s.Buffer() != "" {
		t.Fatalf("buffer = %q, want empty", s.Buffer())
	}
}

func TestStateSubmitBlankIsNoop(t *testing.T) {
	for _, in := range []string{"", " ", "   \t"} {
		s := NewState(nil)
		for _, r := range in {
			s.buffer = append(s.buffer, r)
		}
		s.Apply(Submit)
		if n := len(s.History()); n != 0 {
			t.Fatalf("submit %q: history len = %d, want 0", in, n)
		}
		if s.Buffer() != in {
			t.Fatalf("submit %q: buffer = %q, want unchanged", in, s.Buffer())
		}
	}
}

func TestStateDeleteLast(t *testing.T) {
	s := NewState(nil)
	s.Apply(DeleteLast)
	if s.Buffer() != "" {
		t.Fatalf("delete on empty: buffer = %q", s.Buffer())
	}

	s.Apply(Char('a'))
	s.Apply(DeleteLast)
	s.Apply(DeleteLast)
	if s.Buffer() != "" {
		t.Fatalf("buffer = %q, want empty", s.Buffer())
	}

	typeText(s, "héllo")
	s.Apply(DeleteLast)
	if s.Buffer() != "héll" {
		t.Fatalf("buffer = %q, want %q", s.Buffer(), "héll")
	}
}

func TestStateModifiersSuppressAppend(t *testing.T) {
	s := NewState(nil)
	s.Apply(KeyEvent{Kind: KeyChar, Char: 'x', Ctrl: true})
	s.Apply(KeyEvent{Kind: KeyChar, Char: 'y', Meta: true})
	if s.Buffer() != "" {
		t.Fatalf("buffer = %q, want empty", s.Buffer())
	}
}

func TestStateCancelTransitionsOnce(t *testing.T) {
	s := NewState(nil)
	typeText(s, "ab")
	if !s.Apply(Cancel) {
		t.Fatalf("first cancel should report the exit transition")
	}
	if s.Apply(Cancel) {
		t.Fatalf("second cancel reported another transition")
	}
	s.Apply(Char('c'))
	s.Apply(Submit)
	if s.Buffer() != "ab" || len(s.History()) != 0 {
		t.Fatalf("state changed after exiting: buffer=%q history=%v", s.Buffer(), s.History())
	}
	if !s.Exiting() {
		t.Fatalf("Exiting() = false")
	}
}
