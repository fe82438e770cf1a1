package history

import (
	"strings"
	"sync"
	"time"
)

// Entry 是一次提交的记录，创建后不再修改。
type Entry struct {
	Text string
	TS   time.Time
}

// Log 保存会话内的提交历史，只追加、不删除、不重排。
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// New 创建空历史；now 为 nil 时使用 time.Now。
func New(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Append 记录原始文本（不裁剪空白）。裁剪后为空的文本会被忽略并返回 false。
func (l *Log) Append(text string) (Entry, bool) {
	if strings.TrimSpace(text) == "" {
		return Entry{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := l.now()
	if n := len(l.entries); n > 0 && ts.Before(l.entries[n-1].TS) {
		ts = l.entries[n-1].TS
	}
	entry := Entry{Text: text, TS: ts}
	l.entries = append(l.entries, entry)
	return entry, true
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy in insertion order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry(nil), l.entries...)
}

func (l *Log) Texts() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.Text)
	}
	return out
}
