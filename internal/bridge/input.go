package bridge

import (
	"io"
	"sync"
)

// InputAdapter 把宿主推送的离散输入块转换为可阻塞读取的字节流。
// 它总是声明自己是交互式终端，原始模式由宿主负责，这里只记录请求。
type InputAdapter struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  [][]byte
	closed bool
	raw    bool
}

func NewInputAdapter() *InputAdapter {
	a := &InputAdapter{}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// Feed 入队一块输入并唤醒读者；关闭后到达的输入被静默丢弃。
func (a *InputAdapter) Feed(chunk []byte) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}
	if len(chunk) == 0 {
		return true
	}
	a.queue = append(a.queue, append([]byte(nil), chunk...))
	a.cond.Signal()
	return true
}

// Read drains queued chunks in order and returns io.EOF once closed and empty.
func (a *InputAdapter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.queue) == 0 && !a.closed {
		a.cond.Wait()
	}
	if len(a.queue) == 0 {
		return 0, io.EOF
	}
	head := a.queue[0]
	n := copy(p, head)
	if n == len(head) {
		a.queue[0] = nil
		a.queue = a.queue[1:]
	} else {
		a.queue[0] = head[n:]
	}
	return n, nil
}

// Close signals end-of-stream exactly once.
func (a *InputAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	a.cond.Broadcast()
	return nil
}

func (a *InputAdapter) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

func (a *InputAdapter) IsTTY() bool { return true }

func (a *InputAdapter) SetRawMode(enabled bool) error {
	a.mu.Lock()
	a.raw = enabled
	a.mu.Unlock()
	return nil
}

func (a *InputAdapter) RawMode() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.raw
}
