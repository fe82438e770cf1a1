package bridge

import "sync"

// emitter 是同步的发布订阅：Publish 在调用方协程上按订阅顺序依次通知，
// 不缓冲、不丢弃。监听者在锁外执行，可以在回调里取消订阅。
type emitter[T any] struct {
	mu   sync.Mutex
	next int
	ids  []int
	subs map[int]func(T)
}

func (e *emitter[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs == nil {
		e.subs = make(map[int]func(T))
	}
	id := e.next
	e.next++
	e.subs[id] = fn
	e.ids = append(e.ids, id)
	var once sync.Once
	return func() {
		once.Do(func() { e.unsubscribe(id) })
	}
}

func (e *emitter[T]) unsubscribe(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.subs, id)
	for i, v := range e.ids {
		if v == id {
			e.ids = append(e.ids[:i], e.ids[i+1:]...)
			break
		}
	}
}

func (e *emitter[T]) Publish(v T) {
	e.mu.Lock()
	fns := make([]func(T), 0, len(e.ids))
	for _, id := range e.ids {
		fns = append(fns, e.subs[id])
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}
