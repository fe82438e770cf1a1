package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"rainbow-echo/internal/logger"
	"rainbow-echo/internal/tui"

	"github.com/google/uuid"
)

// ErrNotIdle is returned by Open when the controller was already opened or closed.
var ErrNotIdle = errors.New("controller is not idle")

type State int

const (
	StateIdle State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session 是已挂载渲染器的句柄，*tui.Handle 实现了它。
// Wait 在 Done 关闭后返回启动之后出现的失败，正常结束为 nil。
type Session interface {
	Unmount()
	Done() <-chan struct{}
	Wait() error
	Resize(cols, rows int)
}

// RenderFunc 把应用挂载到适配器上；onExit 在用户取消时被调用。
type RenderFunc func(ctx context.Context, in *InputAdapter, out, errOut *OutputAdapter, onExit func()) (Session, error)

type Options struct {
	Context  context.Context
	Language string
	// TestMode 时 Open 只输出静态横幅，不挂载渲染器。
	TestMode bool
	// Render 为 nil 时使用 tui.RenderApp。
	Render RenderFunc
	Logger *logger.LogEntry
}

// Controller 管理一个宿主终端面板的会话生命周期：Idle -> Open -> Closed。
// 监听者应在 Open 之前通过 OnDidWrite/OnDidClose 订阅。
type Controller struct {
	id     string
	ctx    context.Context
	lang   string
	test   bool
	render RenderFunc
	log    *logger.LogEntry

	mu      sync.Mutex
	state   State
	input   *InputAdapter
	stdout  *OutputAdapter
	stderr  *OutputAdapter
	session Session

	writes emitter[string]
	closes emitter[int]
}

func NewController(opts Options) *Controller {
	id := uuid.NewString()
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("bridge")
	}
	log = log.WithField("session", id)
	c := &Controller{
		id:   id,
		ctx:  ctx,
		lang: opts.Language,
		test: opts.TestMode,
		log:  log,
	}
	c.render = opts.Render
	if c.render == nil {
		c.render = c.renderApp
	}
	return c
}

func (c *Controller) renderApp(ctx context.Context, in *InputAdapter, out, errOut *OutputAdapter, onExit func()) (Session, error) {
	h, err := tui.RenderApp(ctx, in, out, errOut, tui.Options{
		Language: c.lang,
		OnExit:   onExit,
		Logger:   logger.Named("tui").WithField("session", c.id),
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnDidWrite subscribes to display data. The returned func unsubscribes.
func (c *Controller) OnDidWrite(fn func(data string)) func() {
	return c.writes.Subscribe(fn)
}

// OnDidClose subscribes to the session-closed notification.
func (c *Controller) OnDidClose(fn func(code int)) func() {
	return c.closes.Subscribe(fn)
}

// Open 只能在 Idle 状态调用。dims 为 nil 或无效时使用 80x24。
// 挂载失败时输出一行诊断、以退出码 1 关闭会话，并返回错误。
func (c *Controller) Open(dims *Dimensions) error {
	d := DefaultDimensions
	if dims != nil && dims.Valid() {
		d = *dims
	}

	c.mu.Lock()
	if c.state != StateIdle {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotIdle, state)
	}
	c.state = StateOpen
	if c.test {
		c.mu.Unlock()
		c.log.Info("test mode: writing banner")
		c.writes.Publish(toCRLF(tui.Banner(c.lang)) + "\r\n")
		return nil
	}
	c.input = NewInputAdapter()
	c.stdout = NewOutputAdapter(d, c.writes.Publish)
	c.stderr = NewOutputAdapter(d, c.writes.Publish)
	in, out, errOut := c.input, c.stdout, c.stderr
	c.mu.Unlock()

	c.log.WithField("cols", d.Columns).WithField("rows", d.Rows).Info("controller open")
	session, err := c.render(c.ctx, in, out, errOut, func() { c.HandleExit(0) })
	if err != nil {
		c.log.Errorf("mount failed: %v", err)
		c.writes.Publish(fmt.Sprintf("rainbow-echo: failed to start: %s\r\n", firstLine(err.Error())))
		c.HandleExit(1)
		return fmt.Errorf("mount renderer: %w", err)
	}

	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		session.Unmount()
		return nil
	}
	c.session = session
	c.mu.Unlock()

	go func() {
		<-session.Done()
		if err := session.Wait(); err != nil {
			c.log.Errorf("renderer failed: %v", err)
			c.HandleExit(1)
			return
		}
		c.HandleExit(0)
	}()
	return nil
}

// HandleInput forwards bytes verbatim while open and is a no-op otherwise.
func (c *Controller) HandleInput(data []byte) {
	c.mu.Lock()
	in := c.input
	open := c.state == StateOpen
	c.mu.Unlock()
	if !open || in == nil {
		return
	}
	in.Feed(data)
}

// SetDimensions 更新两个输出适配器的尺寸并通知渲染器。
func (c *Controller) SetDimensions(d Dimensions) {
	c.mu.Lock()
	if c.state != StateOpen || c.stdout == nil {
		c.mu.Unlock()
		return
	}
	c.stdout.UpdateDimensions(d)
	c.stderr.UpdateDimensions(d)
	next := c.stdout.Dimensions()
	session := c.session
	c.mu.Unlock()

	c.log.WithField("cols", next.Columns).WithField("rows", next.Rows).Debug("resize")
	if session != nil {
		session.Resize(next.Columns, next.Rows)
	}
}

// HandleExit 可以被退出回调和会话结束两条路径各调用一次；只有第一次生效，
// 清理后发出唯一的关闭通知。
func (c *Controller) HandleExit(code int) {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	res := c.detach()
	c.mu.Unlock()

	res.release()
	c.log.WithField("code", code).Info("controller closed")
	c.closes.Publish(code)
}

// Close 是宿主主动关闭（例如面板被关掉），只清理，不发关闭通知。
func (c *Controller) Close() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	res := c.detach()
	c.mu.Unlock()

	res.release()
	c.log.Info("controller closed by host")
}

type resources struct {
	session Session
	input   *InputAdapter
}

// detach 在持锁时调用，交出并清空全部引用。
func (c *Controller) detach() resources {
	res := resources{session: c.session, input: c.input}
	c.session = nil
	c.input = nil
	c.stdout = nil
	c.stderr = nil
	return res
}

func (r resources) release() {
	if r.session != nil {
		r.session.Unmount()
	}
	if r.input != nil {
		_ = r.input.Close()
	}
}

func toCRLF(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
