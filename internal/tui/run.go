package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sync"

	"rainbow-echo/internal/logger"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ErrInvalidStream 表示传入的流无法挂载渲染器。
var ErrInvalidStream = errors.New("invalid stream")

// Input 是渲染器读取按键的字节源。
type Input interface {
	io.Reader
	IsTTY() bool
}

// RawModeSetter 由支持切换原始模式的输入实现（可选）。
type RawModeSetter interface {
	SetRawMode(enabled bool) error
}

// Output 是渲染器写入帧的字节汇，同时报告当前尺寸。
type Output interface {
	io.Writer
	Columns() int
	Rows() int
}

// fileBacked 由包装真实终端文件的流实现，Bubble Tea 会直接接管该文件。
type fileBacked interface {
	File() *os.File
}

// Handle 是已挂载会话的不透明句柄。
type Handle struct {
	program *tea.Program
	model   *Model
	unmount sync.Once
	done    chan struct{}
	err     error
	log     *logger.LogEntry
}

// Unmount 停止后续渲染与状态更新，可重复调用。
func (h *Handle) Unmount() {
	h.unmount.Do(func() {
		h.model.stopped.Store(true)
		h.log.Debug("unmount")
		// Quit blocks until the event loop receives it; the caller may be running on it.
		go h.program.Quit()
	})
}

// Done is closed once the session has ended.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the session ends and returns the program error, if any.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Resize 向渲染器投递新的窗口尺寸；非终端输出没有 SIGWINCH，只能由宿主通知。
func (h *Handle) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 || h.model.stopped.Load() {
		return
	}
	select {
	case <-h.done:
		return
	default:
	}
	h.program.Send(tea.WindowSizeMsg{Width: cols, Height: rows})
}

// RenderApp 将应用挂载到给定的流上并立即返回句柄。
// 流无效时同步返回包装了 ErrInvalidStream 的错误；启动后的失败通过 Wait 返回。
func RenderApp(ctx context.Context, in Input, out, errOut Output, opts Options) (*Handle, error) {
	if isNil(in) {
		return nil, fmt.Errorf("%w: input is nil", ErrInvalidStream)
	}
	if isNil(out) {
		return nil, fmt.Errorf("%w: output is nil", ErrInvalidStream)
	}
	if isNil(errOut) {
		return nil, fmt.Errorf("%w: error output is nil", ErrInvalidStream)
	}
	cols, rows := out.Columns(), out.Rows()
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: output reports %dx%d", ErrInvalidStream, cols, rows)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("tui")
	}
	log := opts.Logger

	programOptions := []tea.ProgramOption{tea.WithContext(ctx)}

	var raw RawModeSetter
	if f, ok := in.(fileBacked); ok && in.IsTTY() {
		programOptions = append(programOptions, tea.WithInput(f.File()))
	} else {
		programOptions = append(programOptions, tea.WithInput(in))
		if rm, ok := in.(RawModeSetter); ok && in.IsTTY() {
			if err := rm.SetRawMode(true); err != nil {
				return nil, fmt.Errorf("enable raw mode: %w", err)
			}
			raw = rm
		}
	}

	outFile, fileOut := out.(fileBacked)
	if fileOut {
		programOptions = append(programOptions, tea.WithOutput(outFile.File()))
	} else {
		programOptions = append(programOptions, tea.WithOutput(out), tea.WithoutSignalHandler())
	}
	if opts.Renderer == nil {
		if fileOut {
			opts.Renderer = lipgloss.NewRenderer(outFile.File())
		} else {
			opts.Renderer = lipgloss.NewRenderer(out)
			opts.Renderer.SetColorProfile(termenv.ANSI256)
		}
	}

	model := New(opts)
	model.width, model.height = cols, rows
	// 终端文件由 Bubble Tea 自行查询尺寸，其余输出需要主动投递初始尺寸。
	model.initSize = !fileOut

	h := &Handle{
		program: tea.NewProgram(model, programOptions...),
		model:   model,
		done:    make(chan struct{}),
		log:     log,
	}
	log.WithField("cols", cols).WithField("rows", rows).Info("session mounted")
	go func() {
		defer close(h.done)
		_, err := h.program.Run()
		if raw != nil {
			if rerr := raw.SetRawMode(false); rerr != nil {
				log.Warnf("restore raw mode: %v", rerr)
			}
		}
		if err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
			h.err = err
			log.Errorf("session ended with error: %v", err)
			_, _ = fmt.Fprintf(errOut, "rainbow-echo: %v\r\n", err)
			return
		}
		log.Info("session ended")
	}()
	return h, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
