package tui

import (
	"os"

	"github.com/creack/pty"
	"github.com/mattn/go-isatty"
)

const (
	defaultColumns = 80
	defaultRows    = 24
)

// FileInput 包装进程的标准输入（或任意终端文件）。
type FileInput struct {
	f *os.File
}

func NewFileInput(f *os.File) *FileInput { return &FileInput{f: f} }

func Stdin() *FileInput { return NewFileInput(os.Stdin) }

func (i *FileInput) Read(p []byte) (int, error) { return i.f.Read(p) }

func (i *FileInput) IsTTY() bool { return isTerminal(i.f) }

func (i *FileInput) File() *os.File { return i.f }

// FileOutput 包装进程的标准输出/标准错误，尺寸取自终端，非终端时回退到 80x24。
type FileOutput struct {
	f *os.File
}

func NewFileOutput(f *os.File) *FileOutput { return &FileOutput{f: f} }

func Stdout() *FileOutput { return NewFileOutput(os.Stdout) }

func Stderr() *FileOutput { return NewFileOutput(os.Stderr) }

func (o *FileOutput) Write(p []byte) (int, error) { return o.f.Write(p) }

func (o *FileOutput) File() *os.File { return o.f }

func (o *FileOutput) IsTTY() bool { return isTerminal(o.f) }

func (o *FileOutput) Columns() int {
	_, cols := o.size()
	return cols
}

func (o *FileOutput) Rows() int {
	rows, _ := o.size()
	return rows
}

func (o *FileOutput) size() (rows, cols int) {
	rows, cols, err := pty.Getsize(o.f)
	if err != nil || rows <= 0 || cols <= 0 {
		return defaultRows, defaultColumns
	}
	return rows, cols
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
