package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger = logrus.Logger
type LogEntry = logrus.Entry

const (
	// DefaultLogPath 是进程与会话日志的默认文件；界面占用终端，日志只写文件。
	DefaultLogPath = "logs/rainbow-echo.log"
	// DefaultSSHLogPath 是 serve 模式下 SSH 会话日志的默认文件。
	DefaultSSHLogPath = "logs/rainbow-echo-ssh.log"
)

var rootLogger = logrus.StandardLogger()

// Configure 为全局 logger 打开 caller 并使用 PlainFormatter。
func Configure() {
	root().SetReportCaller(true)
	root().SetFormatter(PlainFormatter{})
}

// SetupFile 把全局 logger 输出改到 logPath（为空时用 DefaultLogPath），返回文件与实际路径。
func SetupFile(logPath string) (io.Closer, string, error) {
	if logPath == "" {
		logPath = DefaultLogPath
	}
	f, err := openLogFile(logPath)
	if err != nil {
		return nil, "", err
	}
	root().SetOutput(f)
	return f, logPath, nil
}

// SetupComponentFile 为单个组件创建写到独立文件的 logger，条目带 component 字段。
func SetupComponentFile(component, logPath string) (*LogEntry, io.Closer, string, error) {
	f, err := openLogFile(logPath)
	if err != nil {
		return nil, nil, "", err
	}
	l := logrus.New()
	l.SetReportCaller(true)
	l.SetFormatter(PlainFormatter{})
	l.SetOutput(f)
	return withComponent(logrus.NewEntry(l), component), f, logPath, nil
}

// SetRoot 替换全局 logger；nil 恢复为 logrus 标准 logger。
func SetRoot(l *Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	rootLogger = l
}

// Named 返回带 component 字段的全局入口。
func Named(component string) *LogEntry {
	return withComponent(logrus.NewEntry(root()), component)
}

func Info(args ...any) { root().Info(args...) }

func Infof(format string, args ...any) { root().Infof(format, args...) }

func Warnf(format string, args ...any) { root().Warnf(format, args...) }

func Errorf(format string, args ...any) { root().Errorf(format, args...) }

func root() *logrus.Logger {
	if rootLogger == nil {
		rootLogger = logrus.StandardLogger()
	}
	return rootLogger
}

func withComponent(e *LogEntry, component string) *LogEntry {
	if component == "" {
		return e
	}
	return e.WithField("component", component)
}

// PlainFormatter 输出单行：
//
//	file:line [time] [LEVEL] [component] [session=id] message k=v ...
//
// component 与 session 作为前缀出现，不再重复到尾部字段里。
type PlainFormatter struct{}

func (PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	if entry.HasCaller() {
		fmt.Fprintf(&b, "%s:%d ", shortenFilePath(entry.Caller.File), entry.Caller.Line)
	}
	fmt.Fprintf(&b, "[%s] [%s]", entry.Time.UTC().Format(time.RFC3339Nano), strings.ToUpper(entry.Level.String()))
	if c, ok := entry.Data["component"].(string); ok && c != "" {
		fmt.Fprintf(&b, " [%s]", c)
	}
	if s, ok := entry.Data["session"].(string); ok && s != "" {
		fmt.Fprintf(&b, " [session=%s]", s)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != "component" && k != "session" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteString("\n")
	return []byte(b.String()), nil
}

// shortenFilePath 保留 internal/ 或 cmd/ 起的相对路径，其余只留文件名。
func shortenFilePath(file string) string {
	file = filepath.ToSlash(file)
	for _, dir := range []string{"/internal/", "/cmd/"} {
		if idx := strings.Index(file, dir); idx != -1 {
			return file[idx+1:]
		}
	}
	return filepath.Base(file)
}

func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
