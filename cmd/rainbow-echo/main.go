package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rainbow-echo/internal/logger"
	"rainbow-echo/internal/tui"

	"github.com/atotto/clipboard"
)

func main() {
	logger.Configure()

	root, rest, err := parseRootArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		printUsage()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbow-echo: parse args: %v\n", err)
		os.Exit(2)
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "serve":
			os.Exit(serveMain(root, rest[1:]))
		case "help":
			printUsage()
			return
		}
	}
	os.Exit(runInteractive(root))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: rainbow-echo [-config path] [-env-file path] [-c key=value ...] [serve [flags]]")
}

func runInteractive(root rootArgs) int {
	cfg, err := loadConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbow-echo: failed to load config: %v\n", err)
		return 1
	}
	if logFile, _, err := logger.SetupFile(cfg.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "rainbow-echo: failed to initialize log file: %v\n", err)
	} else {
		defer logFile.Close()
	}
	configLog(cfg).Info("config loaded")

	if cfg.TestMode {
		logger.Info("test mode: printing banner")
		fmt.Fprintln(os.Stdout, tui.Banner(cfg.Language))
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	opts := tui.Options{Language: cfg.Language}
	if !clipboard.Unsupported {
		opts.Clipboard = clipboard.WriteAll
	}
	h, err := tui.RenderApp(ctx, tui.Stdin(), tui.Stdout(), tui.Stderr(), opts)
	if err != nil {
		logger.Errorf("mount renderer: %v", err)
		fmt.Fprintf(os.Stderr, "rainbow-echo: %v\n", err)
		return 1
	}
	return waitExitCode(h)
}

// waitExitCode 等待会话结束；启动后才出现的失败（终端设置、panic）同样以 1 退出。
// 错误信息已由渲染器写到 stderr。
func waitExitCode(s interface{ Wait() error }) int {
	if err := s.Wait(); err != nil {
		logger.Errorf("session failed: %v", err)
		return 1
	}
	return 0
}
