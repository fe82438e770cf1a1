package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rainbow-echo/internal/config"
	"rainbow-echo/internal/logger"
	"rainbow-echo/internal/sshhost"
)

type serveArgs struct {
	addr      string
	hostKey   string
	logPath   string
	overrides stringSlice
}

func parseServeArgs(args []string) (serveArgs, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var sa serveArgs
	fs.StringVar(&sa.addr, "addr", "", "Listen address (default from config, 127.0.0.1:2222)")
	fs.StringVar(&sa.hostKey, "host-key", "", "SSH host key path, generated when missing")
	fs.StringVar(&sa.logPath, "log", logger.DefaultSSHLogPath, "SSH host log file")
	fs.Var(&sa.overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return serveArgs{}, err
	}
	if fs.NArg() > 0 {
		return serveArgs{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return sa, nil
}

// applyServeArgs 在配置之上应用子命令参数，显式 flag 优先于 -c。
func applyServeArgs(cfg config.Config, sa serveArgs) config.Config {
	cfg = config.ApplyKVOverrides(cfg, []string(sa.overrides))
	if sa.addr != "" {
		cfg.Serve.Addr = sa.addr
	}
	if sa.hostKey != "" {
		cfg = config.ApplyKVOverrides(cfg, []string{"serve.host_key=" + sa.hostKey})
	}
	return cfg
}

func serveMain(root rootArgs, args []string) int {
	sa, err := parseServeArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbow-echo serve: %v\n", err)
		return 2
	}
	cfg, err := loadConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbow-echo serve: failed to load config: %v\n", err)
		return 1
	}
	cfg = applyServeArgs(cfg, sa)

	if logFile, _, err := logger.SetupFile(cfg.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "rainbow-echo serve: failed to initialize log file: %v\n", err)
	} else {
		defer logFile.Close()
	}
	configLog(cfg).WithField("addr", cfg.Serve.Addr).Info("config loaded")
	log, closer, resolved, err := logger.SetupComponentFile("sshhost", sa.logPath)
	if err != nil {
		logger.Warnf("failed to initialize ssh log (%s): %v", sa.logPath, err)
		log = logger.Named("sshhost")
	} else {
		defer closer.Close()
		logger.Infof("ssh host log: %s", resolved)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &sshhost.Server{
		Addr:        cfg.Serve.Addr,
		HostKeyPath: cfg.Serve.HostKey,
		Language:    cfg.Language,
		TestMode:    cfg.TestMode,
		Logger:      log,
	}
	fmt.Fprintf(os.Stderr, "rainbow-echo: listening on %s\n", cfg.Serve.Addr)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Errorf("serve: %v", err)
		fmt.Fprintf(os.Stderr, "rainbow-echo serve: %v\n", err)
		return 1
	}
	return 0
}
