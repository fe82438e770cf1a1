package main

import (
	"flag"
	"io"
	"strings"

	"rainbow-echo/internal/config"
	"rainbow-echo/internal/i18n"
	"rainbow-echo/internal/logger"
)

type rootArgs struct {
	cfgPath   string
	envFile   string
	overrides []string
}

func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("rainbow-echo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var root rootArgs
	var overrides stringSlice
	fs.StringVar(&root.cfgPath, "config", "", "Path to config.toml (default ~/.rainbow-echo/config.toml)")
	fs.StringVar(&root.envFile, "env-file", config.DefaultEnvFile, "Path to a .env file (missing file is ignored)")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}
	root.overrides = append([]string{}, overrides...)
	return root, fs.Args(), nil
}

func loadConfig(root rootArgs) (config.Config, error) {
	cfg, err := config.Load(strings.TrimSpace(root.cfgPath), root.envFile)
	if err != nil {
		return cfg, err
	}
	return config.ApplyKVOverrides(cfg, root.overrides), nil
}

// configLog 返回记录了配置来源与生效语言的入口，启动时写一行。
func configLog(cfg config.Config) *logger.LogEntry {
	return logger.Named("main").
		WithField("config", cfg.Source).
		WithField("language", i18n.Normalize(cfg.Language).DisplayName()).
		WithField("test_mode", cfg.TestMode)
}
