package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"rainbow-echo/internal/config"
)

func TestParseRootArgsLeavesSubcommand(t *testing.T) {
	root, rest, err := parseRootArgs([]string{"-c", "language=zh", "-config", "/tmp/x.toml", "serve", "-addr", ":0"})
	if err != nil {
		t.Fatalf("parseRootArgs returned error: %v", err)
	}
	if !reflect.DeepEqual(root.overrides, []string{"language=zh"}) {
		t.Fatalf("unexpected overrides: %v", root.overrides)
	}
	if root.cfgPath != "/tmp/x.toml" {
		t.Fatalf("cfgPath = %q", root.cfgPath)
	}
	want := []string{"serve", "-addr", ":0"}
	if !reflect.DeepEqual(rest, want) {
		t.Fatalf("rest = %v, want %v", rest, want)
	}
}

func TestParseRootArgsRejectsUnknownFlag(t *testing.T) {
	if _, _, err := parseRootArgs([]string{"--bogus"}); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestParseServeArgs(t *testing.T) {
	sa, err := parseServeArgs([]string{"-addr", "127.0.0.1:0", "-host-key", "/tmp/key", "-c", "test_mode=1"})
	if err != nil {
		t.Fatalf("parseServeArgs: %v", err)
	}
	if sa.addr != "127.0.0.1:0" || sa.hostKey != "/tmp/key" {
		t.Fatalf("unexpected args: %+v", sa)
	}
	if !reflect.DeepEqual([]string(sa.overrides), []string{"test_mode=1"}) {
		t.Fatalf("overrides = %v", sa.overrides)
	}
	if _, err := parseServeArgs([]string{"extra"}); err == nil {
		t.Fatalf("expected error for positional args")
	}
}

func TestApplyServeArgsFlagsWin(t *testing.T) {
	cfg := config.Default()
	got := applyServeArgs(cfg, serveArgs{
		addr:      "0.0.0.0:2022",
		hostKey:   "/srv/key",
		overrides: stringSlice{"addr=127.0.0.1:1", "language=zh"},
	})
	if got.Serve.Addr != "0.0.0.0:2022" {
		t.Fatalf("addr = %q", got.Serve.Addr)
	}
	if got.Serve.HostKey != "/srv/key" {
		t.Fatalf("host key = %q", got.Serve.HostKey)
	}
	if got.Language != "zh" {
		t.Fatalf("language = %q", got.Language)
	}
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	for _, key := range []string{config.EnvLanguage, config.EnvTestMode} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("language = \"zh\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(rootArgs{
		cfgPath:   path,
		envFile:   filepath.Join(dir, "missing.env"),
		overrides: []string{"test_mode=yes"},
	})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Language != "zh" || !cfg.TestMode {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestConfigLogFields(t *testing.T) {
	cfg := config.Default()
	cfg.Source = "/etc/rainbow-echo/config.toml"
	cfg.Language = "zh"

	entry := configLog(cfg)
	if got := entry.Data["config"]; got != cfg.Source {
		t.Fatalf("config field = %v, want %q", got, cfg.Source)
	}
	if got := entry.Data["language"]; got != "中文" {
		t.Fatalf("language field = %v, want %q", got, "中文")
	}
	if got := entry.Data["component"]; got != "main" {
		t.Fatalf("component field = %v", got)
	}
}
