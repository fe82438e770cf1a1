package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"rainbow-echo/internal/i18n"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables recognised on top of the config file.
const (
	EnvLanguage = "RAINBOW_ECHO_LANG"
	EnvTestMode = "RAINBOW_ECHO_TEST_MODE"
	EnvSSHAddr  = "RAINBOW_ECHO_SSH_ADDR"
	EnvHostKey  = "RAINBOW_ECHO_HOST_KEY"
	EnvLogPath  = "RAINBOW_ECHO_LOG_PATH"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Config is the only persisted config file schema.
type Config struct {
	Language string `toml:"language"`
	LogPath  string `toml:"log_path"`
	TestMode bool   `toml:"test_mode"`
	Serve    Serve  `toml:"serve"`
	Source   string `toml:"-"`
}

type Serve struct {
	Addr    string `toml:"addr"`
	HostKey string `toml:"host_key"`
}

func Default() Config {
	return Config{
		Language: "en",
		LogPath:  "logs/rainbow-echo.log",
		Serve: Serve{
			Addr:    "127.0.0.1:2222",
			HostKey: defaultHostKeyPath(),
		},
	}
}

func dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rainbow-echo")
}

func DefaultPath() string {
	d := dir()
	if d == "" {
		return ""
	}
	return filepath.Join(d, "config.toml")
}

func defaultHostKeyPath() string {
	d := dir()
	if d == "" {
		return "ssh_host_ed25519"
	}
	return filepath.Join(d, "ssh_host_ed25519")
}

// Load reads the TOML file at path (default ~/.rainbow-echo/config.toml), then
// applies envFile and the process environment on top. A missing config or
// .env file is not an error.
func Load(path, envFile string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return cfg, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, err
	}

	env, err := readEnvFile(envFile)
	if err != nil {
		return cfg, err
	}
	cfg = applyEnv(cfg, func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(env[key])
	})
	cfg.Serve.HostKey = expandHome(cfg.Serve.HostKey)
	cfg.Language = i18n.Normalize(cfg.Language).Code()
	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return env, nil
}

func applyEnv(cfg Config, lookup func(string) string) Config {
	if v := lookup(EnvLanguage); v != "" {
		cfg.Language = v
	}
	if v := lookup(EnvTestMode); v != "" {
		cfg.TestMode = Truthy(v)
	}
	if v := lookup(EnvSSHAddr); v != "" {
		cfg.Serve.Addr = v
	}
	if v := lookup(EnvHostKey); v != "" {
		cfg.Serve.HostKey = v
	}
	if v := lookup(EnvLogPath); v != "" {
		cfg.LogPath = v
	}
	return cfg
}

// Truthy reports whether an env-style flag value means "on".
func Truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
