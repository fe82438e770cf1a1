package config

import (
	"strings"

	"rainbow-echo/internal/i18n"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "language", "lang":
			cfg.Language = i18n.Normalize(val).Code()
		case "log_path":
			cfg.LogPath = val
		case "test_mode":
			cfg.TestMode = Truthy(val)
		case "serve.addr", "addr":
			cfg.Serve.Addr = val
		case "serve.host_key", "host_key":
			cfg.Serve.HostKey = expandHome(val)
		}
	}
	return cfg
}
