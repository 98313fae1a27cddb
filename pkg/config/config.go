package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the tool.
type Config struct {
	File     string `koanf:"file"`     // single SUT file
	Dir      string `koanf:"dir"`      // directory of SUT files (batch mode)
	Log      string `koanf:"log"`      // copy stdout and log output to this file (not stderr)
	ShowPath bool   `koanf:"showpath"` // dump generated paths
	ToDot    string `koanf:"todot"`    // DOT export path
	ToPNG    string `koanf:"topng"`    // PNG export path (implies DOT)
	CSV      string `koanf:"csv"`      // per-case metrics CSV (batch mode)
	Web      bool   `koanf:"web"`      // serve results over HTTP
	Port     int    `koanf:"port"`     // web server port
	Watch    bool   `koanf:"watch"`    // re-run on SUT file changes (web + batch mode only)
	Verbose  bool   `koanf:"verbose"`  // debug logging
}

// BatchMode reports whether a directory of SUT files was requested.
func (c *Config) BatchMode() bool {
	return c.Dir != ""
}

// Load layers configuration from defaults, pathcov.toml, PATHCOV_*
// environment variables, and flags. Priority: flags > env > file >
// defaults.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"file":     "",
		"dir":      "",
		"log":      "",
		"showpath": false,
		"todot":    "",
		"topng":    "",
		"csv":      "",
		"web":      false,
		"port":     8080,
		"watch":    false,
		"verbose":  false,
	}
	if err := k.Load(mapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Optional config file; absence is not an error.
	_ = k.Load(file.Provider("pathcov.toml"), toml.Parser())

	if err := k.Load(env.Provider("PATHCOV_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "PATHCOV_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.File != "" && cfg.Dir != "" {
		return nil, fmt.Errorf("-file and -dir are mutually exclusive")
	}
	return &cfg, nil
}

type rawMap map[string]interface{}

func mapProvider(m map[string]interface{}) rawMap { return rawMap(m) }

func (m rawMap) Read() (map[string]interface{}, error) { return m, nil }

func (m rawMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
