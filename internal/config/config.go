// Package config resolves runtime settings from defaults, an optional TOML
// file, TASKLIST_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	AppName        = "tasklist"
	ConfigFileName = "config.toml"
	DefaultSlotKey = "tasklist-storage"
)

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendFile, BackendSQLite, BackendMemory:
		return true
	default:
		return false
	}
}

var ErrInvalidConfig = errors.New("invalid config")

type RuntimeConfig struct {
	Backend   Backend `toml:"backend"`
	Path      string  `toml:"path"`
	SlotKey   string  `toml:"slot_key"`
	LogLevel  string  `toml:"log_level"`
	LogFile   string  `toml:"log_file"`
	LogFormat string  `toml:"log_format"`
	Glamour   bool    `toml:"glamour"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Backend:   BackendFile,
		SlotKey:   DefaultSlotKey,
		LogLevel:  "info",
		LogFormat: "text",
		Glamour:   true,
	}
}

// Load layers the config file (explicit path, TASKLIST_CONFIG, or the XDG
// default) and the environment over the defaults. A missing default file is
// not an error; a missing explicit one is.
func Load(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		if v, ok := getEnvString("TASKLIST_CONFIG"); ok {
			path, explicit = v, true
		} else {
			path = DefaultConfigPath()
		}
	}
	cfg, err := LoadFile(cfg, expandHome(path), explicit)
	if err != nil {
		return RuntimeConfig{}, err
	}
	return RuntimeConfigFromEnv(cfg), nil
}

func LoadFile(base RuntimeConfig, path string, required bool) (RuntimeConfig, error) {
	cfg := base
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return base, fmt.Errorf("stat config %s: %w", path, err)
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return base, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return base, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKLIST_BACKEND"); ok {
		cfg.Backend = Backend(strings.ToLower(v))
	}
	if v, ok := getEnvString("TASKLIST_PATH"); ok {
		cfg.Path = v
	}
	if v, ok := getEnvString("TASKLIST_SLOT_KEY"); ok {
		cfg.SlotKey = v
	}
	if v, ok := getEnvString("TASKLIST_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLIST_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("TASKLIST_LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := getEnvBool("TASKLIST_GLAMOUR"); ok {
		cfg.Glamour = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if !c.Backend.IsValid() {
		return fmt.Errorf("%w: backend %q (want file, sqlite or memory)", ErrInvalidConfig, c.Backend)
	}
	if strings.TrimSpace(c.SlotKey) == "" {
		return fmt.Errorf("%w: slot_key is empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// StoragePath is the configured path, or the per-backend default under the
// XDG data directory.
func (c RuntimeConfig) StoragePath() string {
	if p := strings.TrimSpace(c.Path); p != "" {
		return expandHome(p)
	}
	name := "tasklist.json"
	if c.Backend == BackendSQLite {
		name = "tasklist.db"
	}
	return filepath.Join(DefaultDataDir(), name)
}

// DefaultConfigDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFileName)
}

// DefaultDataDir uses XDG_DATA_HOME if set, otherwise $HOME/.local/share.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
