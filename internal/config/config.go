// Package config loads the application configuration from
// ~/.chatsieve/config.toml, falling back to defaults when the file is
// absent.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Server holds the HTTP API listen address.
type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Config is the on-disk configuration.
type Config struct {
	// DBPath is the sqlite archive location.
	DBPath string `toml:"db_path"`
	// ContextSize is how many messages around each hit to keep.
	ContextSize int `toml:"context_size"`
	// LogFile enables TUI file logging when set.
	LogFile string `toml:"log_file"`
	Server  Server `toml:"server"`
}

// Dir returns the configuration directory, honoring CHATSIEVE_CONFIG_DIR
// for tests and sandboxed runs.
func Dir() (string, error) {
	if dir := os.Getenv("CHATSIEVE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chatsieve"), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{
		ContextSize: 5,
		Server:      Server{Host: "127.0.0.1", Port: 8420},
	}
	if dir, err := Dir(); err == nil {
		cfg.DBPath = filepath.Join(dir, "archive.db")
	}
	return cfg
}

// Load reads config.toml from the config directory. A missing file is
// not an error; defaults apply.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.ContextSize < 0 {
		return nil, fmt.Errorf("parse %s: context_size must not be negative", path)
	}
	return cfg, nil
}

// Save writes the configuration back to the config directory.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

// ListenAddr formats the server address.
func (s Server) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
