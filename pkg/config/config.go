// Package config loads sparky's settings from a TOML file and the environment.
// The API credential is deliberately absent: the gateway reads it from
// OPENAI_API_KEY on every call.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/emscape/sparky/pkg/sparky"
)

// Config holds the settings shared by the ask and serve commands.
type Config struct {
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
	Listen  string `toml:"listen"`
	Debug   bool   `toml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:   sparky.DefaultModel,
		BaseURL: sparky.DefaultBaseURL,
		Listen:  ":8080",
	}
}

// ResolvePath picks the configuration file location. An explicit path wins,
// then SPARKY_CONFIG, then $XDG_CONFIG_HOME/sparky/config.toml, then
// ~/.config/sparky/config.toml.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := os.Getenv("SPARKY_CONFIG"); p != "" {
		return p, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sparky", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sparky", "config.toml"), nil
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("could not parse config %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return Config{}, fmt.Errorf("unknown keys in config %s: %v", path, undecoded)
			}
		}
	}

	cfg.Model = envOrDefault("SPARKY_MODEL", cfg.Model)
	cfg.BaseURL = envOrDefault("SPARKY_BASE_URL", cfg.BaseURL)
	cfg.Listen = envOrDefault("SPARKY_LISTEN", cfg.Listen)
	cfg.Debug = envBoolOrDefault("SPARKY_DEBUG", cfg.Debug)

	if cfg.Model == "" {
		return Config{}, errors.New("model must not be empty")
	}
	if cfg.BaseURL == "" {
		return Config{}, errors.New("base_url must not be empty")
	}

	return cfg, nil
}

// GatewayOptions translates the configuration into gateway options.
func (c Config) GatewayOptions() []sparky.Option {
	return []sparky.Option{
		sparky.WithModel(c.Model),
		sparky.WithBaseURL(c.BaseURL),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true")
}
