package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const defaultAddress = "localhost:50051"

// cliConfig is read from ~/.config/fpctl/config.toml. Flags and FPCTL_*
// environment variables override the file.
type cliConfig struct {
	Address  string `toml:"address"`
	Token    string `toml:"token"`
	TLS      bool   `toml:"tls"`
	Insecure bool   `toml:"insecure_skip_verify"`
}

func defaultConfigPath() (string, error) {
	return expandPath("~/.config/fpctl/config.toml")
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// loadConfig reads path, or the default location when path is empty. A
// missing file yields the defaults.
func loadConfig(path string) (cliConfig, error) {
	cfg := cliConfig{Address: defaultAddress}

	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	resolved, err := expandPath(path)
	if err != nil {
		return cfg, err
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg.withEnv(), nil
	case err != nil:
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	if cfg.Address == "" {
		cfg.Address = defaultAddress
	}
	return cfg.withEnv(), nil
}

func (c cliConfig) withEnv() cliConfig {
	if v := os.Getenv("FPCTL_ADDRESS"); v != "" {
		c.Address = v
	}
	if v := os.Getenv("FPCTL_TOKEN"); v != "" {
		c.Token = v
	}
	return c
}
