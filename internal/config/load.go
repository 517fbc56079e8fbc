package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// ErrConfigValidation wraps config validation failures, as opposed to TOML
// syntax or filesystem errors.
var ErrConfigValidation = errors.New("config validation failed")

// AppName names the config and state directories.
const AppName = "dnf-beadm"

// SystemPath is the system-wide config file.
const SystemPath = "/etc/dnf-beadm/config.toml"

// SearchPaths returns the config files consulted when no explicit path is
// given, in priority order.
func SearchPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, AppName, "config.toml"),
		SystemPath,
	}
}

// Load reads the config at path, or the first existing file of SearchPaths
// when path is empty. It returns the built-in defaults when nothing exists.
// The returned source names the file used, or is empty for defaults.
func Load(path string) (*Config, string, error) {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, "", fmt.Errorf(messages.ConfigExpandPathFmt, path, err)
		}
		cfg, err := LoadFile(expanded)
		return cfg, expanded, err
	}
	for _, candidate := range SearchPaths() {
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, "", fmt.Errorf(messages.ConfigStatFmt, candidate, err)
		}
		cfg, err := LoadFile(candidate)
		return cfg, candidate, err
	}
	cfg := Defaults()
	return cfg, "", nil
}

// LoadFile reads and validates one config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML data over the defaults and validates the result.
// source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return cfg, nil
}

// decodeStrict re-decodes with unknown keys rejected, so typos in section or
// key names are reported instead of silently ignored.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}
