// Package config loads the daemon configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"memfs/internal/fs"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by Require when the config file does not
// exist. Callers can check for it with errors.Is.
var ErrConfigNotFound = errors.New("config file not found")

// LimitsConfig bounds the namespace. Zero fields fall back to the
// filesystem defaults.
type LimitsConfig struct {
	MaxNameLen   int `yaml:"max_name_len"`
	MaxChildren  int `yaml:"max_children"`
	MaxOpenFiles int `yaml:"max_open_files"`
	MaxFileSize  int `yaml:"max_file_size"`
}

// MountConfig controls the FUSE surface.
type MountConfig struct {
	FSName     string `yaml:"fs_name"`
	AllowOther bool   `yaml:"allow_other"`
}

// Config is the full daemon configuration.
type Config struct {
	Limits LimitsConfig `yaml:"limits"`
	Mount  MountConfig  `yaml:"mount"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxNameLen:   fs.DefaultMaxNameLen,
			MaxChildren:  fs.DefaultMaxChildren,
			MaxOpenFiles: fs.DefaultMaxOpenFiles,
			MaxFileSize:  fs.DefaultMaxFileSize,
		},
		Mount: MountConfig{
			FSName: "memfs",
		},
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults, matching how the daemon starts with no config at all.
func Load(path string) (*Config, error) {
	cfg, err := Require(path)
	if errors.Is(err, ErrConfigNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Require reads the configuration from path and fails with
// ErrConfigNotFound when the file is absent.
func Require(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Limits.MaxNameLen < 0 || c.Limits.MaxChildren < 0 ||
		c.Limits.MaxOpenFiles < 0 || c.Limits.MaxFileSize < 0 {
		return errors.New("limits must not be negative")
	}
	if c.Mount.FSName == "" {
		return errors.New("mount.fs_name must not be empty")
	}
	return nil
}

// FSLimits converts the config into filesystem limits.
func (c *Config) FSLimits() fs.Limits {
	return fs.Limits{
		MaxNameLen:   c.Limits.MaxNameLen,
		MaxChildren:  c.Limits.MaxChildren,
		MaxOpenFiles: c.Limits.MaxOpenFiles,
		MaxFileSize:  c.Limits.MaxFileSize,
	}
}
