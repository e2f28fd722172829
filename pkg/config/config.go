// Package config manages the persisted skillctl user configuration. The
// file lives in the user's home directory, is read permissively (a corrupt
// file degrades to defaults with a warning), and is always written as a
// whole-file atomic overwrite.
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/skillctl/skillctl/pkg/logger"
)

// Config is the persisted user configuration.
type Config struct {
	DefaultAgent string   `yaml:"defaultAgent"`
	Agents       []string `yaml:"agents,omitempty"`
	AutoUpdate   bool     `yaml:"autoUpdate"`
}

// DefaultAgentKey is the agent used when nothing else is configured.
const DefaultAgentKey = "claude"

// Default returns the configuration used when no file exists or the file
// cannot be parsed.
func Default() *Config {
	return &Config{
		DefaultAgent: DefaultAgentKey,
		AutoUpdate:   false,
	}
}

// Path returns the default config file location (~/.skillctl/config.yaml).
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(homeDir, ".skillctl", "config.yaml"), nil
}

// Load reads the configuration from path. A missing file yields defaults
// silently; a corrupt file yields defaults with a warning. Corruption is
// never fatal.
func Load(ctx context.Context, path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.G(ctx).WithError(err).WithField("path", path).Warn("failed to read config, using defaults")
		}
		return Default()
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		logger.G(ctx).WithError(err).WithField("path", path).Warn("config file is corrupt, using defaults")
		return Default()
	}
	if cfg.DefaultAgent == "" {
		cfg.DefaultAgent = DefaultAgentKey
	}
	return cfg
}

// Save writes the full configuration to path atomically: marshal, write to
// a temp file in the same directory, then rename over the target.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create config directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "config-*.yaml")
	if err != nil {
		return errors.Wrap(err, "failed to create temp config file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "failed to write config")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "failed to close config file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "failed to replace config file")
	}
	return nil
}
