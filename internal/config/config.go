// Package config provides YAML-based configuration for the epwrap tool:
// install locations, timeouts and the release repository.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up when none is specified.
const DefaultFileName = "epwrap.yaml"

// Config is the top-level configuration structure.
type Config struct {
	// TargetFolder is where EnergyPlus distributions are installed.
	// Empty means a per-user data directory.
	TargetFolder string `yaml:"target_folder"`

	// InstallerCache retains downloaded installer scripts between runs.
	// Empty means a discarded temporary directory.
	InstallerCache string `yaml:"installer_cache"`

	Install  InstallConfig  `yaml:"install"`
	Registry RegistryConfig `yaml:"registry"`
	Releases ReleasesConfig `yaml:"releases"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InstallConfig holds timeouts for the install critical section.
type InstallConfig struct {
	LockTimeout string `yaml:"lock_timeout"`
	StepTimeout string `yaml:"step_timeout"`
}

// GetLockTimeout parses the lock acquisition timeout.
func (i *InstallConfig) GetLockTimeout() time.Duration {
	return parseDurationOr(i.LockTimeout, 10*time.Minute)
}

// GetStepTimeout parses the per-prompt timeout of the scripted install.
func (i *InstallConfig) GetStepTimeout() time.Duration {
	return parseDurationOr(i.StepTimeout, 5*time.Minute)
}

// RegistryConfig configures the install registry database.
type RegistryConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ReleasesConfig configures installer-asset resolution.
type ReleasesConfig struct {
	// Repository in "owner/repo" form; defaults to NREL/EnergyPlus.
	Repository string `yaml:"repository"`
}

// LoggingConfig configures the slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Releases: ReleasesConfig{Repository: "NREL/EnergyPlus"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the configuration at path. A missing file is not an error:
// defaults are returned so the tool works with zero setup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// RegistryPath returns the configured registry database path, or a
// default inside the target folder.
func (c *Config) RegistryPath(targetFolder string) string {
	if c.Registry.DatabasePath != "" {
		return c.Registry.DatabasePath
	}
	return filepath.Join(targetFolder, "installs.db")
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
