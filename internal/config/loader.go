package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ChrisMcGann/SpecAlign/pkg/similarity"
)

// DefaultPath returns ~/.config/specalign/config.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "specalign", "config.toml"), nil
}

// Load reads and parses the configuration file. When required is false a
// missing file yields the defaults.
func Load(path string, required bool) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'specalign config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Parse TOML
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Library.Path, err = expandPath(cfg.Library.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Write encodes the configuration as TOML
func (c *Config) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Save writes the configuration to path, creating parent directories
func (c *Config) Save(path string) (err error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("failed to expand config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(expandedPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", cerr)
		}
	}()

	return c.Write(f)
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Alignment validation
	if err := similarity.ValidateParameters(c.Alignment.Tolerance, c.Alignment.MinMatch); err != nil {
		errs = append(errs, fmt.Errorf("alignment: %w", err))
	}

	// Filter validation
	filterOpts := c.FilterOptions()
	if err := filterOpts.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("filter: %w", err))
	}

	// Search validation
	if c.Search.Workers < 0 {
		errs = append(errs, errors.New("search.workers must not be negative"))
	}
	if c.Search.Top < 0 {
		errs = append(errs, errors.New("search.top must not be negative"))
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 1 {
		errs = append(errs, fmt.Errorf("search.min_score must be between 0 and 1, got %.3f", c.Search.MinScore))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
