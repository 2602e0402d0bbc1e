// Package config loads repometa's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	platformerrors "github.com/jmgilman/go/errors"
)

// Cache provider names.
const (
	CacheMemory   = "memory"
	CacheFile     = "file"
	CachePostgres = "postgres"
)

// Runner names.
const (
	RunnerEngine = "engine"
	RunnerCLI    = "cli"
)

// CacheConfig selects and configures the metadata cache provider.
type CacheConfig struct {
	Provider   string `toml:"provider"`    // "memory", "file" or "postgres"
	MaxEntries int    `toml:"max_entries"` // memory only; 0 = unbounded
	Dir        string `toml:"dir"`         // file only
	DSN        string `toml:"dsn"`         // postgres only
}

// ExecutorConfig configures the mutation worker pool.
type ExecutorConfig struct {
	Workers              int           `toml:"workers"`
	QueueSize            int           `toml:"queue_size"`
	Runner               string        `toml:"runner"` // "engine" or "cli"
	Retries              uint64        `toml:"retries"`
	RetryBase            time.Duration `toml:"retry_base"`
	InvalidateOnComplete bool          `toml:"invalidate_on_complete"`
}

// Config holds the repometa configuration.
type Config struct {
	StorageRoot   string         `toml:"storage_root"`
	DefaultBranch string         `toml:"default_branch"`
	LogLevel      string         `toml:"log_level"`
	Cache         CacheConfig    `toml:"cache"`
	Executor      ExecutorConfig `toml:"executor"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		StorageRoot:   "/var/opt/repometa/repositories",
		DefaultBranch: "main",
		LogLevel:      "info",
		Cache: CacheConfig{
			Provider:   CacheMemory,
			MaxEntries: 4096,
			Dir:        "~/.cache/repometa",
		},
		Executor: ExecutorConfig{
			Workers:   4,
			QueueSize: 256,
			Runner:    RunnerEngine,
			Retries:   3,
			RetryBase: 100 * time.Millisecond,
		},
	}
}

// DefaultPath returns ~/.config/repometa/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "repometa", "config.toml"), nil
}

// Load reads the config file at path, or DefaultPath when path is empty.
// A missing file yields the defaults without error; keys absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Parse(nil)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Parse(nil)
		}
		return Default(), platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "failed to read config file")
	}

	return Parse(data)
}

// Parse decodes TOML data over Default(), then validates and expands paths.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}

	for _, p := range []*string{&cfg.StorageRoot, &cfg.Cache.Dir} {
		expanded, err := expandPath(*p)
		if err != nil {
			return Default(), platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "failed to expand path")
		}
		*p = expanded
	}

	return cfg, nil
}

// Validate checks enum values and paths.
func (c Config) Validate() error {
	if err := validatePath(c.StorageRoot, "storage_root"); err != nil {
		return err
	}
	if c.StorageRoot == "" {
		return invalid("storage_root is required")
	}
	if c.DefaultBranch == "" {
		return invalid("default_branch is required")
	}

	switch c.Cache.Provider {
	case CacheMemory:
		if c.Cache.MaxEntries < 0 {
			return invalid("cache.max_entries must not be negative, got %d", c.Cache.MaxEntries)
		}
	case CacheFile:
		if err := validatePath(c.Cache.Dir, "cache.dir"); err != nil {
			return err
		}
		if c.Cache.Dir == "" {
			return invalid("cache.dir is required for the file provider")
		}
	case CachePostgres:
		if c.Cache.DSN == "" {
			return invalid("cache.dsn is required for the postgres provider")
		}
	default:
		return invalid("invalid cache.provider %q: must be \"memory\", \"file\" or \"postgres\"", c.Cache.Provider)
	}

	if c.Executor.Runner != RunnerEngine && c.Executor.Runner != RunnerCLI {
		return invalid("invalid executor.runner %q: must be \"engine\" or \"cli\"", c.Executor.Runner)
	}
	if c.Executor.Workers < 1 {
		return invalid("executor.workers must be at least 1, got %d", c.Executor.Workers)
	}
	if c.Executor.QueueSize < 1 {
		return invalid("executor.queue_size must be at least 1, got %d", c.Executor.QueueSize)
	}
	if c.Executor.RetryBase < 0 {
		return invalid("executor.retry_base must not be negative")
	}

	return nil
}

func invalid(format string, args ...any) error {
	return platformerrors.Newf(platformerrors.CodeInvalidConfig, format, args...)
}

// validatePath checks that the path is absolute or starts with ~
func validatePath(path, fieldName string) error {
	if path == "" || path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return invalid("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}
