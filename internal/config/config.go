// Package config loads the service configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard-library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the seedfinder service configuration. Every field has a usable
// default; a missing config file means "run with defaults".
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// DatabasePath is the SQLite file holding the resolution log.
	DatabasePath string `yaml:"database_path"`
	// JournalDir is where compressed convergence journals are written.
	// Empty disables the journal.
	JournalDir string `yaml:"journal_dir"`
	// ConvergenceCooldown deduplicates repeated convergence records for the
	// same session and seed within the window (route changes in the UI can
	// re-trigger an already-reported convergence).
	ConvergenceCooldown Duration `yaml:"convergence_cooldown"`
	// RequestTimeout bounds in-flight HTTP requests.
	RequestTimeout Duration `yaml:"request_timeout"`
	// SessionMaxIdle is how long an untouched session survives before the
	// reaper drops it.
	SessionMaxIdle Duration `yaml:"session_max_idle"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Listen:              ":8080",
		DatabasePath:        "seedfinder.db",
		JournalDir:          "",
		ConvergenceCooldown: Duration(30 * time.Second),
		RequestTimeout:      Duration(60 * time.Second),
		SessionMaxIdle:      Duration(30 * time.Minute),
	}
}

// Load reads a YAML config file, filling omitted fields with defaults. A
// missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.ConvergenceCooldown < 0 {
		return fmt.Errorf("convergence cooldown must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.SessionMaxIdle <= 0 {
		return fmt.Errorf("session max idle must be positive")
	}
	return nil
}
