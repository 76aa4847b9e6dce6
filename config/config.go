// Package config collects the settings of a piggy bank session from
// defaults, the environment, and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of all the environment variables read.
const EnvPrefix = "PIGGYBANK_"

// Config holds the settings of a session.
type Config struct {
	Name string `yaml:"name" env:"NAME"`

	ConnectDelay            time.Duration `yaml:"connect_delay" env:"CONNECT_DELAY"`
	TickInterval            time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`
	InsertionChancePercent  int           `yaml:"insertion_chance_percent" env:"INSERTION_CHANCE_PERCENT"`
	CalibrationStepInterval time.Duration `yaml:"calibration_step_interval" env:"CALIBRATION_STEP_INTERVAL"`
	CalibrationTailDelay    time.Duration `yaml:"calibration_tail_delay" env:"CALIBRATION_TAIL_DELAY"`
	MaxLogEntries           int           `yaml:"max_log_entries" env:"MAX_LOG_ENTRIES"`

	// Seed of the random source. Zero picks one from the wall clock.
	Seed int64 `yaml:"seed" env:"SEED"`

	// RecordPath is where the trace database is written, without the
	// extension. Empty disables recording.
	RecordPath  string `yaml:"record_path" env:"RECORD_PATH"`
	MonitorPort int    `yaml:"monitor_port" env:"MONITOR_PORT"`
	OpenBrowser bool   `yaml:"open_browser" env:"OPEN_BROWSER"`
	TraceEvents bool   `yaml:"trace_events" env:"TRACE_EVENTS"`
}

// Default returns the settings of the original application.
func Default() Config {
	return Config{
		Name:                    "PiggyBank",
		ConnectDelay:            2 * time.Second,
		TickInterval:            5 * time.Second,
		InsertionChancePercent:  10,
		CalibrationStepInterval: 2 * time.Second,
		CalibrationTailDelay:    1 * time.Second,
	}
}

// Load starts from the defaults and applies the environment (after loading
// the given .env files, or ./.env when none is given) and then the YAML file,
// if path is not empty.
func Load(path string, envFiles ...string) (Config, error) {
	c := Default()

	if err := LoadDotEnv(envFiles...); err != nil {
		return c, err
	}

	if err := c.ApplyEnv(nil); err != nil {
		return c, err
	}

	if path != "" {
		if err := c.ApplyFile(path); err != nil {
			return c, err
		}
	}

	return c, nil
}

// LoadDotEnv loads the files into the process environment. Variables that
// are already set win. A missing ./.env is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}

	return nil
}

// ApplyEnv overrides the fields whose PIGGYBANK_* variable is set in
// environ. A nil environ reads the process environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}

	err := env.ParseWithOptions(c, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return fmt.Errorf("parsing %s* variables: %w", EnvPrefix, err)
	}

	return nil
}

// ApplyFile overrides the fields present in a YAML file.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return errors.New("name cannot be empty")
	case c.ConnectDelay <= 0:
		return errors.New("connect delay must be positive")
	case c.TickInterval <= 0:
		return errors.New("tick interval must be positive")
	case c.CalibrationStepInterval <= 0:
		return errors.New("calibration step interval must be positive")
	case c.CalibrationTailDelay <= 0:
		return errors.New("calibration tail delay must be positive")
	case c.InsertionChancePercent < 0 || c.InsertionChancePercent > 100:
		return fmt.Errorf("insertion chance %d%% is not within [0, 100]",
			c.InsertionChancePercent)
	case c.MaxLogEntries < 0:
		return errors.New("max log entries cannot be negative")
	case c.MonitorPort < 0 || c.MonitorPort > 65535:
		return fmt.Errorf("invalid monitor port %d", c.MonitorPort)
	}

	return nil
}
