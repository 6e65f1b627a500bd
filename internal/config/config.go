// Package config loads CLI defaults from an optional sumzle.json file and
// applies SUMZLE_* environment overrides on top. The library packages take
// plain parameters; config only exists so the CLI has sensible, tunable
// limits.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// SolverConfig bounds searches started from the CLI.
type SolverConfig struct {
	// MaxLength is the default candidate expression length cap.
	MaxLength int `json:"max_length"`
	// MaxResults is the default solution cap.
	MaxResults int `json:"max_results"`
	// MaxOperand bounds numeric literals; 0 disables the bound.
	MaxOperand int `json:"max_operand"`
	// Timeout aborts a search that runs too long.
	Timeout Duration `json:"timeout"`
}

// LoggingConfig controls CLI logging.
type LoggingConfig struct {
	Verbose bool `json:"verbose"`
}

// Config is the root configuration.
type Config struct {
	Solver  SolverConfig  `json:"solver"`
	Logging LoggingConfig `json:"logging"`
}

// Duration wraps time.Duration so JSON can carry "10s" style values.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns the configuration used when no file and no overrides are
// present. The limits match the game's board: eight tiles, a handful of
// hints, operands capped so hints stay readable.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			MaxLength:  8,
			MaxResults: 20,
			MaxOperand: 999,
			Timeout:    Duration(10 * time.Second),
		},
	}
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist, then applies environment overrides. A present-but-broken
// file is an error; silently ignoring it would hide typos.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v, ok := envInt("SUMZLE_MAX_LENGTH"); ok {
		c.Solver.MaxLength = v
	}
	if v, ok := envInt("SUMZLE_MAX_RESULTS"); ok {
		c.Solver.MaxResults = v
	}
	if v, ok := envInt("SUMZLE_MAX_OPERAND"); ok {
		c.Solver.MaxOperand = v
	}
	if v := os.Getenv("SUMZLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Solver.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("SUMZLE_VERBOSE"); v != "" {
		c.Logging.Verbose = v == "1" || v == "true"
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Config) validate() error {
	if c.Solver.MaxLength <= 0 {
		return fmt.Errorf("solver.max_length must be positive, got %d", c.Solver.MaxLength)
	}
	if c.Solver.MaxResults <= 0 {
		return fmt.Errorf("solver.max_results must be positive, got %d", c.Solver.MaxResults)
	}
	if c.Solver.MaxOperand < 0 {
		return fmt.Errorf("solver.max_operand must not be negative, got %d (0 disables the bound)", c.Solver.MaxOperand)
	}
	if c.Solver.Timeout < 0 {
		return fmt.Errorf("solver.timeout must not be negative")
	}
	return nil
}
