// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"time"

	"github.com/tram-stm/go-tram/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxRetries is the number of attempts a transaction makes before giving up
	DefaultMaxRetries = 100
	// DefaultInitialBackoff is the first wait interval while polling a locked cell
	DefaultInitialBackoff = 100 * time.Nanosecond
)

// Config is the tram configuration
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures the transaction engine
type EngineConfig struct {
	// MaxRetries is the default number of attempts per transaction
	MaxRetries int `yaml:"maxRetries"`
	// Strict reports retry exhaustion as an error instead of a result status
	Strict bool `yaml:"strict"`
	// Backoff configures lock polling
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig configures the exponential backoff used while waiting for a cell lock
type BackoffConfig struct {
	// Initial is the first wait interval; it doubles after every failed poll
	Initial time.Duration `yaml:"initial"`
	// Max caps the wait interval. Zero means unbounded.
	Max time.Duration `yaml:"max"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Engine: EngineConfig{
			MaxRetries: DefaultMaxRetries,
			Backoff: BackoffConfig{
				Initial: DefaultInitialBackoff,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from the given YAML file
func Load(path string) (Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config %s", path)
	}
	return Parse(bytes)
}

// Parse parses a YAML configuration on top of the defaults
func Parse(bytes []byte) (Config, error) {
	config := Default()
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return Config{}, errors.NewInvalid("malformed config: %v", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Marshal encodes the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the configuration
func (c Config) Validate() error {
	var err error
	if c.Engine.MaxRetries < 0 {
		err = multierr.Append(err, errors.NewInvalid("engine.maxRetries must not be negative"))
	}
	if c.Engine.Backoff.Initial <= 0 {
		err = multierr.Append(err, errors.NewInvalid("engine.backoff.initial must be positive"))
	}
	if c.Engine.Backoff.Max < 0 {
		err = multierr.Append(err, errors.NewInvalid("engine.backoff.max must not be negative"))
	}
	if c.Engine.Backoff.Max > 0 && c.Engine.Backoff.Max < c.Engine.Backoff.Initial {
		err = multierr.Append(err, errors.NewInvalid("engine.backoff.max must not be less than engine.backoff.initial"))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		err = multierr.Append(err, errors.NewInvalid("unknown logging.level %q", c.Logging.Level))
	}
	return err
}
