// Package config loads the pcmi-client YAML configuration file: a plain
// struct with yaml tags, unmarshaled with gopkg.in/yaml.v3 and validated
// before use.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaud        = 19200
	defaultTimeout     = 5 * time.Second
	defaultMaxRetries  = 3
	defaultReadTimeout = 300 * time.Millisecond
)

// Config is the pcmi-client configuration file structure.
type Config struct {
	Serial struct {
		Port string `yaml:"port"`
		Baud int    `yaml:"baud"`
	} `yaml:"serial"`

	Client struct {
		TimeoutSeconds   float64 `yaml:"timeout_seconds"`
		MaxRetries       int     `yaml:"max_retries"`
		CorrelationIDTag string  `yaml:"correlation_id_tag"`
	} `yaml:"client"`

	Streaming struct {
		ZMQEndpoint string `yaml:"zmq_endpoint"`
	} `yaml:"streaming"`

	Monitor struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"monitor"`
}

// Load reads and parses the YAML config file at path, applying defaults to
// any field left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in zero-valued fields with the client's documented
// defaults.
func (c *Config) applyDefaults() {
	if c.Serial.Baud == 0 {
		c.Serial.Baud = defaultBaud
	}
	if c.Client.TimeoutSeconds == 0 {
		c.Client.TimeoutSeconds = defaultTimeout.Seconds()
	}
	if c.Client.MaxRetries == 0 {
		c.Client.MaxRetries = defaultMaxRetries
	}
}

// Valid reports whether the config has every field required to open a
// connection.
func (c *Config) Valid() error {
	if c.Serial.Port == "" {
		return fmt.Errorf("serial.port is required")
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive")
	}
	if c.Client.TimeoutSeconds <= 0 {
		return fmt.Errorf("client.timeout_seconds must be positive")
	}
	if c.Client.MaxRetries < 0 {
		return fmt.Errorf("client.max_retries must not be negative")
	}
	return nil
}

// Timeout returns the configured client timeout as a time.Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Client.TimeoutSeconds * float64(time.Second))
}

// ReadTimeout is the default timeout the serial transport applies to a read
// called with a zero timeout. It is not user configurable and is separate
// from the client's overall response timeout.
func ReadTimeout() time.Duration { return defaultReadTimeout }
