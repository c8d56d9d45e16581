// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; file and env layers override them.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"net"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// Server configures the HTTP listener.
	Server Server `koanf:"server"`

	// Logging controls log verbosity.
	Logging Logging `koanf:"logging"`

	// Events sizes the in-memory publication pipeline.
	Events Events `koanf:"events"`

	// Kafka configures the interaction event producer.
	Kafka Kafka `koanf:"kafka"`

	// Seed declares banners created at startup.
	Seed Seed `koanf:"seed"`
}

// Server holds the HTTP listener settings.
type Server struct {
	// Host is the listen host. Empty binds all interfaces.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// ReadTimeout bounds how long reading a request may take.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds how long writing a response may take.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout bounds how long keep-alive connections stay open.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// ShutdownTimeout bounds how long graceful shutdown may take.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Logging holds log settings.
type Logging struct {
	// Level controls verbosity: debug, info, warn, error.
	Level string `koanf:"level"`
}

// Events holds the publication pipeline settings.
type Events struct {
	// QueueSize bounds the in-memory event queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of publish dispatchers.
	// Zero lets the pool size itself.
	WorkerCount int `koanf:"worker_count"`
}

// Kafka holds the broker settings. Empty brokers disable publication.
type Kafka struct {
	// Brokers lists broker addresses.
	Brokers []string `koanf:"brokers"`

	// Topic names the topic interaction events are published to.
	Topic string `koanf:"topic"`
}

// Seed holds the startup catalog.
type Seed struct {
	// Banners are created through the regular create path before serving.
	Banners []SeedBanner `koanf:"banners"`
}

// SeedBanner is one catalog entry loaded at startup.
type SeedBanner struct {
	ImageURL string `koanf:"image_url"`
	ClickURL string `koanf:"click_url"`
	Title    string `koanf:"title"`
	Weight   int    `koanf:"weight"`
	IsLocal  bool   `koanf:"is_local"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		Server: Server{
			Host:            "",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: Logging{
			Level: "info",
		},
		Events: Events{
			QueueSize:   10_000,
			WorkerCount: runtime.NumCPU() * 2,
		},
		Kafka: Kafka{
			Topic: "banner-events",
		},
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// PublishEnabled reports whether broker publication is configured.
func (c *Config) PublishEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 ||
		c.Server.IdleTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidConfig)
	}

	if c.Events.QueueSize < 1 {
		return fmt.Errorf("%w: events queue size must be positive", ErrInvalidConfig)
	}

	if c.Events.WorkerCount < 0 {
		return fmt.Errorf("%w: events worker count must not be negative", ErrInvalidConfig)
	}

	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.Topic) == "" {
		return fmt.Errorf("%w: kafka topic is required when brokers are set", ErrInvalidConfig)
	}

	for i, b := range c.Seed.Banners {
		if strings.TrimSpace(b.ImageURL) == "" || strings.TrimSpace(b.ClickURL) == "" {
			return fmt.Errorf("%w: seed banner %d needs image_url and click_url", ErrInvalidConfig, i)
		}
	}

	return nil
}
