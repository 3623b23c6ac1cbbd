package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultReconcileInterval is how often the server sweeps for drift.
	DefaultReconcileInterval = 5 * time.Minute

	// DefaultSyncInterval is how often the server pulls from its peer.
	DefaultSyncInterval = time.Minute

	// DefaultPeerTimeout bounds one request to the peer.
	DefaultPeerTimeout = 10 * time.Second

	// DefaultPushQueueSize is the number of messages waiting for an immediate push.
	DefaultPushQueueSize = 64

	// DefaultNotifyQueueSize is the initial capacity of the notification dispatch queue.
	DefaultNotifyQueueSize = 256
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              string        `yaml:"port" validate:"required,numeric"`
	ReadTimeout       time.Duration `yaml:"readTimeout" validate:"min=1s"`
	WriteTimeout      time.Duration `yaml:"writeTimeout" validate:"min=1s"`
	IdleTimeout       time.Duration `yaml:"idleTimeout" validate:"min=1s"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout" validate:"min=1s"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout" validate:"min=1s"`
}

// DatabaseConfig sizes the Postgres connection pool.
type DatabaseConfig struct {
	MaxConns        int32         `yaml:"maxConns" validate:"min=1"`
	MinConns        int32         `yaml:"minConns" validate:"min=0,ltefield=MaxConns"`
	MaxConnIdleTime time.Duration `yaml:"maxConnIdleTime" validate:"min=1s"`
}

// ReconcileConfig holds settings for the background reconciler.
type ReconcileConfig struct {
	Interval time.Duration `yaml:"interval" validate:"min=1s"`
}

// SyncConfig holds peer sync settings. An empty PeerURL disables pulling
// and pushing; an empty Token disables the endpoints served to peers.
type SyncConfig struct {
	PeerURL       string        `yaml:"peerURL" validate:"omitempty,url"`
	Token         string        `yaml:"token" validate:"required_with=PeerURL"`
	Interval      time.Duration `yaml:"interval" validate:"min=1s"`
	Timeout       time.Duration `yaml:"timeout" validate:"min=1s"`
	PushQueueSize int           `yaml:"pushQueueSize" validate:"min=1"`
}

// NotifyConfig holds notification bus settings.
type NotifyConfig struct {
	QueueSize int `yaml:"queueSize" validate:"min=1"`
}

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Sync      SyncConfig      `yaml:"sync"`
	Notify    NotifyConfig    `yaml:"notify"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              DefaultPort,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns:        10,
			MinConns:        2,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Reconcile: ReconcileConfig{
			Interval: DefaultReconcileInterval,
		},
		Sync: SyncConfig{
			Interval:      DefaultSyncInterval,
			Timeout:       DefaultPeerTimeout,
			PushQueueSize: DefaultPushQueueSize,
		},
		Notify: NotifyConfig{
			QueueSize: DefaultNotifyQueueSize,
		},
	}
}

// Load returns the defaults overlaid with the file at path, if path is set.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Settings missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
