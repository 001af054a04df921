// Package config loads and validates the activitystream.json configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Hwangyonghwan/activity-stream/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "activitystream.json"

	// DefaultPort is the default server port.
	DefaultPort = 8647

	// DefaultHost is the default server host.
	DefaultHost = "localhost"
)

// Config represents the complete activitystream.json configuration.
type Config struct {
	// Name is the deployment name, used as the metrics namespace suffix.
	Name string `json:"name,omitempty"`

	// Port is the HTTP server port.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Prefs seeds the preference store: preference name -> raw value.
	// Feed options preferences hold JSON strings.
	Prefs map[string]string `json:"prefs,omitempty"`

	// Feeds lists the built-in feed preference names enabled at startup.
	// Empty means all known built-ins.
	Feeds []string `json:"feeds,omitempty"`

	// Surface contains content-surface hub settings.
	Surface SurfaceConfig `json:"surface,omitempty"`

	// Thumbs contains story thumbnail store settings.
	Thumbs ThumbsConfig `json:"thumbs,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SurfaceConfig contains content-surface hub settings.
type SurfaceConfig struct {
	// MaxMessageBytes caps inbound WebSocket message size.
	MaxMessageBytes int64 `json:"maxMessageBytes,omitempty"`

	// WriteTimeout is the per-message write deadline (e.g., "5s").
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// PingInterval is how often surfaces are pinged (e.g., "30s").
	PingInterval string `json:"pingInterval,omitempty"`
}

// ThumbsConfig contains story thumbnail store settings.
type ThumbsConfig struct {
	// Dir is the local directory for the disk store (default store).
	Dir string `json:"dir,omitempty"`

	// S3Bucket switches the store to S3 when set.
	S3Bucket string `json:"s3Bucket,omitempty"`

	// S3Prefix is the key prefix for thumbnail objects.
	S3Prefix string `json:"s3Prefix,omitempty"`

	// S3Region is the bucket region.
	S3Region string `json:"s3Region,omitempty"`

	// MaxBytes caps a single thumbnail's size (0 = no limit).
	MaxBytes int64 `json:"maxBytes,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "activity-stream",
		Port: DefaultPort,
		Host: DefaultHost,
		Surface: SurfaceConfig{
			MaxMessageBytes: 64 << 10,
			WriteTimeout:    "5s",
			PingInterval:    "30s",
		},
		Thumbs: ThumbsConfig{
			Dir:      "thumbs",
			S3Prefix: "thumbs/",
			MaxBytes: 2 << 20,
		},
	}
}

// Load searches dir and its parents for activitystream.json and loads it.
// If no file is found, defaults are returned.
func Load(dir string) (*Config, error) {
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return New(), nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("AS001").Wrap(err).
			WithSuggestion(fmt.Sprintf("create %s or run from the project directory", ConfigFileName))
	}

	config := New()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.New("AS002").Wrap(err)
	}

	config.configPath = path
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Path returns the path the config was loaded from ("" for defaults).
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in zero-valued fields.
func (c *Config) applyDefaults() {
	d := New()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.Surface.MaxMessageBytes == 0 {
		c.Surface.MaxMessageBytes = d.Surface.MaxMessageBytes
	}
	if c.Surface.WriteTimeout == "" {
		c.Surface.WriteTimeout = d.Surface.WriteTimeout
	}
	if c.Surface.PingInterval == "" {
		c.Surface.PingInterval = d.Surface.PingInterval
	}
	if c.Thumbs.Dir == "" {
		c.Thumbs.Dir = d.Thumbs.Dir
	}
	if c.Thumbs.S3Prefix == "" {
		c.Thumbs.S3Prefix = d.Thumbs.S3Prefix
	}
	if c.Thumbs.MaxBytes == 0 {
		c.Thumbs.MaxBytes = d.Thumbs.MaxBytes
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("AS003").
			WithSuggestion(fmt.Sprintf("got port %d", c.Port))
	}
	return nil
}

// Address returns the host:port address to listen on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return fmt.Sprintf("http://%s", c.Address())
}
