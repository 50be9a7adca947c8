package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL        = "http://localhost:3000" // Update with your backend URL
	defaultRequestTimeout = 30 * time.Second
	defaultTopicPrefix    = "wattboard"

	// BaseURLEnv overrides base_url from the config file
	BaseURLEnv = "WATTBOARD_BASE_URL"
)

// Config holds the application configuration
type Config struct {
	BaseURL        string     `yaml:"base_url,omitempty"`
	Timezone       string     `yaml:"timezone,omitempty"`        // IANA name, e.g. "America/New_York"
	RequestTimeout string     `yaml:"request_timeout,omitempty"` // Go duration, "0" disables
	Log            LogConfig  `yaml:"log,omitempty"`
	MQTT           MQTTConfig `yaml:"mqtt,omitempty"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // console or json
	File   string `yaml:"file,omitempty"`
}

// MQTTConfig holds MQTT broker configuration for publishing usage
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // e.g., "homeassistant.local:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default: "wattboard"
	ClientID    string `yaml:"client_id,omitempty"`
}

// Default returns a config populated with the built-in defaults
func Default() *Config {
	return &Config{
		BaseURL:        defaultBaseURL,
		RequestTimeout: defaultRequestTimeout.String(),
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		MQTT: MQTTConfig{
			TopicPrefix: defaultTopicPrefix,
		},
	}
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetBaseURL returns the API base URL: environment override, then the
// config file, then the localhost default
func (c *Config) GetBaseURL() string {
	if v := os.Getenv(BaseURLEnv); v != "" {
		return v
	}
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return defaultBaseURL
}

// GetTimezone returns the configured IANA timezone, then $TZ, then the
// host's zone, then "UTC"
func (c *Config) GetTimezone() string {
	if c.Timezone != "" {
		return c.Timezone
	}
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if tz := localZoneName(); tz != "" {
		return tz
	}
	return "UTC"
}

// localtimePath is the system zone link read when time.Local has no name
var localtimePath = "/etc/localtime"

// localZoneName resolves the IANA name of the host zone, or "" if unknown
func localZoneName() string {
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	target, err := os.Readlink(localtimePath)
	if err != nil {
		return ""
	}
	if i := strings.LastIndex(target, "zoneinfo/"); i >= 0 {
		return target[i+len("zoneinfo/"):]
	}
	return ""
}

// GetLocation loads the configured timezone
func (c *Config) GetLocation() (*time.Location, error) {
	tz := c.GetTimezone()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// GetRequestTimeout parses request_timeout with a default of 30s
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	if c.RequestTimeout == "" {
		return defaultRequestTimeout, nil
	}
	if c.RequestTimeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid request_timeout %q: must not be negative", c.RequestTimeout)
	}
	return d, nil
}

// GetTopicPrefix returns the MQTT topic prefix, defaulting to "wattboard"
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return defaultTopicPrefix
	}
	return c.MQTT.TopicPrefix
}
