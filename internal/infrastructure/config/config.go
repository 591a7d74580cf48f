package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for hm2prom.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	CCU     CCUConfig     `yaml:"ccu"`
	Poll    PollConfig    `yaml:"poll"`
	API     APIConfig     `yaml:"api"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Logging LoggingConfig `yaml:"logging"`
}

// CCUConfig describes how to reach the controller's XML-API.
type CCUConfig struct {
	// URL is the base address of the controller, e.g. "http://192.168.17.10".
	URL string `yaml:"url"`

	// Timeout bounds a single document fetch (seconds).
	// The controller is resource-constrained and some documents take a while.
	Timeout int `yaml:"timeout"`

	Paths CCUPathsConfig `yaml:"paths"`
}

// CCUPathsConfig holds the relative XML-API paths of the six documents.
type CCUPathsConfig struct {
	Devices   string `yaml:"devices"`
	Rooms     string `yaml:"rooms"`
	Functions string `yaml:"functions"`
	States    string `yaml:"states"`
	Sysvars   string `yaml:"sysvars"`
	RSSI      string `yaml:"rssi"`
}

// PollConfig contains polling loop settings.
type PollConfig struct {
	// Interval is the pause between two refresh cycles (seconds).
	Interval int `yaml:"interval"`
}

// APIConfig contains HTTP exposition server settings.
type APIConfig struct {
	Host        string           `yaml:"host"`
	Port        int              `yaml:"port"`
	MetricsPath string           `yaml:"metrics_path"`
	Timeouts    APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// MQTTConfig contains MQTT broker connection settings.
// MQTT is only used to publish the exporter's status document.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Topic     string              `yaml:"topic"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"`
	Output string            `yaml:"output"`
	File   FileLoggingConfig `yaml:"file"`
}

// FileLoggingConfig contains file-based logging settings.
// File logging is disabled while Path is empty.
type FileLoggingConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HM2PROM_SECTION_KEY
// For example: HM2PROM_CCU_URL, HM2PROM_API_PORT
//
// When allowMissing is true a non-existent file is not an error and the
// defaults plus environment are used as-is.
func Load(path string, allowMissing bool) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case allowMissing && errors.Is(err, fs.ErrNotExist):
		// defaults + env only
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		CCU: CCUConfig{
			URL:     "http://192.168.17.10",
			Timeout: 30,
			Paths: CCUPathsConfig{
				Devices:   "/config/xmlapi/devicelist.cgi",
				Rooms:     "/config/xmlapi/roomlist.cgi",
				Functions: "/config/xmlapi/functionlist.cgi",
				States:    "/config/xmlapi/statelist.cgi",
				Sysvars:   "/config/xmlapi/sysvarlist.cgi",
				RSSI:      "/config/xmlapi/rssilist.cgi",
			},
		},
		Poll: PollConfig{
			Interval: 20,
		},
		API: APIConfig{
			Host:        "0.0.0.0",
			Port:        9110,
			MetricsPath: "/metrics",
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 30,
				Idle:  60,
			},
		},
		MQTT: MQTTConfig{
			Enabled: false,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "hm2prom",
			},
			QoS:   1,
			Topic: "hm2prom/status",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
			File: FileLoggingConfig{
				MaxSize:    100,
				MaxBackups: 3,
				MaxAge:     28,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HM2PROM_SECTION_KEY
// Malformed numeric values are ignored so that Validate reports the file value.
func applyEnvOverrides(cfg *Config) {
	// CCU
	if v := os.Getenv("HM2PROM_CCU_URL"); v != "" {
		cfg.CCU.URL = v
	}

	// Poll
	if v := os.Getenv("HM2PROM_POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Poll.Interval = n
		}
	}

	// API
	if v := os.Getenv("HM2PROM_API_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = n
		}
	}

	// Logging
	if v := os.Getenv("HM2PROM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// MQTT
	if v := os.Getenv("HM2PROM_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HM2PROM_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HM2PROM_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// CCU validation
	if c.CCU.URL == "" {
		errs = append(errs, "ccu.url is required")
	} else if u, err := url.Parse(c.CCU.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "ccu.url must be an absolute http(s) URL")
	}
	if c.CCU.Timeout <= 0 {
		errs = append(errs, "ccu.timeout must be positive")
	}
	paths := map[string]string{
		"devices":   c.CCU.Paths.Devices,
		"rooms":     c.CCU.Paths.Rooms,
		"functions": c.CCU.Paths.Functions,
		"states":    c.CCU.Paths.States,
		"sysvars":   c.CCU.Paths.Sysvars,
		"rssi":      c.CCU.Paths.RSSI,
	}
	for _, name := range []string{"devices", "rooms", "functions", "states", "sysvars", "rssi"} {
		if !strings.HasPrefix(paths[name], "/") {
			errs = append(errs, fmt.Sprintf("ccu.paths.%s must start with /", name))
		}
	}

	// Poll validation
	if c.Poll.Interval <= 0 {
		errs = append(errs, "poll.interval must be positive")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}
	if !strings.HasPrefix(c.API.MetricsPath, "/") {
		errs = append(errs, "api.metrics_path must start with /")
	}

	// MQTT validation (only when enabled)
	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.Topic == "" {
			errs = append(errs, "mqtt.topic is required when mqtt is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetPollInterval returns the pause between two refresh cycles.
func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.Poll.Interval) * time.Second
}

// GetFetchTimeout returns the per-document fetch timeout as a Duration.
func (c CCUConfig) GetFetchTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}
