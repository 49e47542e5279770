// Package config holds settings for the ramadan-compass CLI and the
// environment of the proxy server.
//
// CLI settings are stored as JSON at ~/.config/ramadan-compass/config.json
// (XDG-compliant). The merge priority is: CLI flags > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/ramadan-compass/internal/geo"
	"github.com/smokyabdulrahman/ramadan-compass/internal/notify"
)

const (
	configDirName  = "ramadan-compass"
	configFileName = "config.json"

	// DefaultMQTTTopic is where transitions are published when no topic is set.
	DefaultMQTTTopic = notify.DefaultTopic
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"time_format",
	"proxy_url",
	"mqtt_broker", "mqtt_topic",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City       string   `json:"city,omitempty"`
	Country    string   `json:"country,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`    // pointer so the equator is a valid setting
	Longitude  *float64 `json:"longitude,omitempty"`   // pointer so the prime meridian is a valid setting
	TimeFormat string   `json:"time_format,omitempty"` // "12h" or "24h"
	ProxyURL   string   `json:"proxy_url,omitempty"`
	MQTTBroker string   `json:"mqtt_broker,omitempty"`
	MQTTTopic  string   `json:"mqtt_topic,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		TimeFormat: "24h",
		MQTTTopic:  DefaultMQTTTopic,
	}
}

// HasCoordinates reports whether both latitude and longitude are set.
func (c *Config) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// HasCity reports whether both city and country are set.
func (c *Config) HasCity() bool {
	return c.City != "" && c.Country != ""
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// ParseLatitude parses and range-checks a latitude.
func ParseLatitude(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid latitude %q: must be a number", value)
	}
	if !geo.ValidLatitude(v) {
		return 0, fmt.Errorf("invalid latitude %q: must be between -90 and 90", value)
	}
	return v, nil
}

// ParseLongitude parses and range-checks a longitude.
func ParseLongitude(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid longitude %q: must be a number", value)
	}
	if !geo.ValidLongitude(v) {
		return 0, fmt.Errorf("invalid longitude %q: must be between -180 and 180", value)
	}
	return v, nil
}

// ValidateTimeFormat accepts "12h" or "24h".
func ValidateTimeFormat(value string) error {
	if value != "12h" && value != "24h" {
		return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
	}
	return nil
}

func validateURL(key, value string, schemes ...string) error {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute URL", key, value)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q: scheme must be one of %s", key, value, strings.Join(schemes, ", "))
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
// An empty value clears the key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		c.City = value
	case "country":
		c.Country = value
	case "latitude":
		if value == "" {
			c.Latitude = nil
			return nil
		}
		v, err := ParseLatitude(value)
		if err != nil {
			return err
		}
		c.Latitude = &v
	case "longitude":
		if value == "" {
			c.Longitude = nil
			return nil
		}
		v, err := ParseLongitude(value)
		if err != nil {
			return err
		}
		c.Longitude = &v
	case "time_format":
		if err := ValidateTimeFormat(value); err != nil {
			return err
		}
		c.TimeFormat = value
	case "proxy_url":
		if value != "" {
			if err := validateURL(key, value, "http", "https"); err != nil {
				return err
			}
		}
		c.ProxyURL = value
	case "mqtt_broker":
		if value != "" {
			if err := validateURL(key, value, "tcp", "ssl", "ws", "wss", "mqtt", "mqtts"); err != nil {
				return err
			}
		}
		c.MQTTBroker = value
	case "mqtt_topic":
		if strings.ContainsAny(value, "+#") {
			return fmt.Errorf("invalid mqtt_topic %q: wildcards are not allowed when publishing", value)
		}
		c.MQTTTopic = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}
	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "latitude":
		return formatCoord(c.Latitude), nil
	case "longitude":
		return formatCoord(c.Longitude), nil
	case "time_format":
		return c.TimeFormat, nil
	case "proxy_url":
		return c.ProxyURL, nil
	case "mqtt_broker":
		return c.MQTTBroker, nil
	case "mqtt_topic":
		return c.MQTTTopic, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
