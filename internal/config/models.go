package config

import (
	"time"

	"github.com/muurk/unitcam/internal/wifi"
)

// CurrentVersion is the config file schema version
const CurrentVersion = 1

// Config represents the device configuration file.
type Config struct {
	Version int  `yaml:"version"`
	WiFi    WiFi `yaml:"wifi"`
	MDNS    MDNS `yaml:"mdns"`
}

// WiFi holds the two candidate credential pairs and the join timeout.
type WiFi struct {
	SSID            string `yaml:"ssid,omitempty"`             // Set by the user from the web UI
	Password        string `yaml:"password,omitempty"`         // Passphrase for SSID
	DefaultSSID     string `yaml:"default_ssid,omitempty"`     // Built-in default network
	DefaultPassword string `yaml:"default_password,omitempty"` // Passphrase for DefaultSSID
	JoinTimeoutMS   int    `yaml:"join_timeout_ms,omitempty"`  // 0 = wifi.DefaultJoinTimeout
}

// MDNS holds discovery settings.
type MDNS struct {
	Hostname string `yaml:"hostname,omitempty"` // Advertised as <hostname>.local
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Version: CurrentVersion,
		WiFi: WiFi{
			JoinTimeoutMS: int(wifi.DefaultJoinTimeout / time.Millisecond),
		},
	}
}

// UserCredentials implements wifi.ConfigProvider
func (c *Config) UserCredentials() wifi.Credentials {
	return wifi.Credentials{SSID: c.WiFi.SSID, Secret: c.WiFi.Password}
}

// DefaultCredentials implements wifi.ConfigProvider
func (c *Config) DefaultCredentials() wifi.Credentials {
	return wifi.Credentials{SSID: c.WiFi.DefaultSSID, Secret: c.WiFi.DefaultPassword}
}

// MDNSHostname returns the configured discovery hostname (may be empty)
func (c *Config) MDNSHostname() string {
	return c.MDNS.Hostname
}

// JoinTimeout returns the join timeout, falling back to wifi.DefaultJoinTimeout.
func (c *Config) JoinTimeout() time.Duration {
	if c.WiFi.JoinTimeoutMS <= 0 {
		return wifi.DefaultJoinTimeout
	}
	return time.Duration(c.WiFi.JoinTimeoutMS) * time.Millisecond
}

// SetWiFi sets the user credential pair.
func (c *Config) SetWiFi(ssid, password string) {
	c.WiFi.SSID = ssid
	c.WiFi.Password = password
}

// SetDefaultWiFi sets the built-in default credential pair.
func (c *Config) SetDefaultWiFi(ssid, password string) {
	c.WiFi.DefaultSSID = ssid
	c.WiFi.DefaultPassword = password
}

// SetHostname sets the mDNS hostname.
func (c *Config) SetHostname(hostname string) {
	c.MDNS.Hostname = hostname
}

// SetJoinTimeout sets the join timeout.
func (c *Config) SetJoinTimeout(d time.Duration) {
	c.WiFi.JoinTimeoutMS = int(d / time.Millisecond)
}

// Redacted returns a copy with passphrases masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.WiFi.Password = mask(c.WiFi.Password)
	out.WiFi.DefaultPassword = mask(c.WiFi.DefaultPassword)
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
