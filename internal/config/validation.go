package config

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Limits from 802.11 and RFC 6763.
const (
	MaxSSIDLength       = 32
	MinPassphraseLength = 8
	MaxPassphraseLength = 63
	MaxHostnameLength   = 63
)

// Validate checks the file for structural problems and reports all of them.
// It does not judge whether credentials are correct; a wrong passphrase
// simply times out and falls back to the access point. See Warnings for
// advisory checks.
func (c *Config) Validate() error {
	var err error

	if c.Version != CurrentVersion {
		err = multierr.Append(err, fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion))
	}

	err = multierr.Append(err, validatePair("wifi", c.WiFi.SSID, c.WiFi.Password))
	err = multierr.Append(err, validatePair("default wifi", c.WiFi.DefaultSSID, c.WiFi.DefaultPassword))

	if c.WiFi.JoinTimeoutMS < 0 {
		err = multierr.Append(err, fmt.Errorf("join timeout cannot be negative: %dms", c.WiFi.JoinTimeoutMS))
	}

	err = multierr.Append(err, ValidateHostname(c.MDNS.Hostname))
	return err
}

func validatePair(label, ssid, password string) error {
	var err error
	if len(ssid) > MaxSSIDLength {
		err = multierr.Append(err, fmt.Errorf("%s SSID too long (max %d chars): %d chars", label, MaxSSIDLength, len(ssid)))
	}
	if ssid == "" && password != "" {
		err = multierr.Append(err, fmt.Errorf("%s password set without an SSID", label))
	}
	return err
}

// Warnings reports settings that are allowed but unlikely to work, such as a
// passphrase outside the WPA2 length range. They never block a save.
func (c *Config) Warnings() error {
	return multierr.Combine(
		checkPassphrase("wifi", c.WiFi.Password),
		checkPassphrase("default wifi", c.WiFi.DefaultPassword),
	)
}

func checkPassphrase(label, password string) error {
	if password != "" && (len(password) < MinPassphraseLength || len(password) > MaxPassphraseLength) {
		return fmt.Errorf("%s password is usually %d-%d chars, got %d",
			label, MinPassphraseLength, MaxPassphraseLength, len(password))
	}
	return nil
}

// ValidateHostname checks an mDNS host label. Empty is allowed and disables
// advertisement.
func ValidateHostname(hostname string) error {
	if hostname == "" {
		return nil
	}
	if len(hostname) > MaxHostnameLength {
		return fmt.Errorf("hostname too long (max %d chars): %d chars", MaxHostnameLength, len(hostname))
	}
	if strings.HasPrefix(hostname, "-") || strings.HasSuffix(hostname, "-") {
		return fmt.Errorf("hostname %q cannot start or end with '-'", hostname)
	}
	for _, r := range hostname {
		ok := r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return fmt.Errorf("hostname %q contains invalid character %q", hostname, r)
		}
	}
	return nil
}
