package discovery

import (
	"fmt"
	"strings"
	"time"
)

// Device represents a UnitCam discovered on the network
type Device struct {
	// Instance is the mDNS service instance name (e.g., "cam1")
	Instance string

	// Hostname is the mDNS hostname (e.g., "cam1.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.50")
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "path=/", "model=unitcam-s3"
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("UnitCam %s (%s) at %s:%d", d.Instance, d.Hostname, d.IP, d.Port)
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", d.IP, d.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}

// ShortHostname returns the hostname without the ".local." suffix
func (d *Device) ShortHostname() string {
	return TrimLocal(d.Hostname)
}

// TrimLocal strips a trailing ".local" or ".local." from a hostname.
func TrimLocal(hostname string) string {
	h := strings.TrimSuffix(hostname, ".")
	return strings.TrimSuffix(h, ".local")
}
