package wifi

import (
	"context"
	"errors"
)

// RadioMode is the operating mode of the Wi-Fi radio.
type RadioMode int

const (
	RadioOff RadioMode = iota
	RadioStation
	RadioAccessPoint
)

// String returns a human-readable name for the radio mode
func (m RadioMode) String() string {
	switch m {
	case RadioStation:
		return "station"
	case RadioAccessPoint:
		return "access-point"
	default:
		return "off"
	}
}

// LinkStatus is the association state reported by the radio in station mode.
type LinkStatus int

const (
	StatusIdle LinkStatus = iota
	StatusConnecting
	StatusConnected
	StatusDisconnected
	StatusFailed
)

// String returns a human-readable name for the link status
func (s LinkStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrNotConnected is returned by Radio.Address when no address is assigned.
var ErrNotConnected = errors.New("wifi: not connected")

// Security is the access point authentication policy.
type Security int

const (
	SecurityOpen Security = iota
	SecurityWPA2
)

// AccessPointConfig describes the self-hosted network.
type AccessPointConfig struct {
	SSID       string
	Passphrase string
	Security   Security
	Channel    int
	Hidden     bool
	MaxPeers   int
}

// Fixed self-hosted network parameters.
//
// The access point is open (no passphrase) on a single channel. Anyone in
// range can associate while the device is in fallback mode; MaxPeers limits
// this to one client at a time. This is a known trade-off for first-time
// setup and is intentionally not hardened here.
const (
	AccessPointSSID     = "UnitCamS3-WiFi"
	AccessPointChannel  = 1
	AccessPointMaxPeers = 1
)

// DefaultAccessPoint is the configuration used by StartSelfHosted.
var DefaultAccessPoint = AccessPointConfig{
	SSID:     AccessPointSSID,
	Security: SecurityOpen,
	Channel:  AccessPointChannel,
	Hidden:   false,
	MaxPeers: AccessPointMaxPeers,
}

// Radio is the Wi-Fi driver consumed by the negotiator.
// A Radio is a process-wide resource; the Negotiator that owns it
// serialises mode transitions.
type Radio interface {
	SetMode(ctx context.Context, mode RadioMode) error
	Join(ctx context.Context, ssid, secret string) error
	Status(ctx context.Context) (LinkStatus, error)
	Address(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error
	StartAccessPoint(ctx context.Context, cfg AccessPointConfig) error
	AccessPointAddress(ctx context.Context) (string, error)
}
