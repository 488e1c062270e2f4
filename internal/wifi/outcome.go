package wifi

import "fmt"

// Mode tags how network connectivity was (or is being) established.
type Mode int

const (
	// ModeNegotiating is the transient state of an attempt in progress.
	// The negotiator never returns it.
	ModeNegotiating Mode = iota
	// ModeJoined means the radio associated with an infrastructure network.
	ModeJoined
	// ModeSelfHosted means the device runs its own access point.
	ModeSelfHosted
)

// String returns a human-readable name for the mode
func (m Mode) String() string {
	switch m {
	case ModeNegotiating:
		return "negotiating"
	case ModeJoined:
		return "joined"
	case ModeSelfHosted:
		return "self-hosted"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Outcome is the terminal snapshot of one negotiation attempt.
// It is immutable: fields are only set by the constructors below.
type Outcome struct {
	mode        Mode
	succeeded   bool
	networkName string
	address     string
}

// NewJoined returns a successful infrastructure outcome.
// It panics if address is empty, since a joined radio always has one.
func NewJoined(networkName, address string) Outcome {
	if address == "" {
		panic("wifi: joined outcome requires an address")
	}
	return Outcome{
		mode:        ModeJoined,
		succeeded:   true,
		networkName: networkName,
		address:     address,
	}
}

// NewSelfHosted returns a successful access point outcome on the fixed AP SSID.
// It panics if address is empty.
func NewSelfHosted(address string) Outcome {
	if address == "" {
		panic("wifi: self-hosted outcome requires an address")
	}
	return Outcome{
		mode:        ModeSelfHosted,
		succeeded:   true,
		networkName: AccessPointSSID,
		address:     address,
	}
}

// NewSelfHostedFailure returns the single terminal failure of the pipeline:
// the radio could not enter access point mode.
func NewSelfHostedFailure() Outcome {
	return Outcome{mode: ModeSelfHosted}
}

// Mode returns the connection mode
func (o Outcome) Mode() Mode { return o.mode }

// Succeeded reports whether a network path is available
func (o Outcome) Succeeded() bool { return o.succeeded }

// NetworkName returns the SSID that was joined or advertised
func (o Outcome) NetworkName() string { return o.networkName }

// Address returns the assigned (joined) or gateway (self-hosted) address
func (o Outcome) Address() string { return o.address }

// IsJoined reports whether the outcome is a successful infrastructure join,
// the only state in which mDNS advertisement makes sense.
func (o Outcome) IsJoined() bool {
	return o.mode == ModeJoined && o.succeeded
}

// String returns a human-readable description of the outcome
func (o Outcome) String() string {
	if !o.succeeded {
		return fmt.Sprintf("%s (failed)", o.mode)
	}
	return fmt.Sprintf("%s ssid=%s ip=%s", o.mode, o.networkName, o.address)
}
