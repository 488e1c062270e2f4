package bringup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/unitcam/internal/discovery"
	"github.com/muurk/unitcam/internal/logging"
	"github.com/muurk/unitcam/internal/wifi"
)

// Deps are the collaborators for one bring-up.
type Deps struct {
	// Negotiator owns the radio (required). Set its Observer to follow
	// stage events.
	Negotiator *wifi.Negotiator

	// Provider supplies the credential pairs (nil = no credentials)
	Provider wifi.ConfigProvider

	// Timeout bounds the infrastructure join (<= 0 = wifi.DefaultJoinTimeout)
	Timeout time.Duration

	// Registrar publishes mDNS records (nil disables advertisement)
	Registrar discovery.Registrar

	// Hostname is the mDNS hostname; empty skips advertisement
	Hostname string

	// ForceAccessPoint skips credentials and goes straight to self-hosting
	ForceAccessPoint bool
}

// Result is what the rest of the device needs after bring-up.
type Result struct {
	Outcome wifi.Outcome

	// Advertised is true when the mDNS record was registered
	Advertised bool

	// Advertiser holds the live registration; nil unless the device joined
	// a network and a registrar was supplied. Callers must Close the result.
	Advertiser *discovery.Advertiser

	negotiator *wifi.Negotiator
}

// Run brings the network up: one negotiation attempt and, only on a
// successful join, mDNS advertisement. A self-hosted device is never
// advertised.
func Run(ctx context.Context, d Deps) Result {
	var out wifi.Outcome
	if d.ForceAccessPoint {
		out = d.Negotiator.StartSelfHosted(ctx)
	} else {
		out = d.Negotiator.Attempt(ctx, d.Provider, d.Timeout)
	}

	res := Result{Outcome: out, negotiator: d.Negotiator}
	if !out.IsJoined() {
		return res
	}
	if d.Registrar == nil {
		logging.Debug("mDNS disabled")
		return res
	}

	res.Advertiser = discovery.NewAdvertiser(d.Registrar, out)
	res.Advertised = res.Advertiser.Advertise(d.Hostname)
	if res.Advertised {
		logging.Info("Device discoverable",
			zap.String("url", fmt.Sprintf("http://%s.local/", res.Advertiser.Hostname())),
		)
	}
	return res
}

// Close withdraws the mDNS registration, if any, then releases the radio:
// the access point is stopped and the station link dropped.
func (r Result) Close(ctx context.Context) error {
	if r.Advertiser != nil {
		r.Advertiser.Shutdown()
	}
	if r.negotiator == nil {
		return nil
	}
	return r.negotiator.Stop(ctx)
}
