// Package wifi implements network bring-up for the UnitCam device.
//
// A Negotiator owns the Wi-Fi radio. Attempt picks a credential pair, makes
// one timed join attempt and, when that is impossible or times out, switches
// the radio to a self-hosted open access point:
//
//	neg := wifi.NewNegotiator(radio)
//	out := neg.Attempt(ctx, cfg, 10*time.Second)
//	if out.IsJoined() {
//	    // safe to advertise over mDNS
//	}
//
// # Credential Selection
//
// The user-supplied pair wins whenever its SSID is set; otherwise the
// built-in default pair is used; otherwise the join is skipped. Only one pair
// is ever tried per attempt.
//
// # Outcomes
//
// Outcome values are immutable snapshots built by NewJoined, NewSelfHosted
// and NewSelfHostedFailure. The only failure the pipeline can report is a
// self-hosted outcome with Succeeded() == false, meaning no network path
// exists at all.
//
// # Thread Safety
//
// The radio is a process-wide singleton. Attempt and StartSelfHosted hold the
// negotiator's lock for their whole duration, so concurrent callers are
// serialised rather than interleaving client and access point transitions.
package wifi
