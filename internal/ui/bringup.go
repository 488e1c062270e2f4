package ui

import (
	"errors"
	"fmt"

	"github.com/muurk/unitcam/internal/wifi"
)

// Bring-up step numbers
const (
	StepCredentials = iota + 1
	StepJoin
	StepAccessPoint
	StepAdvertise
)

// Summary is the information shown once bring-up finishes.
type Summary struct {
	Outcome     wifi.Outcome
	Hostname    string // mDNS hostname requested ("" = not configured)
	MDNSEnabled bool
	Advertised  bool
	Verified    string // address the hostname resolved to, when verified
	VerifyErr   error
}

// Tracker maps negotiation events onto the bring-up step list.
type Tracker struct {
	Progress *Progress
	lastErr  error
}

// NewTracker creates a tracker with the four bring-up steps pending
func NewTracker() *Tracker {
	return &Tracker{
		Progress: NewProgress(
			"Select credentials",
			"Join network",
			"Start access point",
			"Advertise over mDNS",
		),
	}
}

// Apply records one negotiation event. It returns the numbers of the steps
// that changed.
func (t *Tracker) Apply(ev wifi.Event) []int {
	p := t.Progress
	switch ev.Stage {
	case wifi.StageCredentials:
		if ev.Source == wifi.SourceNone {
			p.UpdateStep(StepCredentials, StepComplete, "none configured")
			p.UpdateStep(StepJoin, StepSkipped, "")
			return []int{StepCredentials, StepJoin}
		}
		p.UpdateStep(StepCredentials, StepComplete, ev.Source.String())
		return []int{StepCredentials}

	case wifi.StageJoining:
		p.Rename(StepJoin, "Join "+ev.NetworkName)
		p.UpdateStep(StepJoin, StepRunning, "")
		return []int{StepJoin}

	case wifi.StageJoined:
		p.UpdateStep(StepJoin, StepComplete, ev.Address)
		p.UpdateStep(StepAccessPoint, StepSkipped, "")
		return []int{StepJoin, StepAccessPoint}

	case wifi.StageJoinFailed:
		t.lastErr = ev.Err
		p.UpdateStep(StepJoin, StepFailed, errMessage(ev.Err))
		return []int{StepJoin}

	case wifi.StageSelfHosting:
		// Self-hosting without an earlier credentials event is a forced AP
		if s, _ := p.Step(StepCredentials); s.Status == StepPending {
			p.UpdateStep(StepCredentials, StepSkipped, "")
			p.UpdateStep(StepJoin, StepSkipped, "")
		}
		p.Rename(StepAccessPoint, "Start access point "+ev.NetworkName)
		p.UpdateStep(StepAccessPoint, StepRunning, "")
		return []int{StepCredentials, StepJoin, StepAccessPoint}

	case wifi.StageSelfHosted:
		p.UpdateStep(StepAccessPoint, StepComplete, ev.Address)
		p.UpdateStep(StepAdvertise, StepSkipped, "self-hosted")
		return []int{StepAccessPoint, StepAdvertise}

	case wifi.StageSelfHostFailed:
		t.lastErr = ev.Err
		p.UpdateStep(StepAccessPoint, StepFailed, errMessage(ev.Err))
		p.UpdateStep(StepAdvertise, StepSkipped, "")
		return []int{StepAccessPoint, StepAdvertise}
	}
	return nil
}

// Finish records the advertisement result once bring-up has returned.
func (t *Tracker) Finish(s Summary) []int {
	if !s.Outcome.IsJoined() {
		return nil
	}
	switch {
	case !s.MDNSEnabled:
		t.Progress.UpdateStep(StepAdvertise, StepSkipped, "disabled")
	case s.Hostname == "":
		t.Progress.UpdateStep(StepAdvertise, StepSkipped, "no hostname")
	case s.Advertised:
		t.Progress.UpdateStep(StepAdvertise, StepComplete, s.Hostname+".local")
	default:
		t.Progress.UpdateStep(StepAdvertise, StepFailed, "registration failed")
	}
	return []int{StepAdvertise}
}

// Result builds the final result box for a summary.
func (t *Tracker) Result(s Summary) *Result {
	out := s.Outcome

	switch {
	case out.IsJoined():
		r := NewSuccessResult("Joined "+out.NetworkName(),
			Param{"Mode", out.Mode().String()},
			Param{"Network", out.NetworkName()},
			Param{"Address", out.Address()},
		)
		if s.Advertised {
			r.AddDetail("URL", fmt.Sprintf("http://%s.local/", s.Hostname))
		}
		if s.Verified != "" {
			r.AddDetail("Resolves to", s.Verified)
		}
		if s.VerifyErr != nil {
			r.Type = ResultWarning
			r.AddDetail("Verify", s.VerifyErr.Error())
		}
		return r

	case out.Succeeded():
		r := NewWarningResult("Self-hosting "+out.NetworkName(),
			Param{"Mode", out.Mode().String()},
			Param{"Network", out.NetworkName() + " (open)"},
			Param{"Address", out.Address()},
			Param{"Setup page", fmt.Sprintf("http://%s/", out.Address())},
		)
		if t.lastErr != nil {
			r.AddDetail("Join error", t.lastErr.Error())
		}
		return r

	default:
		err := t.lastErr
		if err == nil {
			err = errors.New("radio did not start")
		}
		return NewFailureResult("Network unavailable", err, []string{
			"Check that the WiFi interface exists and is not blocked (rfkill)",
			"Check that the radio supports access point mode",
			"Re-run with --log-level debug for radio details",
		})
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
