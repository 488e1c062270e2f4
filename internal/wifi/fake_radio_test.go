package wifi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// fakeRadio records calls and connects after a fixed number of status polls.
type fakeRadio struct {
	mu    sync.Mutex
	clock clock.Clock

	// connectAfter is the number of Status calls before the link is up.
	// A negative value never connects.
	connectAfter int
	address      string
	apAddress    string

	stationErr error
	joinErr    error
	apModeErr  error
	offErr     error
	apErr      error

	mode       RadioMode
	linkUp     bool
	joining    bool
	polls      int
	calls      []string
	joinedSSID []string
	apConfig   AccessPointConfig

	joinStartedAt   time.Time
	disconnectedAt  time.Time
	apStartedAt     time.Time
	joiningAtAPTime bool
}

func newFakeRadio(connectAfter int) *fakeRadio {
	return &fakeRadio{
		clock:        clock.New(),
		connectAfter: connectAfter,
		address:      "192.168.1.42",
		apAddress:    "192.168.4.1",
	}
}

func (f *fakeRadio) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRadio) SetMode(_ context.Context, mode RadioMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("set_mode:" + mode.String())
	if mode == RadioStation && f.stationErr != nil {
		return f.stationErr
	}
	if mode == RadioAccessPoint && f.apModeErr != nil {
		return f.apModeErr
	}
	if mode == RadioOff && f.offErr != nil {
		return f.offErr
	}
	f.mode = mode
	return nil
}

func (f *fakeRadio) Join(ctx context.Context, ssid, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("join:" + ssid)
	f.joinedSSID = append(f.joinedSSID, ssid)
	if f.joinErr != nil {
		return f.joinErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.joining = true
	f.joinStartedAt = f.clock.Now()
	return nil
}

func (f *fakeRadio) Status(context.Context) (LinkStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.joining && f.connectAfter >= 0 && f.polls > f.connectAfter {
		f.linkUp = true
	}
	if f.linkUp {
		return StatusConnected, nil
	}
	if f.joining {
		return StatusConnecting, nil
	}
	return StatusIdle, nil
}

func (f *fakeRadio) Address(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.linkUp {
		return "", ErrNotConnected
	}
	return f.address, nil
}

func (f *fakeRadio) Disconnect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("disconnect")
	f.linkUp = false
	f.joining = false
	f.disconnectedAt = f.clock.Now()
	return nil
}

func (f *fakeRadio) StartAccessPoint(_ context.Context, cfg AccessPointConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("start_ap")
	f.apConfig = cfg
	f.apStartedAt = f.clock.Now()
	f.joiningAtAPTime = f.joining || f.linkUp
	if f.apErr != nil {
		return f.apErr
	}
	return nil
}

func (f *fakeRadio) AccessPointAddress(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != RadioAccessPoint {
		return "", errors.New("not in access point mode")
	}
	return f.apAddress, nil
}

func (f *fakeRadio) joinCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.joinedSSID)
}

func (f *fakeRadio) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func indexOf(calls []string, call string) int {
	for i, c := range calls {
		if c == call {
			return i
		}
	}
	return -1
}
