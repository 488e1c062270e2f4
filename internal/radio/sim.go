package radio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/muurk/unitcam/internal/wifi"
)

var (
	// ErrNotStation is returned when a join is requested outside station mode
	ErrNotStation = errors.New("radio: not in station mode")

	// ErrNoAccessPoint is returned when no access point is running
	ErrNoAccessPoint = errors.New("radio: access point not running")

	// ErrHardwareFault simulates a radio that cannot enter access point mode
	ErrHardwareFault = errors.New("radio: hardware fault")
)

// Default addresses handed out by the simulated radio.
const (
	DefaultStationAddress = "192.168.1.50"
	DefaultGatewayAddress = "192.168.4.1"
)

// SimConfig controls the behaviour of a simulated radio.
type SimConfig struct {
	// JoinDelay is how long association takes once a join begins
	JoinDelay time.Duration

	// FailJoin makes every join hang in the connecting state
	FailJoin bool

	// FailAccessPoint makes access point start fail
	FailAccessPoint bool

	// Networks restricts joins to known SSID/passphrase pairs (nil = accept any)
	Networks map[string]string

	// StationAddress is the address assigned after a successful join
	StationAddress string

	// GatewayAddress is the self-assigned access point address
	GatewayAddress string
}

// Call is one recorded driver operation.
type Call struct {
	Op   string
	Arg  string
	Mode wifi.RadioMode
	At   time.Time
}

// Sim is an in-memory wifi.Radio used for tests, demos and bench bring-up
// without hardware.
type Sim struct {
	cfg   SimConfig
	clock clock.Clock

	mu        sync.Mutex
	mode      wifi.RadioMode
	joining   bool
	joinSSID  string
	joinOK    bool
	joinStart time.Time
	ap        *wifi.AccessPointConfig
	calls     []Call
}

// NewSim creates a simulated radio using the real clock.
func NewSim(cfg SimConfig) *Sim {
	return NewSimWithClock(cfg, clock.New())
}

// NewSimWithClock creates a simulated radio driven by clk.
func NewSimWithClock(cfg SimConfig, clk clock.Clock) *Sim {
	if cfg.StationAddress == "" {
		cfg.StationAddress = DefaultStationAddress
	}
	if cfg.GatewayAddress == "" {
		cfg.GatewayAddress = DefaultGatewayAddress
	}
	return &Sim{cfg: cfg, clock: clk}
}

func (s *Sim) record(op, arg string) {
	s.calls = append(s.calls, Call{Op: op, Arg: arg, Mode: s.mode, At: s.clock.Now()})
}

// SetMode implements wifi.Radio
func (s *Sim) SetMode(ctx context.Context, mode wifi.RadioMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if mode == wifi.RadioAccessPoint && s.cfg.FailAccessPoint {
		s.record("set_mode", mode.String())
		return ErrHardwareFault
	}
	if mode != wifi.RadioAccessPoint {
		s.ap = nil
	}
	if mode != wifi.RadioStation {
		s.joining = false
	}
	s.mode = mode
	s.record("set_mode", mode.String())
	return nil
}

// Join implements wifi.Radio
func (s *Sim) Join(ctx context.Context, ssid, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("join", ssid)
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.mode != wifi.RadioStation {
		return ErrNotStation
	}

	s.joining = true
	s.joinSSID = ssid
	s.joinStart = s.clock.Now()
	s.joinOK = !s.cfg.FailJoin
	if s.cfg.Networks != nil {
		want, known := s.cfg.Networks[ssid]
		s.joinOK = s.joinOK && known && want == secret
	}
	return nil
}

// Status implements wifi.Radio
func (s *Sim) Status(context.Context) (wifi.LinkStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked(), nil
}

func (s *Sim) statusLocked() wifi.LinkStatus {
	if s.mode != wifi.RadioStation {
		return wifi.StatusIdle
	}
	if !s.joining {
		return wifi.StatusDisconnected
	}
	if s.joinOK && s.clock.Since(s.joinStart) >= s.cfg.JoinDelay {
		return wifi.StatusConnected
	}
	return wifi.StatusConnecting
}

// Address implements wifi.Radio
func (s *Sim) Address(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statusLocked() != wifi.StatusConnected {
		return "", wifi.ErrNotConnected
	}
	return s.cfg.StationAddress, nil
}

// Disconnect implements wifi.Radio
func (s *Sim) Disconnect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("disconnect", s.joinSSID)
	s.joining = false
	s.joinSSID = ""
	return nil
}

// StartAccessPoint implements wifi.Radio
func (s *Sim) StartAccessPoint(ctx context.Context, cfg wifi.AccessPointConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("start_ap", cfg.SSID)
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.FailAccessPoint {
		return ErrHardwareFault
	}
	if s.mode != wifi.RadioAccessPoint {
		return fmt.Errorf("cannot start access point in %s mode", s.mode)
	}
	ap := cfg
	s.ap = &ap
	return nil
}

// AccessPointAddress implements wifi.Radio
func (s *Sim) AccessPointAddress(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ap == nil {
		return "", ErrNoAccessPoint
	}
	return s.cfg.GatewayAddress, nil
}

// Mode returns the current radio mode
func (s *Sim) Mode() wifi.RadioMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// AccessPoint returns the running access point configuration, if any
func (s *Sim) AccessPoint() (wifi.AccessPointConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ap == nil {
		return wifi.AccessPointConfig{}, false
	}
	return *s.ap, true
}

// Calls returns a copy of the recorded operations
func (s *Sim) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CountCalls returns how many times op was invoked
func (s *Sim) CountCalls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}
