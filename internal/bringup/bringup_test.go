package bringup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/muurk/unitcam/internal/config"
	"github.com/muurk/unitcam/internal/discovery"
	"github.com/muurk/unitcam/internal/radio"
	"github.com/muurk/unitcam/internal/wifi"
)

type stubRegistration struct{ closed bool }

func (s *stubRegistration) Shutdown() { s.closed = true }

type stubRegistrar struct {
	err     error
	records []discovery.ServiceRecord
	regs    []*stubRegistration
}

func (s *stubRegistrar) Register(rec discovery.ServiceRecord) (discovery.Registration, error) {
	s.records = append(s.records, rec)
	if s.err != nil {
		return nil, s.err
	}
	reg := &stubRegistration{}
	s.regs = append(s.regs, reg)
	return reg, nil
}

func newNegotiator(sim *radio.Sim) *wifi.Negotiator {
	neg := wifi.NewNegotiator(sim)
	neg.PollInterval = 10 * time.Millisecond
	return neg
}

func TestRun_JoinsAndAdvertises(t *testing.T) {
	sim := radio.NewSim(radio.SimConfig{JoinDelay: 100 * time.Millisecond})
	reg := &stubRegistrar{}

	cfg := config.New()
	cfg.SetWiFi("HomeNet", "pass123")

	res := Run(context.Background(), Deps{
		Negotiator: newNegotiator(sim),
		Provider:   cfg,
		Timeout:    10000 * time.Millisecond,
		Registrar:  reg,
		Hostname:   "cam1",
	})
	defer res.Close(context.Background())

	out := res.Outcome
	if out.Mode() != wifi.ModeJoined || !out.Succeeded() {
		t.Fatalf("outcome = %v, want successful join", out)
	}
	if out.NetworkName() != "HomeNet" {
		t.Errorf("NetworkName() = %v, want HomeNet", out.NetworkName())
	}
	if out.Address() == "" {
		t.Error("Address() is empty")
	}
	if !res.Advertised {
		t.Error("Advertised = false, want true")
	}
	if len(reg.records) != 1 || reg.records[0].IPs[0] != out.Address() {
		t.Errorf("records = %+v, want one record for %s", reg.records, out.Address())
	}

	if err := res.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !reg.regs[0].closed {
		t.Error("Close() did not withdraw the registration")
	}
	if sim.Mode() != wifi.RadioOff {
		t.Errorf("radio mode after Close() = %v, want %v", sim.Mode(), wifi.RadioOff)
	}
}

func TestClose_LeavesRadioIdle(t *testing.T) {
	tests := []struct {
		name string
		deps func(*radio.Sim) Deps
	}{
		{"joined", func(sim *radio.Sim) Deps {
			return Deps{
				Negotiator: newNegotiator(sim),
				Provider:   &wifi.StaticCredentials{User: wifi.Credentials{SSID: "HomeNet", Secret: "pass123"}},
				Timeout:    time.Second,
			}
		}},
		{"join timed out", func(sim *radio.Sim) Deps {
			return Deps{
				Negotiator: newNegotiator(sim),
				Provider:   &wifi.StaticCredentials{User: wifi.Credentials{SSID: "HomeNet", Secret: "wrong"}},
				Timeout:    30 * time.Millisecond,
			}
		}},
		{"forced access point", func(sim *radio.Sim) Deps {
			return Deps{Negotiator: newNegotiator(sim), ForceAccessPoint: true}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := radio.NewSim(radio.SimConfig{FailJoin: tt.name == "join timed out"})
			ctx := context.Background()

			res := Run(ctx, tt.deps(sim))
			if !res.Outcome.Succeeded() {
				t.Fatalf("outcome = %v, want success", res.Outcome)
			}
			if err := res.Close(ctx); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if sim.Mode() != wifi.RadioOff {
				t.Errorf("Mode() = %v, want %v", sim.Mode(), wifi.RadioOff)
			}
			if _, ok := sim.AccessPoint(); ok {
				t.Error("access point still running after Close()")
			}
			if st, _ := sim.Status(ctx); st != wifi.StatusIdle {
				t.Errorf("Status() = %v, want %v", st, wifi.StatusIdle)
			}
		})
	}
}

func TestRun_NoCredentialsSelfHostsWithoutAdvertising(t *testing.T) {
	sim := radio.NewSim(radio.SimConfig{})
	reg := &stubRegistrar{}

	res := Run(context.Background(), Deps{
		Negotiator: newNegotiator(sim),
		Provider:   config.New(),
		Registrar:  reg,
		Hostname:   "cam1",
	})

	out := res.Outcome
	if out.Mode() != wifi.ModeSelfHosted || !out.Succeeded() {
		t.Fatalf("outcome = %v, want successful self-hosted", out)
	}
	if out.NetworkName() != wifi.AccessPointSSID {
		t.Errorf("NetworkName() = %v, want %v", out.NetworkName(), wifi.AccessPointSSID)
	}
	if res.Advertised || res.Advertiser != nil {
		t.Error("self-hosted device was advertised")
	}
	if len(reg.records) != 0 {
		t.Errorf("registrar calls = %d, want 0", len(reg.records))
	}
	if n := sim.CountCalls("join"); n != 0 {
		t.Errorf("join calls = %d, want 0", n)
	}
}

func TestRun_JoinTimeoutFallsBack(t *testing.T) {
	sim := radio.NewSim(radio.SimConfig{FailJoin: true})
	reg := &stubRegistrar{}

	res := Run(context.Background(), Deps{
		Negotiator: newNegotiator(sim),
		Provider:   &wifi.StaticCredentials{User: wifi.Credentials{SSID: "HomeNet", Secret: "wrong"}},
		Timeout:    50 * time.Millisecond,
		Registrar:  reg,
		Hostname:   "cam1",
	})

	if res.Outcome.Mode() != wifi.ModeSelfHosted {
		t.Errorf("Mode() = %v, want %v", res.Outcome.Mode(), wifi.ModeSelfHosted)
	}
	if len(reg.records) != 0 {
		t.Errorf("registrar calls = %d, want 0", len(reg.records))
	}
	if sim.Mode() != wifi.RadioAccessPoint {
		t.Errorf("radio mode = %v, want %v", sim.Mode(), wifi.RadioAccessPoint)
	}
}

func TestRun_AccessPointFailure(t *testing.T) {
	sim := radio.NewSim(radio.SimConfig{FailAccessPoint: true})

	res := Run(context.Background(), Deps{
		Negotiator: newNegotiator(sim),
		Provider:   config.New(),
		Registrar:  &stubRegistrar{},
	})

	if res.Outcome.Succeeded() {
		t.Errorf("outcome = %v, want failure", res.Outcome)
	}
	if res.Outcome.Mode() != wifi.ModeSelfHosted {
		t.Errorf("Mode() = %v, want %v", res.Outcome.Mode(), wifi.ModeSelfHosted)
	}
}

func TestRun_ForceAccessPoint(t *testing.T) {
	sim := radio.NewSim(radio.SimConfig{})
	cfg := config.New()
	cfg.SetWiFi("HomeNet", "pass123")

	res := Run(context.Background(), Deps{
		Negotiator:       newNegotiator(sim),
		Provider:         cfg,
		ForceAccessPoint: true,
	})

	if res.Outcome.Mode() != wifi.ModeSelfHosted {
		t.Errorf("Mode() = %v, want %v", res.Outcome.Mode(), wifi.ModeSelfHosted)
	}
	if n := sim.CountCalls("join"); n != 0 {
		t.Errorf("join calls = %d, want 0", n)
	}
}

func TestRun_AdvertiseSkipped(t *testing.T) {
	tests := []struct {
		name      string
		registrar discovery.Registrar
		hostname  string
	}{
		{"no registrar", nil, "cam1"},
		{"no hostname", &stubRegistrar{}, ""},
		{"registrar error", &stubRegistrar{err: errors.New("no multicast")}, "cam1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := radio.NewSim(radio.SimConfig{})
			res := Run(context.Background(), Deps{
				Negotiator: newNegotiator(sim),
				Provider:   &wifi.StaticCredentials{User: wifi.Credentials{SSID: "HomeNet"}},
				Timeout:    time.Second,
				Registrar:  tt.registrar,
				Hostname:   tt.hostname,
			})
			defer res.Close(context.Background())

			if !res.Outcome.IsJoined() {
				t.Fatalf("outcome = %v, want joined", res.Outcome)
			}
			if res.Advertised {
				t.Error("Advertised = true, want false")
			}
		})
	}
}
