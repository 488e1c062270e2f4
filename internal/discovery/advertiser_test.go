package discovery

import (
	"errors"
	"reflect"
	"testing"

	"github.com/muurk/unitcam/internal/wifi"
)

type fakeRegistration struct {
	rec      ServiceRecord
	shutdown bool
}

func (r *fakeRegistration) Shutdown() { r.shutdown = true }

type fakeRegistrar struct {
	err  error
	regs []*fakeRegistration
}

func (f *fakeRegistrar) Register(rec ServiceRecord) (Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	reg := &fakeRegistration{rec: rec}
	f.regs = append(f.regs, reg)
	return reg, nil
}

// resolve returns the addresses a live registration for host points at.
func (f *fakeRegistrar) resolve(host string) []string {
	for _, r := range f.regs {
		if !r.shutdown && r.rec.Host == host {
			return r.rec.IPs
		}
	}
	return nil
}

var joined = wifi.NewJoined("HomeNet", "192.168.1.50")

func TestAdvertise_RegistersHostAndService(t *testing.T) {
	reg := &fakeRegistrar{}
	adv := NewAdvertiser(reg, joined)

	if !adv.Advertise("mydevice") {
		t.Fatal("Advertise() = false, want true")
	}
	if len(reg.regs) != 1 {
		t.Fatalf("registrations = %d, want 1", len(reg.regs))
	}

	rec := reg.regs[0].rec
	want := ServiceRecord{
		Instance: "mydevice",
		Service:  "_http._tcp",
		Domain:   "local.",
		Host:     "mydevice",
		Port:     80,
		IPs:      []string{"192.168.1.50"},
		Text:     []string{"path=/", "model=unitcam-s3"},
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("record = %+v, want %+v", rec, want)
	}
	if got := reg.resolve("mydevice"); !reflect.DeepEqual(got, []string{"192.168.1.50"}) {
		t.Errorf("resolve(mydevice) = %v, want joined address", got)
	}
	if adv.Hostname() != "mydevice" {
		t.Errorf("Hostname() = %v, want mydevice", adv.Hostname())
	}
}

func TestAdvertise_EmptyHostname(t *testing.T) {
	reg := &fakeRegistrar{}
	adv := NewAdvertiser(reg, joined)

	for _, h := range []string{"", ".local", ".local."} {
		if adv.Advertise(h) {
			t.Errorf("Advertise(%q) = true, want false", h)
		}
	}
	if len(reg.regs) != 0 {
		t.Errorf("registrations = %d, want 0", len(reg.regs))
	}
}

func TestAdvertise_RequiresJoinedLink(t *testing.T) {
	tests := []struct {
		name string
		link wifi.Outcome
	}{
		{"self-hosted", wifi.NewSelfHosted("192.168.4.1")},
		{"failed", wifi.NewSelfHostedFailure()},
		{"negotiating", wifi.Outcome{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistrar{}
			adv := NewAdvertiser(reg, tt.link)

			if adv.Advertise("cam1") {
				t.Error("Advertise() = true, want false")
			}
			if len(reg.regs) != 0 {
				t.Errorf("registrations = %d, want 0", len(reg.regs))
			}
		})
	}
}

func TestAdvertise_RegistrationFailure(t *testing.T) {
	reg := &fakeRegistrar{err: errors.New("multicast unavailable")}
	adv := NewAdvertiser(reg, joined)

	if adv.Advertise("cam1") {
		t.Error("Advertise() = true, want false")
	}
	if adv.Hostname() != "" {
		t.Errorf("Hostname() = %v, want empty", adv.Hostname())
	}
}

func TestAdvertise_SameHostnameIsNoop(t *testing.T) {
	reg := &fakeRegistrar{}
	adv := NewAdvertiser(reg, joined)

	if !adv.Advertise("cam1") || !adv.Advertise("cam1.local") {
		t.Fatal("Advertise() = false, want true")
	}
	if len(reg.regs) != 1 {
		t.Errorf("registrations = %d, want 1", len(reg.regs))
	}
}

func TestAdvertise_NewHostnameReplacesRegistration(t *testing.T) {
	reg := &fakeRegistrar{}
	adv := NewAdvertiser(reg, joined)

	adv.Advertise("cam1")
	if !adv.Advertise("cam2") {
		t.Fatal("Advertise(cam2) = false, want true")
	}

	if len(reg.regs) != 2 {
		t.Fatalf("registrations = %d, want 2", len(reg.regs))
	}
	if !reg.regs[0].shutdown {
		t.Error("previous registration was not shut down")
	}
	if reg.resolve("cam1") != nil {
		t.Error("cam1 still resolves after replacement")
	}
	if adv.Hostname() != "cam2" {
		t.Errorf("Hostname() = %v, want cam2", adv.Hostname())
	}
}

func TestAdvertiser_Shutdown(t *testing.T) {
	reg := &fakeRegistrar{}
	adv := NewAdvertiser(reg, joined)

	adv.Advertise("cam1")
	adv.Shutdown()
	adv.Shutdown()

	if !reg.regs[0].shutdown {
		t.Error("registration was not shut down")
	}
	if adv.Hostname() != "" {
		t.Errorf("Hostname() = %v, want empty", adv.Hostname())
	}
}

func TestNewZeroconfRegistrar_UnknownInterface(t *testing.T) {
	r := NewZeroconfRegistrar("definitely-not-an-interface0")
	if r.Interfaces != nil {
		t.Errorf("Interfaces = %v, want nil (all interfaces)", r.Interfaces)
	}
}
