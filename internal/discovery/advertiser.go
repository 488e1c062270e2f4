package discovery

import (
	"fmt"
	"net"
	"sync"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/unitcam/internal/logging"
	"github.com/muurk/unitcam/internal/wifi"
)

// ServiceRecord is one hostname plus service registration.
type ServiceRecord struct {
	Instance string
	Service  string
	Domain   string
	Host     string
	Port     int
	IPs      []string
	Text     []string
}

// Registration is a live mDNS registration.
type Registration interface {
	Shutdown()
}

// Registrar publishes service records on the local network.
type Registrar interface {
	Register(rec ServiceRecord) (Registration, error)
}

// ZeroconfRegistrar publishes records with the zeroconf responder.
type ZeroconfRegistrar struct {
	// Interfaces restricts advertising (nil = all interfaces)
	Interfaces []net.Interface
}

// NewZeroconfRegistrar creates a registrar bound to iface, or to all
// interfaces when iface is empty or unknown.
func NewZeroconfRegistrar(iface string) *ZeroconfRegistrar {
	if iface == "" {
		return &ZeroconfRegistrar{}
	}
	ni, err := net.InterfaceByName(iface)
	if err != nil {
		logging.Warn("Unknown interface, advertising on all interfaces",
			zap.String("interface", iface),
			zap.Error(err),
		)
		return &ZeroconfRegistrar{}
	}
	return &ZeroconfRegistrar{Interfaces: []net.Interface{*ni}}
}

// Register implements Registrar. The host name resolves to rec.IPs.
func (z *ZeroconfRegistrar) Register(rec ServiceRecord) (Registration, error) {
	server, err := zeroconf.RegisterProxy(
		rec.Instance,
		rec.Service,
		rec.Domain,
		rec.Port,
		rec.Host,
		rec.IPs,
		rec.Text,
		z.Interfaces,
	)
	if err != nil {
		return nil, err
	}
	return server, nil
}

// Advertiser registers the device hostname and web service once the device
// has joined an infrastructure network.
type Advertiser struct {
	// Port is the advertised HTTP port
	Port int

	// Text holds the TXT records published with the service
	Text []string

	registrar Registrar
	link      wifi.Outcome

	mu       sync.Mutex
	hostname string
	current  Registration
}

// NewAdvertiser creates an advertiser for the network path described by link.
func NewAdvertiser(registrar Registrar, link wifi.Outcome) *Advertiser {
	return &Advertiser{
		Port:      DefaultPort,
		Text:      []string{"path=/", ModelKey + "=" + ModelValue},
		registrar: registrar,
		link:      link,
	}
}

// Advertise registers hostname and the HTTP service record.
//
// It returns false without touching the registrar when the link is not a
// successful join or hostname is empty. Advertising the same hostname again
// is a no-op; a different hostname replaces the previous registration.
func (a *Advertiser) Advertise(hostname string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.link.IsJoined() {
		logging.Warn("Skipping mDNS advertisement on a non-joined network",
			zap.String("mode", a.link.Mode().String()),
		)
		return false
	}

	host := TrimLocal(hostname)
	if host == "" {
		logging.Warn("mDNS hostname not configured")
		return false
	}

	if a.current != nil {
		if a.hostname == host {
			return true
		}
		a.current.Shutdown()
		a.current = nil
		a.hostname = ""
	}

	reg, err := a.registrar.Register(ServiceRecord{
		Instance: host,
		Service:  ServiceType,
		Domain:   ServiceDomain,
		Host:     host,
		Port:     a.Port,
		IPs:      []string{a.link.Address()},
		Text:     a.Text,
	})
	if err != nil {
		logging.Error("Failed to start mDNS",
			zap.String("hostname", host),
			zap.Error(err),
		)
		return false
	}

	a.current = reg
	a.hostname = host
	logging.Info(fmt.Sprintf("mDNS started: %s.local", host),
		zap.String("ip", a.link.Address()),
		zap.Int("port", a.Port),
	)
	return true
}

// Hostname returns the currently advertised hostname, or "".
func (a *Advertiser) Hostname() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hostname
}

// Shutdown withdraws the current registration, if any.
func (a *Advertiser) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		a.current.Shutdown()
		logging.Info("mDNS stopped", zap.String("hostname", a.hostname))
	}
	a.current = nil
	a.hostname = ""
}
