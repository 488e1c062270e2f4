// Package discovery advertises and finds UnitCam devices over mDNS.
//
// # Advertising
//
// After the device joins an infrastructure network it registers its hostname
// and one "_http._tcp" service on port 80, so peers can reach the web UI as
// "<hostname>.local" without knowing the IP:
//
//	adv := discovery.NewAdvertiser(discovery.NewZeroconfRegistrar(""), outcome)
//	if adv.Advertise("cam1") {
//	    defer adv.Shutdown()
//	}
//
// Advertising on the self-hosted access point is never attempted: there is no
// upstream network for peers to resolve from. Advertise returns false in that
// case, and when the hostname is empty.
//
// # Discovery
//
// Scanner browses "_http._tcp" services and keeps entries whose TXT records
// carry "model=unitcam-s3".
//
//	devices, err := discovery.ScanForDevices(ctx, 5*time.Second)
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
