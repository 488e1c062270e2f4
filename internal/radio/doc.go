// Package radio provides wifi.Radio drivers.
//
// Sim is an in-memory radio with configurable join delay and failure modes;
// it records every call so tests can assert on the exact driver sequence.
//
// NM drives a real wireless interface through NetworkManager's nmcli, which
// lets the bring-up logic run on a Linux single-board computer:
//
//	r := radio.NewNM("wlan0")
//	neg := wifi.NewNegotiator(r)
package radio
