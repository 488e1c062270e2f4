// Package bringup runs the device network bring-up at boot.
//
// It asks the negotiator for a connection outcome and advertises the device
// over mDNS only when it joined an infrastructure network. The HTTP server,
// LED indicator and other consumers read the Result afterwards.
package bringup
