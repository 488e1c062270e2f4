// Package config manages the UnitCam network configuration file.
//
// The file holds two candidate WiFi credential pairs, the join timeout and
// the mDNS hostname. A *Config is passed to the negotiator as its
// wifi.ConfigProvider and is never modified during bring-up.
//
// # File Location
//
// The configuration file is stored in an OS-appropriate location:
//   - Linux: ~/.config/unitcam/config.yaml (or $XDG_CONFIG_HOME/unitcam/config.yaml)
//   - macOS: ~/.config/unitcam/config.yaml
//   - Windows: %LOCALAPPDATA%\unitcam\config.yaml
//
// UNITCAM_CONFIG or the --config flag override the location.
//
// # File Format
//
//	version: 1
//	wifi:
//	  ssid: HomeNet
//	  password: pass123secret
//	  default_ssid: ""
//	  default_password: ""
//	  join_timeout_ms: 10000
//	mdns:
//	  hostname: cam1
//
// JSON documents with the same keys also load, since YAML is a superset.
//
// # Security
//
// The file contains WiFi passphrases and is written with mode 0600 inside a
// 0700 directory. Use Redacted before printing a config.
package config
