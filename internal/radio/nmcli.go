package radio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/unitcam/internal/logging"
	"github.com/muurk/unitcam/internal/wifi"
)

// APConnectionName is the NetworkManager profile used for the self-hosted network
const APConnectionName = "unitcam-ap"

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		cmdline := strings.Join(redactArgs(args), " ")
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", name, cmdline, err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", name, cmdline, err)
	}
	return stdout.Bytes(), nil
}

// NM drives a Wi-Fi interface through NetworkManager's nmcli tool.
// It lets a Linux single-board computer stand in for the camera's radio.
type NM struct {
	// Interface is the wireless device name (e.g. "wlan0")
	Interface string

	// Runner executes nmcli; defaults to ExecRunner
	Runner Runner

	mu   sync.Mutex
	mode wifi.RadioMode
}

// NewNM creates a NetworkManager-backed radio for iface.
func NewNM(iface string) *NM {
	return &NM{Interface: iface, Runner: ExecRunner{}}
}

func (n *NM) nmcli(ctx context.Context, args ...string) ([]byte, error) {
	logging.Debug("nmcli", zap.Strings("args", redactArgs(args)))
	return n.Runner.Run(ctx, "nmcli", args...)
}

// SetMode implements wifi.Radio
func (n *NM) SetMode(ctx context.Context, mode wifi.RadioMode) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.mode == wifi.RadioAccessPoint && mode != wifi.RadioAccessPoint {
		if _, err := n.nmcli(ctx, "connection", "down", APConnectionName); err != nil {
			logging.Debug("Access point profile was not active", zap.Error(err))
		}
	}
	if mode == wifi.RadioAccessPoint {
		// Drop any station association so the device is free for AP use.
		if _, err := n.nmcli(ctx, "device", "disconnect", n.Interface); err != nil {
			logging.Debug("Device was not connected", zap.Error(err))
		}
	}
	n.mode = mode
	return nil
}

// Join implements wifi.Radio. It starts the association without waiting;
// progress is observed through Status.
func (n *NM) Join(ctx context.Context, ssid, secret string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.mode != wifi.RadioStation {
		return ErrNotStation
	}
	args := []string{"--wait", "0", "device", "wifi", "connect", ssid}
	if secret != "" {
		args = append(args, "password", secret)
	}
	args = append(args, "ifname", n.Interface)

	if _, err := n.nmcli(ctx, args...); err != nil {
		return fmt.Errorf("failed to start join: %w", err)
	}
	return nil
}

// Status implements wifi.Radio
func (n *NM) Status(ctx context.Context) (wifi.LinkStatus, error) {
	out, err := n.nmcli(ctx, "-t", "-f", "DEVICE,STATE", "device", "status")
	if err != nil {
		return wifi.StatusIdle, fmt.Errorf("failed to read device status: %w", err)
	}
	return parseDeviceStatus(out, n.Interface)
}

// Address implements wifi.Radio
func (n *NM) Address(ctx context.Context) (string, error) {
	out, err := n.nmcli(ctx, "-g", "IP4.ADDRESS", "device", "show", n.Interface)
	if err != nil {
		return "", fmt.Errorf("failed to read address: %w", err)
	}
	addr := parseIPv4Address(out)
	if addr == "" {
		return "", wifi.ErrNotConnected
	}
	return addr, nil
}

// Disconnect implements wifi.Radio
func (n *NM) Disconnect(ctx context.Context) error {
	if _, err := n.nmcli(ctx, "device", "disconnect", n.Interface); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}

// StartAccessPoint implements wifi.Radio. NetworkManager has no client limit
// setting, so MaxPeers is not enforced by this driver.
func (n *NM) StartAccessPoint(ctx context.Context, cfg wifi.AccessPointConfig) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.mode != wifi.RadioAccessPoint {
		return fmt.Errorf("cannot start access point in %s mode", n.mode)
	}

	// Replace any stale profile from a previous boot
	if _, err := n.nmcli(ctx, "connection", "delete", APConnectionName); err != nil {
		logging.Debug("No previous access point profile", zap.Error(err))
	}

	if _, err := n.nmcli(ctx, accessPointArgs(n.Interface, cfg)...); err != nil {
		return fmt.Errorf("failed to create access point profile: %w", err)
	}
	if _, err := n.nmcli(ctx, "connection", "up", APConnectionName); err != nil {
		return fmt.Errorf("failed to activate access point: %w", err)
	}
	if cfg.MaxPeers > 0 {
		logging.Debug("Peer limit not enforced by NetworkManager", zap.Int("max_peers", cfg.MaxPeers))
	}
	return nil
}

// AccessPointAddress implements wifi.Radio
func (n *NM) AccessPointAddress(ctx context.Context) (string, error) {
	out, err := n.nmcli(ctx, "-g", "IP4.ADDRESS", "device", "show", n.Interface)
	if err != nil {
		return "", fmt.Errorf("failed to read access point address: %w", err)
	}
	addr := parseIPv4Address(out)
	if addr == "" {
		return "", ErrNoAccessPoint
	}
	return addr, nil
}

// accessPointArgs builds the nmcli arguments that create the AP profile.
func accessPointArgs(iface string, cfg wifi.AccessPointConfig) []string {
	args := []string{
		"connection", "add",
		"type", "wifi",
		"ifname", iface,
		"con-name", APConnectionName,
		"autoconnect", "no",
		"ssid", cfg.SSID,
		"802-11-wireless.mode", "ap",
		"802-11-wireless.band", "bg",
		"802-11-wireless.channel", strconv.Itoa(cfg.Channel),
		"ipv4.method", "shared",
	}
	if cfg.Hidden {
		args = append(args, "802-11-wireless.hidden", "yes")
	}
	if cfg.Security == wifi.SecurityWPA2 {
		args = append(args, "wifi-sec.key-mgmt", "wpa-psk", "wifi-sec.psk", cfg.Passphrase)
	}
	return args
}

// parseDeviceStatus finds iface in `nmcli -t -f DEVICE,STATE device status`.
func parseDeviceStatus(out []byte, iface string) (wifi.LinkStatus, error) {
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := splitTerse(line)
		if len(fields) < 2 || fields[0] != iface {
			continue
		}
		state := fields[1]
		switch {
		case state == "connected":
			return wifi.StatusConnected, nil
		case strings.HasPrefix(state, "connecting"):
			return wifi.StatusConnecting, nil
		case state == "disconnected", state == "deactivating":
			return wifi.StatusDisconnected, nil
		case state == "unavailable", state == "unmanaged":
			return wifi.StatusFailed, nil
		default:
			return wifi.StatusIdle, nil
		}
	}
	return wifi.StatusIdle, fmt.Errorf("device %s not found", iface)
}

// parseIPv4Address returns the first address from `nmcli -g IP4.ADDRESS`
// output, without its prefix length.
func parseIPv4Address(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return ""
	}
	first := strings.TrimSpace(strings.Split(s, "|")[0])
	first = strings.TrimSpace(strings.Split(first, "\n")[0])
	if i := strings.IndexByte(first, '/'); i >= 0 {
		first = first[:i]
	}
	return first
}

// splitTerse splits one line of nmcli terse output on unescaped colons.
func splitTerse(line string) []string {
	var fields []string
	var cur strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, cur.String())
}

// redactArgs hides passphrases in logged nmcli arguments.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == "password" || out[i] == "wifi-sec.psk" {
			out[i+1] = "********"
		}
	}
	return out
}
