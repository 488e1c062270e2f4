package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/muurk/unitcam/internal/bringup"
	"github.com/muurk/unitcam/internal/config"
	"github.com/muurk/unitcam/internal/discovery"
	"github.com/muurk/unitcam/internal/logging"
	"github.com/muurk/unitcam/internal/radio"
	"github.com/muurk/unitcam/internal/ui"
	"github.com/muurk/unitcam/internal/wifi"
)

// Radio flags shared by up and ap
var (
	radioKind     string
	radioIface    string
	simJoinDelay  time.Duration
	simJoinFail   bool
	simAPFail     bool
	holdOpen      bool
	plainOutput   bool
	joinTimeout   time.Duration
	hostnameFlag  string
	noMDNS        bool
	simMDNS       bool
	verifyMDNS    bool
	verifyTimeout time.Duration
	scanTimeout   int
)

func init() {
	for _, cmd := range []*cobra.Command{upCmd, apCmd} {
		cmd.Flags().StringVar(&radioKind, "radio", "sim", "Radio driver: sim or nmcli")
		cmd.Flags().StringVar(&radioIface, "iface", "wlan0", "WiFi interface (nmcli driver and mDNS)")
		cmd.Flags().DurationVar(&simJoinDelay, "sim-join-delay", time.Second, "Simulated association time")
		cmd.Flags().BoolVar(&simJoinFail, "sim-join-fail", false, "Simulate a network that never accepts the join")
		cmd.Flags().BoolVar(&simAPFail, "sim-ap-fail", false, "Simulate a radio that cannot host an access point")
		cmd.Flags().BoolVar(&holdOpen, "hold", false, "Keep running (and advertising) until interrupted")
		cmd.Flags().BoolVar(&plainOutput, "plain", false, "Print plain lines instead of the live view")
	}

	upCmd.Flags().DurationVar(&joinTimeout, "timeout", 0, "Join timeout (default: config join_timeout_ms, 10s)")
	upCmd.Flags().StringVar(&hostnameFlag, "hostname", "", "mDNS hostname (default: config mdns.hostname)")
	upCmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "Do not advertise over mDNS")
	upCmd.Flags().BoolVar(&simMDNS, "sim-mdns", false, "Advertise the simulated address over mDNS (off by default with --radio sim)")
	upCmd.Flags().BoolVar(&verifyMDNS, "verify", false, "Browse for the advertised record after registering")
	upCmd.Flags().DurationVar(&verifyTimeout, "verify-timeout", 5*time.Second, "How long --verify browses")

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(apCmd)
	rootCmd.AddCommand(scanCmd)
}

// upCmd runs the full bring-up
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Join WiFi or fall back to the access point",
	Long: `Run the network bring-up once.

  1. Pick credentials: the user network if set, else the default network
  2. Join it, waiting up to the timeout for an address
  3. On failure (or with no credentials) host the open "UnitCamS3-WiFi" AP
  4. When joined, advertise <hostname>.local and an _http._tcp service

The default network is never tried after the user network fails.

With the simulated radio nothing is advertised unless --sim-mdns is given,
since the record would point at an address no host owns.

Pressing Ctrl+C during the join ends the wait the same way a timeout does:
the radio is disconnected and the access point is started, then released
as the command exits. The radio is always released on exit; use --hold to
keep the network up.`,
	Example: `  # Bench run with the simulated radio
  unitcam-net up

  # Bench run that also publishes cam1.local on the LAN
  unitcam-net up --hostname cam1 --sim-mdns

  # Simulate a wrong password; falls back to the access point after 3s
  unitcam-net up --sim-join-fail --timeout 3s

  # Real hardware, keep the mDNS record alive
  sudo unitcam-net up --radio nmcli --iface wlan0 --hold --verify`,
	RunE: runUp,
}

// apCmd forces self-hosted mode
var apCmd = &cobra.Command{
	Use:   "ap",
	Short: "Host the UnitCamS3-WiFi access point",
	Long: `Switch the radio straight to access point mode, skipping any join.

The access point is open (no passphrase), on channel 1, and accepts one
client at a time.`,
	RunE: runAP,
}

// scanCmd discovers cameras on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for UnitCam devices on the network",
	Long: `Scan for UnitCam devices using mDNS/DNS-SD discovery.

Lists every _http._tcp service that carries the model=unitcam-s3 TXT record.`,
	Example: `  # Scan for 10 seconds (default)
  unitcam-net scan

  # Quick 3-second scan
  unitcam-net scan --timeout 3`,
	RunE: runScan,
}

// newRadio builds the radio driver selected by --radio
func newRadio() (wifi.Radio, error) {
	switch radioKind {
	case "sim":
		return radio.NewSim(radio.SimConfig{
			JoinDelay:       simJoinDelay,
			FailJoin:        simJoinFail,
			FailAccessPoint: simAPFail,
		}), nil
	case "nmcli":
		return radio.NewNM(radioIface), nil
	default:
		return nil, fmt.Errorf("unknown radio driver %q (want sim or nmcli)", radioKind)
	}
}

// mdnsEnabled reports whether up should advertise. The simulated radio
// only advertises with --sim-mdns.
func mdnsEnabled() bool {
	if noMDNS {
		return false
	}
	if radioKind == "sim" {
		return simMDNS
	}
	return true
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	for _, problem := range multierr.Errors(multierr.Append(cfg.Validate(), cfg.Warnings())) {
		logging.Warn("Config problem", zap.Error(problem))
	}
	return cfg, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	r, err := newRadio()
	if err != nil {
		return err
	}

	timeout := joinTimeout
	if timeout <= 0 {
		timeout = cfg.JoinTimeout()
	}
	hostname := hostnameFlag
	if hostname == "" {
		hostname = cfg.MDNSHostname()
	}

	deps := bringup.Deps{
		Negotiator: wifi.NewNegotiator(r),
		Provider:   cfg,
		Timeout:    timeout,
		Hostname:   hostname,
	}
	advertise := mdnsEnabled()
	if advertise {
		deps.Registrar = discovery.NewZeroconfRegistrar(radioIface)
	}

	mdns := "off"
	if advertise {
		mdns = hostname + ".local"
		if hostname == "" {
			mdns = "(no hostname)"
		}
	}
	header := ui.NewHeader("Network bring-up", cmd.CommandPath(),
		ui.Param{Key: "Radio", Value: radioLabel()},
		ui.Param{Key: "Timeout", Value: timeout.String()},
		ui.Param{Key: "mDNS", Value: mdns},
	)

	return execute(cmd.Context(), header, deps)
}

func runAP(cmd *cobra.Command, args []string) error {
	r, err := newRadio()
	if err != nil {
		return err
	}

	header := ui.NewHeader("Access point", cmd.CommandPath(),
		ui.Param{Key: "Radio", Value: radioLabel()},
		ui.Param{Key: "SSID", Value: wifi.AccessPointSSID},
	)
	return execute(cmd.Context(), header, bringup.Deps{
		Negotiator:       wifi.NewNegotiator(r),
		ForceAccessPoint: true,
	})
}

// execute runs the bring-up under the live or plain view and reports the
// outcome. With --hold it keeps the network up until ctx is cancelled. The
// radio is released on every return path.
func execute(ctx context.Context, header *ui.Header, deps bringup.Deps) (err error) {
	var res bringup.Result
	run := func(ctx context.Context, observe wifi.Observer) ui.Summary {
		deps.Negotiator.Observer = observe
		res = bringup.Run(ctx, deps)

		s := ui.Summary{
			Outcome:     res.Outcome,
			Hostname:    deps.Hostname,
			MDNSEnabled: deps.Registrar != nil,
			Advertised:  res.Advertised,
		}
		if verifyMDNS && res.Advertised {
			s.Verified, s.VerifyErr = verify(ctx, deps.Hostname, res.Outcome.Address())
		}
		return s
	}
	defer func() {
		err = multierr.Append(err, res.Close(context.WithoutCancel(ctx)))
	}()

	var summary ui.Summary
	if plainOutput || !ui.IsTerminal() {
		summary = ui.NewPrinter(nil).RunPlain(ctx, header, run)
	} else {
		summary, err = ui.RunLive(ctx, header, run)
		if err != nil {
			return err
		}
	}

	if !summary.Outcome.Succeeded() {
		return errors.New("network bring-up failed: radio could not join or host an access point")
	}

	if holdOpen {
		fmt.Println(ui.Notice("Holding network up, press Ctrl+C to stop."))
		<-ctx.Done()
	}
	return nil
}

// verify browses for the advertised hostname and checks it resolves to the
// joined address.
func verify(ctx context.Context, hostname, want string) (string, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = verifyTimeout

	dev, err := scanner.WaitForHost(ctx, hostname)
	if err != nil {
		return "", err
	}
	if dev.IP != want {
		return dev.IP, fmt.Errorf("%s.local resolves to %s, want %s", discovery.TrimLocal(hostname), dev.IP, want)
	}
	return dev.IP, nil
}

func radioLabel() string {
	if radioKind == "nmcli" {
		return "nmcli " + radioIface
	}
	return radioKind
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := time.Duration(scanTimeout) * time.Second
	printer := ui.NewPrinter(nil)
	printer.PrintHeader(ui.NewHeader("Device scan", cmd.CommandPath(),
		ui.Param{Key: "Service", Value: "_http._tcp (model=unitcam-s3)"},
		ui.Param{Key: "Timeout", Value: timeout.String()},
	))

	devices, err := discovery.ScanForDevices(cmd.Context(), timeout)
	return reportScan(printer, devices, err)
}

// reportScan prints the scan result as a result box followed by one block
// per device.
func reportScan(p *ui.Printer, devices []*discovery.Device, err error) error {
	if err != nil {
		p.PrintFailure("Scan failed", err, []string{
			"Check that this host allows multicast on UDP 5353",
			"Run with --log-level debug for resolver details",
		})
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		p.PrintWarning("No devices found",
			ui.Param{Key: "Joined?", Value: "the camera must have joined this network, not be self-hosting"},
			ui.Param{Key: "Hostname", Value: "mdns.hostname must be set in the camera config"},
			ui.Param{Key: "Network", Value: "client isolation on the access point blocks multicast"},
			ui.Param{Key: "Timeout", Value: "try a longer --timeout on slow networks"},
		)
		return nil
	}

	p.PrintSuccess(fmt.Sprintf("Found %d device(s)", len(devices)))
	p.Newline()
	for i, device := range devices {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s\n", i+1, device.ShortHostname())
		fmt.Fprintf(&b, "   URL:     %s/\n", device.BaseURL())
		fmt.Fprintf(&b, "   Host:    %s\n", device.Hostname)
		if len(device.Metadata) > 0 {
			fmt.Fprintf(&b, "   Metadata: %v\n", device.Metadata)
		}
		p.Print(b.String())
		p.Newline()
	}
	return nil
}
