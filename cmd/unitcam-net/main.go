// Unitcam-net brings up the network for a UnitCam camera.
//
// It joins the configured WiFi network, falls back to hosting the
// "UnitCamS3-WiFi" access point when that is impossible, and advertises the
// camera over mDNS once it has joined. The radio is driven through
// NetworkManager (nmcli) on Linux, or simulated for bench testing.
//
// Usage:
//
//	unitcam-net [command] [flags]
//
// See 'unitcam-net --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/unitcam/internal/logging"
	"github.com/muurk/unitcam/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "unitcam-net",
	Short: "UnitCam network bring-up",
	Long: `Bring up the network for a UnitCam camera.

The camera joins the configured WiFi network. If no network is configured,
or the join does not complete within the timeout, it hosts its own open
access point "UnitCamS3-WiFi" so it can be configured from a phone.
Once joined, it advertises itself as <hostname>.local over mDNS.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $UNITCAM_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $UNITCAM_LOG_LEVEL, silent)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Line("unitcam-net"))
	},
}
