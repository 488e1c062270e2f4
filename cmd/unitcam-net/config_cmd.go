package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/muurk/unitcam/internal/config"
	"github.com/muurk/unitcam/internal/ui"
)

var (
	passwordFlag string
	forceInit    bool
)

func init() {
	for _, cmd := range []*cobra.Command{setWiFiCmd, setDefaultWiFiCmd} {
		cmd.Flags().StringVar(&passwordFlag, "password", "", "Passphrase (prompted for when omitted; empty for an open network)")
	}
	initConfigCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file without asking")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)
	configCmd.AddCommand(setWiFiCmd)
	configCmd.AddCommand(setDefaultWiFiCmd)
	configCmd.AddCommand(setHostnameCmd)
	configCmd.AddCommand(setTimeoutCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the network configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(configPath)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration with passphrases masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))

		if problems := multierr.Errors(multierr.Append(cfg.Validate(), cfg.Warnings())); len(problems) > 0 {
			fmt.Println()
			for _, p := range problems {
				fmt.Printf("warning: %v\n", p)
			}
		}
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(configPath)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			ok := ui.Confirm(os.Stdin, os.Stdout, "Config file exists", []string{
				path,
				"Saved WiFi credentials and hostname will be reset",
			})
			if !ok {
				return nil
			}
		}

		if err := config.New().Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var setWiFiCmd = &cobra.Command{
	Use:   "set-wifi SSID",
	Short: "Set the user WiFi network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordFor(cmd, args[0])
		if err != nil {
			return err
		}
		return update(func(c *config.Config) { c.SetWiFi(args[0], password) })
	},
}

var setDefaultWiFiCmd = &cobra.Command{
	Use:   "set-default-wifi SSID",
	Short: "Set the built-in default WiFi network",
	Long: `Set the default network, used only when no user network is configured.

Pass an empty SSID ("") to clear it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := ""
		if args[0] != "" {
			var err error
			if password, err = passwordFor(cmd, args[0]); err != nil {
				return err
			}
		}
		return update(func(c *config.Config) { c.SetDefaultWiFi(args[0], password) })
	},
}

var setHostnameCmd = &cobra.Command{
	Use:   "set-hostname NAME",
	Short: "Set the mDNS hostname (advertised as NAME.local)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return update(func(c *config.Config) { c.SetHostname(args[0]) })
	},
}

var setTimeoutCmd = &cobra.Command{
	Use:   "set-timeout DURATION",
	Short: "Set the WiFi join timeout (e.g. 10s, 1500ms)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		return update(func(c *config.Config) { c.SetJoinTimeout(d) })
	},
}

// update loads the config, applies fn and saves it if still valid.
// Advisory warnings are printed but do not block the save.
func update(fn func(*config.Config)) error {
	path, err := config.ResolvePath(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	fn(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration, not saved: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("Saved %s\n", path)
	for _, w := range multierr.Errors(cfg.Warnings()) {
		fmt.Printf("warning: %v\n", w)
	}
	return nil
}

// passwordFor returns --password, or prompts for it. Input is not echoed
// on a terminal.
func passwordFor(cmd *cobra.Command, ssid string) (string, error) {
	if cmd.Flags().Changed("password") {
		return passwordFlag, nil
	}

	fmt.Fprintf(os.Stderr, "Passphrase for %s (empty for open network): ", ssid)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
