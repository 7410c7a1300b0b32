// Package cmd provides the CLI commands of the pigeistctl binary. It supports
// multi-daemon auth, direct address overrides and an in-process local mode.
package cmd

import (
	"fmt"

	"github.com/mfulz/pigeist/internal/configcli"
	"github.com/mfulz/pigeist/internal/configloader"
	"github.com/mfulz/pigeist/internal/controlcli"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	daemonName    string
	controlUser   string
	overrideAddr  string
	overrideToken string
)

// RootCmd is the pigeistctl root command.
var RootCmd = &cobra.Command{
	Use:           "pigeistctl",
	Short:         "Control interface for pigeist robots",
	Long:          `pigeistctl drives a robot with the keyboard, either through pigeistd or in-process with --local.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configcli.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logging.Init(); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		logging.Log.Debugf("[pigeistctl] Daemons: %v", controlcli.ListAvailableDaemons(cfg))
		return nil
	},
}

// ctlConfig returns the config loaded by the root command.
func ctlConfig() *configcli.Config {
	return configloader.MustGetConfig[*configcli.Config]()
}

// options collects the daemon selection flags.
func options() controlcli.Options {
	return controlcli.Options{
		Daemon:        daemonName,
		User:          controlUser,
		OverrideAddr:  overrideAddr,
		OverrideToken: overrideToken,
	}
}

func init() {
	// persistent options
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to pigeistctl.yaml")
	RootCmd.PersistentFlags().StringVarP(&daemonName, "daemon", "d", "", "Daemon name from pigeistctl.yaml")
	RootCmd.PersistentFlags().StringVarP(&controlUser, "user", "u", "", "Control user to authenticate as")
	RootCmd.PersistentFlags().StringVar(&overrideAddr, "addr", "", "Direct override address for daemon (unix socket or host:port)")
	RootCmd.PersistentFlags().StringVar(&overrideToken, "token", "", "Auth token for manually specified daemon")

	// attach commands
	RootCmd.AddCommand(DriveCmd)
	RootCmd.AddCommand(SendCmd)
	RootCmd.AddCommand(StateCmd)
	RootCmd.AddCommand(PingCmd)
	RootCmd.AddCommand(MenuCmd)
	RootCmd.AddCommand(KeymapCmd)
}
