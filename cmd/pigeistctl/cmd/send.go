package cmd

import (
	"fmt"

	"github.com/mfulz/pigeist/internal/controlcli"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/internal/robot"
	"github.com/mfulz/pigeist/internal/teleop"
	"github.com/spf13/cobra"
)

// SendCmd presses keys without the interactive screen.
var SendCmd = &cobra.Command{
	Use:   "send <key>...",
	Short: "Press one or more keys and print their effects",
	Long: `Presses the given keys in order and prints one "key -> effect" line per key.
Special keys use their bracketed names, e.g. "<SPACE>", "<F1>" or "<ESC>".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p teleop.Presser
		if local {
			r, err := robot.New(ctlConfig().Robot, ctlConfig().Keymap)
			if err != nil {
				return err
			}
			defer func() {
				if err := r.Shutdown(); err != nil {
					logging.Log.Errorf("[pigeistctl] %v", err)
				}
			}()
			p = teleop.Local{Dispatcher: r.Dispatcher}
		} else {
			target, err := options().Target(ctlConfig())
			if err != nil {
				return err
			}
			session, err := controlcli.Dial(target)
			if err != nil {
				return err
			}
			defer session.Close()
			p = teleop.Remote{Session: session}
		}

		for _, key := range args {
			effect, err := p.Press(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", key, effect)
		}
		return nil
	},
}

// StateCmd prints the daemon's toggle flags.
var StateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show blinker and eye state of the robot",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := controlcli.RobotState(ctlConfig(), options())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Left blinker:   %v\nRight blinker:  %v\nLeft eye:       %v\nRight eye:      %v\nEyes on:        %v\n",
			st.LeftBlinker, st.RightBlinker, st.LeftEye, st.RightEye, st.EyesOn)
		return nil
	},
}

// PingCmd checks that a daemon is reachable.
var PingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the daemon answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := controlcli.Ping(ctlConfig(), options())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pong (backend: %s)\n", backend)
		return nil
	},
}

func init() {
	SendCmd.Flags().BoolVar(&local, "local", false, "Press keys on an in-process robot backend instead of a daemon")
}
