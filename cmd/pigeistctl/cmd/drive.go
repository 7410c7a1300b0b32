package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	_ "github.com/mfulz/pigeist/internal/backend"

	"github.com/mfulz/pigeist/internal/configcli"
	"github.com/mfulz/pigeist/internal/controlcli"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/internal/robot"
	"github.com/mfulz/pigeist/internal/teleop"
	"github.com/mfulz/pigeist/internal/terminal"
	"github.com/spf13/cobra"
)

var local bool

// DriveCmd runs the interactive keyboard loop.
var DriveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Drive the robot with the keyboard",
	Long: `Shows the key menu and sends every key press to the robot until a key
with the exit effect (default <ESC>) or Ctrl-C is pressed.

Examples:
  pigeistctl drive                 # default daemon
  pigeistctl drive -d garage -u admin
  pigeistctl drive --local         # in-process robot backend from pigeistctl.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := ctlConfig()
		if local {
			return driveLocal(ctx, cfg)
		}
		return driveRemote(ctx, cfg)
	},
}

func driveLocal(ctx context.Context, cfg *configcli.Config) error {
	r, err := robot.New(cfg.Robot, cfg.Keymap)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Shutdown(); err != nil {
			logging.Log.Errorf("[pigeistctl] %v", err)
		}
	}()

	lines, err := teleop.ScreenLines(r.Dispatcher.Keymap())
	if err != nil {
		return err
	}
	return runScreen(ctx, lines, teleop.Local{Dispatcher: r.Dispatcher})
}

func driveRemote(ctx context.Context, cfg *configcli.Config) error {
	opts := options()
	bindings, err := controlcli.ListKeymap(cfg, opts)
	if err != nil {
		return err
	}
	lines, err := teleop.ScreenLines(teleop.KeymapFromBindings(bindings))
	if err != nil {
		return err
	}

	target, err := opts.Target(cfg)
	if err != nil {
		return err
	}
	session, err := controlcli.Dial(target)
	if err != nil {
		return err
	}
	defer session.Close()

	return runScreen(ctx, lines, teleop.Remote{Session: session})
}

// runScreen takes over the terminal for the drive loop. Console logging is
// suspended while the screen is active.
func runScreen(ctx context.Context, lines []string, p teleop.Presser) error {
	if err := logging.InitFileOnly(); err != nil {
		return err
	}
	defer func() { _ = logging.Init() }()

	scr, err := terminal.New()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer scr.Close()

	scr.SetLines(lines)
	scr.SetStatus("Waiting for a key...")
	return teleop.Run(ctx, scr, p, scr.SetStatus)
}

func init() {
	DriveCmd.Flags().BoolVar(&local, "local", false, "Drive an in-process robot backend instead of a daemon")
}
