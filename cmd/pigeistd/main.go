// Command pigeistd is the main entry point for the pigeist daemon.
// It loads configuration, builds the robot backend and its key dispatcher,
// and serves the control interfaces (unix/tcp) so pigeistctl can drive it.
// On termination signals, it stops the robot and closes its eyes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mfulz/pigeist/internal/backend"

	"github.com/mfulz/pigeist/interfaces"
	"github.com/mfulz/pigeist/internal/configd"
	"github.com/mfulz/pigeist/internal/control"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/internal/robot"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "pigeistd",
	Short:         "Robot daemon serving keyboard teleoperation",
	Long:          `pigeistd owns the robot backend and accepts key presses from pigeistctl over unix sockets or TCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func run() error {
	cfg, err := configd.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer logging.Sync()

	logging.Log.Infof("[pigeistd] Available backends: %v", interfaces.Backends())

	r, err := robot.New(cfg.Robot, cfg.Keymap)
	if err != nil {
		return err
	}
	defer func() {
		logging.Log.Infof("[pigeistd] Stopping robot...")
		if err := r.Shutdown(); err != nil {
			logging.Log.Errorf("[pigeistd] %v", err)
		}
	}()

	srv, err := control.NewServer(cfg, r)
	if err != nil {
		return err
	}

	// Handle termination signals to shut down the robot cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	logging.Log.Infof("[pigeistd] Daemon is running. Waiting for control events...")

	<-ctx.Done()
	logging.Log.Infof("[pigeistd] Termination signal received. Shutting down...")
	srv.Wait()
	logging.Log.Infof("[pigeistd] Shutdown complete. Exiting.")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Log.Errorf("[pigeistd] %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to pigeistd.yaml (default: resolved from $PIGEIST_CONFIG, ~/.pigeist, /etc/pigeist)")
}
