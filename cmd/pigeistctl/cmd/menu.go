package cmd

import (
	"github.com/mfulz/pigeist/internal/command"
	"github.com/mfulz/pigeist/internal/controlcli"
	"github.com/mfulz/pigeist/internal/teleop"
	"github.com/spf13/cobra"
)

var remote bool

// MenuCmd prints the banner and key menu.
var MenuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the logo, the description and the key menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := effectiveKeymap()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if err := command.RenderBanner(out); err != nil {
			return err
		}
		return km.RenderMenu(out)
	},
}

// KeymapCmd groups keymap subcommands.
var KeymapCmd = &cobra.Command{
	Use:   "keymap",
	Short: "Inspect key bindings",
}

// keymapExportCmd writes the keymap as YAML, ready for keymap.file.
var keymapExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the effective keymap as YAML to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := effectiveKeymap()
		if err != nil {
			return err
		}
		return km.WriteYAML(cmd.OutOrStdout())
	},
}

// effectiveKeymap returns the daemon's keymap with --remote, otherwise the
// one configured for local mode.
func effectiveKeymap() (command.Keymap, error) {
	if !remote {
		return ctlConfig().Keymap.Resolve()
	}
	bindings, err := controlcli.ListKeymap(ctlConfig(), options())
	if err != nil {
		return command.Keymap{}, err
	}
	return teleop.KeymapFromBindings(bindings), nil
}

func init() {
	MenuCmd.Flags().BoolVar(&remote, "remote", false, "Show the daemon's keymap instead of the local one")
	keymapExportCmd.Flags().BoolVar(&remote, "remote", false, "Export the daemon's keymap instead of the local one")
	KeymapCmd.AddCommand(keymapExportCmd)
}
