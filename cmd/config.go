package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/frb/internal/app"
	"github.com/oshokin/frb/internal/version"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configSetKeyCmd = &cobra.Command{
		Use:   "set-key <api_key>",
		Short: "Store the FRED API key in the configuration file",
		Long: `Validates the API key and stores it in the configuration file.

The key must be a 32 character lowercase alphanumeric string.
Other settings and their order in the file are preserved; the file is created if it doesn't exist.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteSetKeyCommand(cmd.Context(), args[0])
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configCmd.AddCommand(configSetKeyCmd)

	rootCmd.AddCommand(configCmd, versionCmd)
}
