// Package cli wires the flavormap command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	EnvFile    string
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the server.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	serve := NewServeCommand(opts)

	cmd := &cobra.Command{
		Use:   "flavormap",
		Short: "FlavorMap - food spots on a map",
		Long: `FlavorMap serves a small JSON API for browsing and adding food spots,
together with the static front-end bundle that draws them on a map.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serve.RunE,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	// Serve flags are also accepted on the root so `flavormap --port 9000` works.
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}
