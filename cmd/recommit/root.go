package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recommit",
		Short: "Reuse a recent commit message",
		Long: `Pick one of the 20 most recent commits and reuse its message as the
pending commit message of your repositories. The message is also copied to
the clipboard.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	addPersistentFlags(rootCmd)

	if a != nil {
		addPickFlags(rootCmd)
		rootCmd.RunE = makePickRunner(a)
		addSubcommands(rootCmd, a, version)
	}

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("root", "", "Workspace root (defaults to the repository enclosing the working directory)")
	cmd.PersistentFlags().String("config", "", "Config file (defaults to $XDG_CONFIG_HOME/recommit/config.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

func addSubcommands(root *cobra.Command, a *app, version string) {
	root.AddCommand(
		NewPickCmd(a),
		NewLogCmd(a),
		NewPendingCmd(a),
		NewHookCmd(a),
		NewWatchCmd(a),
		newVersionCmd(version),
	)
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recommit version %s\n", version)
		},
	}
}
