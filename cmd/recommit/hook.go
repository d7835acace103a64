package main

import (
	"fmt"

	"github.com/4thel00z/recommit/internal"
	"github.com/spf13/cobra"
)

func NewHookCmd(a *app) *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the prepare-commit-msg hook",
		Long: `The prepare-commit-msg hook fills the message of your next "git commit"
with the pending message and then clears it.`,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install the prepare-commit-msg hook",
		Args:  cobra.NoArgs,
		RunE:  makeHookInstallRunner(a),
	}
	installCmd.Flags().Bool("force", false, "Overwrite an existing hook (backs up the original)")

	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the prepare-commit-msg hook",
		Long:  `Remove the hook installed by recommit. Restores any backed-up original hook.`,
		Args:  cobra.NoArgs,
		RunE:  makeHookUninstallRunner(a),
	}

	runCmd := &cobra.Command{
		Use:    "run [hook-type] [msg-file] [source] [sha]",
		Short:  "Execute a hook handler (internal)",
		Hidden: true,
		Args:   cobra.RangeArgs(2, 4),
		RunE:   makeHookRunRunner(a),
	}

	hookCmd.AddCommand(installCmd, uninstallCmd, runCmd)
	return hookCmd
}

func makeHookInstallRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		s := a.session(cmd)
		if s.root == "" {
			return internal.ErrNoWorkspace
		}

		path, err := internal.NewInstallHookUseCase().Execute(cmd.Context(), internal.InstallHookInput{
			Root:  s.root,
			Force: force,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed %s hook at %s\n", internal.HookType, path)
		return nil
	}
}

func makeHookUninstallRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		s := a.session(cmd)
		if s.root == "" {
			return internal.ErrNoWorkspace
		}

		removed, err := internal.NewUninstallHookUseCase().Execute(cmd.Context(), internal.UninstallHookInput{
			Root: s.root,
		})
		if err != nil {
			return err
		}

		if !removed {
			fmt.Fprintln(cmd.OutOrStdout(), "No recommit hook installed")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uninstalled %s hook\n", internal.HookType)
		return nil
	}
}

// makeHookRunRunner never fails the commit: problems are reported on stderr.
func makeHookRunRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		hookType := args[0]
		if hookType != internal.HookType {
			return fmt.Errorf("unsupported hook type: %s", hookType)
		}

		input := internal.ApplyPendingInput{MsgFile: args[1]}
		if len(args) > 2 {
			input.Source = args[2]
		}

		s := a.session(cmd)
		if s.root == "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "recommit hook: %v\n", internal.ErrNoWorkspace)
			return nil
		}
		input.Root = s.root

		if _, err := internal.NewApplyPendingUseCase(s.logger).Execute(cmd.Context(), input); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "recommit hook: %v\n", err)
		}
		return nil
	}
}
