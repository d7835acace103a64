package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/4thel00z/recommit/internal"
	"github.com/spf13/cobra"
)

type pendingAction func(*internal.PendingUseCase, context.Context, internal.PendingInput) (*internal.PendingOutput, error)

func NewPendingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Inspect pending commit messages",
		Long:  `Show the pending commit message of every known repository.`,
		Args:  cobra.NoArgs,
		RunE:  makePendingRunner(a, (*internal.PendingUseCase).Show, "No pending messages."),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show pending messages",
			Args:  cobra.NoArgs,
			RunE:  makePendingRunner(a, (*internal.PendingUseCase).Show, "No pending messages."),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Discard pending messages",
			Args:  cobra.NoArgs,
			RunE:  makePendingRunner(a, (*internal.PendingUseCase).Clear, "Nothing to clear."),
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Compare pending messages with the HEAD commit message",
			Args:  cobra.NoArgs,
			RunE:  makePendingRunner(a, (*internal.PendingUseCase).Diff, "No pending messages."),
		},
	)

	return cmd
}

func makePendingRunner(a *app, action pendingAction, empty string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s := a.session(cmd)
		uc := internal.NewPendingUseCase(s.repos)

		out, err := action(uc, cmd.Context(), internal.PendingInput{Root: s.root})
		if err != nil {
			return fmt.Errorf("%s: %w", cmd.Name(), err)
		}

		if asJSON {
			entries := out.Entries
			if entries == nil {
				entries = []internal.PendingEntry{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(out.Entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), empty)
			return nil
		}

		for _, e := range out.Entries {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s\n", e.Root)
			if e.Diff != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", e.Diff)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", e.Message)
		}
		return nil
	}
}
