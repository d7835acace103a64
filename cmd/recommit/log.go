package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/4thel00z/recommit/internal"
	"github.com/spf13/cobra"
)

func NewLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the recent commits recommit offers",
		Long:  `Show the 20 most recent commits of the workspace as parsed by recommit.`,
		Args:  cobra.NoArgs,
		RunE:  makeLogRunner(a),
	}

	return cmd
}

func makeLogRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s := a.session(cmd)
		uc := internal.NewListHistoryUseCase(s.fetcher)

		out, err := uc.Execute(cmd.Context(), internal.ListHistoryInput{Root: s.root})
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Commits)
		}

		if len(out.Commits) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), internal.MsgNoCommits)
			return nil
		}

		for _, c := range out.Commits {
			subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", shortHash(c.Identifier), c.Date, subject)
		}
		return nil
	}
}

func shortHash(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
