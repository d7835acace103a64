package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/4thel00z/recommit/internal"
	"github.com/spf13/cobra"
)

func NewPickCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a recent commit and reuse its message",
		Long: `Show the 20 most recent commits of the workspace and reuse the chosen
message as the pending commit message.

With --context only the repository rooted at that path receives the message;
without it every known repository does.`,
		Args: cobra.NoArgs,
		RunE: makePickRunner(a),
	}

	addPickFlags(cmd)
	return cmd
}

func addPickFlags(cmd *cobra.Command) {
	cmd.Flags().String("context", "", "Root path of the repository that receives the message")
	cmd.Flags().Int("select", 0, "Pick the Nth commit (1-based) without prompting")
}

func makePickRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		contextRoot, _ := cmd.Flags().GetString("context")
		selectN, _ := cmd.Flags().GetInt("select")
		asJSON, _ := cmd.Flags().GetBool("json")

		s := a.session(cmd)
		notices := cmd.OutOrStdout()
		if asJSON {
			notices = cmd.ErrOrStderr()
		}
		notifier := internal.NewWriterNotifier(notices)

		if contextRoot != "" {
			abs, err := filepath.Abs(contextRoot)
			if err != nil {
				return fmt.Errorf("resolve context: %w", err)
			}
			contextRoot = abs
		}

		// without a workspace the use case reports that before any prompt
		var picker internal.Picker
		switch {
		case selectN > 0:
			picker = internal.IndexPicker(selectN)
		case s.root == "":
		case a.interactive():
			picker = internal.NewPromptPicker(a.stdin, cmd.ErrOrStderr())
		default:
			notifier.Notify(internal.LevelError, internal.MsgNoTerminal)
			return nil
		}

		uc := internal.NewRecommitUseCase(
			s.fetcher,
			s.repos,
			picker,
			a.clipboardFor(s.cfg),
			notifier,
			internal.RecommitOptions{
				CopyMode:               s.cfg.Clipboard.Copy,
				NotifyUnmatchedContext: s.cfg.NotifyUnmatchedContext,
			},
			s.logger,
		)

		out := uc.Execute(cmd.Context(), internal.RecommitInput{
			Root:    s.root,
			Context: contextRoot,
		})

		if asJSON {
			return outputPickJSON(cmd, out)
		}
		return nil
	}
}

func outputPickJSON(cmd *cobra.Command, out *internal.RecommitOutput) error {
	written := out.Delivery.Written
	if written == nil {
		written = []string{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"outcome": out.Outcome,
		"commit":  out.Record,
		"copied":  out.Copied,
		"written": written,
		"matched": out.Delivery.Matched,
	})
}
