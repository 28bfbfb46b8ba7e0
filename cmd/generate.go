package cmd

import (
	"fmt"

	"github.com/grovetools/vibediary/cli"
	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/errors"
	"github.com/grovetools/vibediary/pkg/hooks"
	"github.com/grovetools/vibediary/pkg/sessions"
	"github.com/grovetools/vibediary/state"
	"github.com/spf13/cobra"
)

func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <session-id>",
		Short: "Generate the diary post for a recorded session",
		Long: `Generate the diary post for a recorded session outside the hook.

With --dry-run the prompt that would be sent is printed and no provider is
called.

Examples:
  vibediary generate 4f2c9a
  vibediary generate 4f2c9a --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}
	cmd.Flags().Bool("dry-run", false, "Print the prompt instead of calling providers")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	sessionID := args[0]
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}

	synth, err := hooks.NewSynthesizer(cfg,
		hooks.WithLogger(cli.GetLogger(cmd).WithField("stage", "generate")),
		hooks.WithDiagnostics(cmd.ErrOrStderr()),
		hooks.WithLedger(state.DefaultLedger()),
	)
	if err != nil {
		return err
	}

	if dryRun {
		draft, outcome := synth.Prepare(sessionID)
		if draft == nil {
			return outcomeError(cfg, sessionID, outcome)
		}
		fmt.Fprintln(cmd.OutOrStdout(), draft.Prompt)
		return nil
	}

	outcome := synth.Generate(cmd.Context(), sessionID)
	if outcome.Status != hooks.StatusCompleted {
		return outcomeError(cfg, sessionID, outcome)
	}
	fmt.Fprintln(cmd.OutOrStdout(), outcome.Artifact)
	return nil
}

// outcomeError turns a stage that produced no post into a command error.
func outcomeError(cfg *config.Config, sessionID string, outcome hooks.Outcome) error {
	switch outcome.Reason {
	case hooks.ReasonNoSessionFile:
		return errors.SessionNotFound(sessionID, sessions.NewStore(cfg.SessionsDir).Path(sessionID))
	case hooks.ReasonTooFewRecords:
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("session '%s' has fewer than %d records", sessionID, cfg.Diary.MinRecords)).
			WithDetail("session", sessionID)
	}
	if outcome.Err != nil {
		return outcome.Err
	}
	return fmt.Errorf("no diary entry generated: %s", outcome)
}
