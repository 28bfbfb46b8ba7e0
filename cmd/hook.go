package cmd

import (
	"fmt"
	"io"

	"github.com/grovetools/vibediary/cli"
	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/pkg/hooks"
	"github.com/grovetools/vibediary/state"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// stageFactory builds a hook stage from the loaded configuration.
type stageFactory func(cfg *config.Config, opts ...hooks.Option) (hooks.Stage, error)

func NewHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Run a lifecycle hook stage with the JSON payload on stdin",
		Long: `Run a lifecycle hook stage with the JSON payload on stdin.

Examples:
  vibediary hook session-start < start.json
  vibediary hook activity < tool-use.json
  vibediary hook session-end < end.json`,
		Annotations: map[string]string{
			cli.AnnotationNotes: `Exit status: hooks never block the assistant. Every stage exits 0,
including when the payload is malformed, the tool is not logged, or no
provider could write the post.

With --strict a stage that failed (session log not writable, invalid
configuration) exits 1. Skipped stages still exit 0.`,
		},
	}
	cmd.PersistentFlags().Bool("strict", false, "Exit non-zero when a stage fails")

	cmd.AddCommand(newHookStageCmd("session-start", nil,
		"Record the start of a session",
		func(cfg *config.Config, opts ...hooks.Option) (hooks.Stage, error) {
			return hooks.NewInitializer(cfg, opts...), nil
		}))
	cmd.AddCommand(newHookStageCmd("activity", []string{"post-tool-use"},
		"Append one tool use to the session log",
		func(cfg *config.Config, opts ...hooks.Option) (hooks.Stage, error) {
			return hooks.NewRecorder(cfg, opts...)
		}))
	cmd.AddCommand(newHookStageCmd("session-end", nil,
		"Generate the diary post for a finished session",
		func(cfg *config.Config, opts ...hooks.Option) (hooks.Stage, error) {
			return hooks.NewSynthesizer(cfg, opts...)
		}))

	return cmd
}

func newHookStageCmd(name string, aliases []string, short string, build stageFactory) *cobra.Command {
	return &cobra.Command{
		Use:     name,
		Aliases: aliases,
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHookStage(cmd, name, build)
		},
	}
}

func runHookStage(cmd *cobra.Command, name string, build stageFactory) error {
	strict, _ := cmd.Flags().GetBool("strict")
	logger := cli.GetLogger(cmd).WithField("stage", name)

	fail := func(err error) error {
		logger.WithError(err).Error("Hook stage failed")
		if strict {
			return err
		}
		return nil
	}

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return fail(err)
	}

	payload, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fail(fmt.Errorf("failed to read hook payload: %w", err))
	}

	stage, err := build(cfg,
		hooks.WithLogger(logger),
		hooks.WithDiagnostics(cmd.ErrOrStderr()),
		hooks.WithLedger(state.DefaultLedger()),
	)
	if err != nil {
		return fail(err)
	}

	outcome := stage.Run(cmd.Context(), payload)
	logOutcome(logger, outcome)

	if outcome.Status == hooks.StatusFailed && strict {
		return outcome.Err
	}
	return nil
}

// logOutcome logs skips at debug and failures at error.
func logOutcome(logger *logrus.Entry, outcome hooks.Outcome) {
	entry := logger.WithField("status", outcome.Status)
	switch outcome.Status {
	case hooks.StatusSkipped:
		entry = entry.WithField("reason", outcome.Reason)
		if outcome.Err != nil {
			entry = entry.WithError(outcome.Err)
		}
		entry.Debug("Hook stage skipped")
	case hooks.StatusFailed:
		entry.WithError(outcome.Err).Error("Hook stage failed")
	default:
		entry.WithField("artifact", outcome.Artifact).Debug("Hook stage completed")
	}
}
