package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/vibediary/cli"
	"github.com/grovetools/vibediary/pkg/diary"
	"github.com/grovetools/vibediary/tui"
	"github.com/grovetools/vibediary/tui/browse"
	"github.com/spf13/cobra"
)

func newPostsBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a diary post interactively",
		Long: `Pick a diary post interactively.

The list is drawn on stderr; the path of the post chosen with Enter is
printed on stdout, so the command composes with other tools.

Examples:
  $EDITOR "$(vibediary posts browse)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			posts, err := diary.ListPosts(cfg.PostsDir)
			if err != nil {
				return fmt.Errorf("failed to list posts: %w", err)
			}
			if len(posts) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "No posts in %s\n", cfg.PostsDir)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			selected, err := runBrowser(ctx, browse.New(posts))
			if err != nil {
				return err
			}
			if selected != "" {
				fmt.Fprintln(cmd.OutOrStdout(), selected)
			}
			return nil
		},
	}
}

func runBrowser(ctx context.Context, model browse.Model) (string, error) {
	tui.InitializeTUI()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	)

	final, err := p.Run()
	if err != nil {
		if stderrors.Is(err, tea.ErrProgramKilled) {
			return "", nil
		}
		return "", fmt.Errorf("error running post browser: %w", err)
	}

	if m, ok := final.(browse.Model); ok {
		return m.Selected(), nil
	}
	return "", nil
}
