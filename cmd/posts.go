package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/vibediary/cli"
	"github.com/grovetools/vibediary/pkg/diary"
	"github.com/grovetools/vibediary/tui/table"
	"github.com/spf13/cobra"
)

func NewPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List and browse generated diary posts",
	}
	cmd.AddCommand(newPostsListCmd())
	cmd.AddCommand(newPostsBrowseCmd())
	return cmd
}

func newPostsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List diary posts with their frontmatter, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			posts, err := diary.ListPosts(cfg.PostsDir)
			if err != nil {
				return fmt.Errorf("failed to list posts: %w", err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, posts)
			}

			if len(posts) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No posts in %s\n", cfg.PostsDir)
				return nil
			}

			rows := make([][]string, 0, len(posts))
			for _, p := range posts {
				rows = append(rows, []string{
					p.Name,
					p.Metadata.Title,
					p.Metadata.Date,
					p.Metadata.Project,
					strings.Join(p.Metadata.Tags, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.SimpleTable(
				[]string{"FILE", "TITLE", "DATE", "PROJECT", "TAGS"}, rows))
			return nil
		},
	}
}
