package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grovetools/vibediary/cli"
	"github.com/grovetools/vibediary/pkg/diary"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/grovetools/vibediary/pkg/sessions"
	"github.com/grovetools/vibediary/state"
	"github.com/grovetools/vibediary/tui/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// SessionSummary is one row of 'sessions list'.
type SessionSummary struct {
	SessionID      string   `json:"session_id"`
	Project        string   `json:"project"`
	Records        int      `json:"records"`
	Malformed      int      `json:"malformed,omitempty"`
	FirstTimestamp string   `json:"first_timestamp,omitempty"`
	Duration       string   `json:"duration"`
	Posts          []string `json:"posts"`
}

// SessionDetail is the output of 'sessions show'.
type SessionDetail struct {
	SessionSummary
	Tools   []string `json:"tools"`
	Summary string   `json:"summary"`
}

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect recorded session logs",
	}
	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsShowCmd())
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cli.GetLogger(cmd)

			store := sessions.NewStore(cfg.SessionsDir)
			infos, err := store.List()
			if err != nil {
				return err
			}
			ledger := loadLedger(logger)

			summaries := make([]SessionSummary, 0, len(infos))
			for _, info := range infos {
				log, err := store.Read(info.SessionID)
				if err != nil {
					logger.WithError(err).WithField("session_id", info.SessionID).Warn("Skipping unreadable session log")
					continue
				}
				summaries = append(summaries, summarizeSession(log, ledger))
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, summaries)
			}

			if len(summaries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No sessions recorded in %s\n", cfg.SessionsDir)
				return nil
			}

			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					s.SessionID,
					s.Project,
					strconv.Itoa(s.Records),
					s.FirstTimestamp,
					s.Duration,
					strconv.Itoa(len(s.Posts)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.SimpleTable(
				[]string{"SESSION", "PROJECT", "RECORDS", "STARTED", "DURATION", "POSTS"}, rows))
			return nil
		},
	}
}

func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the duration and activity summary of a session",
		Long: `Show the duration and activity summary of a session.

This is exactly the material a diary prompt is built from. The session log
is only read, never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			log, err := sessions.NewStore(cfg.SessionsDir).Read(args[0])
			if err != nil {
				return err
			}

			summary := summarizeSession(log, loadLedger(cli.GetLogger(cmd)))
			digest := diary.Analyze(log.Records)
			detail := SessionDetail{
				SessionSummary: summary,
				Tools:          sortedTools(digest.Tools),
				Summary:        digest.Summary,
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, detail)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, table.StatusTable([][2]string{
				{"Session", detail.SessionID},
				{"Project", detail.Project},
				{"Records", strconv.Itoa(detail.Records)},
				{"Started", detail.FirstTimestamp},
				{"Duration", detail.Duration},
				{"Tools", strings.Join(detail.Tools, ", ")},
				{"Posts", strings.Join(detail.Posts, ", ")},
			}))
			fmt.Fprintln(out)
			fmt.Fprintln(out, detail.Summary)
			return nil
		},
	}
}

func summarizeSession(log *sessions.Log, ledger state.State) SessionSummary {
	digest := diary.Analyze(log.Records)
	summary := SessionSummary{
		SessionID: log.SessionID,
		Project:   digest.Project,
		Records:   digest.Records,
		Malformed: log.Malformed,
		Duration:  digest.Duration,
		Posts:     []string{},
	}
	for _, rec := range log.Records {
		if t, ok := models.ParseTimestamp(rec.Timestamp); ok {
			summary.FirstTimestamp = t.Format("2006-01-02 15:04")
			break
		}
	}
	for _, entry := range ledger[log.SessionID] {
		summary.Posts = append(summary.Posts, entry.Path)
	}
	return summary
}

// loadLedger reads the generation ledger. It is informational only, so a
// read failure yields an empty ledger.
func loadLedger(logger *logrus.Entry) state.State {
	ledger := state.DefaultLedger()
	st, err := ledger.Load()
	if err != nil {
		logger.WithError(err).WithField("path", ledger.Path()).Warn("Failed to read generation ledger")
		return state.State{}
	}
	return st
}

func sortedTools(tools map[string]bool) []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
