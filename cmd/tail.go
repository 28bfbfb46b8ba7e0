package cmd

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/vibediary/cli"
	"github.com/grovetools/vibediary/pkg/diary"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/grovetools/vibediary/pkg/sessions"
	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewTailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tail [session-id]",
		Short: "Follow a session log as activities are recorded",
		Long: `Follow a session log as activities are recorded.

Each record is printed as the line it contributes to the diary prompt.
Without a session id, tail waits for the next session to start and
follows that one. Press Ctrl-C to stop.

Examples:
  vibediary tail
  vibediary tail 4f2c9a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cli.GetLogger(cmd)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			store := sessions.NewStore(cfg.SessionsDir)
			var path string
			if len(args) == 1 {
				path = store.Path(args[0])
			} else {
				watcher, err := newSessionWatcher(store.Dir(), logger)
				if err != nil {
					return err
				}
				defer watcher.Close()

				fmt.Fprintf(cmd.ErrOrStderr(), "Waiting for a session to start in %s\n", store.Dir())
				if path, err = watcher.Next(ctx); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Following %s\n", path)
			return followSession(ctx, path, cmd.OutOrStdout())
		},
	}
}

// followSession prints each record appended to the session log at path,
// starting from the beginning of the file, until ctx is done.
func followSession(ctx context.Context, path string, out io.Writer) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return fmt.Errorf("failed to follow %s: %w", path, err)
	}
	defer t.Cleanup()

	for {
		select {
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				return line.Err
			}
			rec, ok := sessions.ParseLine([]byte(line.Text))
			if !ok {
				continue
			}
			for _, l := range recordLines(rec) {
				fmt.Fprintln(out, l)
			}
		case <-ctx.Done():
			_ = t.Stop()
			return nil
		}
	}
}

// recordLines renders a record the way it appears in the activity summary,
// prefixed with its time of day.
func recordLines(rec models.Record) []string {
	prefix := ""
	if t, ok := models.ParseTimestamp(rec.Timestamp); ok {
		prefix = t.Format("15:04:05") + " "
	}

	switch {
	case rec.Type == models.RecordSessionStart && rec.SessionStart != nil:
		return []string{fmt.Sprintf("%sSession started: %s (%s)", prefix, rec.SessionStart.Project, rec.SessionStart.Cwd)}
	case rec.Type == models.RecordActivity && rec.Activity != nil:
		lines := diary.SummaryLines(*rec.Activity)
		lines[0] = prefix + lines[0]
		return lines
	}
	return []string{fmt.Sprintf("%s- %s record", prefix, rec.Type)}
}

// sessionWatcher reports session logs created in a directory.
type sessionWatcher struct {
	watcher *fsnotify.Watcher
	logger  *logrus.Entry
}

// newSessionWatcher starts watching dir, creating it if needed, so no file
// created after it returns is missed.
func newSessionWatcher(dir string, logger *logrus.Entry) (*sessionWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	return &sessionWatcher{watcher: watcher, logger: logger}, nil
}

// Next blocks until a session log is created and returns its path.
func (w *sessionWatcher) Next(ctx context.Context) (string, error) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return "", fmt.Errorf("session watcher closed")
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)

			if event.Op&fsnotify.Create != 0 && strings.HasSuffix(event.Name, sessions.Extension) {
				return filepath.Clean(event.Name), nil
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return "", fmt.Errorf("session watcher closed")
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Close stops watching.
func (w *sessionWatcher) Close() error {
	return w.watcher.Close()
}
