package hooks

import (
	"context"
	"path/filepath"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/grovetools/vibediary/pkg/sessions"
	"github.com/sirupsen/logrus"
)

// Initializer writes the session_start record.
type Initializer struct {
	store *sessions.Store
	opts  *options
}

// NewInitializer creates the session-start stage.
func NewInitializer(cfg *config.Config, opts ...Option) *Initializer {
	return &Initializer{
		store: sessions.NewStore(cfg.SessionsDir),
		opts:  newOptions(opts),
	}
}

// Run implements Stage.
func (s *Initializer) Run(ctx context.Context, payload []byte) Outcome {
	p, err := models.ParseSessionStart(payload)
	if err != nil {
		return Skipped(ReasonMalformedPayload).withErr(err)
	}

	rec := models.NewSessionStartRecord(models.SessionStart{
		Timestamp:      models.FormatTimestamp(s.opts.now()),
		SessionID:      p.SessionID,
		Project:        ProjectFromCwd(p.Cwd),
		Cwd:            p.Cwd,
		TranscriptPath: p.TranscriptPath,
	})
	if err := s.store.Append(p.SessionID, rec); err != nil {
		return Failed(err)
	}

	s.opts.logger.WithFields(logrus.Fields{
		"session_id": p.SessionID,
		"project":    rec.SessionStart.Project,
	}).Debug("Session started")
	return Completed(s.store.Path(p.SessionID))
}

// ProjectFromCwd returns the last path segment of cwd, or "unknown".
func ProjectFromCwd(cwd string) string {
	if cwd == "" {
		return models.UnknownProject
	}
	name := filepath.Base(filepath.Clean(cwd))
	if name == "." || name == string(filepath.Separator) {
		return models.UnknownProject
	}
	return name
}
