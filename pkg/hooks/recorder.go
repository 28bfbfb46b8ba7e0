package hooks

import (
	"context"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/pkg/activity"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/grovetools/vibediary/pkg/sessions"
	"github.com/sirupsen/logrus"
)

// Recorder appends one activity record per allow-listed tool use.
type Recorder struct {
	cfg      *config.Config
	store    *sessions.Store
	excluder *activity.Excluder
	opts     *options
}

// NewRecorder creates the activity stage. It fails only when the exclude
// patterns do not compile.
func NewRecorder(cfg *config.Config, opts ...Option) (*Recorder, error) {
	excluder, err := activity.NewExcluder(cfg.ExcludePaths)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		cfg:      cfg,
		store:    sessions.NewStore(cfg.SessionsDir),
		excluder: excluder,
		opts:     newOptions(opts),
	}, nil
}

// Run implements Stage.
func (s *Recorder) Run(ctx context.Context, payload []byte) Outcome {
	p, err := models.ParseToolUse(payload)
	if err != nil {
		return Skipped(ReasonMalformedPayload).withErr(err)
	}

	logger := s.opts.logger.WithFields(logrus.Fields{
		"session_id": p.SessionID,
		"tool":       p.ToolName,
	})

	if !s.cfg.IsLogged(p.ToolName) {
		return Skipped(ReasonToolNotLogged)
	}

	a := activity.Project(p.ToolName, p.ToolInput, p.ToolResponse)
	a.Timestamp = models.FormatTimestamp(s.opts.now())

	if s.excluder.Excluded(a) {
		logger.Debug("Activity excluded by path")
		return Skipped(ReasonPathExcluded)
	}

	if err := s.store.Append(p.SessionID, models.NewActivityRecord(a)); err != nil {
		return Failed(err)
	}

	logger.WithField("action", a.Action).Debug("Activity recorded")
	return Completed(s.store.Path(p.SessionID))
}
