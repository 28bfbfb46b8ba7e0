package hooks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/errors"
	"github.com/grovetools/vibediary/pkg/diary"
	"github.com/grovetools/vibediary/pkg/llm"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/grovetools/vibediary/pkg/sessions"
	"github.com/grovetools/vibediary/state"
	"github.com/sirupsen/logrus"
)

// Synthesizer turns a finished session into a diary post.
type Synthesizer struct {
	cfg   *config.Config
	store *sessions.Store
	chain *llm.Chain
	opts  *options
}

// Draft is a session that has enough records for a post, with the prompt
// that would be sent for it.
type Draft struct {
	SessionID string
	Digest    diary.Digest
	Prompt    string
	Now       time.Time
}

// NewSynthesizer creates the session-end stage. Generators come from the
// provider config unless WithGenerators is given.
func NewSynthesizer(cfg *config.Config, opts ...Option) (*Synthesizer, error) {
	o := newOptions(opts)

	generators := o.generators
	if generators == nil {
		var err error
		if generators, err = llm.NewGenerators(cfg.Providers); err != nil {
			return nil, err
		}
	}

	return &Synthesizer{
		cfg:   cfg,
		store: sessions.NewStore(cfg.SessionsDir),
		chain: llm.NewChain(generators, cfg.Providers.CallTimeout(), o.logger.WithField("stage", "synthesize")),
		opts:  o,
	}, nil
}

// Run implements Stage.
func (s *Synthesizer) Run(ctx context.Context, payload []byte) Outcome {
	p, err := models.ParseSessionEnd(payload)
	if err != nil {
		return Skipped(ReasonMalformedPayload).withErr(err)
	}
	return s.Generate(ctx, p.SessionID)
}

// Prepare reads the session and builds the prompt. It returns a nil draft
// and the skip outcome when the session is not eligible for a post.
func (s *Synthesizer) Prepare(sessionID string) (*Draft, Outcome) {
	if !s.store.Exists(sessionID) {
		return nil, Skipped(ReasonNoSessionFile)
	}

	log, err := s.store.Read(sessionID)
	if err != nil {
		if errors.Is(err, errors.ErrCodeSessionNotFound) {
			return nil, Skipped(ReasonNoSessionFile)
		}
		return nil, Failed(err)
	}

	logger := s.opts.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"records":    len(log.Records),
		"malformed":  log.Malformed,
	})
	if len(log.Records) < s.cfg.Diary.MinRecords {
		logger.Debug("Too few records for a diary entry")
		return nil, Skipped(ReasonTooFewRecords)
	}

	now := s.opts.now()
	digest := diary.Analyze(log.Records)
	return &Draft{
		SessionID: sessionID,
		Digest:    digest,
		Prompt:    diary.BuildPrompt(digest, now),
		Now:       now,
	}, Outcome{}
}

// Generate runs the whole synthesis for a session id.
func (s *Synthesizer) Generate(ctx context.Context, sessionID string) Outcome {
	draft, outcome := s.Prepare(sessionID)
	if draft == nil {
		return outcome
	}

	logger := s.opts.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"project":    draft.Digest.Project,
	})

	text, provider, err := s.chain.Generate(ctx, draft.Prompt)
	if err != nil {
		s.opts.diagnostics.Diagnostic("%s", s.failureMessage(err))
		logger.WithError(err).Debug("Diary generation failed")
		return Skipped(ReasonGenerationFailed).withErr(err)
	}

	post := diary.NewPost(draft.Digest, text, s.cfg.Diary.TitlePrefix, s.cfg.Diary.BaseTags, draft.Now)
	path, err := post.Write(s.cfg.PostsDir)
	if err != nil {
		return Failed(err)
	}

	s.opts.diagnostics.Diagnostic("Generated: %s", path)
	logger.WithFields(logrus.Fields{"provider": provider, "path": path}).Info("Diary entry written")

	if s.opts.ledger != nil {
		entry := state.Entry{Path: path, Provider: provider, GeneratedAt: draft.Now}
		if err := s.opts.ledger.Record(sessionID, entry); err != nil {
			logger.WithError(err).Warn("Failed to update generation ledger")
		}
	}

	return Completed(path)
}

// failureMessage is the single diagnostic line for a failed generation.
// When no provider had a key it names the variables to set.
func (s *Synthesizer) failureMessage(err error) string {
	if allUnavailable(err) {
		var vars []string
		for _, g := range s.chain.Generators() {
			if v := config.KeyEnvVar(g.Name()); v != "" {
				vars = append(vars, v)
			}
		}
		if len(vars) == 0 {
			return "No generation provider configured"
		}
		return fmt.Sprintf("No API key configured (%s)", strings.Join(vars, " or "))
	}

	var names []string
	for _, g := range s.chain.Generators() {
		names = append(names, g.Name())
	}
	return fmt.Sprintf("Diary generation failed (tried %s)", strings.Join(names, ", "))
}

func allUnavailable(err error) bool {
	causes := llm.Causes(err)
	if len(causes) == 0 {
		return true
	}
	for _, cause := range causes {
		if !errors.Is(cause, errors.ErrCodeProviderUnavailable) {
			return false
		}
	}
	return true
}
