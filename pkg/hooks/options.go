package hooks

import (
	"io"
	"time"

	"github.com/grovetools/vibediary/logging"
	"github.com/grovetools/vibediary/pkg/llm"
	"github.com/grovetools/vibediary/state"
	"github.com/sirupsen/logrus"
)

// Option customizes a stage.
type Option func(*options)

type options struct {
	now         func() time.Time
	logger      *logrus.Entry
	diagnostics *logging.PrettyLogger
	generators  []llm.Generator
	ledger      *state.Ledger
}

func newOptions(opts []Option) *options {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewLogger("hooks")
	}
	if o.diagnostics == nil {
		o.diagnostics = logging.NewPrettyLogger()
	}
	return o
}

// WithClock sets the time source used for timestamps and post dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(o *options) { o.logger = logger }
}

// WithDiagnostics sends "[Vibe Diary] ..." lines to w instead of stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(o *options) { o.diagnostics = logging.NewPrettyLoggerFor(w) }
}

// WithGenerators replaces the generators built from the provider config.
func WithGenerators(generators ...llm.Generator) Option {
	return func(o *options) { o.generators = generators }
}

// WithLedger sets the ledger updated after each generated post. Without
// it the ledger is not touched.
func WithLedger(ledger *state.Ledger) Option {
	return func(o *options) { o.ledger = ledger }
}
