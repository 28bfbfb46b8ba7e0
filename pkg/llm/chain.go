package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/vibediary/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Chain tries each generator in order until one returns non-empty text.
type Chain struct {
	generators []Generator
	timeout    time.Duration
	logger     *logrus.Entry
}

// NewChain creates a chain over generators. Each call is bounded by timeout
// when it is positive.
func NewChain(generators []Generator, timeout time.Duration, logger *logrus.Entry) *Chain {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Chain{generators: generators, timeout: timeout, logger: logger}
}

// Generators returns the generators in the order they are tried.
func (c *Chain) Generators() []Generator {
	return c.generators
}

// Generate returns the text of the first generator that succeeds together
// with its name. When every generator fails the returned error is
// GENERATION_FAILED wrapping each provider's error.
func (c *Chain) Generate(ctx context.Context, prompt string) (string, string, error) {
	var result *multierror.Error

	for _, g := range c.generators {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}

		text, err := c.call(ctx, g, prompt)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.ProviderFailed(g.Name(), fmt.Errorf("empty response"))
		}
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"provider": g.Name(),
				"code":     errors.GetCode(err),
			}).WithError(err).Debug("Provider did not produce a diary entry")
			result = multierror.Append(result, err)
			continue
		}

		c.logger.WithField("provider", g.Name()).Debug("Provider produced a diary entry")
		return text, g.Name(), nil
	}

	if result == nil {
		result = multierror.Append(result, errors.New(errors.ErrCodeProviderUnavailable, "no providers configured"))
	}
	return "", "", errors.GenerationFailed(result.ErrorOrNil())
}

func (c *Chain) call(ctx context.Context, g Generator, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return g.Generate(ctx, prompt)
}

// Causes returns the per-provider errors aggregated in a chain failure.
func Causes(err error) []error {
	var merr *multierror.Error
	if stderrors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	if err != nil {
		return []error{err}
	}
	return nil
}
