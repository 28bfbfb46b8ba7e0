package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/moby/patternmatcher"
)

// Validate checks the configuration for semantic errors that the schema
// cannot express. All problems are reported together.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.SessionsDir == "" {
		result = multierror.Append(result, fmt.Errorf("sessions_dir cannot be empty"))
	}
	if c.PostsDir == "" {
		result = multierror.Append(result, fmt.Errorf("posts_dir cannot be empty"))
	}
	if c.Diary.MinRecords < 1 {
		result = multierror.Append(result, fmt.Errorf("diary.min_records must be at least 1, got %d", c.Diary.MinRecords))
	}

	if len(c.ExcludePaths) > 0 {
		if _, err := patternmatcher.New(c.ExcludePaths); err != nil {
			result = multierror.Append(result, fmt.Errorf("exclude_paths: %w", err))
		}
	}

	if err := c.Providers.validate(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func (p *ProvidersConfig) validate() error {
	var result *multierror.Error

	if len(p.Order) == 0 {
		result = multierror.Append(result, fmt.Errorf("providers.order must name at least one provider"))
	}
	seen := make(map[string]bool)
	for _, name := range p.Order {
		if _, ok := p.Provider(name); !ok {
			result = multierror.Append(result, fmt.Errorf("providers.order: unknown provider %q (known: %v)", name, KnownProviders))
			continue
		}
		if seen[name] {
			result = multierror.Append(result, fmt.Errorf("providers.order: provider %q listed twice", name))
		}
		seen[name] = true
	}

	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("providers.timeout: %w", err))
		} else if d <= 0 {
			result = multierror.Append(result, fmt.Errorf("providers.timeout must be positive, got %s", p.Timeout))
		}
	}

	for _, name := range KnownProviders {
		pc, _ := p.Provider(name)
		if pc.MaxTokens < 0 {
			result = multierror.Append(result, fmt.Errorf("providers.%s.max_tokens must be positive, got %d", name, pc.MaxTokens))
		}
	}

	return result.ErrorOrNil()
}
