package activity

import (
	"path/filepath"
	"strings"

	"github.com/grovetools/vibediary/pkg/models"
	"github.com/moby/patternmatcher"
)

// Excluder matches activity paths against exclusion globs. Patterns use
// .dockerignore semantics: "**" crosses directories and "!" re-includes.
// Leading slashes are ignored on both patterns and paths.
type Excluder struct {
	matcher *patternmatcher.PatternMatcher
}

// NewExcluder compiles patterns. No patterns means nothing is excluded.
func NewExcluder(patterns []string) (*Excluder, error) {
	if len(patterns) == 0 {
		return &Excluder{}, nil
	}
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		neg := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		p = trimRoot(p)
		if neg {
			p = "!" + p
		}
		normalized = append(normalized, p)
	}
	pm, err := patternmatcher.New(normalized)
	if err != nil {
		return nil, err
	}
	return &Excluder{matcher: pm}, nil
}

// Excluded reports whether the activity's file or path matches.
func (e *Excluder) Excluded(a models.Activity) bool {
	if e == nil || e.matcher == nil {
		return false
	}
	for _, p := range []string{a.File, a.Path} {
		if p == "" {
			continue
		}
		matched, err := e.matcher.MatchesOrParentMatches(trimRoot(p))
		if err == nil && matched {
			return true
		}
	}
	return false
}

func trimRoot(p string) string {
	return strings.TrimLeft(filepath.ToSlash(p), "/")
}
