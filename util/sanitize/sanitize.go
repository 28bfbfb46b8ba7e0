package sanitize

import (
	"regexp"
	"strings"
)

var (
	// separatorReplacer replaces path separators that would escape a directory
	separatorReplacer = strings.NewReplacer(
		"/", "-",
		"\\", "-",
	)

	// controlCharRegex matches ASCII control characters and NUL
	controlCharRegex = regexp.MustCompile(`[\x00-\x1f\x7f]+`)

	// reservedCharRegex matches characters rejected by common filesystems
	reservedCharRegex = regexp.MustCompile(`[<>:"|?*]+`)

	// multiDashRegex matches multiple consecutive dashes
	multiDashRegex = regexp.MustCompile(`-{2,}`)
)

// ForPathComponent sanitizes a string for use as a single path component.
// Ordinary names (UUIDs, project directory names) pass through unchanged so
// file names stay comparable with logs written by earlier versions; only path
// separators, control characters and reserved characters are replaced.
func ForPathComponent(s string, fallback string) string {
	if s == "" {
		return fallback
	}

	out := separatorReplacer.Replace(s)
	out = controlCharRegex.ReplaceAllString(out, "")
	out = reservedCharRegex.ReplaceAllString(out, "-")
	if out != s {
		// Only collapse dashes we may have introduced.
		out = multiDashRegex.ReplaceAllString(out, "-")
	}
	out = strings.TrimSpace(out)

	// Reject names that resolve to the directory itself or its parent
	if out == "" || out == "." || out == ".." {
		return fallback
	}

	return out
}
