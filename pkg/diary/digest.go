// Package diary folds a session's records into the material for a diary
// entry and writes the finished post.
package diary

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/vibediary/pkg/models"
)

// NoActivities is the summary used when a session has no activity records.
const NoActivities = "No significant activities logged."

// UnknownDuration is reported when fewer than two timestamps parse.
const UnknownDuration = "Unknown"

// summaryCommandRunes bounds a Bash command quoted in the summary.
const summaryCommandRunes = 50

// Digest is everything derived from the session records that goes into the
// prompt and the post frontmatter.
type Digest struct {
	Project  string
	Duration string
	Summary  string
	// Tools is the set of lowercased tool names seen in activity records.
	Tools map[string]bool
	// Records is the number of parsed records, of any type.
	Records int
	// Activities is the number of activity records.
	Activities int
}

// Analyze builds the digest of a session. It never modifies records.
func Analyze(records []models.Record) Digest {
	d := Digest{
		Project:  ProjectName(records),
		Duration: Duration(records),
		Summary:  Summarize(records),
		Tools:    make(map[string]bool),
		Records:  len(records),
	}
	for _, rec := range records {
		if rec.Type == models.RecordActivity && rec.Activity != nil {
			d.Activities++
			d.Tools[strings.ToLower(rec.Activity.Tool)] = true
		}
	}
	return d
}

// ProjectName returns the project of the last session_start record, or
// "unknown" when there is none.
func ProjectName(records []models.Record) string {
	project := models.UnknownProject
	for _, rec := range records {
		if rec.Type == models.RecordSessionStart && rec.SessionStart != nil {
			project = rec.SessionStart.Project
		}
	}
	return project
}

// TimeSpan returns the earliest and latest parseable timestamps. ok is false
// when fewer than two timestamps parse.
func TimeSpan(records []models.Record) (first, last time.Time, ok bool) {
	parsed := 0
	for _, rec := range records {
		t, valid := models.ParseTimestamp(rec.Timestamp)
		if !valid {
			continue
		}
		if parsed == 0 || t.Before(first) {
			first = t
		}
		if parsed == 0 || t.After(last) {
			last = t
		}
		parsed++
	}
	return first, last, parsed >= 2
}

// Duration formats the span between the first and last record timestamps.
func Duration(records []models.Record) string {
	first, last, ok := TimeSpan(records)
	if !ok {
		return UnknownDuration
	}
	return FormatDuration(last.Sub(first))
}

// FormatDuration renders d in whole minutes: "N minutes" below an hour,
// "Xh Ym" otherwise.
func FormatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Summarize renders one line per activity record.
func Summarize(records []models.Record) string {
	var lines []string
	for _, rec := range records {
		if rec.Type != models.RecordActivity || rec.Activity == nil {
			continue
		}
		lines = append(lines, SummaryLines(*rec.Activity)...)
	}
	if len(lines) == 0 {
		return NoActivities
	}
	return strings.Join(lines, "\n")
}

// ErrorNote follows the line of a Bash activity that hit an error.
const ErrorNote = "  (encountered an error)"

// SummaryLines renders a single activity for the prompt's activity log. A
// failed Bash command adds ErrorNote on its own line.
func SummaryLines(a models.Activity) []string {
	line := summaryLine(a)
	if a.Tool == "Bash" && a.HadError {
		return []string{line, ErrorNote}
	}
	return []string{line}
}

func summaryLine(a models.Activity) string {
	switch a.Tool {
	case "Write":
		return "- Created file: " + a.File
	case "Edit":
		return "- Edited file: " + a.File
	case "Bash":
		desc := a.Description
		if desc == "" {
			desc = firstRunes(a.Command, summaryCommandRunes)
		}
		return "- Ran command: " + desc
	case "Grep":
		return "- Searched for: " + a.Pattern
	case "Glob":
		return "- Found files matching: " + a.Pattern
	case "WebSearch", "WebFetch":
		return "- Researched: " + a.Query
	case "Task":
		return "- Launched agent: " + a.Description
	}
	return fmt.Sprintf("- %s: %s", a.Action, a.Tool)
}

func firstRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
