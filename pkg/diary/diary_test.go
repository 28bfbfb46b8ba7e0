package diary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/vibediary/errors"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/grovetools/vibediary/util/frontmatter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(ts, project string) models.Record {
	return models.NewSessionStartRecord(models.SessionStart{Timestamp: ts, SessionID: "s1", Project: project})
}

func act(ts string, a models.Activity) models.Record {
	a.Timestamp = ts
	return models.NewActivityRecord(a)
}

func demoSession() []models.Record {
	return []models.Record{
		start("2026-10-17T09:00:00.000000", "demo"),
		act("2026-10-17T09:02:00.000000", models.Activity{Tool: "Write", Action: "created file", File: "a.py"}),
		act("2026-10-17T09:05:00.000000", models.Activity{Tool: "Bash", Action: "ran command", Command: "pytest", HadError: true}),
	}
}

func TestAnalyzeDemoSession(t *testing.T) {
	d := Analyze(demoSession())

	assert.Equal(t, "demo", d.Project)
	assert.Equal(t, "5 minutes", d.Duration)
	assert.Equal(t, "- Created file: a.py\n- Ran command: pytest\n  (encountered an error)", d.Summary)
	assert.Equal(t, 3, d.Records)
	assert.Equal(t, 2, d.Activities)
	assert.True(t, d.Tools["bash"])
	assert.Equal(t, []string{"vibe-coding", "claude-code", "cli"}, Tags([]string{"vibe-coding", "claude-code"}, d))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name  string
		times []string
		want  string
	}{
		{"no timestamps", nil, "Unknown"},
		{"single timestamp", []string{"2026-10-17T09:00:00"}, "Unknown"},
		{"one unparseable", []string{"2026-10-17T09:00:00", "yesterday"}, "Unknown"},
		{"under a minute", []string{"2026-10-17T09:00:00", "2026-10-17T09:00:59"}, "0 minutes"},
		{"floors minutes", []string{"2026-10-17T09:00:00", "2026-10-17T09:59:59.999999"}, "59 minutes"},
		{"exactly an hour", []string{"2026-10-17T09:00:00", "2026-10-17T10:00:00"}, "1h 0m"},
		{"out of order", []string{"2026-10-17T11:30:00", "2026-10-17T09:00:00", "2026-10-17T10:00:00"}, "2h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []models.Record
			for _, ts := range tt.times {
				records = append(records, models.Record{Type: "custom", Timestamp: ts})
			}
			assert.Equal(t, tt.want, Duration(records))
		})
	}
}

func TestSummaryLines(t *testing.T) {
	tests := []struct {
		activity models.Activity
		want     []string
	}{
		{models.Activity{Tool: "Edit", File: "b.go"}, []string{"- Edited file: b.go"}},
		{models.Activity{Tool: "Bash", Command: "make", Description: "Build it"}, []string{"- Ran command: Build it"}},
		{models.Activity{Tool: "Bash", Command: strings.Repeat("x", 80)}, []string{"- Ran command: " + strings.Repeat("x", 50)}},
		{models.Activity{Tool: "Grep", Pattern: "TODO"}, []string{"- Searched for: TODO"}},
		{models.Activity{Tool: "Glob", Pattern: "*.go"}, []string{"- Found files matching: *.go"}},
		{models.Activity{Tool: "WebSearch", Query: "go generics"}, []string{"- Researched: go generics"}},
		{models.Activity{Tool: "WebFetch", Query: "https://go.dev"}, []string{"- Researched: https://go.dev"}},
		{models.Activity{Tool: "Task", Description: "explore"}, []string{"- Launched agent: explore"}},
		{models.Activity{Tool: "NotebookEdit", Action: "used tool"}, []string{"- used tool: NotebookEdit"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SummaryLines(tt.activity), tt.activity.Tool)
	}
}

func TestSummarizeWithoutActivities(t *testing.T) {
	assert.Equal(t, NoActivities, Summarize([]models.Record{start("2026-10-17T09:00:00", "x")}))
}

func TestProjectName(t *testing.T) {
	assert.Equal(t, "unknown", ProjectName(nil))
	assert.Equal(t, "second", ProjectName([]models.Record{start("", "first"), start("", "second")}))
}

func TestTags(t *testing.T) {
	d := Digest{Tools: map[string]bool{"webfetch": true, "write": true}}
	assert.Equal(t, []string{"vibe-coding", "claude-code", "research"}, Tags([]string{"vibe-coding", "claude-code"}, d))

	d = Digest{Tools: map[string]bool{"bash": true, "websearch": true}}
	assert.Equal(t, []string{"cli", "research"}, Tags([]string{"cli"}, d))
}

func TestBuildPrompt(t *testing.T) {
	d := Digest{Project: "api {x}", Duration: "12 minutes", Summary: "- Created file: {date}"}
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.Local)

	prompt := BuildPrompt(d, now)
	assert.Contains(t, prompt, "- Project: api {x}\n- Date: March 05, 2026\n- Duration: 12 minutes")
	assert.Contains(t, prompt, "Activity Log:\n- Created file: {date}\n")
	assert.True(t, strings.HasPrefix(prompt, "You are writing a developer diary entry."))
}

func TestPostWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "posts")
	now := time.Date(2026, 10, 17, 18, 30, 0, 0, time.Local)
	post := NewPost(Analyze(demoSession()), "Dear diary.", "Developer Diary: ", []string{"vibe-coding", "claude-code"}, now)

	first, err := post.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026-10-17-demo.md"), first)

	second, err := post.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026-10-17-demo-1.md"), second)

	third, err := post.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026-10-17-demo-2.md"), third)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, `---
title: "Developer Diary: demo"
date: October 17, 2026
project: demo
tags: [vibe-coding, claude-code, cli]
generated: true
---

Dear diary.`, string(data))
}

func TestPostWriteSanitizesProject(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.Local)
	post := NewPost(Digest{Project: "../escape", Tools: map[string]bool{}}, "body", "Developer Diary: ", nil, now)

	path, err := post.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "2026-10-17-..-escape.md", filepath.Base(path))
}

func TestPostWriteFailure(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	post := NewPost(Digest{Project: "p", Tools: map[string]bool{}}, "body", "", nil, time.Now())
	_, err := post.Write(filepath.Join(blocker, "posts"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodePostWrite))
}

func TestListPosts(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.Local)
	post := NewPost(Analyze(demoSession()), "body", "Developer Diary: ", []string{"vibe-coding"}, now)
	_, err := post.Write(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	posts, err := ListPosts(dir)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, frontmatter.PostMetadata{
		Title:     "Developer Diary: demo",
		Date:      "October 17, 2026",
		Project:   "demo",
		Tags:      []string{"vibe-coding", "cli"},
		Generated: true,
	}, posts[0].Metadata)

	missing, err := ListPosts(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}
