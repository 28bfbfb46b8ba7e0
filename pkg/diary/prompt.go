package diary

import (
	"strings"
	"time"
)

// DateLayout is the human date used in the prompt and the post frontmatter.
const DateLayout = "January 02, 2006"

// FileDateLayout prefixes post file names.
const FileDateLayout = "2006-01-02"

// PromptTemplate is the fixed instruction sent to the generation provider.
const PromptTemplate = `You are writing a developer diary entry. Based on the coding session below, write a personal narrative blog post.

Session Info:
- Project: {project_name}
- Date: {date}
- Duration: {duration}

Activity Log:
{activity_summary}

Write in first person as a developer sharing their journey. Include:
1. What I worked on today (the main goal/task)
2. Problems I encountered or interesting challenges
3. How I solved them (or what approaches I tried)
4. What I learned (technical insights, tools, patterns)
5. Next steps or thoughts for tomorrow

Keep it authentic, conversational, and technically interesting - like a real developer's journal entry.
Target length: 300-500 words.
Do NOT use corporate speak or marketing language. Be genuine.
`

// BuildPrompt fills the template for a session digest written on now.
// Placeholders are replaced in one pass so values containing braces are
// inserted verbatim.
func BuildPrompt(d Digest, now time.Time) string {
	r := strings.NewReplacer(
		"{project_name}", d.Project,
		"{date}", now.Format(DateLayout),
		"{duration}", d.Duration,
		"{activity_summary}", d.Summary,
	)
	return r.Replace(PromptTemplate)
}

// Tags returns base followed by "cli" when a Bash activity was seen and
// "research" when a web tool was used. Duplicates are dropped.
func Tags(base []string, d Digest) []string {
	tags := make([]string, 0, len(base)+2)
	seen := make(map[string]bool)
	add := func(tag string) {
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, tag := range base {
		add(tag)
	}
	if d.Tools["bash"] {
		add("cli")
	}
	if d.Tools["websearch"] || d.Tools["webfetch"] {
		add("research")
	}
	return tags
}
