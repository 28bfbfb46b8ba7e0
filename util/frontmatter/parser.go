// Package frontmatter renders and parses the YAML frontmatter of diary posts.
package frontmatter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// PostMetadata represents the fields written at the top of every diary post.
type PostMetadata struct {
	Title     string   `yaml:"title" json:"title"`
	Date      string   `yaml:"date" json:"date"`
	Project   string   `yaml:"project" json:"project"`
	Tags      []string `yaml:"tags" json:"tags"`
	Generated bool     `yaml:"generated" json:"generated"`
}

// Render returns the frontmatter block for meta, including both delimiters
// and the blank line that separates it from the body.
func Render(meta PostMetadata) (string, error) {
	str := func(v string, style yaml.Style) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v, Style: style}
	}

	tags := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, tag := range meta.Tags {
		tags.Content = append(tags.Content, str(tag, 0))
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	doc.Content = []*yaml.Node{
		str("title", 0), str(meta.Title, yaml.DoubleQuotedStyle),
		str("date", 0), str(meta.Date, 0),
		str("project", 0), str(meta.Project, 0),
		str("tags", 0), tags,
		str("generated", 0), {Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", meta.Generated)},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	return delimiter + "\n" + buf.String() + delimiter + "\n\n", nil
}

// Parse extracts metadata from YAML frontmatter in a markdown reader.
// It stops reading after the closing '---' separator.
func Parse(r io.Reader) (PostMetadata, error) {
	scanner := bufio.NewScanner(r)
	var meta PostMetadata

	inFrontmatter := false
	closed := false
	lineCount := 0
	var block strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == delimiter {
			if !inFrontmatter {
				inFrontmatter = true
				continue
			}
			closed = true
			break // End of frontmatter
		}

		if !inFrontmatter {
			// Stop if we haven't found frontmatter in the first few lines
			lineCount++
			if lineCount > 5 {
				break
			}
			continue
		}

		block.WriteString(line)
		block.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return meta, err
	}

	if !closed {
		return meta, nil
	}

	if err := yaml.Unmarshal([]byte(block.String()), &meta); err != nil {
		return meta, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return meta, nil
}

// ParseString extracts metadata from a string containing markdown with frontmatter.
func ParseString(content string) (PostMetadata, error) {
	return Parse(strings.NewReader(content))
}

// Body returns the content after the frontmatter block, or the whole
// content when there is no frontmatter.
func Body(content string) string {
	if !strings.HasPrefix(content, delimiter+"\n") {
		return content
	}
	rest := content[len(delimiter)+1:]
	idx := strings.Index(rest, "\n"+delimiter+"\n")
	if idx == -1 {
		return content
	}
	return strings.TrimLeft(rest[idx+len(delimiter)+2:], "\n")
}
