package diary

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/grovetools/vibediary/errors"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/grovetools/vibediary/util/frontmatter"
	"github.com/grovetools/vibediary/util/sanitize"
)

// maxCollisions bounds the -n suffixes tried for one day and project.
const maxCollisions = 10000

// Post is a diary entry ready to be written.
type Post struct {
	Metadata frontmatter.PostMetadata
	Body     string
	// Date names the file.
	Date time.Time
}

// NewPost assembles the post for a digest.
func NewPost(d Digest, body, titlePrefix string, baseTags []string, now time.Time) Post {
	return Post{
		Metadata: frontmatter.PostMetadata{
			Title:     titlePrefix + d.Project,
			Date:      now.Format(DateLayout),
			Project:   d.Project,
			Tags:      Tags(baseTags, d),
			Generated: true,
		},
		Body: body,
		Date: now,
	}
}

// Content renders the frontmatter block followed by the body.
func (p Post) Content() (string, error) {
	header, err := frontmatter.Render(p.Metadata)
	if err != nil {
		return "", err
	}
	return header + p.Body, nil
}

// BaseName returns the file name before any collision suffix.
func (p Post) BaseName() string {
	return fmt.Sprintf("%s-%s", p.Date.Format(FileDateLayout), sanitize.ForPathComponent(p.Metadata.Project, models.UnknownProject))
}

// Write creates the post in dir and returns its path. An existing post is
// never overwritten: the name gains -1, -2, ... until an exclusive create
// succeeds.
func (p Post) Write(dir string) (string, error) {
	content, err := p.Content()
	if err != nil {
		return "", errors.PostWriteFailed(dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.PostWriteFailed(dir, err)
	}

	base := p.BaseName()
	for n := 0; n < maxCollisions; n++ {
		name := base + ".md"
		if n > 0 {
			name = fmt.Sprintf("%s-%d.md", base, n)
		}
		path := filepath.Join(dir, name)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", errors.PostWriteFailed(path, err)
		}

		if _, err := file.WriteString(content); err != nil {
			file.Close()
			os.Remove(path)
			return "", errors.PostWriteFailed(path, err)
		}
		if err := file.Close(); err != nil {
			os.Remove(path)
			return "", errors.PostWriteFailed(path, err)
		}
		return path, nil
	}
	return "", errors.PostWriteFailed(filepath.Join(dir, base+".md"), fmt.Errorf("too many posts with the same name"))
}
