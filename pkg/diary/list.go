package diary

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/grovetools/vibediary/util/frontmatter"
)

// PostInfo describes a post found on disk.
type PostInfo struct {
	Path     string                   `json:"path"`
	Name     string                   `json:"name"`
	ModTime  time.Time                `json:"mod_time"`
	Metadata frontmatter.PostMetadata `json:"metadata"`
}

// ListPosts returns the markdown posts in dir, newest first. Files whose
// frontmatter cannot be parsed are listed with empty metadata. A missing
// directory yields an empty list.
func ListPosts(dir string) ([]PostInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []PostInfo{}, nil
		}
		return nil, err
	}

	posts := make([]PostInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		post := PostInfo{Path: path, Name: entry.Name(), ModTime: info.ModTime()}
		if file, err := os.Open(path); err == nil {
			post.Metadata, _ = frontmatter.Parse(file)
			file.Close()
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].ModTime.Equal(posts[j].ModTime) {
			return posts[i].Name > posts[j].Name
		}
		return posts[i].ModTime.After(posts[j].ModTime)
	})
	return posts, nil
}
