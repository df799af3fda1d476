// Package blog assembles posts from markdown files and keeps the blog index.
package blog

import (
	"fmt"
	"html/template"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/alyraffauf/alycodes/internal/frontmatter"
	"github.com/alyraffauf/alycodes/internal/markdown"
	"github.com/alyraffauf/alycodes/internal/model"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)

// BuildPost folds a parsed document and file metadata into a Post. The
// slug is the frontmatter date joined to the file's base name.
func BuildPost(filename, raw string, modTime time.Time, parser frontmatter.Parser, engine markdown.Engine) *model.Post {
	doc := parser.Parse(raw)
	fm := doc.Frontmatter

	base := strings.TrimSuffix(path.Base(filename), ".md")
	slug := fm.Date() + "-" + base

	flat := make(map[string]string, len(fm))
	for _, key := range fm.Keys() {
		flat[key] = fm.String(key)
	}

	post := &model.Post{
		ID:           slug,
		Title:        fm.Title(),
		Date:         fm.Date(),
		Tags:         fm.Tags(),
		Description:  fm.Description(),
		Slug:         slug,
		Filename:     path.Base(filename),
		Content:      doc.Body,
		Size:         FormatFileSize(raw),
		LastModified: fm.Date() + "T10:00:00Z",
		FileModTime:  modTime,
		Frontmatter:  flat,
	}
	if engine != nil {
		post.HTML = template.HTML(engine.Render(doc.Body))
	}
	return post
}

// FormatFileSize reports the UTF-8 size of content as B, KB or MB.
func FormatFileSize(content string) string {
	bytes := len(content)
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%dB", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
	}
}

// ParseDate parses a frontmatter date in any common layout.
func ParseDate(s string) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate returns s unchanged when it is a valid date, otherwise now as
// YYYY-MM-DD.
func FormatDate(s string, now time.Time) string {
	if _, ok := ParseDate(s); ok {
		return s
	}
	return now.Format(frontmatter.DateLayout)
}

// SlugName strips the leading YYYY-MM-DD- from a slug, leaving the file's
// base name.
func SlugName(slug string) string {
	return datePrefix.ReplaceAllString(slug, "")
}
