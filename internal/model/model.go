package model

import (
	"html/template"
	"time"
)

// Post represents a single blog post assembled from a markdown file.
type Post struct {
	ID           string
	Title        string
	Date         string
	Tags         []string
	Description  string
	Slug         string
	Filename     string
	Content      string
	HTML         template.HTML
	Size         string
	LastModified string
	FileModTime  time.Time
	Frontmatter  map[string]string
}

// Stat is one key/value row in the home page stats terminal.
type Stat struct {
	Key   string
	Value string
}

// Field is one row in the identity terminal. Status rows get highlighted.
type Field struct {
	Key      string
	Value    string
	IsStatus bool
}

// SiteData holds all site-wide data, including configuration and content.
type SiteData struct {
	Title      string
	BaseURL    string
	BuildID    string
	Intro      string
	Bio        string
	Params     map[string]interface{}
	Posts      []*Post
	Recent     []*Post
	PostsByTag map[string][]*Post
	Stats      []Stat
	Identity   []Field
	Generated  time.Time

	// Highlighted terminal bodies for the home page.
	StatsHTML    template.HTML
	IdentityHTML template.HTML
	BioHTML      template.HTML
}
