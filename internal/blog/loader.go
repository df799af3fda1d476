package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/alyraffauf/alycodes/internal/frontmatter"
	"github.com/alyraffauf/alycodes/internal/logger"
	"github.com/alyraffauf/alycodes/internal/markdown"
	"github.com/alyraffauf/alycodes/internal/model"
)

// IndexFile is the name of the blog index inside the content directory.
const IndexFile = "index.json"

// ErrPostNotFound is returned by Find when no file backs the slug.
var ErrPostNotFound = errors.New("blog post not found")

// DefaultExcludes are skipped when scanning for posts.
var DefaultExcludes = []string{"README.md"}

// LoaderConfig configures post discovery and rendering.
type LoaderConfig struct {
	Parser      frontmatter.Parser
	Engine      markdown.Engine
	Excludes    []string
	Concurrency int
	Logger      *logger.Logger
}

// Loader reads posts from a content filesystem.
type Loader struct {
	fsys        fs.FS
	parser      frontmatter.Parser
	engine      markdown.Engine
	excludes    []string
	concurrency int
	log         *logger.Logger
}

func NewLoader(fsys fs.FS, cfg LoaderConfig) *Loader {
	l := &Loader{
		fsys:        fsys,
		parser:      cfg.Parser,
		engine:      cfg.Engine,
		excludes:    cfg.Excludes,
		concurrency: cfg.Concurrency,
		log:         cfg.Logger,
	}
	if l.parser == nil {
		l.parser = frontmatter.Compat{}
	}
	if l.excludes == nil {
		l.excludes = DefaultExcludes
	}
	if l.concurrency <= 0 {
		l.concurrency = 8
	}
	if l.log == nil {
		l.log = logger.Discard()
	}
	return l
}

// Filenames lists the post files, from index.json when present, otherwise
// from the markdown files in the directory root.
func (l *Loader) Filenames() ([]string, error) {
	data, err := fs.ReadFile(l.fsys, IndexFile)
	switch {
	case err == nil:
		var entries []IndexEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", IndexFile, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if strings.HasSuffix(e.Filename, ".md") {
				names = append(names, e.Filename)
			}
		}
		return names, nil
	case errors.Is(err, fs.ErrNotExist):
		return scanMarkdown(l.fsys, l.excludes)
	default:
		return nil, fmt.Errorf("failed to read %s: %w", IndexFile, err)
	}
}

func scanMarkdown(fsys fs.FS, excludes []string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list content directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".md") {
			continue
		}
		if excluded(e.Name(), excludes) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// LoadFile reads and builds a single post.
func (l *Loader) LoadFile(ctx context.Context, filename string) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read post %s: %w", filename, err)
	}
	info, err := fs.Stat(l.fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat post %s: %w", filename, err)
	}

	return BuildPost(filename, string(data), info.ModTime(), l.parser, l.engine), nil
}

// Load reads every post concurrently. Files that fail to load are logged and
// skipped. Posts come back newest first.
func (l *Loader) Load(ctx context.Context) ([]*model.Post, error) {
	names, err := l.Filenames()
	if err != nil {
		return nil, err
	}

	results := make([]*model.Post, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, name := range names {
		g.Go(func() error {
			post, err := l.LoadFile(gctx, name)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				l.log.FileError(name, err)
				return nil
			}
			results[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(results))
	for _, p := range results {
		if p != nil {
			posts = append(posts, p)
		}
	}
	SortPosts(posts)
	return posts, nil
}

// Find loads the post whose file name matches slug after its date prefix is
// removed.
func (l *Loader) Find(ctx context.Context, slug string) (*model.Post, error) {
	name := SlugName(strings.TrimSpace(slug))
	if name == "" {
		return nil, fmt.Errorf("no blog post specified: %w", ErrPostNotFound)
	}
	filename := name + ".md"
	if !fs.ValidPath(filename) || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid slug %q: %w", slug, ErrPostNotFound)
	}

	post, err := l.LoadFile(ctx, filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", slug, ErrPostNotFound)
	}
	return post, err
}

// SortPosts orders posts newest first. Posts with unparseable dates sort
// last, keeping their relative order.
func SortPosts(posts []*model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, okI := ParseDate(posts[i].Date)
		tj, okJ := ParseDate(posts[j].Date)
		if !okI {
			return false
		}
		if !okJ {
			return true
		}
		return ti.After(tj)
	})
}

// GroupByTag indexes posts under each of their tags, preserving order.
func GroupByTag(posts []*model.Post) map[string][]*model.Post {
	byTag := make(map[string][]*model.Post)
	for _, p := range posts {
		for _, tag := range p.Tags {
			byTag[tag] = append(byTag[tag], p)
		}
	}
	return byTag
}
