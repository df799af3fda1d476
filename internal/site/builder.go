// Package site renders the blog and home page into a static output tree.
package site

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alyraffauf/alycodes/internal/blog"
	"github.com/alyraffauf/alycodes/internal/config"
	"github.com/alyraffauf/alycodes/internal/frontmatter"
	"github.com/alyraffauf/alycodes/internal/highlight"
	"github.com/alyraffauf/alycodes/internal/logger"
	"github.com/alyraffauf/alycodes/internal/markdown"
	"github.com/alyraffauf/alycodes/internal/model"
)

// HighlightCSS is the stylesheet path, relative to the output directory.
const HighlightCSS = "css/highlight.css"

// StatsCollector supplies the rows of the stats terminal.
type StatsCollector interface {
	Collect(ctx context.Context) []model.Stat
}

type Options struct {
	Config      config.Config
	Params      map[string]interface{}
	Stats       StatsCollector
	Parser      frontmatter.Parser
	Engine      markdown.Engine
	Highlighter *highlight.Highlighter
	Logger      *logger.Logger
	Now         func() time.Time
}

// Result summarizes a finished build.
type Result struct {
	Pages    int
	Posts    int
	Duration time.Duration
}

type Builder struct {
	cfg         config.Config
	params      map[string]interface{}
	stats       StatsCollector
	parser      frontmatter.Parser
	engine      markdown.Engine
	highlighter *highlight.Highlighter
	log         *logger.Logger
	now         func() time.Time
}

func New(opts Options) (*Builder, error) {
	b := &Builder{
		cfg:         opts.Config,
		params:      opts.Params,
		stats:       opts.Stats,
		parser:      opts.Parser,
		engine:      opts.Engine,
		highlighter: opts.Highlighter,
		log:         opts.Logger,
		now:         opts.Now,
	}
	if b.log == nil {
		b.log = logger.Discard()
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.highlighter == nil {
		b.highlighter = highlight.New(highlight.WithLogger(b.log))
	}
	if b.parser == nil {
		p, err := frontmatter.NewParser(b.cfg.Content.Frontmatter)
		if err != nil {
			return nil, err
		}
		b.parser = p
	}
	if b.engine == nil {
		e, err := markdown.New(markdown.Options{
			Engine:      b.cfg.Markdown.Engine,
			Sanitize:    b.cfg.Markdown.Sanitize,
			CodeStyle:   b.cfg.Markdown.CodeStyle,
			Highlighter: b.highlighter,
			Logger:      b.log,
		})
		if err != nil {
			return nil, err
		}
		b.engine = e
	}
	if b.params == nil {
		b.params = map[string]interface{}{}
	}
	return b, nil
}

// Build regenerates the whole output directory.
func (b *Builder) Build(ctx context.Context) (Result, error) {
	start := b.now()
	cfg := b.cfg
	b.log.BuildStarted(cfg.ContentDir, cfg.OutputDir)

	if _, err := os.Stat(cfg.ContentDir); os.IsNotExist(err) {
		return Result{}, fmt.Errorf("content directory '%s' not found", cfg.ContentDir)
	}

	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return Result{}, fmt.Errorf("failed to clean output directory: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err == nil {
			if err := copyDirContents(cfg.StaticDir, cfg.OutputDir); err != nil {
				return Result{}, fmt.Errorf("failed to copy static assets: %w", err)
			}
		}
	}

	if err := b.writeStylesheet(); err != nil {
		return Result{}, err
	}

	loader := blog.NewLoader(os.DirFS(cfg.ContentDir), blog.LoaderConfig{
		Parser:      b.parser,
		Engine:      b.engine,
		Excludes:    cfg.Content.Exclude,
		Concurrency: cfg.Content.Concurrency,
		Logger:      b.log,
	})
	posts, err := loader.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load posts: %w", err)
	}

	site := b.siteData(ctx, posts, start)

	layouts, err := newLayoutSet(cfg.LayoutsDir)
	if err != nil {
		return Result{}, err
	}
	pages, err := layouts.parse(templateFuncs(site.BaseURL, site.BuildID, start))
	if err != nil {
		return Result{}, err
	}

	written := 0
	write := func(layout, rel string, data model.PageData) error {
		data.Site = site
		data.Layout = layout
		if err := b.writePage(pages[layout], rel, data); err != nil {
			return err
		}
		written++
		return nil
	}

	if err := write(homeLayout, "index.html", model.PageData{PageTitle: site.Title}); err != nil {
		return Result{}, err
	}
	if err := write(listLayout, filepath.Join("blog", "index.html"), model.PageData{PageTitle: "Blog"}); err != nil {
		return Result{}, err
	}
	for _, post := range posts {
		rel := filepath.Join("blog", filepath.FromSlash(post.Slug), "index.html")
		err := write(postLayout, rel, model.PageData{Post: post, PageTitle: post.Title})
		if err != nil {
			b.log.FileError(post.Filename, err)
			continue
		}
	}
	if err := write(notFoundLayout, "404.html", model.PageData{PageTitle: "Not Found"}); err != nil {
		return Result{}, err
	}

	res := Result{Pages: written, Posts: len(posts), Duration: b.now().Sub(start)}
	b.log.BuildCompleted(res.Pages, res.Posts, res.Duration)
	return res, nil
}

func (b *Builder) siteData(ctx context.Context, posts []*model.Post, now time.Time) *model.SiteData {
	cfg := b.cfg
	site := &model.SiteData{
		Title:      cfg.SiteTitle,
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		BuildID:    uuid.NewString(),
		Intro:      cfg.Profile.Intro,
		Bio:        cfg.Profile.Bio,
		Params:     b.params,
		Posts:      posts,
		Recent:     posts,
		PostsByTag: blog.GroupByTag(posts),
		Identity:   identityFields(cfg.Profile.Name, cfg.Profile.Location, cfg.Profile.Status),
		Generated:  now,
	}
	if n := cfg.Profile.PreviewPosts; n >= 0 && n < len(posts) {
		site.Recent = posts[:n]
	}
	if b.stats != nil {
		site.Stats = b.stats.Collect(ctx)
	}

	if len(site.Stats) > 0 {
		site.StatsHTML = template.HTML(b.highlighter.Highlight(statsAttrs(site.Stats), "nix"))
	}
	if len(site.Identity) > 0 {
		site.IdentityHTML = template.HTML(b.highlighter.Highlight(identityAttrs(site.Identity), "nix"))
	}
	if strings.TrimSpace(site.Bio) != "" {
		site.BioHTML = template.HTML(b.highlighter.Highlight(site.Bio, ""))
	}
	return site
}

func (b *Builder) writeStylesheet() error {
	target := filepath.Join(b.cfg.OutputDir, filepath.FromSlash(HighlightCSS))
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create stylesheet directory: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	if err := highlight.WriteCSS(f, b.cfg.Markdown.CodeStyle); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return f.Close()
}

// writePage executes the page's base layout into rel under the output
// directory. Paths escaping the output directory are rejected.
func (b *Builder) writePage(tmpl *template.Template, rel string, data model.PageData) error {
	root, err := filepath.Abs(b.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	target := filepath.Join(root, rel)
	if r, err := filepath.Rel(root, target); err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return fmt.Errorf("page path %q escapes the output directory", rel)
	}

	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	if err := tmpl.ExecuteTemplate(f, baseLayout, data); err != nil {
		f.Close()
		return fmt.Errorf("failed to execute template for %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}
	b.log.PageWritten(rel, data.Layout)
	return nil
}
