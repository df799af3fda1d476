package cmd

import (
	"fmt"

	"github.com/alyraffauf/alycodes/internal/cache"
	"github.com/alyraffauf/alycodes/internal/config"
	"github.com/alyraffauf/alycodes/internal/frontmatter"
	"github.com/alyraffauf/alycodes/internal/highlight"
	"github.com/alyraffauf/alycodes/internal/logger"
	"github.com/alyraffauf/alycodes/internal/markdown"
	"github.com/alyraffauf/alycodes/internal/site"
	"github.com/alyraffauf/alycodes/internal/social"
)

// pipeline is the parse + render chain shared by every command.
type pipeline struct {
	highlighter *highlight.Highlighter
	parser      frontmatter.Parser
	engine      markdown.Engine
}

func newPipeline(cfg config.Config, log *logger.Logger) (*pipeline, error) {
	h := highlight.New(highlight.WithLogger(log.Named("highlight")))

	parser, err := frontmatter.NewParser(cfg.Content.Frontmatter)
	if err != nil {
		return nil, err
	}
	engine, err := markdown.New(markdown.Options{
		Engine:      cfg.Markdown.Engine,
		Sanitize:    cfg.Markdown.Sanitize,
		CodeStyle:   cfg.Markdown.CodeStyle,
		Highlighter: h,
		Logger:      log.Named("markdown"),
	})
	if err != nil {
		return nil, err
	}
	return &pipeline{highlighter: h, parser: parser, engine: engine}, nil
}

// newStatsService wires both social clients with their own caches. The
// service outlives a single build so serve's rebuilds hit the cache.
func newStatsService(cfg config.Config, log *logger.Logger) *social.Service {
	client := social.NewHTTPClient(cfg.Social.Timeout)
	return &social.Service{
		GitHub:        social.NewGitHub(client, cfg.Social.GitHubURL, cache.New[social.GitHubStats](cfg.Social.CacheTTL)),
		Bluesky:       social.NewBluesky(client, cfg.Social.BlueskyURL, cache.New[social.BlueskyProfile](cfg.Social.CacheTTL)),
		GitHubUser:    cfg.Social.GitHubUser,
		BlueskyHandle: cfg.Social.BlueskyHandle,
		Log:           log.Named("social"),
	}
}

func newBuilder(cfg config.Config, stats site.StatsCollector, log *logger.Logger) (*site.Builder, error) {
	p, err := newPipeline(cfg, log)
	if err != nil {
		return nil, err
	}
	params, err := config.LoadParams(cfg.ParamsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load site params: %w", err)
	}
	return site.New(site.Options{
		Config:      cfg,
		Params:      params,
		Stats:       stats,
		Parser:      p.parser,
		Engine:      p.engine,
		Highlighter: p.highlighter,
		Logger:      log.Named("build"),
	})
}
