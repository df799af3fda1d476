package social

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/alyraffauf/alycodes/internal/logger"
	"github.com/alyraffauf/alycodes/internal/model"
)

// ErrorValue is shown in place of a counter whose source failed.
const ErrorValue = "Error loading"

// Service collects the stats terminal rows from both sources.
type Service struct {
	GitHub        *GitHub
	Bluesky       *Bluesky
	GitHubUser    string
	BlueskyHandle string
	Log           *logger.Logger
}

// Collect fetches both sources concurrently. Rows are ordered followers,
// posts, repos, stargazers; rows for an unconfigured source are omitted and
// rows for a failed source read ErrorValue.
func (s *Service) Collect(ctx context.Context) []model.Stat {
	log := s.Log
	if log == nil {
		log = logger.Discard()
	}

	var (
		gh       GitHubStats
		bsky     BlueskyProfile
		ghErr    error
		bskyErr  error
		wantGH   = s.GitHub != nil && s.GitHubUser != ""
		wantBsky = s.Bluesky != nil && s.BlueskyHandle != ""
	)

	g, gctx := errgroup.WithContext(ctx)
	if wantBsky {
		g.Go(func() error {
			bsky, bskyErr = s.Bluesky.Profile(gctx, s.BlueskyHandle)
			return nil
		})
	}
	if wantGH {
		g.Go(func() error {
			gh, ghErr = s.GitHub.Stats(gctx, s.GitHubUser)
			return nil
		})
	}
	_ = g.Wait()

	var stats []model.Stat
	if wantBsky {
		if bskyErr != nil {
			log.Warn("bluesky stats unavailable", "handle", s.BlueskyHandle, "error", bskyErr)
		}
		stats = append(stats,
			stat("followers", bsky.Followers, bskyErr),
			stat("posts", bsky.Posts, bskyErr))
	}
	if wantGH {
		if ghErr != nil {
			log.Warn("github stats unavailable", "user", s.GitHubUser, "error", ghErr)
		}
		stats = append(stats,
			stat("repos", gh.Repos, ghErr),
			stat("stargazers", gh.Stars, ghErr))
	}
	return stats
}

func stat(key string, n int, err error) model.Stat {
	if err != nil {
		return model.Stat{Key: key, Value: ErrorValue}
	}
	return model.Stat{Key: key, Value: strconv.Itoa(n)}
}
