package social

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alyraffauf/alycodes/internal/cache"
)

const DefaultGitHubURL = "https://api.github.com"

// GitHubStats are the repository counters for one user.
type GitHubStats struct {
	Repos int
	Stars int
}

type GitHub struct {
	client  *http.Client
	baseURL string
	cache   *cache.Cache[GitHubStats]
}

func NewGitHub(client *http.Client, baseURL string, c *cache.Cache[GitHubStats]) *GitHub {
	if baseURL == "" {
		baseURL = DefaultGitHubURL
	}
	if c == nil {
		c = cache.New[GitHubStats](cache.DefaultTTL)
	}
	return &GitHub{client: client, baseURL: strings.TrimRight(baseURL, "/"), cache: c}
}

// Stats returns the repo count and total stargazers across the user's first
// page of 100 repositories. A failed fetch falls back to the last cached
// value, expired or not.
func (g *GitHub) Stats(ctx context.Context, user string) (GitHubStats, error) {
	key := "github_" + user
	if stats, ok := g.cache.Get(key); ok {
		return stats, nil
	}

	stats, err := g.fetch(ctx, user)
	if err != nil {
		if stale, ok := g.cache.Stale(key); ok {
			return stale, nil
		}
		return GitHubStats{}, fmt.Errorf("github stats for %s: %w", user, err)
	}

	g.cache.Set(key, stats)
	return stats, nil
}

func (g *GitHub) fetch(ctx context.Context, user string) (GitHubStats, error) {
	var repos []struct {
		StargazersCount int `json:"stargazers_count"`
	}
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=100", g.baseURL, url.PathEscape(user))
	if err := getJSON(ctx, g.client, endpoint, "application/vnd.github.v3+json", &repos); err != nil {
		return GitHubStats{}, err
	}

	stats := GitHubStats{Repos: len(repos)}
	for _, repo := range repos {
		stats.Stars += repo.StargazersCount
	}
	return stats, nil
}
