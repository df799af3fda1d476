package social

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alyraffauf/alycodes/internal/cache"
)

const DefaultBlueskyURL = "https://public.api.bsky.app"

type BlueskyProfile struct {
	Followers int
	Posts     int
}

type Bluesky struct {
	client  *http.Client
	baseURL string
	cache   *cache.Cache[BlueskyProfile]
}

func NewBluesky(client *http.Client, baseURL string, c *cache.Cache[BlueskyProfile]) *Bluesky {
	if baseURL == "" {
		baseURL = DefaultBlueskyURL
	}
	if c == nil {
		c = cache.New[BlueskyProfile](cache.DefaultTTL)
	}
	return &Bluesky{client: client, baseURL: strings.TrimRight(baseURL, "/"), cache: c}
}

// Profile returns follower and post counts, falling back to a stale cached
// value when the fetch fails.
func (b *Bluesky) Profile(ctx context.Context, handle string) (BlueskyProfile, error) {
	key := "bluesky_" + handle
	if profile, ok := b.cache.Get(key); ok {
		return profile, nil
	}

	profile, err := b.fetch(ctx, handle)
	if err != nil {
		if stale, ok := b.cache.Stale(key); ok {
			return stale, nil
		}
		return BlueskyProfile{}, fmt.Errorf("bluesky profile for %s: %w", handle, err)
	}

	b.cache.Set(key, profile)
	return profile, nil
}

func (b *Bluesky) fetch(ctx context.Context, handle string) (BlueskyProfile, error) {
	var resp struct {
		FollowersCount int `json:"followersCount"`
		PostsCount     int `json:"postsCount"`
	}
	endpoint := fmt.Sprintf("%s/xrpc/app.bsky.actor.getProfile?actor=%s", b.baseURL, url.QueryEscape(handle))
	if err := getJSON(ctx, b.client, endpoint, "application/json", &resp); err != nil {
		return BlueskyProfile{}, err
	}
	return BlueskyProfile{Followers: resp.FollowersCount, Posts: resp.PostsCount}, nil
}
