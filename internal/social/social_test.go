package social

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alyraffauf/alycodes/internal/cache"
	"github.com/alyraffauf/alycodes/internal/model"
)

func githubServer(t *testing.T, hits *int32, fail *atomic.Bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if fail.Load() {
			http.Error(w, "rate limited", http.StatusForbidden)
			return
		}
		assert.Equal(t, "/users/aly/repos", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		fmt.Fprint(w, `[{"stargazers_count": 3}, {"stargazers_count": 4}, {"name": "no-stars"}]`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func blueskyServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		assert.Equal(t, "/xrpc/app.bsky.actor.getProfile", r.URL.Path)
		assert.Equal(t, "aly.example.com", r.URL.Query().Get("actor"))
		fmt.Fprint(w, `{"followersCount": 120, "postsCount": 45}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubStats(t *testing.T) {
	var hits int32
	var fail atomic.Bool
	srv := githubServer(t, &hits, &fail)

	gh := NewGitHub(srv.Client(), srv.URL, nil)
	stats, err := gh.Stats(context.Background(), "aly")
	require.NoError(t, err)
	assert.Equal(t, GitHubStats{Repos: 3, Stars: 7}, stats)

	_, err = gh.Stats(context.Background(), "aly")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second call should be served from cache")
}

func TestGitHubStaleOnError(t *testing.T) {
	var hits int32
	var fail atomic.Bool
	srv := githubServer(t, &hits, &fail)

	now := time.Unix(0, 0)
	c := cache.New[GitHubStats](time.Minute, cache.WithClock[GitHubStats](func() time.Time { return now }))
	gh := NewGitHub(srv.Client(), srv.URL, c)

	_, err := gh.Stats(context.Background(), "aly")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	fail.Store(true)

	stats, err := gh.Stats(context.Background(), "aly")
	require.NoError(t, err)
	assert.Equal(t, GitHubStats{Repos: 3, Stars: 7}, stats)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestGitHubErrorWithoutCache(t *testing.T) {
	var hits int32
	var fail atomic.Bool
	fail.Store(true)
	srv := githubServer(t, &hits, &fail)

	_, err := NewGitHub(srv.Client(), srv.URL, nil).Stats(context.Background(), "aly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestBlueskyProfile(t *testing.T) {
	srv := blueskyServer(t, http.StatusOK)

	profile, err := NewBluesky(srv.Client(), srv.URL, nil).Profile(context.Background(), "aly.example.com")
	require.NoError(t, err)
	assert.Equal(t, BlueskyProfile{Followers: 120, Posts: 45}, profile)
}

func TestServiceCollect(t *testing.T) {
	var hits int32
	var fail atomic.Bool
	gh := githubServer(t, &hits, &fail)
	bsky := blueskyServer(t, http.StatusOK)

	svc := &Service{
		GitHub:        NewGitHub(gh.Client(), gh.URL, nil),
		Bluesky:       NewBluesky(bsky.Client(), bsky.URL, nil),
		GitHubUser:    "aly",
		BlueskyHandle: "aly.example.com",
	}

	assert.Equal(t, []model.Stat{
		{Key: "followers", Value: "120"},
		{Key: "posts", Value: "45"},
		{Key: "repos", Value: "3"},
		{Key: "stargazers", Value: "7"},
	}, svc.Collect(context.Background()))
}

func TestServiceCollectPartialFailure(t *testing.T) {
	var hits int32
	var fail atomic.Bool
	gh := githubServer(t, &hits, &fail)
	bsky := blueskyServer(t, http.StatusInternalServerError)

	svc := &Service{
		GitHub:        NewGitHub(gh.Client(), gh.URL, nil),
		Bluesky:       NewBluesky(bsky.Client(), bsky.URL, nil),
		GitHubUser:    "aly",
		BlueskyHandle: "aly.example.com",
	}

	stats := svc.Collect(context.Background())
	require.Len(t, stats, 4)
	assert.Equal(t, ErrorValue, stats[0].Value)
	assert.Equal(t, ErrorValue, stats[1].Value)
	assert.Equal(t, "3", stats[2].Value)
}

func TestServiceCollectUnconfigured(t *testing.T) {
	svc := &Service{GitHub: NewGitHub(http.DefaultClient, "", nil)}
	assert.Empty(t, svc.Collect(context.Background()))
}
