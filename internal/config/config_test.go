package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "site.yaml", `
siteTitle: Test Site
outputDir: dist
markdown:
  engine: goldmark
  sanitize: true
content:
  frontmatter: yaml
  exclude: ["README.md", "_*.md"]
profile:
  name: Aly
  previewPosts: 3
social:
  githubUser: aly
  cacheTTL: 1m
`)

	cfg, used, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.Equal(t, "Test Site", cfg.SiteTitle)
	assert.Equal(t, "dist", cfg.OutputDir)
	assert.Equal(t, "goldmark", cfg.Markdown.Engine)
	assert.True(t, cfg.Markdown.Sanitize)
	assert.Equal(t, "yaml", cfg.Content.Frontmatter)
	assert.Equal(t, []string{"README.md", "_*.md"}, cfg.Content.Exclude)
	assert.Equal(t, "Aly", cfg.Profile.Name)
	assert.Equal(t, 3, cfg.Profile.PreviewPosts)
	assert.Equal(t, "aly", cfg.Social.GitHubUser)
	assert.Equal(t, time.Minute, cfg.Social.CacheTTL)

	assert.Equal(t, "content/blog", cfg.ContentDir)
	assert.Equal(t, "dracula", cfg.Markdown.CodeStyle)
	assert.Equal(t, 10*time.Second, cfg.Social.Timeout)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, used)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, "builtin", cfg.Markdown.Engine)
	assert.Equal(t, "compat", cfg.Content.Frontmatter)
	assert.Equal(t, []string{"README.md"}, cfg.Content.Exclude)
	assert.Equal(t, 5, cfg.Profile.PreviewPosts)
	assert.Equal(t, 5*time.Minute, cfg.Social.CacheTTL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ALYCODES_OUTPUTDIR", "from-env")
	t.Setenv("ALYCODES_SOCIAL_GITHUBUSER", "env-user")

	cfg, _, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OutputDir)
	assert.Equal(t, "env-user", cfg.Social.GitHubUser)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "markdown:\n  engine: pandoc\n")

	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markdown.engine")
}

func TestLoadParams(t *testing.T) {
	path := writeFile(t, t.TempDir(), "params.yaml", `
accent: neon-pink
links:
  github: https://github.com/aly
skills: [go, nix]
`)

	params, err := LoadParams(path)
	require.NoError(t, err)

	assert.Equal(t, "neon-pink", params["accent"])
	assert.Equal(t, map[string]interface{}{"github": "https://github.com/aly"}, params["links"])
	assert.Equal(t, []interface{}{"go", "nix"}, params["skills"])

	empty, err := LoadParams("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = LoadParams(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
