package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes environment overrides, e.g. ALYCODES_OUTPUTDIR.
const EnvPrefix = "ALYCODES"

type Config struct {
	SiteTitle  string         `mapstructure:"siteTitle"`
	OutputDir  string         `mapstructure:"outputDir"`
	BaseURL    string         `mapstructure:"baseURL"`
	ContentDir string         `mapstructure:"contentDir"`
	LayoutsDir string         `mapstructure:"layoutsDir"`
	StaticDir  string         `mapstructure:"staticDir"`
	ParamsFile string         `mapstructure:"paramsFile"`
	Markdown   MarkdownConfig `mapstructure:"markdown"`
	Content    ContentConfig  `mapstructure:"content"`
	Profile    ProfileConfig  `mapstructure:"profile"`
	Social     SocialConfig   `mapstructure:"social"`
}

type MarkdownConfig struct {
	Engine    string `mapstructure:"engine"`
	Sanitize  bool   `mapstructure:"sanitize"`
	CodeStyle string `mapstructure:"codeStyle"`
}

type ContentConfig struct {
	Frontmatter string   `mapstructure:"frontmatter"`
	Exclude     []string `mapstructure:"exclude"`
	Concurrency int      `mapstructure:"concurrency"`
}

// ProfileConfig feeds the identity and bio terminals on the home page.
type ProfileConfig struct {
	Name         string `mapstructure:"name"`
	Location     string `mapstructure:"location"`
	Status       string `mapstructure:"status"`
	Intro        string `mapstructure:"intro"`
	Bio          string `mapstructure:"bio"`
	PreviewPosts int    `mapstructure:"previewPosts"`
}

type SocialConfig struct {
	GitHubUser    string        `mapstructure:"githubUser"`
	BlueskyHandle string        `mapstructure:"blueskyHandle"`
	GitHubURL     string        `mapstructure:"githubURL"`
	BlueskyURL    string        `mapstructure:"blueskyURL"`
	CacheTTL      time.Duration `mapstructure:"cacheTTL"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// SetDefaults registers every key so environment overrides bind.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("siteTitle", "~/alycodes")
	v.SetDefault("outputDir", "public")
	v.SetDefault("baseURL", "")
	v.SetDefault("contentDir", "content/blog")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "static")
	v.SetDefault("paramsFile", "")

	v.SetDefault("markdown.engine", "builtin")
	v.SetDefault("markdown.sanitize", false)
	v.SetDefault("markdown.codeStyle", "dracula")

	v.SetDefault("content.frontmatter", "compat")
	v.SetDefault("content.exclude", []string{"README.md"})
	v.SetDefault("content.concurrency", 8)

	v.SetDefault("profile.name", "")
	v.SetDefault("profile.location", "")
	v.SetDefault("profile.status", "AVAILABLE")
	v.SetDefault("profile.intro", "I build things sometimes.")
	v.SetDefault("profile.bio", "")
	v.SetDefault("profile.previewPosts", 5)

	v.SetDefault("social.githubUser", "")
	v.SetDefault("social.blueskyHandle", "")
	v.SetDefault("social.githubURL", "https://api.github.com")
	v.SetDefault("social.blueskyURL", "https://public.api.bsky.app")
	v.SetDefault("social.cacheTTL", 5*time.Minute)
	v.SetDefault("social.timeout", 10*time.Second)
}

// Load reads cfgFile, or ./config.yaml when cfgFile is empty, layered over
// defaults and ALYCODES_* environment variables. A missing default config
// file is not an error; the returned path is empty in that case.
func Load(cfgFile string) (Config, string, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && cfgFile == "":
		case cfgFile != "" && errors.Is(err, os.ErrNotExist):
			return cfg, "", fmt.Errorf("config file %s not found: %w", cfgFile, err)
		default:
			return cfg, "", fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, used, nil
}

// Validate rejects unknown engine and parser names.
func (c Config) Validate() error {
	switch strings.ToLower(c.Markdown.Engine) {
	case "", "builtin", "goldmark":
	default:
		return fmt.Errorf("invalid markdown.engine %q: want builtin or goldmark", c.Markdown.Engine)
	}
	switch strings.ToLower(c.Content.Frontmatter) {
	case "", "compat", "yaml":
	default:
		return fmt.Errorf("invalid content.frontmatter %q: want compat or yaml", c.Content.Frontmatter)
	}
	if c.OutputDir == "" {
		return errors.New("outputDir must not be empty")
	}
	return nil
}

// LoadParams reads a free-form YAML file exposed to templates as
// .Site.Params. An empty path yields an empty map.
func LoadParams(path string) (map[string]interface{}, error) {
	params := map[string]interface{}{}
	if path == "" {
		return params, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading params file %s: %w", path, err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshalling params file %s: %w", path, err)
	}
	for k, v := range raw {
		params[k] = normalize(v)
	}
	return params, nil
}

// normalize converts yaml.v2's map[interface{}]interface{} into string-keyed
// maps so templates can index them.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []interface{}:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
