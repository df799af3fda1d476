package site

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alyraffauf/alycodes/internal/blog"
)

//go:embed layouts
var embeddedLayouts embed.FS

const (
	baseLayout     = "base.html"
	homeLayout     = "home.html"
	listLayout     = "list-posts.html"
	postLayout     = "single-post.html"
	notFoundLayout = "404.html"
	partialsDir    = "partials"
)

var pageLayouts = []string{homeLayout, listLayout, postLayout, notFoundLayout}

// layoutSet resolves layout files from the user's layouts directory first and
// the embedded defaults second.
type layoutSet struct {
	user     fs.FS
	defaults fs.FS
}

func newLayoutSet(dir string) (*layoutSet, error) {
	defaults, err := fs.Sub(embeddedLayouts, "layouts")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded layouts: %w", err)
	}
	set := &layoutSet{defaults: defaults}
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			set.user = os.DirFS(dir)
		}
	}
	return set, nil
}

func (s *layoutSet) read(name string) ([]byte, error) {
	if s.user != nil {
		data, err := fs.ReadFile(s.user, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read layout %s: %w", name, err)
		}
	}
	data, err := fs.ReadFile(s.defaults, name)
	if err != nil {
		return nil, fmt.Errorf("layout %s not found: %w", name, err)
	}
	return data, nil
}

// partials returns the union of user and default partial names, sorted.
func (s *layoutSet) partials() []string {
	seen := map[string]bool{}
	for _, fsys := range []fs.FS{s.defaults, s.user} {
		if fsys == nil {
			continue
		}
		entries, err := fs.ReadDir(fsys, partialsDir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".html") {
				seen[path.Join(partialsDir, e.Name())] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parse builds one template per page: base.html and all partials first, then
// the page layout, which overrides the base's blocks.
func (s *layoutSet) parse(funcs template.FuncMap) (map[string]*template.Template, error) {
	src, err := s.read(baseLayout)
	if err != nil {
		return nil, err
	}
	base, err := template.New(baseLayout).Funcs(funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", baseLayout, err)
	}
	for _, name := range s.partials() {
		src, err := s.read(name)
		if err != nil {
			return nil, err
		}
		if _, err := base.New(name).Parse(string(src)); err != nil {
			return nil, fmt.Errorf("failed to parse partial %s: %w", name, err)
		}
	}

	pages := make(map[string]*template.Template, len(pageLayouts))
	for _, name := range pageLayouts {
		src, err := s.read(name)
		if err != nil {
			return nil, err
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base layout for %s: %w", name, err)
		}
		if _, err := clone.New(name).Parse(string(src)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = clone
	}
	return pages, nil
}

func templateFuncs(baseURL, buildID string, now time.Time) template.FuncMap {
	caser := cases.Title(language.English)
	root := strings.TrimRight(baseURL, "/")
	return template.FuncMap{
		"title":    caser.String,
		"slugName": blog.SlugName,
		"join":     strings.Join,
		"formatDate": func(s string) string {
			return blog.FormatDate(s, now)
		},
		"shortDate": func(s string) string {
			if t, ok := blog.ParseDate(s); ok {
				return t.Format("Jan 02, 2006")
			}
			return s
		},
		"url": func(p string) string {
			return root + p
		},
		"asset": func(p string) string {
			return root + p + "?v=" + buildID
		},
		"postURL": func(slug string) string {
			return root + "/blog/" + slug + "/"
		},
		"sub": func(a, b int) int {
			return a - b
		},
	}
}
