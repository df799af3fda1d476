package blog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// isoLayout matches JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z"

// IndexEntry is one row of index.json.
type IndexEntry struct {
	Filename     string `json:"filename"`
	LastModified string `json:"lastModified"`
}

// GenerateIndex lists the markdown files of fsys, minus excludes, newest
// modification first.
func GenerateIndex(fsys fs.FS, excludes []string) ([]IndexEntry, error) {
	if excludes == nil {
		excludes = DefaultExcludes
	}
	names, err := scanMarkdown(fsys, excludes)
	if err != nil {
		return nil, err
	}

	type stamped struct {
		name string
		mod  time.Time
	}
	files := make([]stamped, 0, len(names))
	for _, name := range names {
		info, err := fs.Stat(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		files = append(files, stamped{name: name, mod: info.ModTime()})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].mod.After(files[j].mod)
	})

	entries := make([]IndexEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, IndexEntry{
			Filename:     f.name,
			LastModified: f.mod.UTC().Format(isoLayout),
		})
	}
	return entries, nil
}

// WriteIndex regenerates dir/index.json and returns the written entries.
func WriteIndex(dir string, excludes []string) ([]IndexEntry, error) {
	entries, err := GenerateIndex(os.DirFS(dir), excludes)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}
	target := filepath.Join(dir, IndexFile)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", target, err)
	}
	return entries, nil
}
