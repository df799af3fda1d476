// Package frontmatter splits a leading "---" metadata block from a markdown
// document and decodes its restricted key/value/list syntax.
package frontmatter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	DefaultTitle = "Untitled"
	DateLayout   = "2006-01-02"
)

// documentPattern matches the whole document: opening delimiter, metadata
// block, closing delimiter, body.
var documentPattern = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n(.*)\z`)

// Value is either a single string or an ordered list of strings.
type Value struct {
	scalar string
	items  []string
	list   bool
}

// String returns a scalar value.
func String(s string) Value { return Value{scalar: s} }

// List returns a list value.
func List(items ...string) Value {
	return Value{items: append([]string{}, items...), list: true}
}

func (v Value) IsList() bool { return v.list }

// Items returns the list items, or the scalar as a single item.
func (v Value) Items() []string {
	if v.list {
		return append([]string(nil), v.items...)
	}
	if v.scalar == "" {
		return nil
	}
	return []string{v.scalar}
}

// String returns the scalar, or list items joined by ", ".
func (v Value) String() string {
	if v.list {
		return strings.Join(v.items, ", ")
	}
	return v.scalar
}

// Frontmatter is the decoded metadata record. title and date are always set.
type Frontmatter map[string]Value

func (f Frontmatter) Title() string       { return f.String("title") }
func (f Frontmatter) Date() string        { return f.String("date") }
func (f Frontmatter) Description() string { return f.String("description") }

// Tags returns the tags list, empty when the key is absent.
func (f Frontmatter) Tags() []string {
	tags := f.List("tags")
	if tags == nil {
		return []string{}
	}
	return tags
}

func (f Frontmatter) String(key string) string {
	return f[key].String()
}

func (f Frontmatter) List(key string) []string {
	v, ok := f[key]
	if !ok {
		return nil
	}
	return v.Items()
}

// Keys returns the record keys in sorted order.
func (f Frontmatter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Document is a parsed source file.
type Document struct {
	Frontmatter Frontmatter
	Body        string
}

// Parser turns raw document text into a Document. Implementations never fail:
// malformed metadata degrades to the defaults.
type Parser interface {
	Parse(raw string) Document
}

// NewParser returns the parser named by mode: "compat" (the default) or
// "yaml".
func NewParser(mode string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "compat":
		return Compat{}, nil
	case "yaml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown frontmatter parser %q", mode)
	}
}

// Compat implements the restricted line-based metadata syntax.
type Compat struct {
	// Now supplies the default date. Defaults to time.Now.
	Now func() time.Time
}

// Parse parses raw with a Compat parser using the wall clock.
func Parse(raw string) Document {
	return Compat{}.Parse(raw)
}

func (c Compat) Parse(raw string) Document {
	fm := defaults(c.now())

	m := documentPattern.FindStringSubmatch(raw)
	if m == nil {
		return Document{Frontmatter: fm, Body: raw}
	}

	scanBlock(m[1], fm)
	return Document{Frontmatter: fm, Body: m[2]}
}

func (c Compat) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func defaults(now time.Time) Frontmatter {
	return Frontmatter{
		"title": String(DefaultTitle),
		"date":  String(now.Format(DateLayout)),
	}
}

// listScanner is the two-state machine driving block scanning: idle, or
// accumulating list items for key.
type listScanner struct {
	fm           Frontmatter
	key          string
	items        []string
	accumulating bool
}

func (s *listScanner) start(key string) {
	s.key = key
	s.items = nil
	s.accumulating = true
}

func (s *listScanner) add(item string) {
	if s.accumulating {
		s.items = append(s.items, item)
	}
}

// commit stores a non-empty pending list and returns to idle. An empty
// pending list keeps the scanner accumulating.
func (s *listScanner) commit() {
	if !s.accumulating || len(s.items) == 0 {
		return
	}
	s.fm[s.key] = List(s.items...)
	s.key = ""
	s.items = nil
	s.accumulating = false
}

// scanBlock decodes block into fm. A panic mid-scan leaves fm with whatever
// was decoded so far.
func scanBlock(block string, fm Frontmatter) {
	defer func() {
		_ = recover()
	}()

	s := &listScanner{fm: fm}
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "- ") {
			s.add(unquote(strings.TrimSpace(trimmed[2:])))
			continue
		}

		s.commit()

		colon := strings.Index(line, ":")
		if colon <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		if key == "" {
			continue
		}
		value := unquote(strings.TrimSpace(line[colon+1:]))

		switch {
		case value == "":
			s.start(key)
		case key == "tags" && isInlineList(value):
			fm["tags"] = List(splitInlineList(value)...)
		default:
			fm[key] = String(value)
		}
	}
	s.commit()
}

func isInlineList(v string) bool {
	return strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]")
}

func splitInlineList(v string) []string {
	var out []string
	for _, part := range strings.Split(v[1:len(v)-1], ",") {
		part = unquote(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// unquote removes one matching pair of surrounding ' or " characters.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

// Marshal re-serializes the record and body in the restricted syntax.
// title and date are written first, the remaining keys in sorted order.
func (d Document) Marshal() string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, key := range orderedKeys(d.Frontmatter) {
		v := d.Frontmatter[key]
		switch {
		case !v.IsList():
			b.WriteString(key + ": " + v.scalar + "\n")
		case key == "tags":
			b.WriteString(key + ": [" + strings.Join(v.items, ", ") + "]\n")
		default:
			b.WriteString(key + ":\n")
			for _, item := range v.items {
				b.WriteString("  - " + item + "\n")
			}
		}
	}
	b.WriteString("---\n")
	b.WriteString(d.Body)
	return b.String()
}

func orderedKeys(fm Frontmatter) []string {
	keys := []string{}
	for _, k := range []string{"title", "date"} {
		if _, ok := fm[k]; ok {
			keys = append(keys, k)
		}
	}
	for _, k := range fm.Keys() {
		if k != "title" && k != "date" {
			keys = append(keys, k)
		}
	}
	return keys
}
