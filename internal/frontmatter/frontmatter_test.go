package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time {
	return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
}

func TestCompatParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMeta map[string]Value
		wantBody string
	}{
		{
			name: "scalar_fields",
			input: `---
title: Some Title
date: 2024-01-15
description: Optional text
---
body text`,
			wantMeta: map[string]Value{
				"title":       String("Some Title"),
				"date":        String("2024-01-15"),
				"description": String("Optional text"),
			},
			wantBody: "body text",
		},
		{
			name:  "no_frontmatter",
			input: "# Just Markdown\n\nNo frontmatter here.",
			wantMeta: map[string]Value{
				"title": String("Untitled"),
				"date":  String("2024-03-09"),
			},
			wantBody: "# Just Markdown\n\nNo frontmatter here.",
		},
		{
			name:  "missing_closing_delimiter",
			input: "---\ntitle: Lost\n# Heading",
			wantMeta: map[string]Value{
				"title": String("Untitled"),
				"date":  String("2024-03-09"),
			},
			wantBody: "---\ntitle: Lost\n# Heading",
		},
		{
			name:  "inline_tags",
			input: "---\ntags: [one, \"two\", 'three', ]\n---\nx",
			wantMeta: map[string]Value{
				"title": String("Untitled"),
				"date":  String("2024-03-09"),
				"tags":  List("one", "two", "three"),
			},
			wantBody: "x",
		},
		{
			name:  "multiline_list_terminated_by_key",
			input: "---\ntags:\n  - a\n  - \"b\"\ntitle: After\n---\nx",
			wantMeta: map[string]Value{
				"title": String("After"),
				"date":  String("2024-03-09"),
				"tags":  List("a", "b"),
			},
			wantBody: "x",
		},
		{
			name:  "list_item_without_key_ignored",
			input: "---\n- orphan\ntitle: T\n---\nx",
			wantMeta: map[string]Value{
				"title": String("T"),
				"date":  String("2024-03-09"),
			},
			wantBody: "x",
		},
		{
			name:  "lines_without_colon_skipped",
			input: "---\njust words\n:leading colon\ntitle: T\n---\nx",
			wantMeta: map[string]Value{
				"title": String("T"),
				"date":  String("2024-03-09"),
			},
			wantBody: "x",
		},
		{
			name:  "value_keeps_later_colons",
			input: "---\ntitle: Go: a tour\n---\nx",
			wantMeta: map[string]Value{
				"title": String("Go: a tour"),
				"date":  String("2024-03-09"),
			},
			wantBody: "x",
		},
		{
			name:  "empty_list_key_leaves_default",
			input: "---\ntitle:\ndate: 2020-01-01\n---\nx",
			wantMeta: map[string]Value{
				"title": String("Untitled"),
				"date":  String("2020-01-01"),
			},
			wantBody: "x",
		},
	}

	parser := Compat{Now: fixedNow}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parser.Parse(tt.input)
			require.NotNil(t, doc.Frontmatter)
			assert.Equal(t, Frontmatter(tt.wantMeta), doc.Frontmatter)
			assert.Equal(t, tt.wantBody, doc.Body)
		})
	}
}

func TestCompatParseBodyAfterClosingDelimiter(t *testing.T) {
	doc := Compat{Now: fixedNow}.Parse("---\ntitle: T\n---\n\n# Heading\n\ntext\n")
	assert.Equal(t, "# Heading\n\ntext\n", doc.Body)

	doc = Compat{Now: fixedNow}.Parse("---\r\ntitle: T\r\n---\r\nbody")
	assert.Equal(t, "T", doc.Frontmatter.Title())
	assert.Equal(t, "body", doc.Body)
}

func TestTagFormsAgree(t *testing.T) {
	inline := Parse("---\ntags: [a, b, c]\n---\n")
	multi := Parse("---\ntags:\n  - a\n  - b\n  - c\n---\n")

	assert.Equal(t, []string{"a", "b", "c"}, inline.Frontmatter.Tags())
	assert.Equal(t, inline.Frontmatter.Tags(), multi.Frontmatter.Tags())
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`'it''s'`, "it''s"},
		{`""quoted""`, `"quoted"`},
		{`"unmatched'`, `"unmatched'`},
		{`"leading only`, `"leading only`},
		{`trailing only'`, `trailing only'`},
		{`"`, `"`},
		{`''`, ""},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unquote(tt.in), "unquote(%q)", tt.in)
	}
}

func TestFrontmatterDefaultsWithoutBlock(t *testing.T) {
	doc := Parse("plain text")
	assert.Equal(t, DefaultTitle, doc.Frontmatter.Title())
	assert.Equal(t, time.Now().Format(DateLayout), doc.Frontmatter.Date())
	assert.Empty(t, doc.Frontmatter.Tags())
	assert.Equal(t, "plain text", doc.Body)
}

func TestMarshalRoundTrip(t *testing.T) {
	src := "---\ntitle: \"Quoted Title\"\ndate: 2024-01-15\ndescription: A post\nauthors:\n  - aly\n  - bob\ntags: [go, web]\n---\n# Body\n"
	parser := Compat{Now: fixedNow}

	first := parser.Parse(src)
	second := parser.Parse(first.Marshal())

	assert.Equal(t, first.Frontmatter, second.Frontmatter)
	assert.Equal(t, "Quoted Title", second.Frontmatter.Title())
	assert.Equal(t, []string{"aly", "bob"}, second.Frontmatter.List("authors"))
	assert.Equal(t, "# Body\n", second.Body)
}

func TestYAMLParse(t *testing.T) {
	src := `---
title: YAML Post
date: 2024-02-01
draft: true
tags:
  - go
  - yaml
series:
  name: intro
---
# Body
`
	doc := YAML{Now: fixedNow}.Parse(src)

	assert.Equal(t, "YAML Post", doc.Frontmatter.Title())
	assert.Equal(t, "2024-02-01", doc.Frontmatter.Date())
	assert.Equal(t, "true", doc.Frontmatter.String("draft"))
	assert.Equal(t, []string{"go", "yaml"}, doc.Frontmatter.Tags())
	assert.Equal(t, "intro", doc.Frontmatter.String("series.name"))
	assert.Equal(t, "# Body\n", doc.Body)
}

func TestYAMLParseWithoutBlock(t *testing.T) {
	doc := YAML{Now: fixedNow}.Parse("# Only body")
	assert.Equal(t, DefaultTitle, doc.Frontmatter.Title())
	assert.Equal(t, "2024-03-09", doc.Frontmatter.Date())
	assert.Equal(t, "# Only body", doc.Body)
}

func TestParsersSatisfyInterface(t *testing.T) {
	for _, p := range []Parser{Compat{Now: fixedNow}, YAML{Now: fixedNow}} {
		doc := p.Parse("---\ntitle: Shared\n---\nbody\n")
		assert.Equal(t, "Shared", doc.Frontmatter.Title())
	}
}

func TestNewParser(t *testing.T) {
	p, err := NewParser("")
	require.NoError(t, err)
	assert.IsType(t, Compat{}, p)

	p, err = NewParser("YAML")
	require.NoError(t, err)
	assert.IsType(t, YAML{}, p)

	_, err = NewParser("toml")
	assert.Error(t, err)
}
