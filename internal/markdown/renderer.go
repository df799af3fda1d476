// Package markdown converts post bodies into HTML fragments.
//
// The builtin engine understands a deliberately small dialect: fenced code
// blocks, three heading levels, inline code, bold, italic, links and
// paragraphs. Prose is not HTML-escaped; content is trusted. Use the
// sanitizing wrapper when it is not.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/alyraffauf/alycodes/internal/highlight"
)

// Engine renders a markdown body to HTML. Engines never fail.
type Engine interface {
	Render(body string) string
}

// CodeHighlighter produces the HTML for one fenced code block.
type CodeHighlighter interface {
	Highlight(code, lang string) string
}

var (
	fencePattern      = regexp.MustCompile("(?s)```([a-zA-Z0-9]*)\n?(.*?)\n?```")
	blockSeparator    = regexp.MustCompile(`\n\s*\n`)
	placeholderPrefix = "@@CODE_BLOCK_"
)

// headingRules are checked top to bottom; the first prefix match wins.
var headingRules = []struct {
	marker string
	tag    string
}{
	{"### ", "h3"},
	{"## ", "h2"},
	{"# ", "h1"},
}

// inlineRules are applied in order to every non-heading line.
var inlineRules = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile("`([^`\n]+?)`"), `<code class="inline-code">${1}</code>`},
	{regexp.MustCompile(`\*\*([^*\n]+?)\*\*`), `<strong>${1}</strong>`},
	{regexp.MustCompile(`\*([^*\n]+?)\*`), `<em>${1}</em>`},
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`), `<a href="${2}" target="_blank" rel="noopener noreferrer">${1}</a>`},
}

// blockPrefixes mark blocks that are already block-level HTML.
var blockPrefixes = []string{"<h", "<pre", "<ul", "<ol"}

// Renderer is the builtin engine.
type Renderer struct {
	highlighter CodeHighlighter
}

// NewRenderer returns a builtin renderer. A nil highlighter gets a default
// chroma-backed one.
func NewRenderer(h CodeHighlighter) *Renderer {
	if h == nil {
		h = highlight.New()
	}
	return &Renderer{highlighter: h}
}

// codeBlocks holds the highlighted fragments of one render call. The Nth
// token always resolves to the Nth fragment.
type codeBlocks struct {
	nonce     string
	fragments []string
}

func newCodeBlocks() *codeBlocks {
	return &codeBlocks{nonce: strings.ReplaceAll(uuid.New().String(), "-", "")}
}

func (c *codeBlocks) add(fragment string) string {
	token := c.token(len(c.fragments))
	c.fragments = append(c.fragments, fragment)
	return token
}

func (c *codeBlocks) token(i int) string {
	return fmt.Sprintf("%s%s_%d@@", placeholderPrefix, c.nonce, i)
}

func (c *codeBlocks) marker() string {
	return placeholderPrefix + c.nonce
}

func (c *codeBlocks) restore(html string) string {
	for i, fragment := range c.fragments {
		html = strings.Replace(html, c.token(i), fragment, 1)
	}
	return html
}

func (r *Renderer) Render(body string) string {
	text := strings.ReplaceAll(body, "\r\n", "\n")

	blocks := newCodeBlocks()
	text = fencePattern.ReplaceAllStringFunc(text, func(match string) string {
		m := fencePattern.FindStringSubmatch(match)
		code := highlight.TrimBlankLines(m[2])
		return blocks.add(r.highlighter.Highlight(code, m[1]))
	})

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = renderLine(line, blocks.marker())
	}

	parts := blockSeparator.Split(strings.Join(lines, "\n"), -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if strings.Contains(trimmed, blocks.marker()) || isBlockElement(trimmed) {
			out = append(out, trimmed)
			continue
		}
		out = append(out, "<p>"+strings.ReplaceAll(trimmed, "\n", "<br>")+"</p>")
	}

	return blocks.restore(strings.Join(out, "\n\n"))
}

func renderLine(line, marker string) string {
	if strings.Contains(line, marker) {
		return line
	}

	trimmed := strings.TrimSpace(line)
	for _, rule := range headingRules {
		if strings.HasPrefix(trimmed, rule.marker) {
			return fmt.Sprintf("<%s>%s</%s>", rule.tag, trimmed[len(rule.marker):], rule.tag)
		}
	}

	for _, rule := range inlineRules {
		line = rule.pattern.ReplaceAllString(line, rule.replacement)
	}
	return line
}

func isBlockElement(block string) bool {
	for _, prefix := range blockPrefixes {
		if strings.HasPrefix(block, prefix) {
			return true
		}
	}
	return false
}
