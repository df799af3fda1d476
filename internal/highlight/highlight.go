// Package highlight renders fenced code samples as class-annotated HTML using
// chroma lexers.
package highlight

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alyraffauf/alycodes/internal/logger"
)

// DefaultStyle is the chroma style used for the generated stylesheet.
const DefaultStyle = "dracula"

// aliases maps short or alternative tags to their canonical language name.
var aliases = map[string]string{
	"js":         "javascript",
	"ts":         "typescript",
	"sh":         "bash",
	"shell":      "bash",
	"zsh":        "bash",
	"fish":       "bash",
	"nixos":      "nix",
	"yml":        "yaml",
	"py":         "python",
	"rs":         "rust",
	"dockerfile": "docker",
	"conf":       "nginx",
	"config":     "nginx",
}

// languages binds each canonical name to the chroma lexer names tried, in
// order, when the registry is built.
var languages = map[string][]string{
	"javascript":    {"javascript"},
	"typescript":    {"typescript"},
	"jsx":           {"react", "jsx"},
	"tsx":           {"tsx", "typescript"},
	"css":           {"css"},
	"scss":          {"scss"},
	"json":          {"json"},
	"markdown":      {"markdown"},
	"bash":          {"bash"},
	"shell-session": {"shell-session", "console"},
	"nix":           {"nix"},
	"yaml":          {"yaml"},
	"toml":          {"toml"},
	"rust":          {"rust"},
	"python":        {"python"},
	"go":            {"go"},
	"docker":        {"docker"},
	"nginx":         {"nginx"},
	"sql":           {"sql"},
}

// Highlighter turns code plus a language tag into a <pre><code> block.
// It is safe for concurrent use.
type Highlighter struct {
	lexers    map[string]chroma.Lexer
	formatter *chromahtml.Formatter
	log       *logger.Logger
}

type Option func(*Highlighter)

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *logger.Logger) Option {
	return func(h *Highlighter) {
		h.log = l
	}
}

// New builds a highlighter over the fixed language registry.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		lexers:    make(map[string]chroma.Lexer, len(languages)),
		formatter: newFormatter(),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}

	for name, candidates := range languages {
		for _, candidate := range candidates {
			if lexer := lexers.Get(candidate); lexer != nil {
				h.lexers[name] = chroma.Coalesce(lexer)
				break
			}
		}
	}
	return h
}

func newFormatter() *chromahtml.Formatter {
	return chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)
}

// Canonical lower-cases lang and resolves it through the alias table.
func Canonical(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if canonical, ok := aliases[lang]; ok {
		return canonical
	}
	return lang
}

// Supported reports whether lang resolves to a registered lexer.
func (h *Highlighter) Supported(lang string) bool {
	_, ok := h.lexers[Canonical(lang)]
	return ok
}

// Languages returns the registered canonical names, sorted.
func (h *Highlighter) Languages() []string {
	names := make([]string, 0, len(h.lexers))
	for name := range h.lexers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Highlight never fails: empty input, a missing or unknown language, and
// tokenizer errors all produce a plain escaped block.
func (h *Highlighter) Highlight(code, lang string) string {
	code = TrimBlankLines(strings.ReplaceAll(code, "\r\n", "\n"))

	if strings.TrimSpace(code) == "" {
		return `<pre class="language-none"><code></code></pre>`
	}
	if lang == "" {
		return plain(code)
	}

	name := Canonical(lang)
	lexer, ok := h.lexers[name]
	if !ok {
		h.log.Warn("language not supported, falling back to plain text", "language", lang)
		return plain(code)
	}

	tokens, err := h.tokenize(lexer, code)
	if err != nil {
		h.log.Error("highlighting failed", "language", lang, "error", err)
		return plain(code)
	}
	return fmt.Sprintf(`<pre class="language-%s"><code class="language-%s">%s</code></pre>`, name, name, tokens)
}

func (h *Highlighter) tokenize(lexer chroma.Lexer, code string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tokenizer panic: %v", r)
		}
	}()

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, styles.Fallback, iterator); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return b.String(), nil
}

func plain(code string) string {
	return `<pre class="language-none"><code>` + html.EscapeString(code) + `</code></pre>`
}

// TrimBlankLines removes leading and trailing runs of newlines.
func TrimBlankLines(s string) string {
	return strings.TrimRight(strings.TrimLeft(s, "\n"), "\n")
}

// WriteCSS writes the class stylesheet for the named chroma style. Unknown
// style names use chroma's fallback style.
func WriteCSS(w io.Writer, style string) error {
	if style == "" {
		style = DefaultStyle
	}
	if err := newFormatter().WriteCSS(w, styles.Get(style)); err != nil {
		return fmt.Errorf("write highlight css: %w", err)
	}
	return nil
}
