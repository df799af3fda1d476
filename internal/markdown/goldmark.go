package markdown

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alyraffauf/alycodes/internal/highlight"
	"github.com/alyraffauf/alycodes/internal/logger"
)

const (
	EngineBuiltin  = "builtin"
	EngineGoldmark = "goldmark"
)

// Options selects and configures an engine.
type Options struct {
	Engine      string
	Sanitize    bool
	CodeStyle   string
	Highlighter *highlight.Highlighter
	Logger      *logger.Logger
}

// New returns the engine named by opts.Engine, wrapped in a sanitizer when
// opts.Sanitize is set.
func New(opts Options) (Engine, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	var engine Engine
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case "", EngineBuiltin:
		h := opts.Highlighter
		if h == nil {
			h = highlight.New(highlight.WithLogger(opts.Logger))
		}
		engine = NewRenderer(h)
	case EngineGoldmark:
		engine = NewGoldmark(opts.CodeStyle, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown markdown engine %q", opts.Engine)
	}

	if opts.Sanitize {
		engine = NewSanitized(engine)
	}
	return engine, nil
}

// Goldmark renders CommonMark + GFM, highlighting code with chroma classes
// so it shares the builtin engine's stylesheet.
type Goldmark struct {
	md  goldmark.Markdown
	log *logger.Logger
}

func NewGoldmark(style string, log *logger.Logger) *Goldmark {
	if style == "" {
		style = highlight.DefaultStyle
	}
	if log == nil {
		log = logger.Discard()
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)
	return &Goldmark{md: md, log: log}
}

func (g *Goldmark) Render(body string) string {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(body), &buf); err != nil {
		g.log.Error("goldmark convert failed", "error", err)
		return "<pre>" + html.EscapeString(body) + "</pre>"
	}
	return buf.String()
}

// Sanitized passes another engine's output through a bluemonday policy that
// keeps the classes and link attributes the renderers emit.
type Sanitized struct {
	engine Engine
	policy *bluemonday.Policy
}

var classPattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

func NewSanitized(engine Engine) *Sanitized {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classPattern).OnElements("pre", "code", "span")
	p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &Sanitized{engine: engine, policy: p}
}

func (s *Sanitized) Render(body string) string {
	return s.policy.Sanitize(s.engine.Render(body))
}
