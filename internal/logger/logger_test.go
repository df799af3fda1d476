package logger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestEventHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel).Named("build")

	l.BuildStarted("content/blog", "public")
	l.PageWritten("blog/index.html", "list-posts.html")
	l.FileError("bad.md", errors.New("boom"))
	l.BuildCompleted(4, 2, 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "build started")
	assert.Contains(t, out, "content_dir=content/blog")
	assert.Contains(t, out, "page written")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "pages=4")
	assert.Contains(t, out, "build:")
}

func TestInfoLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Skipped("README.md", "excluded")
	assert.Empty(t, buf.String())
}
