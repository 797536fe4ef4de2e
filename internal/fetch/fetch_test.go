package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/cache"
	"github.com/jonathan/career-assistant/internal/logger"
)

func htmlServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGet_HTML(t *testing.T) {
	server := htmlServer(t, "<html><body><nav>Menu</nav><main><h1>Jane Doe</h1><p>Go and Kubernetes</p></main></body></html>")

	result, err := New(nil, logger.Discard()).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.True(t, result.IsHTML())
	assert.Equal(t, "Jane Doe\nGo and Kubernetes", result.Text)
	assert.False(t, result.Rendered)
}

func TestGet_Binary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	result, err := New(nil, logger.Discard()).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, result.IsHTML())
	assert.Equal(t, []byte("%PDF-1.4"), result.Body)
	assert.Empty(t, result.Text)
}

func TestGet_InvalidURL(t *testing.T) {
	for _, u := range []string{"not-a-valid-url", "ftp://example.com/cv.pdf", "file:///etc/passwd"} {
		_, err := New(nil, logger.Discard()).Get(context.Background(), u)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr, u)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestGet_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := New(nil, logger.Discard()).Get(context.Background(), server.URL)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestGet_TooLarge(t *testing.T) {
	server := htmlServer(t, strings.Repeat("a", 100))

	_, err := New(&Options{MaxBytes: 10}, logger.Discard()).Get(context.Background(), server.URL)
	assert.ErrorContains(t, err, "larger than 10 bytes")
}

func TestGet_BrowserFallback(t *testing.T) {
	server := htmlServer(t, `<html><body><div id="root"></div></body></html>`)

	f := New(&Options{UseBrowser: true}, logger.Discard())
	rendered := "<html><body><main>" + strings.Repeat("Distributed systems engineer. ", 20) + "</main></body></html>"
	f.render = func(context.Context, string) (string, error) { return rendered, nil }

	result, err := f.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, result.Rendered)
	assert.Contains(t, result.Text, "Distributed systems engineer.")
}

func TestGet_BrowserFailureKeepsHTTPContent(t *testing.T) {
	server := htmlServer(t, `<html><body><main>Short page</main></body></html>`)

	f := New(&Options{UseBrowser: true}, logger.Discard())
	f.render = func(context.Context, string) (string, error) { return "", errors.New("no chrome") }

	result, err := f.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, result.Rendered)
	assert.Equal(t, "Short page", result.Text)
}

func TestExtractMainText_WithMainElement(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Main Content</h1>
				<p>This is the main text.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Main Content")
	assert.Contains(t, text, "This is the main text.")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><span>Plain body</span><script>var x</script></body></html>`, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Plain body", text)
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `<html><body><article class="markdown-body"><h2>Skills</h2><ul><li>Go</li><li>SQL</li></ul><form>Subscribe</form></article></body></html>`

	text, err := ExtractMainText(html, PlatformContentSelectors(PlatformGitHub), PlatformNoiseSelectors(PlatformGitHub)...)
	require.NoError(t, err)
	assert.Equal(t, "Skills\nGo\nSQL", text)
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://github.com/janedoe", PlatformGitHub},
		{"https://janedoe.github.io/resume", PlatformGitHub},
		{"https://gitlab.com/janedoe/cv", PlatformGitLab},
		{"https://janedoe.notion.site/Resume-123", PlatformNotion},
		{"https://medium.com/@janedoe", PlatformMedium},
		{"https://notgithub.com/x", PlatformUnknown},
		{"https://janedoe.dev", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectPlatform(tt.url), tt.url)
	}
}

func TestPlatformSelectors(t *testing.T) {
	assert.Equal(t, DefaultTextSelectors(), PlatformContentSelectors(PlatformUnknown))
	assert.Contains(t, PlatformNoiseSelectors(PlatformGitHub), "form")
	assert.Contains(t, PlatformNoiseSelectors(PlatformGitHub), ".file-navigation")
}

type countingGetter struct{ calls atomic.Int32 }

func (g *countingGetter) Get(_ context.Context, u string) (*Result, error) {
	g.calls.Add(1)
	if strings.Contains(u, "missing") {
		return nil, &Error{URL: u, Message: "HTTP status 404"}
	}
	return &Result{URL: u, Text: "cached text", StatusCode: http.StatusOK}, nil
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	next := &countingGetter{}
	c := NewCached(next, cache.NewMemory(), 0, logger.Discard())

	for i := 0; i < 3; i++ {
		res, err := c.Get(ctx, "https://janedoe.dev")
		require.NoError(t, err)
		assert.Equal(t, "cached text", res.Text)
	}
	assert.Equal(t, int32(1), next.calls.Load())

	require.NoError(t, c.Invalidate(ctx, "https://janedoe.dev"))
	_, err := c.Get(ctx, "https://janedoe.dev")
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load())

	// Failures are not cached.
	_, err = c.Get(ctx, "https://janedoe.dev/missing")
	require.Error(t, err)
	_, err = c.Get(ctx, "https://janedoe.dev/missing")
	require.Error(t, err)
	assert.Equal(t, int32(4), next.calls.Load())
}
