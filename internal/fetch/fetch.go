// Package fetch retrieves resumes and portfolio pages over HTTP and reduces HTML to text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; CareerAssistant/1.0)"

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes = 10 << 20

// Result holds the raw and processed content from a URL fetch.
// Text is only filled for HTML responses.
type Result struct {
	URL         string   `json:"url"`
	Body        []byte   `json:"body"`
	Text        string   `json:"text,omitempty"`
	ContentType string   `json:"content_type"`
	StatusCode  int      `json:"status_code"`
	Platform    Platform `json:"platform"`
	Rendered    bool     `json:"rendered,omitempty"` // HTML came from the headless browser
}

// IsHTML reports whether the response was an HTML page.
func (r *Result) IsHTML() bool {
	mt, _, _ := mime.ParseMediaType(r.ContentType)
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	MaxBytes   int64
	UseBrowser bool // render thin HTML pages with headless Chrome
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

// Getter retrieves one URL.
type Getter interface {
	Get(ctx context.Context, urlStr string) (*Result, error)
}

// Fetcher is the HTTP Getter.
type Fetcher struct {
	client *http.Client
	opts   Options
	log    logrus.FieldLogger
	render func(ctx context.Context, urlStr string) (string, error)
}

// New returns a Fetcher. A nil opts uses DefaultOptions.
func New(opts *Options, log logrus.FieldLogger) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	f := &Fetcher{client: &http.Client{Timeout: o.Timeout}, opts: o, log: log}
	f.render = func(ctx context.Context, urlStr string) (string, error) {
		return Render(ctx, urlStr, o.UserAgent, o.Timeout, log)
	}
	return f
}

// Get downloads urlStr. HTML pages get their main text extracted with the selectors
// for the detected platform, falling back to browser rendering when enabled and the
// page text is too thin.
func (f *Fetcher) Get(ctx context.Context, urlStr string) (*Result, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes+1))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > f.opts.MaxBytes {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("response larger than %d bytes", f.opts.MaxBytes)}
	}

	result := &Result{
		URL:         urlStr,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		Platform:    DetectPlatform(urlStr),
	}
	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	log := f.log.WithFields(logrus.Fields{"url": urlStr, "platform": result.Platform})
	log.WithField("bytes", len(body)).Debug("fetched")

	if !result.IsHTML() {
		return result, nil
	}

	content, noise := PlatformContentSelectors(result.Platform), PlatformNoiseSelectors(result.Platform)
	result.Text, err = ExtractMainText(string(body), content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	if f.opts.UseBrowser && ShouldUseBrowser(result.Text) {
		log.WithField("chars", utf8.RuneCountInString(result.Text)).Info("page text is thin, rendering in browser")
		html, err := f.render(ctx, urlStr)
		if err != nil {
			log.WithError(err).Warn("browser rendering failed, keeping HTTP content")
			return result, nil
		}
		if text, err := ExtractMainText(html, content, noise...); err == nil && len(text) > len(result.Text) {
			result.Body, result.Text, result.Rendered = []byte(html), text, true
		}
	}
	return result, nil
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	// Block elements end a line so headings and list items stay separate.
	main.Find("h1, h2, h3, h4, h5, h6, p, li, div, br, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return cleanWhitespace(main.Text()), nil
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".resume",
		"#resume",
		".content",
		"#content",
	}
}

// cleanWhitespace trims each line and drops blank ones.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
