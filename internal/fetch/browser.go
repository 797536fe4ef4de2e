package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// MinContentLength is the shortest extracted text, in characters, accepted without
// trying a browser render. Shorter pages are likely client-rendered portfolios.
const MinContentLength = 300

// hydrationDelay is how long a rendered page gets to settle after the body is ready.
const hydrationDelay = 2 * time.Second

// ShouldUseBrowser reports whether extracted page text is too thin to trust.
func ShouldUseBrowser(extractedText string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(extractedText)) < MinContentLength
}

// Render loads urlStr in headless Chrome with the fetcher's user agent and returns the
// rendered HTML. The page must finish within timeout. Chrome or Chromium must be installed.
func Render(ctx context.Context, urlStr, userAgent string, timeout time.Duration, log logrus.FieldLogger) (string, error) {
	log = log.WithField("url", urlStr)
	log.Debug("starting headless browser")
	start := time.Now()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		chromedp.Sleep(hydrationDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering of %s failed: %w", urlStr, err)
	}

	log.WithFields(logrus.Fields{"bytes": len(html), "elapsed": time.Since(start).Round(time.Millisecond)}).Debug("rendered page")
	return html, nil
}
