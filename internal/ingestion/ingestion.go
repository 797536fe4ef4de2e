// Package ingestion turns a resume source (local file, URL or upload) into cleaned text.
package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/career-assistant/internal/fetch"
	"github.com/jonathan/career-assistant/internal/resume"
	"github.com/jonathan/career-assistant/internal/validation"
)

// Source kinds recorded in Metadata.
const (
	SourceFile   = "file"
	SourceURL    = "url"
	SourceUpload = "upload"
)

// Document is an ingested resume.
type Document struct {
	Text     string    `json:"text"`
	Metadata *Metadata `json:"metadata"`
}

// Loader resolves resume sources. Getter is only needed for URLs.
type Loader struct {
	Getter fetch.Getter
	now    func() time.Time
}

// NewLoader returns a Loader that fetches URLs with getter.
func NewLoader(getter fetch.Getter) *Loader {
	return &Loader{Getter: getter, now: func() time.Time { return time.Now().UTC() }}
}

// IsURL reports whether source looks like an http(s) URL.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load ingests source, treating http(s) URLs as remote and anything else as a file path.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	if IsURL(source) {
		return l.FromURL(ctx, source)
	}
	return l.FromFile(source)
}

// FromFile reads and extracts a local resume file.
func (l *Loader) FromFile(p string) (*Document, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	doc, err := l.FromUpload("", filepath.Base(p), data)
	if err != nil {
		return nil, err
	}
	doc.Metadata.Source = SourceFile
	return doc, nil
}

// FromUpload extracts an uploaded document. mime may be empty, in which case the
// filename extension decides.
func (l *Loader) FromUpload(mime, filename string, data []byte) (*Document, error) {
	kind := resume.DetectMIME(mime, filename)
	text, err := resume.ExtractText(kind, filename, data)
	if err != nil {
		return nil, err
	}
	return l.document(text, &Metadata{Source: SourceUpload, Filename: filename, MIME: kind, Bytes: len(data)})
}

// FromURL downloads and extracts a resume or portfolio page.
func (l *Loader) FromURL(ctx context.Context, urlStr string) (*Document, error) {
	if l.Getter == nil {
		return nil, fmt.Errorf("no fetcher configured for %s", urlStr)
	}
	res, err := l.Getter.Get(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{Source: SourceURL, URL: urlStr, Platform: string(res.Platform), Bytes: len(res.Body)}
	if res.IsHTML() {
		meta.MIME = resume.MIMEHTML
		return l.document(resume.CleanText(res.Text), meta)
	}

	name := path.Base(strings.TrimSuffix(urlPath(urlStr), "/"))
	meta.Filename = name
	meta.MIME = resume.DetectMIME(res.ContentType, name)
	text, err := resume.ExtractText(meta.MIME, name, res.Body)
	if err != nil {
		return nil, err
	}
	return l.document(text, meta)
}

func (l *Loader) document(text string, meta *Metadata) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validation.New("resume", "no text could be extracted")
	}
	meta.Chars = utf8.RuneCountInString(text)
	meta.Hash = computeHash(text)
	if l.now != nil {
		meta.Timestamp = l.now()
	} else {
		meta.Timestamp = time.Now().UTC()
	}
	return &Document{Text: text, Metadata: meta}, nil
}

func urlPath(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Path
}
