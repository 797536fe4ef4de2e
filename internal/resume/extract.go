package resume

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/career-assistant/internal/fetch"
)

// Supported MIME types.
const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEHTML = "text/html"
)

// UnsupportedTypeError is returned for documents that cannot be converted to text.
type UnsupportedTypeError struct {
	MIME     string
	Filename string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s (%s)", e.MIME, e.Filename)
}

// ExtractError wraps a parser failure.
type ExtractError struct {
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extract error: %s", e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// DetectMIME resolves the document type from an explicit MIME type, falling back to the file extension.
func DetectMIME(mime, filename string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(strings.ToLower(mime))
	switch mime {
	case MIMEText, MIMEPDF, MIMEDOCX, MIMEHTML:
		return mime
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return MIMEText
	case ".pdf":
		return MIMEPDF
	case ".docx":
		return MIMEDOCX
	case ".html", ".htm":
		return MIMEHTML
	}
	return mime
}

// ExtractText converts an uploaded resume into cleaned plain text.
func ExtractText(mime, filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch kind := DetectMIME(mime, filename); kind {
	case MIMEText:
		text = string(data)
	case MIMEPDF:
		text, err = extractPDF(data)
	case MIMEDOCX:
		text, err = extractDOCX(data)
	case MIMEHTML:
		text, err = fetch.ExtractMainText(string(data), fetch.DefaultTextSelectors())
	default:
		return "", &UnsupportedTypeError{MIME: kind, Filename: filename}
	}
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{Message: "failed to read pdf", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{Message: "failed to parse docx", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return content, nil
}
