package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		mime, filename, want string
	}{
		{"application/pdf", "x.bin", MIMEPDF},
		{"text/plain; charset=utf-8", "", MIMEText},
		{"", "cv.DOCX", MIMEDOCX},
		{"application/octet-stream", "cv.pdf", MIMEPDF},
		{"", "page.htm", MIMEHTML},
		{"image/png", "me.png", "image/png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectMIME(tt.mime, tt.filename), "%s %s", tt.mime, tt.filename)
	}
}

func TestExtractText_Plain(t *testing.T) {
	text, err := ExtractText("", "cv.txt", []byte("Jane   Doe\r\n\r\n\r\n\r\nPython  engineer   "))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nPython engineer", text)
}

func TestExtractText_HTML(t *testing.T) {
	html := `<html><body><nav>Menu</nav><main><h1>Jane Doe</h1><p>Kubernetes and Terraform</p></main><footer>c</footer></body></html>`
	text, err := ExtractText(MIMEHTML, "", []byte(html))
	require.NoError(t, err)
	assert.Contains(t, text, "Kubernetes and Terraform")
	assert.NotContains(t, text, "Menu")
}

func TestExtractText_Unsupported(t *testing.T) {
	_, err := ExtractText("image/png", "me.png", []byte{0x89})
	var ute *UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "image/png", ute.MIME)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText(MIMEPDF, "cv.pdf", []byte("not a pdf"))
	var ee *ExtractError
	assert.ErrorAs(t, err, &ee)
}
