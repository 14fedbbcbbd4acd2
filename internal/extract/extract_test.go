package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/docshelf/internal/metrics"
)

func TestRegistryForFile(t *testing.T) {
	reg := NewRegistry(nil)

	tests := []struct {
		filename string
		ok       bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"notes.txt", true},
		{"readme.md", true},
		{"contract.docx", true},
		{"image.png", false},
		{"archive.unknown", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		_, ok := reg.ForFile(tt.filename)
		assert.Equal(t, tt.ok, ok, "file %q", tt.filename)
	}
}

func TestPlainTextSinglePage(t *testing.T) {
	x := PlainText{}

	count, err := x.PageCount([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	text, err := x.ExtractPage(context.Background(), []byte("hello world"), 0)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	_, err = x.ExtractPage(context.Background(), []byte("hello"), 1)
	assert.Error(t, err, "page 2 of a text file must be out of range")
}

func TestMarkdownStripsFrontmatter(t *testing.T) {
	x := Markdown{}
	content := "---\ntitle: Onboarding Guide\nowner: ops\n---\n\n# Welcome\n\nFirst day checklist."

	count, err := x.PageCount([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	text, err := x.ExtractPage(context.Background(), []byte(content), 0)
	require.NoError(t, err)
	assert.Contains(t, text, "Onboarding Guide", "frontmatter title stays searchable")
	assert.Contains(t, text, "First day checklist.")
	assert.NotContains(t, text, "owner: ops", "metadata keys must not be indexed")
}

func TestMarkdownWithoutFrontmatter(t *testing.T) {
	x := Markdown{}
	content := "# Notes\n\nNo frontmatter here."

	text, err := x.ExtractPage(context.Background(), []byte(content), 0)
	require.NoError(t, err)
	assert.Equal(t, content, text)
}

func TestMarkdownMalformedFrontmatter(t *testing.T) {
	x := Markdown{}
	content := "---\n: [unclosed\n---\n\nBody text."

	text, err := x.ExtractPage(context.Background(), []byte(content), 0)
	require.NoError(t, err)
	assert.Contains(t, text, "Body text.")
	assert.NotContains(t, text, "[unclosed", "broken frontmatter is still stripped")
}

func TestMarkdownRejectsBinary(t *testing.T) {
	x := Markdown{}
	_, err := x.ExtractPage(context.Background(), []byte{0xff, 0xfe, 0x00, 0x80}, 0)
	assert.Error(t, err)
}

func TestPlainTextRejectsBinary(t *testing.T) {
	x := PlainText{}
	_, err := x.ExtractPage(context.Background(), []byte{0xff, 0xfe, 0x00, 0x80}, 0)
	assert.Error(t, err)
}

// buildDocx assembles a minimal DOCX archive in memory.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxExtract(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0"?>
		<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
			<w:body>
				<w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
				<w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
			</w:body>
		</w:document>`)

	x := DOCX{}
	count, err := x.PageCount(data)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	text, err := x.ExtractPage(context.Background(), data, 0)
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
}

func TestDocxRejectsGarbage(t *testing.T) {
	x := DOCX{}
	_, err := x.PageCount([]byte("not a zip archive"))
	assert.Error(t, err)
}

func TestTextFromContentStream(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "simple Tj",
			content: "BT /F1 12 Tf (Hello World) Tj ET",
			want:    "Hello World",
		},
		{
			name:    "TJ array",
			content: "BT [(Inv)(oice)] TJ ET",
			want:    "Inv oice",
		},
		{
			name:    "escaped parens",
			content: `BT (total \(net\)) Tj ET`,
			want:    "total (net)",
		},
		{
			name:    "no text operators",
			content: "q 1 0 0 1 0 0 cm /Im0 Do Q",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textFromContentStream([]byte(tt.content)))
		})
	}
}

func TestCommandOCR(t *testing.T) {
	collector := metrics.NewCollector()
	ocr, err := CommandOCR("cat", collector)
	require.NoError(t, err)

	text, err := ocr(context.Background(), []byte("  recognized text\n"))
	require.NoError(t, err)
	assert.Equal(t, "recognized text", text)

	snap := collector.Snapshot()
	require.NotNil(t, snap.OCR)
	assert.EqualValues(t, 1, snap.OCR.Count)
	assert.EqualValues(t, 0, snap.OCR.Errors)
}

func TestCommandOCRFailure(t *testing.T) {
	collector := metrics.NewCollector()
	ocr, err := CommandOCR("false", collector)
	require.NoError(t, err)

	_, err = ocr(context.Background(), []byte("page"))
	assert.Error(t, err)

	snap := collector.Snapshot()
	require.NotNil(t, snap.OCR)
	assert.EqualValues(t, 1, snap.OCR.Errors)
}

func TestCommandOCRMissingBinary(t *testing.T) {
	_, err := CommandOCR("no-such-ocr-binary-a8f3", nil)
	assert.Error(t, err)

	_, err = CommandOCR("   ", nil)
	assert.Error(t, err)
}

func TestRegistryWiresOCRIntoPDF(t *testing.T) {
	hook := OCR(func(context.Context, []byte) (string, error) { return "", nil })
	reg := NewRegistry(hook)

	x, ok := reg.ForFile("scan.pdf")
	require.True(t, ok)
	pdf, ok := x.(*PDF)
	require.True(t, ok)
	assert.NotNil(t, pdf.OCR)

	x, ok = reg.ForFile("guide.md")
	require.True(t, ok)
	assert.IsType(t, Markdown{}, x)
}

func TestExtractionErrorMessage(t *testing.T) {
	err := &Error{File: "b.txt", Page: 2, Err: assert.AnError}
	assert.Contains(t, err.Error(), "b.txt")
	assert.Contains(t, err.Error(), "page 3")

	err = &Error{File: "b.txt", Page: -1, Err: assert.AnError}
	assert.NotContains(t, err.Error(), "page")
}
