package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCX extracts the text of a Word document as a single page.
// No DOCX library is pulled in for this: the format is a zip archive whose
// word/document.xml carries the text in <w:t> runs.
type DOCX struct{}

var _ Extractor = DOCX{}

func (DOCX) PageCount(data []byte) (int, error) {
	// DOCX has no fixed page concept before layout; treat as one page.
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("docx open: %w", err)
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return 1, nil
		}
	}
	return 0, fmt.Errorf("docx: word/document.xml not found")
}

func (DOCX) ExtractPage(_ context.Context, data []byte, page int) (string, error) {
	if page != 0 {
		return "", fmt.Errorf("page %d out of range for docx", page+1)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx open: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("docx read: %w", err)
		}
		defer rc.Close()
		return docxText(rc)
	}

	return "", fmt.Errorf("docx: word/document.xml not found")
}

// docxText streams document.xml, collecting <w:t> character data and
// inserting newlines at paragraph boundaries.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		sb     strings.Builder
		inText bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("docx parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
