package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF extracts text page by page using pdfcpu. Pages whose content stream
// carries no text operators (scans, photographed documents) are rendered to a
// single-page PDF and handed to the OCR hook.
type PDF struct {
	OCR OCR
}

var _ Extractor = (*PDF)(nil)

func (p *PDF) PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("pdf page count: %w", err)
	}
	if count < 1 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return count, nil
}

func (p *PDF) ExtractPage(ctx context.Context, data []byte, page int) (string, error) {
	conf := model.NewDefaultConfiguration()
	conf.Cmd = model.EXTRACTCONTENT
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("pdf page content: %w", err)
	}
	r, err := pdfcpu.ExtractPageContent(pdfCtx, page+1)
	if err != nil {
		return "", fmt.Errorf("pdf page content: %w", err)
	}

	var content []byte
	if r != nil {
		content, err = io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read page content: %w", err)
		}
	}

	text := textFromContentStream(content)
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	// No text layer on this page. Hand a single-page PDF to the OCR engine.
	if p.OCR == nil {
		return "", nil
	}

	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &buf, []string{strconv.Itoa(page + 1)}, nil); err != nil {
		return "", fmt.Errorf("isolate page for ocr: %w", err)
	}

	ocrText, err := p.OCR(ctx, buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return ocrText, nil
}

// textFromContentStream pulls the literal strings shown by Tj/TJ operators
// out of a decoded PDF content stream. Hex strings and CID-encoded fonts are
// not decoded; OCR covers those pages.
func textFromContentStream(content []byte) string {
	var (
		sb      strings.Builder
		depth   int
		escaped bool
	)

	for i := 0; i < len(content); i++ {
		c := content[i]

		if depth == 0 {
			if c == '(' {
				depth = 1
			}
			continue
		}

		if escaped {
			switch c {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '(', ')', '\\':
				sb.WriteByte(c)
			}
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '(':
			depth++
			sb.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}

	return strings.TrimSpace(sb.String())
}
