package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/raphaelgruber/docshelf/internal/metrics"
)

// CommandOCR adapts an external OCR command into an OCR hook. The command
// receives a single-page PDF on stdin and prints the recognized text on
// stdout (an ocrmypdf --sidecar pipeline or a tesseract wrapper script).
// The command line is split on whitespace; the binary must be on PATH.
func CommandOCR(commandLine string, collector *metrics.Collector) (OCR, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty ocr command")
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		return nil, fmt.Errorf("ocr command: %w", err)
	}

	return func(ctx context.Context, pagePDF []byte) (string, error) {
		start := time.Now()

		cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
		cmd.Stdin = bytes.NewReader(pagePDF)
		var out, errOut bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &errOut

		err := cmd.Run()
		if collector != nil {
			collector.Record(metrics.OpOCR, time.Since(start), err)
		}
		if err != nil {
			if msg := strings.TrimSpace(errOut.String()); msg != "" {
				return "", fmt.Errorf("ocr command: %v: %s", err, msg)
			}
			return "", fmt.Errorf("ocr command: %w", err)
		}
		return strings.TrimSpace(out.String()), nil
	}, nil
}
