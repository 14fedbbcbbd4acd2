package extract

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// PlainText treats the whole file as a single page of UTF-8 text.
type PlainText struct{}

var _ Extractor = PlainText{}

func (PlainText) PageCount(data []byte) (int, error) {
	return 1, nil
}

func (PlainText) ExtractPage(_ context.Context, data []byte, page int) (string, error) {
	if page != 0 {
		return "", fmt.Errorf("page %d out of range for plain text", page+1)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(data), nil
}
