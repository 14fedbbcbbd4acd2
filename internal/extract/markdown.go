package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Markdown treats the whole file as a single page. A leading YAML
// frontmatter block is parsed out so metadata keys are not indexed as
// document text; the title key, when present, is kept as the first line.
type Markdown struct{}

var _ Extractor = Markdown{}

func (Markdown) PageCount(data []byte) (int, error) {
	return 1, nil
}

func (Markdown) ExtractPage(_ context.Context, data []byte, page int) (string, error) {
	if page != 0 {
		return "", fmt.Errorf("page %d out of range for markdown", page+1)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}

	frontmatter, body := splitFrontmatter(string(data))
	if title, ok := frontmatter["title"].(string); ok && strings.TrimSpace(title) != "" {
		return title + "\n\n" + body, nil
	}
	return body, nil
}

// splitFrontmatter separates a leading YAML frontmatter block from the
// document body. Malformed YAML is tolerated: the block is still stripped,
// its metadata discarded.
func splitFrontmatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, content
	}
	end := strings.Index(content[4:], "\n---")
	if end <= 0 {
		return nil, content
	}

	meta := make(map[string]any)
	if err := yaml.Unmarshal([]byte(content[4:4+end]), &meta); err != nil {
		meta = nil
	}
	body := strings.TrimPrefix(content[4+end+4:], "\n")
	return meta, body
}
