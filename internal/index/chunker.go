// Package index persists extracted text into the searchable document store.
package index

import "strings"

// ChunkConfig defines text chunking parameters.
type ChunkConfig struct {
	// TargetSize: ideal chunk size in bytes
	TargetSize int
	// MaxSize: hard upper bound; larger paragraphs split at sentence breaks
	MaxSize int
	// Overlap: trailing bytes of a chunk repeated at the start of the next
	Overlap int
}

// DefaultChunkConfig returns sensible defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		TargetSize: 750,
		MaxSize:    1000,
		Overlap:    100,
	}
}

// SplitText splits extracted page text into retrieval-sized chunks.
// Paragraph boundaries are preferred, sentence breaks inside oversized
// paragraphs. Whitespace-only input yields no chunks.
func SplitText(text string, cfg ChunkConfig) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= cfg.MaxSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		c := strings.TrimSpace(current.String())
		if c != "" {
			chunks = append(chunks, c)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(para) > cfg.MaxSize {
			flush()
			chunks = append(chunks, splitLongParagraph(para, cfg)...)
			continue
		}

		if current.Len() > 0 && current.Len()+len(para)+2 > cfg.TargetSize {
			tail := overlapTail(current.String(), cfg.Overlap)
			flush()
			if tail != "" {
				current.WriteString(tail)
				current.WriteString("\n\n")
			}
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}

// splitLongParagraph breaks an oversized paragraph at sentence boundaries,
// falling back to a hard split when a single sentence exceeds MaxSize.
func splitLongParagraph(para string, cfg ChunkConfig) []string {
	var chunks []string
	var current strings.Builder

	for _, sentence := range splitSentences(para) {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > cfg.TargetSize {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}

		for len(sentence) > cfg.MaxSize {
			chunks = append(chunks, strings.TrimSpace(sentence[:cfg.MaxSize]))
			sentence = sentence[cfg.MaxSize:]
		}

		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

// splitSentences naively splits on sentence-final punctuation followed by a
// space. Good enough for chunk boundaries; not a linguistic segmenter.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(text[start:i+1]))
			start = i + 2
		}
	}
	if start < len(text) {
		sentences = append(sentences, strings.TrimSpace(text[start:]))
	}
	return sentences
}

// overlapTail returns the last n bytes of s, snapped to a word boundary.
func overlapTail(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return ""
	}
	tail := s[len(s)-n:]
	if idx := strings.IndexByte(tail, ' '); idx >= 0 {
		tail = tail[idx+1:]
	}
	return strings.TrimSpace(tail)
}
