package index

import (
	"strings"
	"testing"
)

func TestSplitText_EmptyAndShort(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLen  int
		wantZero bool
	}{
		{
			name:     "completely empty",
			text:     "",
			wantZero: true,
		},
		{
			name:     "whitespace only",
			text:     "   \n\n\t  ",
			wantZero: true,
		},
		{
			name:    "short content single chunk",
			text:    "A short page of text.",
			wantLen: 1,
		},
		{
			name:    "exactly at max size",
			text:    strings.Repeat("a", DefaultChunkConfig().MaxSize),
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, DefaultChunkConfig())

			if tt.wantZero {
				if len(chunks) != 0 {
					t.Errorf("SplitText() got %d chunks, want 0", len(chunks))
				}
				return
			}

			if len(chunks) != tt.wantLen {
				t.Errorf("SplitText() got %d chunks, want %d", len(chunks), tt.wantLen)
			}
			for i, c := range chunks {
				if strings.TrimSpace(c) == "" {
					t.Errorf("chunk[%d] is empty", i)
				}
			}
		})
	}
}

func TestSplitText_ParagraphBoundaries(t *testing.T) {
	cfg := ChunkConfig{TargetSize: 50, MaxSize: 120, Overlap: 0}

	var sb strings.Builder
	for i := 0; i < 6; i++ {
		sb.WriteString("Paragraph number with enough words to matter.\n\n")
	}

	chunks := SplitText(sb.String(), cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > cfg.MaxSize {
			t.Errorf("chunk[%d] exceeds max size: %d bytes", i, len(c))
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk[%d] is empty", i)
		}
	}
}

func TestSplitText_LongParagraphSentenceSplit(t *testing.T) {
	cfg := ChunkConfig{TargetSize: 60, MaxSize: 100, Overlap: 0}

	para := strings.TrimSpace(strings.Repeat("This is a full sentence with several words in it. ", 10))

	chunks := SplitText(para, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected long paragraph to split, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > cfg.MaxSize {
			t.Errorf("chunk[%d] exceeds max size: %d bytes", i, len(c))
		}
		// Sentence splits should not start mid-word.
		if strings.HasPrefix(c, " ") {
			t.Errorf("chunk[%d] starts with whitespace: %q", i, c)
		}
	}
}

func TestSplitText_HardSplitUnbreakable(t *testing.T) {
	cfg := ChunkConfig{TargetSize: 40, MaxSize: 50, Overlap: 0}

	// No sentence or word boundaries at all.
	text := strings.Repeat("x", 175)

	chunks := SplitText(text, cfg)

	total := 0
	for i, c := range chunks {
		if len(c) > cfg.MaxSize {
			t.Errorf("chunk[%d] exceeds max size: %d bytes", i, len(c))
		}
		total += len(c)
	}
	if total != 175 {
		t.Errorf("hard split lost content: got %d bytes total, want 175", total)
	}
}

func TestSplitText_Overlap(t *testing.T) {
	cfg := ChunkConfig{TargetSize: 80, MaxSize: 100, Overlap: 30}

	text := "First paragraph talks about alpha and beta topics here.\n\n" +
		"Second paragraph covers gamma and delta in some detail.\n\n" +
		"Third paragraph concludes with epsilon remarks at the end."

	chunks := SplitText(text, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Each later chunk should begin with trailing words from the previous one.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		firstWord := strings.SplitN(chunks[i], " ", 2)[0]
		if firstWord != "" && !strings.Contains(prev, firstWord) {
			t.Errorf("chunk[%d] does not overlap previous chunk: starts %q", i, firstWord)
		}
	}
}

func TestOverlapTail(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{"shorter than overlap", "short", 100, ""},
		{"zero overlap", "some longer text here", 0, ""},
		{"snaps to word boundary", "one two three four five", 10, "four five"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapTail(tt.s, tt.n); got != tt.want {
				t.Errorf("overlapTail(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First here. Second there! Third where? Fourth")
	want := []string{"First here.", "Second there!", "Third where?", "Fourth"}

	if len(got) != len(want) {
		t.Fatalf("splitSentences() got %d sentences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
