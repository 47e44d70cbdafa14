package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short document", 100, 20)
	if len(chunks) != 1 || chunks[0] != "short document" {
		t.Errorf("chunks = %v, want the input unchanged", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	if len(chunks) < 3 {
		t.Fatalf("got %d chunks, want at least 3", len(chunks))
	}

	// Each chunk except the last must be exactly chunkSize, and each
	// consecutive pair must share the overlap region.
	for i := 0; i < len(chunks)-1; i++ {
		if len(chunks[i]) != 40 {
			t.Errorf("chunk %d length = %d, want 40", i, len(chunks[i]))
		}
		tail := chunks[i][len(chunks[i])-10:]
		head := chunks[i+1][:10]
		if tail != head {
			t.Errorf("chunks %d/%d do not overlap: %q vs %q", i, i+1, tail, head)
		}
	}

	// Reassembling with the overlap removed must reproduce the input.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(c[10:])
	}
	if rebuilt.String() != text {
		t.Error("chunks do not reassemble into the original text")
	}
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("x", 50)
	// Degenerate config must not loop forever; it falls back to
	// non-overlapping chunks.
	chunks := SplitText(text, 10, 15)
	if len(chunks) != 5 {
		t.Errorf("got %d chunks, want 5 non-overlapping ones", len(chunks))
	}
}
