package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecordAndSnapshot(t *testing.T) {
	c := NewCollector()

	c.Record(OpIndexWrite, 10*time.Millisecond, nil)
	c.Record(OpIndexWrite, 30*time.Millisecond, nil)
	c.Record(OpEmbedding, 5*time.Millisecond, errors.New("boom"))
	c.Record(OpRetrieve, 2*time.Millisecond, nil)
	c.Record(OpOCR, 200*time.Millisecond, nil)

	snap := c.Snapshot()

	if snap.IndexWrite == nil || snap.IndexWrite.Count != 2 {
		t.Fatalf("IndexWrite = %+v, want count 2", snap.IndexWrite)
	}
	if snap.IndexWrite.MinTimeMs != 10 || snap.IndexWrite.MaxTimeMs != 30 {
		t.Errorf("IndexWrite min/max = %d/%d, want 10/30", snap.IndexWrite.MinTimeMs, snap.IndexWrite.MaxTimeMs)
	}
	if snap.Embedding == nil || snap.Embedding.Errors != 1 {
		t.Errorf("Embedding = %+v, want 1 error", snap.Embedding)
	}
	if snap.Retrieve == nil || snap.Retrieve.Count != 1 {
		t.Errorf("Retrieve = %+v, want count 1", snap.Retrieve)
	}
	if snap.OCR == nil || snap.OCR.Count != 1 {
		t.Errorf("OCR = %+v, want count 1", snap.OCR)
	}
	// Operations never recorded stay absent from the snapshot.
	if snap.LLMGenerate != nil {
		t.Errorf("LLMGenerate = %+v, want nil", snap.LLMGenerate)
	}
}
