package whiskerio

import (
	"bytes"
	"testing"

	"github.com/whiskerlab/tracer"
)

func TestWriteReadRoundTrip(t *testing.T) {
	segs := []tracer.WhiskerSegment{
		{
			ID: 1, Time: 0,
			X: []float32{1, 2, 3}, Y: []float32{4, 5, 6},
			Thick: []float32{2, 2, 2}, Scores: []float32{0.1, 0.2, 0.3},
		},
		{
			ID: 2, Time: 1,
			X: []float32{10, 20}, Y: []float32{30, 40},
			Thick: []float32{3, 3}, Scores: []float32{0.5, 0.6},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, segs); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != len(segs) {
		t.Fatalf("got %d segments, want %d", len(got), len(segs))
	}
	for i, want := range segs {
		if got[i].ID != want.ID || got[i].Time != want.Time {
			t.Errorf("segment %d: got id=%d time=%d, want id=%d time=%d", i, got[i].ID, got[i].Time, want.ID, want.Time)
		}
		if !float32SlicesEqual(got[i].X, want.X) || !float32SlicesEqual(got[i].Y, want.Y) {
			t.Errorf("segment %d: x/y round-trip mismatch", i)
		}
		if !float32SlicesEqual(got[i].Thick, want.Thick) || !float32SlicesEqual(got[i].Scores, want.Scores) {
			t.Errorf("segment %d: thick/score round-trip mismatch", i)
		}
	}
}

func TestReadRejectsBadHeader(t *testing.T) {
	buf := bytes.NewBufferString("not a whiskers file")
	if _, err := Read(buf); err == nil {
		t.Fatalf("expected an error for a bad header")
	}
}

func TestWriteEmptySegmentsProducesReadableHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d segments, want 0", len(got))
	}
}

func float32SlicesEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
