package tracer

import "testing"

func TestImageAtSet(t *testing.T) {
	im := NewImage[uint8](4, 3)
	im.Set(2, 1, 42)
	if got := im.At(2, 1); got != 42 {
		t.Fatalf("At(2,1) = %d, want 42", got)
	}
	if got := im.At(0, 0); got != 0 {
		t.Fatalf("At(0,0) = %d, want 0", got)
	}
}

func TestImageInBounds(t *testing.T) {
	im := NewImage[uint8](4, 3)
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{3, 2, true},
		{4, 2, false},
		{3, 3, false},
		{-1, 0, false},
	}
	for _, c := range cases {
		if got := im.InBounds(c.x, c.y); got != c.want {
			t.Errorf("InBounds(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestScratchEnsureGrowsAndClears(t *testing.T) {
	var s scratch
	s.ensure(5, 5)
	s.hist.Pix[12] = 7
	s.stat.Pix[12] = 1.5

	s.ensure(5, 5) // same size: must clear, not reallocate identity semantics
	if s.hist.Pix[12] != 0 {
		t.Fatalf("hist not cleared on same-size ensure")
	}
	if s.stat.Pix[12] != 0 {
		t.Fatalf("stat not cleared on same-size ensure")
	}

	s.ensure(8, 8) // different size: must reallocate
	if s.width != 8 || s.height != 8 {
		t.Fatalf("ensure did not resize: got %dx%d", s.width, s.height)
	}
	if len(s.mask.Pix) != 64 {
		t.Fatalf("mask not resized: len=%d", len(s.mask.Pix))
	}
}
