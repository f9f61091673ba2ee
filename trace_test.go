package tracer

import (
	"math"
	"testing"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.AngleStep = 6
	cfg.TLen = 4
	cfg.LatticeSpacing = 6
	cfg.MaxR = 3
	cfg.MinLength = 5
	return cfg
}

func TestFindSegmentsUniformImageYieldsNothing(t *testing.T) {
	cfg := smallConfig()
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	im := solidImage(60, 60, 200)
	bg := solidImage(60, 60, 200)

	segs := eng.FindSegments(0, im, bg)
	if len(segs) != 0 {
		t.Fatalf("got %d segments on a uniform image, want 0", len(segs))
	}
}

func TestFindSegmentsSingleHorizontalLine(t *testing.T) {
	cfg := smallConfig()
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	im := solidImage(80, 60, 220)
	drawHorizontalLine(im, 30, 20)
	bg := solidImage(80, 60, 220)

	segs := eng.FindSegments(0, im, bg)
	if len(segs) == 0 {
		t.Fatalf("expected at least one segment for a clear horizontal line")
	}
	for _, s := range segs {
		if s.Length() < cfg.MinLength {
			t.Errorf("segment %d length %g below MinLength %g", s.ID, s.Length(), cfg.MinLength)
		}
		for _, y := range s.Y {
			if math.Abs(float64(y)-30) > 3 {
				t.Errorf("segment %d vertex y=%g too far from the line at y=30", s.ID, y)
			}
		}
	}
}

func TestFindSegmentsIsDeterministic(t *testing.T) {
	cfg := smallConfig()
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	im := solidImage(80, 60, 220)
	drawHorizontalLine(im, 30, 20)
	bg := solidImage(80, 60, 220)

	first := eng.FindSegments(0, im, bg)
	second := eng.FindSegments(1, im, bg)
	if len(first) != len(second) {
		t.Fatalf("FindSegments is not deterministic across identical frames: %d vs %d segments", len(first), len(second))
	}
}

func TestFindSegmentsTwoParallelLinesDedupOrCoexist(t *testing.T) {
	cfg := smallConfig()
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	im := solidImage(80, 80, 220)
	drawHorizontalLine(im, 20, 20)
	drawHorizontalLine(im, 60, 20)
	bg := solidImage(80, 80, 220)

	segs := eng.FindSegments(0, im, bg)
	if len(segs) == 0 {
		t.Fatalf("expected segments for two well-separated lines")
	}
	if len(segs) > 4 {
		t.Errorf("got %d segments for two lines, want a small number after de-duplication", len(segs))
	}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AngleStep = 0
	if _, err := NewEngine(cfg); err == nil {
		t.Fatalf("expected an error for AngleStep=0")
	}
}
