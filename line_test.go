package tracer

import (
	"math"
	"testing"
)

func TestLineParamFromSeedSnapsAngle(t *testing.T) {
	cfg := testConfig()
	s := Seed{XDir: 100, YDir: 0}
	line := lineParamFromSeed(cfg, s)
	if math.Abs(line.Angle) > 1e-9 {
		t.Errorf("angle = %g, want 0 for a horizontal seed direction", line.Angle)
	}
	if line.Width != 2.0 || line.Offset != 0.5 {
		t.Errorf("got width=%g offset=%g, want 2.0/0.5 defaults", line.Width, line.Offset)
	}
}

func TestLineParamFromSeedFlipsNegativeXDir(t *testing.T) {
	cfg := testConfig()
	pos := lineParamFromSeed(cfg, Seed{XDir: 100, YDir: 50})
	neg := lineParamFromSeed(cfg, Seed{XDir: -100, YDir: -50})
	if math.Abs(pos.Angle-neg.Angle) > 1e-9 {
		t.Errorf("angle with XDir<0 should match its positive-x-pointing equivalent: got %g vs %g", pos.Angle, neg.Angle)
	}
}

func TestRoundAnchorAndOffsetBoundedError(t *testing.T) {
	line := LineParams{Angle: math.Pi / 6, Offset: 0.3}
	offset, newP := roundAnchorAndOffset(line, 10+20*4, 20)
	if math.Abs(offset) > 0.75 {
		t.Errorf("residual offset = %g, want small", offset)
	}
	if newP < 0 {
		t.Errorf("newP = %d, want a valid non-negative index", newP)
	}
}

func TestMoveLineAdvancesAlongTangent(t *testing.T) {
	line := LineParams{Angle: 0, Offset: 0}
	p0 := 10 + 20*10
	p1 := moveLine(&line, p0, 20, +1)
	if p1 != p0+1 {
		t.Errorf("moveLine along a horizontal line should step +1 in x: got delta %d", p1-p0)
	}
}

func TestEvalLineFavorsMatchingLine(t *testing.T) {
	cfg := testConfig()
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	im := solidImage(60, 60, 220)
	drawHorizontalLine(im, 30, 20)

	p := 30 + im.Width*30
	matching := LineParams{Angle: 0, Offset: 0, Width: 2.0}
	mismatched := LineParams{Angle: math.Pi / 2, Offset: 0, Width: 2.0}

	sMatch := eng.evalLine(&matching, im, p)
	sMismatch := eng.evalLine(&mismatched, im, p)
	if sMatch <= sMismatch {
		t.Errorf("evalLine(matching)=%g should score better (higher) than evalLine(mismatched)=%g", sMatch, sMismatch)
	}
}
