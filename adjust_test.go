package tracer

import "testing"

func TestIsChangeTooBig(t *testing.T) {
	old := LineParams{Angle: 0, Width: 2, Offset: 0}
	small := LineParams{Angle: 0.01, Width: 2.1, Offset: 0.1}
	if isChangeTooBig(small, old, 10, 6, 6) {
		t.Errorf("small drift incorrectly flagged as too big")
	}

	big := LineParams{Angle: 1.0, Width: 2, Offset: 0}
	if !isChangeTooBig(big, old, 10, 6, 6) {
		t.Errorf("large angle drift not flagged")
	}
}

func TestAdjustLineStartImprovesOnMisalignedSeed(t *testing.T) {
	cfg := testConfig()
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	im := solidImage(60, 60, 220)
	drawHorizontalLine(im, 30, 20)

	p := 30 + im.Width*30
	line := LineParams{Angle: 0.02, Offset: 0.1, Width: 2.0}
	line.Score = eng.evalLine(&line, im, p)
	before := line.Score

	rang := interval{min: -1.5, max: 1.5}
	roff := interval{min: -1, max: 1}
	rwid := interval{min: cfg.WidthMin, max: cfg.WidthMax}

	eng.adjustLineStart(&line, im, p, rang, roff, rwid)
	if line.Score < before {
		t.Errorf("adjustLineStart made the score worse: %g -> %g", before, line.Score)
	}
}
