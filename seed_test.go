package tracer

import (
	"math"
	"testing"
)

func TestPrincipalAnglePerfectlyCollinear(t *testing.T) {
	var acc pcaAccumulator
	for x := -5; x <= 5; x++ {
		acc.add(x, 0) // perfectly horizontal
	}
	stat, angle := acc.principalAngle()
	if stat < 0.99 {
		t.Errorf("stat = %g, want close to 1 for collinear points", stat)
	}
	// angle should be horizontal (0 or pi, mod pi)
	norm := math.Mod(math.Abs(angle), math.Pi)
	if norm > 0.05 && math.Abs(norm-math.Pi) > 0.05 {
		t.Errorf("angle = %g, want ~0 or ~pi", angle)
	}
}

func TestPrincipalAngleTooFewPoints(t *testing.T) {
	var acc pcaAccumulator
	acc.add(0, 0)
	acc.add(1, 1)
	stat, angle := acc.principalAngle()
	if stat != 0 || angle != 0 {
		t.Errorf("got stat=%g angle=%g, want 0,0 for n<=3", stat, angle)
	}
}

func solidImage(width, height int, bg uint8) Image[uint8] {
	im := NewImage[uint8](width, height)
	for i := range im.Pix {
		im.Pix[i] = bg
	}
	return im
}

func drawHorizontalLine(im Image[uint8], y int, dark uint8) {
	for x := 0; x < im.Width; x++ {
		im.Set(x, y, dark)
	}
}

func TestComputeSeedFromPointExFindsHorizontalLine(t *testing.T) {
	im := solidImage(40, 40, 200)
	drawHorizontalLine(im, 20, 20)

	seed, _, stat, ok := computeSeedFromPointEx(im, 20+im.Width*20, 6)
	if !ok {
		t.Fatalf("expected a seed, got none")
	}
	if stat < 0.5 {
		t.Errorf("stat = %g, want a confidently collinear seed", stat)
	}
	if seed.YDir != 0 && math.Abs(float64(seed.YDir)) > 10 {
		t.Errorf("YDir = %d, want near 0 for a horizontal line", seed.YDir)
	}
}

func TestComputeSeedFromPointExNearBorderFails(t *testing.T) {
	im := solidImage(10, 10, 200)
	_, _, _, ok := computeSeedFromPointEx(im, 1, 6)
	if ok {
		t.Fatalf("expected no seed within maxr of the border")
	}
}

func TestBuildSeedMaskThresholds(t *testing.T) {
	cfg := DefaultConfig()
	var s scratch
	s.ensure(4, 4)
	s.hist.Pix[5] = 2
	s.slope.Pix[5] = 1.0
	s.stat.Pix[5] = 1.4 // stat is not divided by the vote count

	s.stat.Pix[6] = 0.9 // unvoted pixel, compared directly
	buildSeedMask(cfg, &s)

	if s.slope.Pix[5] != 0.5 {
		t.Errorf("slope.Pix[5] = %g, want 0.5 after normalizing by hist count", s.slope.Pix[5])
	}
	if s.mask.Pix[6] != 1 {
		t.Errorf("mask.Pix[6] = %d, want 1 (stat above SeedThres)", s.mask.Pix[6])
	}
}
