package tracer

import (
	"math"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AngleStep = 4 // keep the grid small for fast tests
	return cfg
}

func TestLineDetectorBankZeroMean(t *testing.T) {
	cfg := testConfig()
	bank := buildLineDetectorBank(cfg)
	support2 := bank.support * bank.support

	// Sample a handful of bins across the grid; every bin's filter
	// weights must sum to (near) zero by construction.
	for _, oi := range []int{0, bank.nOff / 2, bank.nOff - 1} {
		for _, wi := range []int{0, bank.nWid / 2, bank.nWid - 1} {
			for _, ai := range []int{0, bank.nAng / 2, bank.nAng - 1} {
				base := (oi*bank.nWid*bank.nAng + wi*bank.nAng + ai) * support2
				var sum float64
				for _, v := range bank.data[base : base+support2] {
					sum += float64(v)
				}
				if math.Abs(sum) > 1e-3 {
					t.Errorf("bin (oi=%d,wi=%d,ai=%d) sums to %g, want ~0", oi, wi, ai, sum)
				}
			}
		}
	}
}

func TestHalfSpaceBankNonNegative(t *testing.T) {
	cfg := testConfig()
	bank := buildHalfSpaceDetectorBank(cfg)
	for i, v := range bank.data {
		if v < 0 {
			t.Fatalf("half-space bank has negative weight at %d: %g", i, v)
		}
	}
	if bank.norm <= 0 {
		t.Fatalf("half-space bank norm = %g, want > 0", bank.norm)
	}
}

func TestHalfSpaceBankIndependentOfWidth(t *testing.T) {
	cfg := testConfig()
	bank := buildHalfSpaceDetectorBank(cfg)
	support2 := bank.support * bank.support
	oi, ai := bank.nOff/2, bank.nAng/2
	first := (oi*bank.nWid*bank.nAng + 0*bank.nAng + ai) * support2
	for wi := 1; wi < bank.nWid; wi++ {
		base := (oi*bank.nWid*bank.nAng + wi*bank.nAng + ai) * support2
		for k := 0; k < support2; k++ {
			if bank.data[first+k] != bank.data[base+k] {
				t.Fatalf("half-space bank varies with width at wi=%d", wi)
			}
		}
	}
}

func TestBankLookupClampsToGrid(t *testing.T) {
	cfg := testConfig()
	bank := buildLineDetectorBank(cfg)
	support2 := bank.support * bank.support

	// Wildly out-of-range inputs must still produce a valid, in-bounds index.
	idx := bank.lookup(1000, -1000, 1e6)
	if idx < 0 || idx+support2 > len(bank.data) {
		t.Fatalf("lookup returned out-of-range index %d", idx)
	}
}

func TestIsSmallAngle(t *testing.T) {
	cases := []struct {
		angle float64
		want  bool
	}{
		{0, true},
		{math.Pi / 8, true},
		{math.Pi / 2, false},
		{math.Pi, true},
		{-math.Pi / 8, true},
	}
	for _, c := range cases {
		if got := isSmallAngle(c.angle); got != c.want {
			t.Errorf("isSmallAngle(%g) = %v, want %v", c.angle, got, c.want)
		}
	}
}
