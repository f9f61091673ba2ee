// github.com/whiskerlab/tracer - a deterministic whisker centerline tracer
// Copyright (C) 2026  The Whisker Tracer Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tracer

import "fmt"

// SeedMethod selects how candidate seeds are discovered. Only
// SeedOnGrid is implemented; the other two values are reserved and
// currently alias SeedOnGrid.
type SeedMethod int

const (
	SeedOnMHatContours SeedMethod = iota
	SeedOnGrid
	SeedEverywhere
)

// Config holds every tunable constant of the tracer. All fields are
// caller-provided; the tracer never learns or fits them.
type Config struct {
	SeedMethod SeedMethod

	AngleStep  int     // quantization steps per 45° of bank angle
	OffsetStep float64 // bank offset quantization, in pixels
	WidthMin   float64
	WidthMax   float64
	WidthStep  float64

	TLen int // half support length; support = 2*TLen+3

	MinSignal float64 // per-pixel signal floor; termination threshold is (2*TLen+1)*MinSignal

	LatticeSpacing int // seed grid spacing, in pixels
	MaxR           int // spiral polish radius
	MaxIter        int // iterate-step cap

	IterationThres float64 // stat floor to continue polishing
	AccumThres     float64 // stat floor to accumulate a converged seed
	SeedThres      float64 // per-pixel accumulated-stat floor for the seed mask

	HalfSpaceAsymmetry         float64
	HalfSpaceTunnelingMaxMoves int

	MaxDeltaAngle  float64 // degrees
	MaxDeltaWidth  float64
	MaxDeltaOffset float64

	MinLength       float64
	RedundancyThres float64
}

// DefaultConfig returns a reasonable set of constants for a typical
// high-resolution whisker video frame.
func DefaultConfig() Config {
	return Config{
		SeedMethod: SeedOnGrid,

		AngleStep:  18,
		OffsetStep: 0.1,
		WidthMin:   0.4,
		WidthMax:   3.0,
		WidthStep:  0.2,

		TLen: 8,

		MinSignal: 5.0,

		LatticeSpacing: 8,
		MaxR:           4,
		MaxIter:        10,

		IterationThres: 0.5,
		AccumThres:     0.5,
		SeedThres:      0.5,

		HalfSpaceAsymmetry:         0.25,
		HalfSpaceTunnelingMaxMoves: 50,

		MaxDeltaAngle:  10.1,
		MaxDeltaWidth:  6,
		MaxDeltaOffset: 6,

		MinLength:       10,
		RedundancyThres: 20,
	}
}

// Validate checks Config's invariants: fields that must be positive
// are positive, and WidthStep divides evenly into [WidthMin, WidthMax].
// This is plain fmt.Errorf rather than a validation library, since a
// flat set of numeric-range checks doesn't warrant one.
func (c Config) Validate() error {
	if c.AngleStep <= 0 {
		return fmt.Errorf("tracer: AngleStep must be positive, got %d", c.AngleStep)
	}
	if c.OffsetStep <= 0 {
		return fmt.Errorf("tracer: OffsetStep must be positive, got %g", c.OffsetStep)
	}
	if c.WidthMin <= 0 || c.WidthMax <= c.WidthMin {
		return fmt.Errorf("tracer: require 0 < WidthMin < WidthMax, got [%g, %g]", c.WidthMin, c.WidthMax)
	}
	if c.WidthStep <= 0 {
		return fmt.Errorf("tracer: WidthStep must be positive, got %g", c.WidthStep)
	}
	if span := c.WidthMax - c.WidthMin; mod(span, c.WidthStep) > 1e-6 {
		return fmt.Errorf("tracer: WidthStep %g does not divide evenly into [%g, %g]", c.WidthStep, c.WidthMin, c.WidthMax)
	}
	if c.TLen <= 0 {
		return fmt.Errorf("tracer: TLen must be positive, got %d", c.TLen)
	}
	if c.MinSignal <= 0 {
		return fmt.Errorf("tracer: MinSignal must be positive, got %g", c.MinSignal)
	}
	if c.LatticeSpacing <= 0 {
		return fmt.Errorf("tracer: LatticeSpacing must be positive, got %d", c.LatticeSpacing)
	}
	if c.MaxR <= 0 {
		return fmt.Errorf("tracer: MaxR must be positive, got %d", c.MaxR)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("tracer: MaxIter must be positive, got %d", c.MaxIter)
	}
	if c.HalfSpaceAsymmetry <= 0 {
		return fmt.Errorf("tracer: HalfSpaceAsymmetry must be positive, got %g", c.HalfSpaceAsymmetry)
	}
	if c.HalfSpaceTunnelingMaxMoves < 0 {
		return fmt.Errorf("tracer: HalfSpaceTunnelingMaxMoves must be non-negative, got %d", c.HalfSpaceTunnelingMaxMoves)
	}
	if c.MaxDeltaAngle <= 0 || c.MaxDeltaWidth <= 0 || c.MaxDeltaOffset <= 0 {
		return fmt.Errorf("tracer: MaxDeltaAngle/Width/Offset must be positive")
	}
	if c.MinLength < 0 {
		return fmt.Errorf("tracer: MinLength must be non-negative, got %g", c.MinLength)
	}
	if c.RedundancyThres <= 0 {
		return fmt.Errorf("tracer: RedundancyThres must be positive, got %g", c.RedundancyThres)
	}
	return nil
}

func mod(a, b float64) float64 {
	n := a / b
	frac := n - float64(int(n+0.5))
	if frac < 0 {
		frac = -frac
	}
	return frac
}

// support returns the detector bank's support size, 2*TLen+3.
func (c Config) support() int {
	return 2*c.TLen + 3
}

// sigmin returns the walker's termination signal floor, (2*TLen+1)*MinSignal.
func (c Config) sigmin() float64 {
	return float64(2*c.TLen+1) * c.MinSignal
}
