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

// Package tracer traces whisker centerlines in grayscale video frames,
// using an oriented-line detector bank and a half-space trust test to
// grow candidate seeds into WhiskerSegments.
package tracer

import "sort"

// Engine holds everything precomputed from a Config plus the small set
// of per-frame caches that make repeated FindSegments calls cheap: the
// two detector banks are built once and never touched again, the
// pixel-offset cache is keyed by anchor, orientation class and image
// size, and the two trust thresholds are memoized per frame id rather
// than by image identity.
type Engine struct {
	cfg Config

	lineBank      *detectorBank
	halfSpaceBank *detectorBank

	offsets offsetCache // shared between evalLine and evalHalfSpace

	conservativeThresh float64
	conservativeFrame  int
	relaxedThresh      float64
	relaxedFrame       int

	scratch scratch

	segCounter int
}

// NewEngine validates cfg and eagerly builds both detector banks. Banks
// are never built lazily on the hot path: a frame's first line
// evaluation pays no bank-construction cost.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:               cfg,
		lineBank:          buildLineDetectorBank(cfg),
		halfSpaceBank:     buildHalfSpaceDetectorBank(cfg),
		conservativeFrame: -1,
		relaxedFrame:      -1,
	}, nil
}

// rankedSeed pairs a seed pixel with the sort key used to order tracing
// attempts: weakest stat first, so that segments grown from the most
// confident seeds are laid down last. De-duplication decides by
// cumulative score, not by this order.
type rankedSeed struct {
	p    int
	stat float32
}

// FindSegments runs the full per-frame pipeline: build the seed field,
// rank candidate seeds by ascending confidence, trace each seed into a
// whisker (the seed mask is never cleared, so no seed is skipped), drop segments shorter than MinLength, then
// remove near-duplicate segments that re-traced the same whisker.
//
// background is accepted for interface parity but is currently unused:
// it is reserved for a background-subtraction seeding path under
// SeedOnMHatContours, which presently aliases SeedOnGrid (see
// Config.SeedMethod).
func (e *Engine) FindSegments(frameID int, image, background Image[uint8]) []WhiskerSegment {
	e.scratch.ensure(image.Width, image.Height)
	computeSeedFromPointField(e.cfg, image, e.scratch.hist, e.scratch.slope, e.scratch.stat)
	buildSeedMask(e.cfg, &e.scratch)

	var ranked []rankedSeed
	for i, m := range e.scratch.mask.Pix {
		if m != 0 {
			ranked = append(ranked, rankedSeed{p: i, stat: e.scratch.stat.Pix[i]})
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].stat < ranked[j].stat })

	var out []WhiskerSegment
	for _, rs := range ranked {
		if e.scratch.mask.Pix[rs.p] == 0 {
			continue
		}
		seg, ok := e.traceWhisker(frameID, image, background, rs.p)
		if !ok {
			continue
		}
		if seg.Length() < e.cfg.MinLength {
			continue
		}
		e.segCounter++
		seg.ID = int32(e.segCounter)
		seg.Time = int32(frameID)
		out = append(out, seg)
	}

	return eliminateRedundant(out, e.cfg.RedundancyThres)
}
