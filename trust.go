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

import "math"

// thresholdTwoMeans computes the conservative trust threshold: starting
// from the image mean, iteratively partition the 256-bin histogram and
// set the threshold to the mean of the two part-means, until it moves
// by less than 0.5. A part with no pixels counts as having the current
// threshold as its mean, so a uniform image keeps its own value.
func thresholdTwoMeans(image Image[uint8]) float64 {
	var hist [256]float64
	for _, v := range image.Pix {
		hist[v]++
	}

	var num, dom float64
	for i, v := range hist {
		num += float64(i) * v
		dom += v
	}
	if dom == 0 {
		return 0
	}
	thresh := num / dom

	for {
		last := thresh
		num, dom = 0, 0
		i := 0
		for ; float64(i) < thresh && i < 256; i++ {
			num += float64(i) * hist[i]
			dom += hist[i]
		}
		c0, c1 := last, last // an empty part keeps the current threshold as its mean
		if dom > 0 {
			c0 = num / dom
		}
		num, dom = 0, 0
		for ; i < 256; i++ {
			num += float64(i) * hist[i]
			dom += hist[i]
		}
		if dom > 0 {
			c1 = num / dom
		}
		thresh = (c1 + c0) / 2
		if math.Abs(last-thresh) <= 0.5 {
			break
		}
	}
	return thresh
}

// thresholdBottomFraction computes the relaxed trust threshold: the
// mean of pixels at or below the image's overall mean.
func thresholdBottomFraction(image Image[uint8]) float64 {
	var sum int
	for _, v := range image.Pix {
		sum += int(v)
	}
	if len(image.Pix) == 0 {
		return 0
	}
	mean := math.Floor(float64(sum) / float64(len(image.Pix)))

	var acc, count int
	for _, v := range image.Pix {
		if float64(v) <= mean {
			acc += int(v)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(acc) / float64(count)
}

// evalHalfSpace evaluates the half-space detector at (line, image, p),
// returning the asymmetry q = (R-L)/(R+L) and the two normalized sums.
func (e *Engine) evalHalfSpace(line *LineParams, image Image[uint8], p int) (q, r, l float64) {
	support := e.cfg.support()
	coff, pp := roundAnchorAndOffset(*line, p, image.Width)
	e.offsets.fill(image.Width, image.Height, support, line.Angle, pp)

	leftBase := e.halfSpaceBank.lookup(coff, line.Width, line.Angle)
	rightBase := e.halfSpaceBank.lookup(-coff, line.Width, line.Angle)

	// Unlike evalLine, this sums the full pair list (prefix and
	// border-clamped suffix alike): the half-space test still needs the
	// out-of-bounds contribution it borrows from the nearest edge pixel.
	for _, pr := range e.offsets.pairs {
		pixel := float64(image.Pix[pr.imageIndex])
		l += pixel * float64(e.halfSpaceBank.data[leftBase+pr.filterIndex])
		r += pixel * float64(e.halfSpaceBank.data[rightBase+pr.filterIndex])
	}

	q = (r - l) / (r + l)
	if e.halfSpaceBank.norm != 0 {
		r /= e.halfSpaceBank.norm
		l /= e.halfSpaceBank.norm
	}
	return q, r, l
}

// isLocalAreaTrustedConservative is the trace-start trust predicate: a
// two-means threshold, memoized per frame id rather than image pointer
// identity.
func (e *Engine) isLocalAreaTrustedConservative(line *LineParams, image Image[uint8], p int, frameID int) bool {
	if e.conservativeFrame != frameID {
		e.conservativeThresh = thresholdTwoMeans(image)
		e.conservativeFrame = frameID
	}
	q, r, l := e.evalHalfSpace(line, image, p)
	if r < e.conservativeThresh && l < e.conservativeThresh {
		return false
	}
	return math.Abs(q) <= e.cfg.HalfSpaceAsymmetry
}

// isLocalAreaTrusted is the relaxed, during-tracing trust predicate: a
// bottom-fraction-mean threshold, memoized per frame id.
func (e *Engine) isLocalAreaTrusted(line *LineParams, image Image[uint8], p int, frameID int) bool {
	if e.relaxedFrame != frameID {
		e.relaxedThresh = thresholdBottomFraction(image)
		e.relaxedFrame = frameID
	}
	q, r, l := e.evalHalfSpace(line, image, p)
	if r < e.relaxedThresh && l < e.relaxedThresh {
		return false
	}
	return math.Abs(q) <= e.cfg.HalfSpaceAsymmetry
}
