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

const tailCompareLen = 20

// eliminateRedundant removes segments whose tails track the same
// whisker as another segment's tail, keeping whichever of the pair has
// the larger raw (non-length-normalized) cumulative score. The
// surviving set is compacted in place; the outer scan index is
// intentionally restarted at 1 after any removal rather than resuming
// where the removal happened.
func eliminateRedundant(segs []WhiskerSegment, thres float64) []WhiskerSegment {
	i := 1
	for i < len(segs) {
		removed := false
		for j := 0; j < i; j++ {
			if segmentsOverlap(segs[i], segs[j], thres) {
				if cumulativeScore(segs[i]) > cumulativeScore(segs[j]) {
					segs = append(segs[:j], segs[j+1:]...)
				} else {
					segs = append(segs[:i], segs[i+1:]...)
				}
				removed = true
				break
			}
		}
		if removed {
			i = 1
			continue
		}
		i++
	}
	return segs
}

// cumulativeScore sums the raw per-vertex detector scores of a
// segment, deliberately not normalized by length.
func cumulativeScore(w WhiskerSegment) float64 {
	var s float64
	for _, v := range w.Scores {
		s += float64(v)
	}
	return s
}

// segmentsOverlap sums the vertex-to-vertex distance between the last
// tailCompareLen vertices of a and b, working backward from each
// segment's end, and declares the two redundant if that sum falls at
// or below thres. Only the tail-to-tail alignment is compared; two
// whiskers that happen to start near each other but diverge are not
// redundant.
func segmentsOverlap(a, b WhiskerSegment, thres float64) bool {
	na, nb := len(a.X), len(b.X)
	if na == 0 || nb == 0 {
		return false
	}
	n := tailCompareLen
	if n > na {
		n = na
	}
	if n > nb {
		n = nb
	}
	var sum float64
	for k := 0; k < n; k++ {
		ia, ib := na-1-k, nb-1-k
		dx := float64(a.X[ia]) - float64(b.X[ib])
		dy := float64(a.Y[ia]) - float64(b.Y[ib])
		sum += math.Hypot(dx, dy)
	}
	return sum <= thres
}
