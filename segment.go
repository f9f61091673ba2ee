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

// record is one traced vertex: position, local thickness, and the
// per-step detector score that produced it.
type record struct {
	x, y, thick, score float64
}

// WhiskerSegment is a single traced whisker centerline, ordered from
// one free end to the other.
type WhiskerSegment struct {
	ID   int32
	Time int32

	X      []float32
	Y      []float32
	Thick  []float32
	Scores []float32
}

// newWhiskerSegment packs a backward-then-forward record walk into a
// WhiskerSegment. records must already be in final vertex order.
func newWhiskerSegment(records []record) WhiskerSegment {
	seg := WhiskerSegment{
		X:      make([]float32, len(records)),
		Y:      make([]float32, len(records)),
		Thick:  make([]float32, len(records)),
		Scores: make([]float32, len(records)),
	}
	for i, r := range records {
		seg.X[i] = float32(r.x)
		seg.Y[i] = float32(r.y)
		seg.Thick[i] = float32(r.thick)
		seg.Scores[i] = float32(r.score)
	}
	return seg
}

// Length returns the summed Euclidean length of the segment's
// polyline, vertex to vertex.
func (w WhiskerSegment) Length() float64 {
	if len(w.X) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(w.X); i++ {
		dx := float64(w.X[i]) - float64(w.X[i-1])
		dy := float64(w.Y[i]) - float64(w.Y[i-1])
		total += math.Hypot(dx, dy)
	}
	return total
}
