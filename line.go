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

// LineParams represents a candidate line by offset (pixels, normal to
// the line), angle (radians), width (pixels), and score (negated
// correlation).
type LineParams struct {
	Offset float64
	Angle  float64
	Width  float64
	Score  float64
}

// lineParamFromSeed converts a seed into initial line parameters,
// snapping the angle to the nearest angle-step grid point and flipping
// direction so the line points along positive x.
func lineParamFromSeed(cfg Config, s Seed) LineParams {
	ain := (math.Pi / 4) / float64(cfg.AngleStep)
	var angle float64
	if s.XDir < 0 {
		angle = math.Round(math.Atan2(float64(-s.YDir), float64(-s.XDir))/ain) * ain
	} else {
		angle = math.Round(math.Atan2(float64(s.YDir), float64(s.XDir))/ain) * ain
	}
	return LineParams{Offset: 0.5, Angle: angle, Width: 2.0}
}

// roundAnchorAndOffset rounds pixel anchor p to the pixel nearest the
// line's continuous position, returning the corrected offset and the
// new anchor index. The centering error is bounded below one pixel.
func roundAnchorAndOffset(line LineParams, p, stride int) (offset float64, newP int) {
	ex := math.Cos(line.Angle + math.Pi/2)
	ey := math.Sin(line.Angle + math.Pi/2)
	px := float64(p % stride)
	py := float64(p / stride)
	rx := px + ex*line.Offset
	ry := py + ey*line.Offset
	ppx := math.Round(rx)
	ppy := math.Round(ry)
	drx := rx - ppx
	dry := ry - ppy
	t := drx*ex + dry*ey
	return t, int(ppx) + stride*int(ppy)
}

// moveLine advances the line by one pixel along its tangent in the
// given direction, updating offset to the projection onto the line's
// normal at the newly rounded anchor.
func moveLine(line *LineParams, p, stride, direction int) int {
	th := line.Angle
	lx, ly := math.Cos(th), math.Sin(th)
	ex, ey := math.Cos(th+math.Pi/2), math.Sin(th+math.Pi/2)
	rx0 := float64(p%stride) + ex*line.Offset
	ry0 := float64(p/stride) + ey*line.Offset
	rx1 := rx0 + float64(direction)*lx
	ry1 := ry0 + float64(direction)*ly
	ppx := math.Round(rx1)
	ppy := math.Round(ry1)
	drx := rx1 - ppx
	dry := ry1 - ppy
	t := drx*ex + dry*ey
	line.Offset = t
	return int(ppx) + stride*int(ppy)
}

// evalLine evaluates the line detector's correlation with the image at
// anchor p, returning the negated sum (larger is better: whiskers are
// darker than the face, and the filter positively weights the ridge and
// negatively weights its flanks, so a dark ridge gives a negative sum and
// a large positive score).
func (e *Engine) evalLine(line *LineParams, image Image[uint8], p int) float64 {
	support := e.cfg.support()
	coff, pp := roundAnchorAndOffset(*line, p, image.Width)
	e.offsets.fill(image.Width, image.Height, support, line.Angle, pp)

	base := e.lineBank.lookup(coff, line.Width, line.Angle)
	var s float64
	pairs := e.offsets.pairs
	for i := 0; i < e.offsets.npx; i++ {
		pr := pairs[i]
		s += float64(image.Pix[pr.imageIndex]) * float64(e.lineBank.data[base+pr.filterIndex])
	}
	return -s
}

func computeDxDy(line *LineParams) (dx, dy float64) {
	ex := math.Cos(line.Angle + math.Pi/2)
	ey := math.Sin(line.Angle + math.Pi/2)
	return ex * line.Offset, ey * line.Offset
}
