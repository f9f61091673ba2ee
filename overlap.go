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

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// This file computes the exact fraction of each pixel's area covered by
// a small closed polygon (a rotated rectangle, or a 12-sided disc
// approximation), using the signed-area scanline accumulation an
// antialiased path rasterizer uses for coverage-based fills. A general
// rasterizer walks an arbitrary multi-subpath vector path against a
// clipped device viewport; the detector banks only ever need one convex
// polygon rasterized onto one small, unclipped n*n support grid, so the
// edge list and bounding-box bookkeeping collapse into the loop below.

// polyEdge is a single polygon edge in grid coordinates.
type polyEdge struct {
	x0, y0, x1, y1 float64
	dxdy           float64
}

// buildEdges turns a closed polygon (vertices not repeating the first
// point) into edges, skipping near-horizontal edges (they contribute no
// vertical coverage and would otherwise divide by a near-zero dy).
func buildEdges(poly []vec.Vec2) []polyEdge {
	const horizontalEdgeThreshold = 1e-9
	edges := make([]polyEdge, 0, len(poly))
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		dy := b.Y - a.Y
		if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
			continue
		}
		edges = append(edges, polyEdge{
			x0: a.X, y0: a.Y, x1: b.X, y1: b.Y,
			dxdy: (b.X - a.X) / dy,
		})
	}
	return edges
}

// rasterizeCoverage returns an n*n row-major buffer of area-fraction
// coverage ([0,1]) for the polygon, using the nonzero winding rule.
// Callers translate/rotate the polygon into the [0,n]x[0,n] frame; any
// part outside it is clipped away.
func rasterizeCoverage(poly []vec.Vec2, n int) []float64 {
	edges := buildEdges(poly)
	cover := make([]float64, n)
	area := make([]float64, n)
	out := make([]float64, n*n)

	for y := 0; y < n; y++ {
		for i := range cover {
			cover[i] = 0
			area[i] = 0
		}
		yTop, yBot := float64(y), float64(y+1)
		for ei := range edges {
			accumulateRow(&edges[ei], yTop, yBot, n, cover, area)
		}
		integrateRowNonZero(cover, area, out[y*n:(y+1)*n])
	}
	return out
}

// accumulateRow adds one edge's contribution to the cover/area buffers
// for scanline row [yTop, yBot).
func accumulateRow(e *polyEdge, yTop, yBot float64, n int, cover, area []float64) {
	edgeYMin, edgeYMax := math.Min(e.y0, e.y1), math.Max(e.y0, e.y1)
	top := math.Max(yTop, edgeYMin)
	bot := math.Min(yBot, edgeYMax)
	if bot <= top {
		return
	}

	sign := 1.0
	if e.y1 < e.y0 {
		sign = -1.0
	}

	xAtTop := e.x0 + e.dxdy*(top-e.y0)
	xAtBot := e.x0 + e.dxdy*(bot-e.y0)
	xLeft, xRight := xAtTop, xAtBot
	if xLeft > xRight {
		xLeft, xRight = xRight, xLeft
	}

	pixLeft := int(math.Floor(xLeft))
	pixRight := int(math.Floor(xRight))

	if pixRight < 0 {
		coverVal := sign * (bot - top)
		cover[0] += coverVal
		area[0] += coverVal
		return
	}
	if pixLeft >= n {
		return
	}

	if pixLeft == pixRight {
		accumulateColumn(e, top, bot, sign, pixLeft, n, cover, area)
		return
	}

	dydx := 1 / e.dxdy
	for pix := pixLeft; pix <= pixRight; pix++ {
		yAtPixLeft := e.y0 + dydx*(float64(pix)-e.x0)
		yAtPixRight := e.y0 + dydx*(float64(pix+1)-e.x0)
		segYMin := math.Max(math.Min(yAtPixLeft, yAtPixRight), top)
		segYMax := math.Min(math.Max(yAtPixLeft, yAtPixRight), bot)
		segDy := segYMax - segYMin
		if segDy <= 0 {
			continue
		}
		coverVal := sign * segDy
		yMid := (segYMin + segYMax) / 2
		xMid := e.x0 + e.dxdy*(yMid-e.y0)
		xFrac := xMid - float64(pix)
		areaVal := coverVal * (1 - xFrac)

		if pix < 0 {
			cover[0] += coverVal
			area[0] += coverVal
		} else if pix < n {
			cover[pix] += coverVal
			area[pix] += areaVal
		}
	}
}

func accumulateColumn(e *polyEdge, top, bot, sign float64, pix, n int, cover, area []float64) {
	coverVal := sign * (bot - top)
	if pix < 0 {
		cover[0] += coverVal
		area[0] += coverVal
		return
	}
	if pix >= n {
		return
	}
	yMid := (top + bot) / 2
	xMid := e.x0 + e.dxdy*(yMid-e.y0)
	xFrac := xMid - float64(pix)
	areaVal := coverVal * (1 - xFrac)
	cover[pix] += coverVal
	area[pix] += areaVal
}

// integrateRowNonZero folds accumulated cover/area into clamped [0,1]
// coverage values for one row, writing into out.
func integrateRowNonZero(cover, area, out []float64) {
	accum := 0.0
	for i := range cover {
		raw := accum + area[i]
		accum += cover[i]
		cov := math.Abs(raw)
		if cov > 1 {
			cov = 1
		}
		out[i] = cov
	}
}

// dodecagon returns the 12 vertices (CCW) of a regular 12-sided polygon
// approximating a disc of the given radius, centered at center.
func dodecagon(radius float64, center vec.Vec2) []vec.Vec2 {
	const sides = 12
	out := make([]vec.Vec2, sides)
	for i := 0; i < sides; i++ {
		theta := 2 * math.Pi * float64(i) / sides
		out[i] = vec.Vec2{
			X: center.X + radius*math.Cos(theta),
			Y: center.Y + radius*math.Sin(theta),
		}
	}
	return out
}
