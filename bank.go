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

// detectorBank is a 5D tensor of filter weights keyed by
// (offset_bin, width_bin, angle_bin, row, col), precomputed on build
// and immutable afterwards.
type detectorBank struct {
	offMin, offStep float64
	nOff            int
	widMin, widStep float64
	nWid            int
	angStep         float64 // (pi/4)/angleStep
	nAng            int
	support         int
	data            []float32 // flattened [nOff][nWid][nAng][support*support]
	norm            float64   // half-space banks only: sum of weights at bin (0,0,0)
}

// isSmallAngle reports whether angle (in radians, any real value) falls
// within [-pi/4, pi/4) modulo pi, the orientation classifier shared by
// the pixel-offset cache and the bank-lookup transpose.
func isSmallAngle(angle float64) bool {
	const qpi = math.Pi / 4
	const hpi = math.Pi / 2
	n := int(math.Floor((angle - qpi) / hpi))
	return n%2 != 0
}

// wrapHalfPlane wraps th into [-pi/2, pi/2).
func wrapHalfPlane(th float64) float64 {
	for th < -math.Pi/2 {
		th += math.Pi
	}
	for th >= math.Pi/2 {
		th -= math.Pi
	}
	return th
}

// wrap2Pi wraps th into [-pi, pi).
func wrap2Pi(th float64) float64 {
	for th < -math.Pi {
		th += 2 * math.Pi
	}
	for th >= math.Pi {
		th -= 2 * math.Pi
	}
	return th
}

// buildGrid computes the number of quantization bins for each of the
// three parameter axes.
func buildGrid(cfg Config) (nOff, nWid, nAng int, angStep float64) {
	nOff = int(math.Round(2.0/cfg.OffsetStep)) + 1
	nWid = int(math.Round((cfg.WidthMax-cfg.WidthMin)/cfg.WidthStep)) + 1
	angStep = (math.Pi / 4) / float64(cfg.AngleStep)
	nAng = cfg.AngleStep + 1
	return
}

// lookup maps a continuous (offset, width, angle) query to the base
// index of the nearest filter bin, applying the transpose/wrap/negate/
// quantize procedure that folds the bank's quarter-plane storage back
// out to any angle and offset sign.
func (b *detectorBank) lookup(offset, width, angle float64) int {
	if !isSmallAngle(angle) {
		angle = 3*math.Pi/2 - angle // transpose; offset sign unchanged
	}
	angle = wrap2Pi(angle)
	if angle < -math.Pi/2 || angle >= math.Pi/2 {
		angle = wrapHalfPlane(angle)
		offset = -offset
	}

	oBin := int(math.Round((offset - b.offMin) / b.offStep))
	oBin = clampInt(oBin, 0, b.nOff-1)
	wBin := int(math.Round((width - b.widMin) / b.widStep))
	wBin = clampInt(wBin, 0, b.nWid-1)
	aBin := int(math.Round(angle / b.angStep))
	aBin = clampInt(aBin, -(b.nAng - 1), b.nAng-1)
	if aBin < 0 {
		aBin = -aBin
	}

	support2 := b.support * b.support
	return (oBin*b.nWid*b.nAng + wBin*b.nAng + aBin) * support2
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// innerThickness is the thickness of the line detector's three central
// (positive) stripes. outerThickness is derived so that the two
// negative outer stripes exactly cancel the three positive stripes'
// area, giving the detector zero mean by construction:
// 3*innerThickness == 2*outerThickness.
const innerThickness = 0.7

var outerThickness = 1.5 * innerThickness

// buildLineDetectorBank renders the centered oriented-line detector
// bank: for each (offset, width, angle) bin, five rotated rectangles
// (one inner, two side, two outer) are rasterized and summed with
// signed weights.
func buildLineDetectorBank(cfg Config) *detectorBank {
	nOff, nWid, nAng, angStep := buildGrid(cfg)
	support := cfg.support()
	b := &detectorBank{
		offMin: -1.0, offStep: cfg.OffsetStep, nOff: nOff,
		widMin: cfg.WidthMin, widStep: cfg.WidthStep, nWid: nWid,
		angStep: angStep, nAng: nAng,
		support: support,
	}
	support2 := support * support
	b.data = make([]float32, nOff*nWid*nAng*support2)

	center := vec.Vec2{X: float64(support) / 2, Y: float64(support) / 2}
	length := float64(2 * cfg.TLen) // stripes stop short of the support edge, so rotated bins are not clipped

	for oi := 0; oi < nOff; oi++ {
		offset := b.offMin + float64(oi)*b.offStep
		for wi := 0; wi < nWid; wi++ {
			width := b.widMin + float64(wi)*b.widStep
			for ai := 0; ai < nAng; ai++ {
				angle := float64(ai) * b.angStep
				base := (oi*nWid*nAng + wi*nAng + ai) * support2
				renderLineDetector(b.data[base:base+support2], support, center, length, offset, width, angle)
			}
		}
	}
	return b
}

func renderLineDetector(dst []float32, support int, center vec.Vec2, length, offset, width, angle float64) {
	sideOffset := width / 2
	outerOffset := sideOffset + innerThickness/2 + outerThickness/2

	add := func(normalOffset, thickness, weight float64) {
		poly := rotatedRectAround(length, thickness, angle, center, offset+normalOffset)
		cov := rasterizeCoverage(poly, support)
		for i, v := range cov {
			dst[i] += float32(weight * v)
		}
	}

	add(0, innerThickness, +1)
	add(+sideOffset, innerThickness, +1)
	add(-sideOffset, innerThickness, +1)
	add(+outerOffset, outerThickness, -1)
	add(-outerOffset, outerThickness, -1)
}

// rotatedRectAround builds a rectangle of the given length (along the
// tangent direction) and thickness (along the normal direction),
// offset by normalOffset along the normal from center, then rotated by
// angle about center.
func rotatedRectAround(length, thickness, angle float64, center vec.Vec2, normalOffset float64) []vec.Vec2 {
	hl, ht := length/2, thickness/2
	local := []vec.Vec2{
		{X: -hl, Y: normalOffset - ht},
		{X: hl, Y: normalOffset - ht},
		{X: hl, Y: normalOffset + ht},
		{X: -hl, Y: normalOffset + ht},
	}
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	out := make([]vec.Vec2, len(local))
	for i, p := range local {
		out[i] = vec.Vec2{
			X: center.X + p.X*cosA - p.Y*sinA,
			Y: center.Y + p.X*sinA + p.Y*cosA,
		}
	}
	return out
}

// buildHalfSpaceDetectorBank renders the half-space detector: a
// unit-weight rectangle above the nominal line offset, multiplicatively
// masked by a 12-sided disc of radius TLen centered on the offset.
// Geometry does not depend on width, so the render is computed once
// per (offset, angle) and copied across all width bins.
func buildHalfSpaceDetectorBank(cfg Config) *detectorBank {
	nOff, nWid, nAng, angStep := buildGrid(cfg)
	support := cfg.support()
	b := &detectorBank{
		offMin: -1.0, offStep: cfg.OffsetStep, nOff: nOff,
		widMin: cfg.WidthMin, widStep: cfg.WidthStep, nWid: nWid,
		angStep: angStep, nAng: nAng,
		support: support,
	}
	support2 := support * support
	b.data = make([]float32, nOff*nWid*nAng*support2)

	center := vec.Vec2{X: float64(support) / 2, Y: float64(support) / 2}

	for oi := 0; oi < nOff; oi++ {
		offset := b.offMin + float64(oi)*b.offStep
		for ai := 0; ai < nAng; ai++ {
			angle := float64(ai) * b.angStep
			cell := make([]float32, support2)
			renderHalfSpaceDetector(cell, support, center, offset, angle, float64(cfg.TLen))
			for wi := 0; wi < nWid; wi++ {
				base := (oi*nWid*nAng + wi*nAng + ai) * support2
				copy(b.data[base:base+support2], cell)
			}
		}
	}

	b.norm = sumWeights(b.data[:support2])
	return b
}

func renderHalfSpaceDetector(dst []float32, support int, center vec.Vec2, offset, angle, radius float64) {
	rectLen := 3 * float64(support) // long enough to always reach past the grid edge
	rectPoly := rotatedRectAround(rectLen, rectLen/2, angle, center, offset+rectLen/4)
	rectCov := rasterizeCoverage(rectPoly, support)

	discCenterLocal := vec.Vec2{X: 0, Y: offset}
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	discCenter := vec.Vec2{
		X: center.X + discCenterLocal.X*cosA - discCenterLocal.Y*sinA,
		Y: center.Y + discCenterLocal.X*sinA + discCenterLocal.Y*cosA,
	}
	discPoly := dodecagon(radius, discCenter)
	discCov := rasterizeCoverage(discPoly, support)

	for i := range dst {
		dst[i] = float32(rectCov[i] * discCov[i])
	}
}

func sumWeights(data []float32) float64 {
	var s float64
	for _, v := range data {
		s += float64(v)
	}
	return s
}
