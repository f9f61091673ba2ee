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

	"gonum.org/v1/gonum/mat"
)

// Seed is an integer pixel with a pseudo-direction (cos/sin scaled by
// 100).
type Seed struct {
	XPnt, YPnt int
	XDir, YDir int
}

// pcaAccumulator collects Sx, Sy, Sxx, Syy, Sxy, n for one of the two
// corner-cut pairings of the spiral search.
type pcaAccumulator struct {
	sx, sy, sxx, syy, sxy float64
	n                     int
}

func (a *pcaAccumulator) add(x, y int) {
	fx, fy := float64(x), float64(y)
	a.sx += fx
	a.sy += fy
	a.sxy += fx * fy
	a.sxx += fx * fx
	a.syy += fy * fy
	a.n++
}

// principalAngle returns the collinearity statistic and slope angle of
// the accumulated points via the eigen-decomposition of their 2x2
// covariance matrix. Eigenvalues come from gonum.org/v1/gonum/mat's
// symmetric eigensolver; the slope angle uses the closed-form
// atan2(cxx-eig0, -cxy) derived from the dominant eigenvector.
func (a *pcaAccumulator) principalAngle() (stat, angle float64) {
	if a.n <= 3 {
		return 0, 0
	}
	n := float64(a.n)
	n2 := n * n
	cxx := a.sxx/n - a.sx*a.sx/n2
	cxy := a.sxy/n - a.sx*a.sy/n2
	cyy := a.syy/n - a.sy*a.sy/n2

	sym := mat.NewSymDense(2, []float64{cxx, cxy, cxy, cyy})
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return 0, 0
	}
	values := eig.Values(nil)
	eig0, eig1 := values[1], values[0] // ascending -> eig0 is the larger
	if eig0 == 0 {
		return 0, 0
	}
	stat = 1 - eig1/eig0
	angle = math.Atan2(cxx-eig0, -cxy)
	return stat, angle
}

// computeSeedFromPointEx walks a square spiral of radius maxr around p,
// collecting per-ring minima into the two corner-cut pairings and
// choosing the one with the larger collinearity statistic. It reports
// false ("no seed") within maxr of the image border.
func computeSeedFromPointEx(image Image[uint8], p, maxr int) (seed Seed, m, stat float64, ok bool) {
	stride := image.Width
	x, y := p%stride, p/stride

	if x < maxr || x >= image.Width-maxr || y < maxr || y >= image.Height-maxr {
		return Seed{}, 0, 0, false
	}

	var ab, cd pcaAccumulator // (ab, cd) pairing -> "left" grouping
	var ad, cb pcaAccumulator // (ad, cb) pairing -> "right" grouping

	cx, cy := 0, 0
	for i := 0; i < maxr; i++ {
		var abp, bbp, cbp, dbp int = -1, -1, -1, -1
		var abest, bbest, cbest, dbest uint8 = 255, 255, 255, 255
		maxj := 2 * i

		for j := 0; j < maxj; j++ {
			cy--
			tp := x + cx + stride*(y+cy)
			if v := image.Pix[tp]; v <= abest {
				abp, abest = tp, v
			}
		}
		for j := 0; j < maxj; j++ {
			cx--
			tp := x + cx + stride*(y+cy)
			if v := image.Pix[tp]; v <= bbest {
				bbp, bbest = tp, v
			}
		}
		for j := 0; j < maxj; j++ {
			cy++
			tp := x + cx + stride*(y+cy)
			if v := image.Pix[tp]; v <= cbest {
				cbp, cbest = tp, v
			}
		}
		for j := 0; j < maxj; j++ {
			cx++
			tp := x + cx + stride*(y+cy)
			if v := image.Pix[tp]; v <= dbest {
				dbp, dbest = tp, v
			}
		}
		cx++
		cy++

		addIfValid := func(acc *pcaAccumulator, best1, best2 uint8, p1, p2 int, requirePositive bool) {
			var bp int
			if best1 < best2 {
				bp = p1
			} else {
				bp = p2
			}
			if requirePositive && bp <= 0 {
				return
			}
			if !requirePositive && bp < 0 {
				return
			}
			acc.add(bp%stride, bp/stride)
		}

		addIfValid(&ab, abest, bbest, abp, bbp, false)
		addIfValid(&cd, cbest, dbest, cbp, dbp, true)
		addIfValid(&ad, abest, dbest, abp, dbp, false)
		addIfValid(&cb, cbest, bbest, cbp, bbp, true)
	}

	left := mergeAccumulators(ab, cd)
	right := mergeAccumulators(ad, cb)

	lstat, lm := left.principalAngle()
	rstat, rm := right.principalAngle()

	var out Seed
	if lstat > rstat {
		out = Seed{
			XPnt: int(left.sx / float64(left.n)),
			YPnt: int(left.sy / float64(left.n)),
			XDir: int(math.Round(100 * math.Cos(lm))),
			YDir: int(math.Round(100 * math.Sin(lm))),
		}
		return out, lm, lstat, true
	}
	out = Seed{
		XPnt: int(right.sx / float64(right.n)),
		YPnt: int(right.sy / float64(right.n)),
		XDir: int(math.Round(100 * math.Cos(rm))),
		YDir: int(math.Round(100 * math.Sin(rm))),
	}
	return out, rm, rstat, true
}

func mergeAccumulators(a, b pcaAccumulator) pcaAccumulator {
	return pcaAccumulator{
		sx: a.sx + b.sx, sy: a.sy + b.sy,
		sxx: a.sxx + b.sxx, syy: a.syy + b.syy, sxy: a.sxy + b.sxy,
		n: a.n + b.n,
	}
}

// computeSeedFromPoint is the simplified wrapper used by the walker's
// tunneling re-acquisition step.
func computeSeedFromPoint(image Image[uint8], p, maxr int) (Seed, bool) {
	s, _, _, ok := computeSeedFromPointEx(image, p, maxr)
	return s, ok
}

// computeSeedFromPointField sweeps the image on a lattice, once by rows
// and once by columns, iteratively polishing each lattice point and
// accumulating vote/slope/stat images at the converged centers.
func computeSeedFromPointField(cfg Config, image Image[uint8], hist Image[int], slope, stat Image[float32]) {
	stride := image.Width

	iterate := func(p0 int, iterCap int) {
		p := p0
		newp := p0
		var m, st float64
		var ok bool
		for i := 0; i < iterCap; i++ {
			p = newp
			var seed Seed
			seed, m, st, ok = computeSeedFromPointEx(image, p, cfg.MaxR)
			if !ok {
				return
			}
			newp = seed.XPnt + stride*seed.YPnt
			if newp == p || st < cfg.IterationThres {
				break
			}
		}
		if ok && st > cfg.AccumThres {
			hist.Pix[p]++
			slope.Pix[p] += float32(m)
			stat.Pix[p] += float32(st)
		}
	}

	for x := 0; x < stride; x++ {
		for y := 0; y < image.Height; y += cfg.LatticeSpacing {
			iterate(x+y*stride, cfg.MaxIter)
		}
	}

	// The vertical pass is intentionally bounded by the spiral search
	// radius rather than the row pass's iteration cap.
	for x := 0; x < stride; x += cfg.LatticeSpacing {
		for y := 0; y < image.Height; y++ {
			iterate(x+y*stride, cfg.MaxR)
		}
	}
}

// buildSeedMask normalizes the slope accumulator by vote count and
// marks pixels whose accumulated (summed, not averaged) stat exceeds
// SeedThres.
func buildSeedMask(cfg Config, s *scratch) {
	for i, h := range s.hist.Pix {
		if h > 0 {
			s.slope.Pix[i] /= float32(h)
		}
	}
	for i, st := range s.stat.Pix {
		if float64(st) > cfg.SeedThres {
			s.mask.Pix[i] = 1
		}
	}
}
