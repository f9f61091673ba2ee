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

// offsetPair is a paired (image-index, filter-index) entry in a pixel-
// offset list.
type offsetPair struct {
	imageIndex  int
	filterIndex int
}

// offsetCache holds the pixel-offset list for the most recently
// queried (anchor, orientation class), regenerated only on change. It
// is a field on Engine rather than a package-level static, so that
// concurrent Engines never share or race on the cache.
type offsetCache struct {
	pairs       []offsetPair
	npx         int // prefix length: in-bounds pairs
	lastAnchor  int
	lastSmall   int // 0/1 = last orientation class; an unfilled cache has imageWidth 0
	imageWidth  int
	imageHeight int
}

// fill populates the cache for anchor pixel p (row-major index),
// support size, and angle, against an image of the given dimensions.
// It is a no-op if the cache already matches (p, orientation class).
func (c *offsetCache) fill(width, height, support int, angle float64, p int) {
	small := 0
	if isSmallAngle(angle) {
		small = 1
	}
	if p == c.lastAnchor && small == c.lastSmall && width == c.imageWidth && height == c.imageHeight {
		return
	}
	c.lastAnchor = p
	c.lastSmall = small
	c.imageWidth = width
	c.imageHeight = height

	half := support / 2
	px, py := p%width, p/width
	ox, oy := px-half, py-half

	need := support * support
	if cap(c.pairs) < need {
		c.pairs = make([]offsetPair, need)
	}
	c.pairs = c.pairs[:need]

	snpx := 0
	ioob := need

	if small == 1 {
		for i := 0; i < support; i++ {
			ty := oy + i
			tyOK := ty >= 0 && ty < height
			if tyOK {
				for j := 0; j < support; j++ {
					tx := ox + j
					if tx >= 0 && tx < width {
						c.pairs[snpx] = offsetPair{imageIndex: width*ty + tx, filterIndex: support*i + j}
						snpx++
					}
				}
			}
			for j := 0; j < support; j++ {
				tx := ox + j
				if !tyOK || tx < 0 || tx >= width {
					ioob--
					c.pairs[ioob] = offsetPair{
						imageIndex:  width*clampInt(ty, 0, height-1) + clampInt(tx, 0, width-1),
						filterIndex: support*i + j,
					}
				}
			}
		}
	} else {
		for i := 0; i < support; i++ {
			tx := ox + i
			txOK := tx >= 0 && tx < width
			if txOK {
				for j := 0; j < support; j++ {
					ty := oy + j
					if ty >= 0 && ty < height {
						c.pairs[snpx] = offsetPair{imageIndex: width*ty + tx, filterIndex: support*i + j}
						snpx++
					}
				}
			}
			for j := 0; j < support; j++ {
				ty := oy + j
				if !txOK || ty < 0 || ty >= height {
					ioob--
					c.pairs[ioob] = offsetPair{
						imageIndex:  width*clampInt(ty, 0, height-1) + clampInt(tx, 0, width-1),
						filterIndex: support*i + j,
					}
				}
			}
		}
	}

	c.npx = snpx
}
