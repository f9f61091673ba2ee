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

// Image is a row-major width*height buffer of pixel values. The tracer
// borrows Image[uint8] frames from the caller and never mutates them;
// Image[float32] is used internally for scratch accumulators.
type Image[T any] struct {
	Width  int
	Height int
	Pix    []T
}

// NewImage allocates a zeroed image of the given size.
func NewImage[T any](width, height int) Image[T] {
	return Image[T]{Width: width, Height: height, Pix: make([]T, width*height)}
}

// At returns the pixel at (x, y).
func (im Image[T]) At(x, y int) T {
	return im.Pix[y*im.Width+x]
}

// Set stores the pixel at (x, y).
func (im Image[T]) Set(x, y int, v T) {
	im.Pix[y*im.Width+x] = v
}

// InBounds reports whether (x, y) lies within the image.
func (im Image[T]) InBounds(x, y int) bool {
	return x >= 0 && x < im.Width && y >= 0 && y < im.Height
}

// scratch holds the four per-frame accumulator images used by the seed
// field, sized to match the current frame and reused across calls to
// FindSegments: buffers are reallocated whenever the frame size changes
// and only cleared otherwise.
type scratch struct {
	hist   Image[int]     // vote count per pixel
	slope  Image[float32] // accumulated slope per pixel
	stat   Image[float32] // accumulated collinearity stat per pixel
	mask   Image[uint8]   // seed-candidate mask
	width  int
	height int
}

// ensure resizes (or leaves alone) the scratch images so they match the
// given frame dimensions, clearing them for a fresh frame.
func (s *scratch) ensure(width, height int) {
	if s.width != width || s.height != height {
		s.hist = NewImage[int](width, height)
		s.slope = NewImage[float32](width, height)
		s.stat = NewImage[float32](width, height)
		s.mask = NewImage[uint8](width, height)
		s.width = width
		s.height = height
		return
	}
	clear(s.hist.Pix)
	clear(s.slope.Pix)
	clear(s.stat.Pix)
	clear(s.mask.Pix)
}
