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

// traceWhisker grows a whisker centerline outward in both directions
// from a seed pixel, stopping each direction when the detector signal
// drops below the frame's termination floor or the walk runs off the
// image. It returns false if the seed's own local area is not trusted
// (the conservative two-means test) or if adjustment at the seed
// immediately fails.
func (e *Engine) traceWhisker(frameID int, image, background Image[uint8], seedP int) (WhiskerSegment, bool) {
	seed, _, _, ok := computeSeedFromPointEx(image, seedP, e.cfg.MaxR)
	if !ok {
		return WhiskerSegment{}, false
	}

	line := lineParamFromSeed(e.cfg, seed)
	p := seedP
	line.Score = e.evalLine(&line, image, p)

	if !e.isLocalAreaTrustedConservative(&line, image, p, frameID) {
		return WhiskerSegment{}, false
	}

	rang := interval{min: -math.Pi / 2, max: math.Pi / 2}
	roff := interval{min: -1, max: 1}
	rwid := interval{min: e.cfg.WidthMin, max: e.cfg.WidthMax}

	if !e.adjustLineStart(&line, image, p, rang, roff, rwid) {
		return WhiskerSegment{}, false
	}

	seedRecord := record{x: float64(p % image.Width), y: float64(p / image.Width), thick: line.Width, score: line.Score}

	forward := e.walkDirection(frameID, image, background, line, p, +1, rang, roff, rwid)
	backward := e.walkDirection(frameID, image, background, line, p, -1, rang, roff, rwid)

	records := make([]record, 0, len(forward)+len(backward)+1)
	for i := len(backward) - 1; i >= 0; i-- {
		records = append(records, backward[i])
	}
	records = append(records, seedRecord)
	records = append(records, forward...)

	if len(records) < 2 {
		return WhiskerSegment{}, false
	}
	return newWhiskerSegment(records), true
}

// walkDirection advances line from anchor p one pixel at a time along
// direction (+1 or -1), coordinate-descent adjusting at every step,
// until the signal falls below the frame's termination floor, the walk
// leaves the image, or too many consecutive untrusted steps accumulate
// while tunneling through an untrusted patch.
//
// Adjustment runs every step, tunneling or not; a failed adjustment or a
// failed trust test, either one alone, drives the walk into tunneling. Once tunneling, a reacquired seed is accepted only if it
// passes adjustment, clears the termination floor, is itself trusted,
// and hasn't drifted too far from the line as it stood when tunneling
// began; otherwise the walk rolls back to that pre-tunnel snapshot and
// keeps tunneling from there.
func (e *Engine) walkDirection(frameID int, image, background Image[uint8], line LineParams, p, direction int, rang, roff, rwid interval) []record {
	var out []record
	sigmin := e.cfg.sigmin()
	tunnelMoves := 0
	tunneling := false
	var oldP int
	var oldLine LineParams

	for {
		ex, lx := math.Cos(line.Angle+math.Pi/2), math.Cos(line.Angle)
		if nx := math.Round(float64(p%image.Width) + ex*line.Offset + float64(direction)*lx); nx < 0 || nx >= float64(image.Width) {
			break // the step would leave the image through its left or right edge
		}
		newP := moveLine(&line, p, image.Width, direction)
		if !image.InBounds(newP%image.Width, newP/image.Width) {
			break
		}
		p = newP

		adjusted := e.adjustLineStart(&line, image, p, rang, roff, rwid)
		line.Score = e.evalLine(&line, image, p)
		if line.Score < sigmin {
			break
		}

		trusted := e.isLocalAreaTrusted(&line, image, p, frameID)
		if !(adjusted && trusted) {
			if !tunneling {
				tunneling = true
				tunnelMoves = 0
				oldP, oldLine = p, line
			}
			tunnelMoves++
			if tunnelMoves > e.cfg.HalfSpaceTunnelingMaxMoves {
				break
			}
			if seed, ok := computeSeedFromPoint(image, p, 3); ok {
				candidate := lineParamFromSeed(e.cfg, seed)
				dx, dy := math.Cos(line.Angle), math.Sin(line.Angle)
				cdx, cdy := math.Cos(candidate.Angle), math.Sin(candidate.Angle)
				if dx*cdx+dy*cdy < 0 {
					candidate.Angle = wrap2Pi(candidate.Angle + math.Pi)
				}
				candidate.Width = line.Width
				candidateAdjusted := e.adjustLineStart(&candidate, image, p, rang, roff, rwid)
				candidate.Score = e.evalLine(&candidate, image, p)
				candidateTrusted := e.isLocalAreaTrusted(&candidate, image, p, frameID)
				valid := candidateAdjusted && candidate.Score >= sigmin && candidateTrusted &&
					!isChangeTooBig(candidate, oldLine, 2*e.cfg.MaxDeltaAngle, 10, 10)
				if valid {
					line = candidate
					tunneling = false
				} else {
					p, line = oldP, oldLine
				}
			} else {
				p, line = oldP, oldLine
			}
			continue
		}
		tunneling = false

		out = append(out, record{
			x:     float64(p%image.Width) + dxOffset(&line),
			y:     float64(p/image.Width) + dyOffset(&line),
			thick: line.Width,
			score: line.Score,
		})
	}
	return out
}

func dxOffset(line *LineParams) float64 {
	dx, _ := computeDxDy(line)
	return dx
}

func dyOffset(line *LineParams) float64 {
	_, dy := computeDxDy(line)
	return dy
}
