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

// interval bounds one of the three coordinate-descent axes.
type interval struct {
	min, max float64
}

// isChangeTooBig reports whether newLine drifted from old by more than
// the given angle (degrees), width, or offset limits.
func isChangeTooBig(newLine, old LineParams, alim, wlim, olim float64) bool {
	dth := old.Angle - newLine.Angle
	dw := old.Width - newLine.Width
	doff := old.Offset - newLine.Offset
	if math.Abs(dth*180/math.Pi) > alim {
		return true
	}
	if math.Abs(dw) > wlim {
		return true
	}
	if math.Abs(doff) > olim {
		return true
	}
	return false
}

// adjustLineStart performs coordinate-descent refinement of (angle,
// offset, width) at a fixed anchor p, skipping score plateaus smaller
// than 1e-5 and rejecting a coordinate's update if neither direction
// improves the score. It returns false (and restores the
// pre-adjustment line) if the net change exceeds
// MaxDeltaAngle/Width/Offset.
func (e *Engine) adjustLineStart(line *LineParams, image Image[uint8], p int, rang, roff, rwid interval) (accepted bool) {
	ain := (math.Pi / 4) / float64(e.cfg.AngleStep)
	backup := *line

	for {
		better := false
		best := line.Score

		// angle
		last := best
		x := line.Angle
		for {
			line.Angle -= ain
			v := e.evalLine(line, image, p)
			if math.Abs(v-last) >= 1e-5 || line.Angle < rang.min {
				break
			}
		}
		v := e.evalLine(line, image, p)
		if v-best > 1e-5 && line.Angle >= rang.min {
			best, better = v, true
		} else {
			line.Angle = x
			for {
				line.Angle += ain
				v = e.evalLine(line, image, p)
				if math.Abs(v-last) >= 1e-5 || line.Angle > rang.max {
					break
				}
			}
			if v-best > 1e-5 && line.Angle <= rang.max {
				best, better = v, true
			} else {
				line.Angle = x
			}
		}

		// offset
		last = best
		xo := line.Offset
		for {
			line.Offset -= e.cfg.OffsetStep
			v = e.evalLine(line, image, p)
			if math.Abs(v-last) >= 1e-5 || line.Offset < roff.min {
				break
			}
		}
		if v-best > 1e-5 && line.Offset >= roff.min {
			best, better = v, true
		} else {
			line.Offset = xo
			for {
				line.Offset += e.cfg.OffsetStep
				v = e.evalLine(line, image, p)
				if math.Abs(v-last) >= 1e-5 || line.Offset > roff.max {
					break
				}
			}
			if v-best > 1e-5 && line.Offset <= roff.max {
				best, better = v, true
			} else {
				line.Offset = xo
			}
		}

		// width
		last = best
		xw := line.Width
		for {
			line.Width -= e.cfg.WidthStep
			v = e.evalLine(line, image, p)
			if math.Abs(v-last) >= 1e-5 || line.Width < rwid.min {
				break
			}
		}
		if v-best > 1e-5 && line.Width >= rwid.min {
			best, better = v, true
		} else {
			line.Width = xw
			for {
				line.Width += e.cfg.WidthStep
				v = e.evalLine(line, image, p)
				if math.Abs(v-last) >= 1e-5 || line.Width > rwid.max {
					break
				}
			}
			if v-best > 1e-5 && line.Width <= rwid.max {
				best, better = v, true
			} else {
				line.Width = xw
			}
		}

		line.Score = best
		if !better {
			break
		}
	}

	if isChangeTooBig(backup, *line, e.cfg.MaxDeltaAngle, e.cfg.MaxDeltaWidth, e.cfg.MaxDeltaOffset) {
		*line = backup
		return false
	}
	return true
}
