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

// Package whiskerio reads and writes the binary .whiskers file format:
// an 11-byte magic header followed by one record per segment, each a
// trio of int32 (id, time, vertex count) and four equal-length float32
// arrays (x, y, thickness, score).
package whiskerio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/whiskerlab/tracer"
)

var magic = [11]byte{'b', 'w', 'h', 'i', 's', 'k', 'b', 'i', 'n', '1', 0}

// Write serializes segs to w in the .whiskers binary format.
func Write(w io.Writer, segs []tracer.WhiskerSegment) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic[:]); err != nil {
		return fmt.Errorf("whiskerio: write header: %w", err)
	}
	for _, s := range segs {
		if err := writeSegment(bw, s); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeSegment(w *bufio.Writer, s tracer.WhiskerSegment) error {
	n := len(s.X)
	if len(s.Y) != n || len(s.Thick) != n || len(s.Scores) != n {
		return fmt.Errorf("whiskerio: segment %d has mismatched array lengths", s.ID)
	}
	for _, v := range []int32{s.ID, s.Time, int32(n)} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("whiskerio: write segment %d header: %w", s.ID, err)
		}
	}
	for _, arr := range [][]float32{s.X, s.Y, s.Thick, s.Scores} {
		if err := binary.Write(w, binary.LittleEndian, arr); err != nil {
			return fmt.Errorf("whiskerio: write segment %d body: %w", s.ID, err)
		}
	}
	return nil
}

// Read deserializes a .whiskers stream from r.
func Read(r io.Reader) ([]tracer.WhiskerSegment, error) {
	br := bufio.NewReader(r)
	var got [11]byte
	if _, err := io.ReadFull(br, got[:]); err != nil {
		return nil, fmt.Errorf("whiskerio: read header: %w", err)
	}
	if got != magic {
		return nil, fmt.Errorf("whiskerio: unrecognized header %q", got)
	}

	var segs []tracer.WhiskerSegment
	for {
		seg, err := readSegment(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func readSegment(r io.Reader) (tracer.WhiskerSegment, error) {
	var hdr [3]int32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return tracer.WhiskerSegment{}, io.EOF
		}
		return tracer.WhiskerSegment{}, fmt.Errorf("whiskerio: read segment header: %w", err)
	}
	n := int(hdr[2])
	seg := tracer.WhiskerSegment{
		ID:     hdr[0],
		Time:   hdr[1],
		X:      make([]float32, n),
		Y:      make([]float32, n),
		Thick:  make([]float32, n),
		Scores: make([]float32, n),
	}
	for _, arr := range [][]float32{seg.X, seg.Y, seg.Thick, seg.Scores} {
		if err := binary.Read(r, binary.LittleEndian, arr); err != nil {
			return tracer.WhiskerSegment{}, fmt.Errorf("whiskerio: read segment %d body: %w", seg.ID, err)
		}
	}
	return seg, nil
}
