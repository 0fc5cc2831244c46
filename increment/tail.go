// seehuhn.de/go/stamp - incremental stamping of PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

package increment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// findStartXRef locates the final startxref line of the file and returns
// the position of the cross-reference section it points to.
func findStartXRef(src Source) (int64, error) {
	const chunkSize = 1024
	pat := []byte("startxref")

	size := src.Size()
	buf := make([]byte, chunkSize)
	pos := size
	for pos >= int64(len(pat)) {
		start := pos - chunkSize
		if start < 0 {
			start = 0
		}
		n, err := src.ReadAt(buf[:pos-start], start)
		if err != nil && err != io.EOF {
			return 0, err
		}
		if idx := bytes.LastIndex(buf[:n], pat); idx >= 0 {
			xRefPos, err := readInt(src, start+int64(idx)+int64(len(pat)))
			if err != nil {
				return 0, err
			}
			if xRefPos <= 0 || xRefPos >= size {
				return 0, fmt.Errorf("invalid startxref position %d", xRefPos)
			}
			return xRefPos, nil
		}
		// chunks overlap so that the keyword cannot straddle a boundary
		pos = start + int64(len(pat)) - 1
	}
	return 0, errors.New("startxref not found")
}

// findTrailerSize extracts the /Size entry of the final trailer, scanning
// forward from the cross-reference section at xRefPos.  This works both
// for cross-reference tables followed by a trailer dictionary and for
// cross-reference streams.
func findTrailerSize(src Source, xRefPos int64) (int64, error) {
	const chunkSize = 4096
	const maxScan = 8 * 1024 * 1024
	pat := []byte("/Size")

	end := src.Size()
	if m := xRefPos + maxScan; m < end {
		end = m
	}
	buf := make([]byte, chunkSize)
	for off := xRefPos; off < end; off += chunkSize - int64(len(pat)) {
		k := int64(len(buf))
		if off+k > end {
			k = end - off
		}
		n, err := src.ReadAt(buf[:k], off)
		if err != nil && err != io.EOF {
			return 0, err
		}
		if idx := bytes.Index(buf[:n], pat); idx >= 0 {
			size, err := readInt(src, off+int64(idx)+int64(len(pat)))
			if err != nil {
				return 0, err
			}
			if size < 1 {
				return 0, fmt.Errorf("invalid trailer /Size %d", size)
			}
			return size, nil
		}
		if err == io.EOF {
			break
		}
	}
	return 0, errors.New("trailer /Size not found")
}

// readInt parses a non-negative decimal integer at pos, skipping leading
// white space.
func readInt(src Source, pos int64) (int64, error) {
	buf := make([]byte, 64)
	n, err := src.ReadAt(buf, pos)
	if err != nil && err != io.EOF {
		return 0, err
	}
	buf = buf[:n]

	i := 0
	for i < len(buf) && (buf[i] == ' ' || buf[i] == '\t' || buf[i] == '\r' || buf[i] == '\n') {
		i++
	}
	j := i
	for j < len(buf) && buf[j] >= '0' && buf[j] <= '9' {
		j++
	}
	if j == i {
		return 0, errors.New("malformed integer in file trailer")
	}
	return strconv.ParseInt(string(buf[i:j]), 10, 64)
}
