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

// Package testpdf generates small PDF files for use in unit tests.
package testpdf

import (
	"bytes"
	"fmt"
)

// New returns a complete PDF file with numPages pages.  Each page has a
// content stream drawing a short line, and inherits its media box from
// the page tree root.  The output is deterministic.
func New(numPages int) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("%PDF-1.7\n%\x80\x80\x80\x80\n")

	// object 1: catalog
	// object 2: page tree root
	// objects 3+2i, 4+2i: page i and its content stream
	numObj := 2 + 2*numPages
	offsets := make([]int64, numObj+1)

	offsets[1] = int64(buf.Len())
	buf.WriteString("1 0 obj\n<</Type/Catalog/Pages 2 0 R>>\nendobj\n")

	offsets[2] = int64(buf.Len())
	buf.WriteString("2 0 obj\n<</Type/Pages/Kids[")
	for i := range numPages {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%d 0 R", 3+2*i)
	}
	fmt.Fprintf(buf, "]/Count %d/MediaBox[0 0 612 792]>>\nendobj\n", numPages)

	for i := range numPages {
		pageObj := 3 + 2*i
		contObj := 4 + 2*i

		offsets[pageObj] = int64(buf.Len())
		fmt.Fprintf(buf, "%d 0 obj\n<</Type/Page/Parent 2 0 R/Contents %d 0 R>>\nendobj\n",
			pageObj, contObj)

		body := fmt.Sprintf("0 0 m %d 10 l S\n", i+1)
		offsets[contObj] = int64(buf.Len())
		fmt.Fprintf(buf, "%d 0 obj\n<</Length %d>>\nstream\n%sendstream\nendobj\n",
			contObj, len(body), body)
	}

	xRefPos := buf.Len()
	fmt.Fprintf(buf, "xref\n0 %d\n", numObj+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= numObj; i++ {
		fmt.Fprintf(buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(buf, "trailer\n<</Size %d/Root 1 0 R>>\nstartxref\n%d\n%%%%EOF\n",
		numObj+1, xRefPos)

	return buf.Bytes()
}
