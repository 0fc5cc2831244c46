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

package testpdf

import (
	"bytes"
	"testing"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

func TestNew(t *testing.T) {
	for _, n := range []int{1, 3, 10} {
		data := New(n)

		r, err := pdf.NewReader(bytes.NewReader(data), nil)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		got, err := pagetree.NumPages(r)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if got != n {
			t.Errorf("got %d pages, want %d", got, n)
		}
		if err := r.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewDeterministic(t *testing.T) {
	if !bytes.Equal(New(4), New(4)) {
		t.Error("output is not deterministic")
	}
}
