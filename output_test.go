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

package stamp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutput(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "out.pdf")
	out, err := Create(fname)
	if err != nil {
		t.Fatal(err)
	}

	body := strings.Repeat("x", 3000)
	n, err := out.CopyFrom(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(body)) {
		t.Errorf("copied %d bytes, want %d", n, len(body))
	}

	if err := out.MarkAppendPoint(); err != nil {
		t.Fatal(err)
	}
	if got := out.AppendPoint(); got != int64(len(body)) {
		t.Errorf("append point %d, want %d", got, len(body))
	}

	prev := out.Pos()
	for _, s := range []string{"first", "second", "third"} {
		if _, err := out.Write([]byte(s)); err != nil {
			t.Fatal(err)
		}
		if out.Pos() <= prev {
			t.Errorf("position %d did not advance past %d", out.Pos(), prev)
		}
		prev = out.Pos()
	}

	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	want := body + "firstsecondthird"
	if !bytes.Equal(data, []byte(want)) {
		t.Errorf("wrong file contents, got %d bytes, want %d", len(data), len(want))
	}
}

func TestOutputSequencing(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "out.pdf")
	out, err := Create(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	// writes are only valid after the append point is marked
	if _, err := out.Write([]byte("too early")); err == nil {
		t.Error("Write before MarkAppendPoint did not fail")
	}

	if err := out.MarkAppendPoint(); err != nil {
		t.Fatal(err)
	}

	// the verbatim copy must come before the append point
	if _, err := out.CopyFrom(strings.NewReader("too late")); err == nil {
		t.Error("CopyFrom after MarkAppendPoint did not fail")
	}
}
