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
	"testing"
)

func TestFileReader(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "test.bin")
	body := []byte("0123456789abcdef")
	if err := os.WriteFile(fname, body, 0666); err != nil {
		t.Fatal(err)
	}

	r, err := OpenFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Size() != int64(len(body)) {
		t.Errorf("Size() = %d, want %d", r.Size(), len(body))
	}

	buf := make([]byte, 6)
	if _, err := r.ReadAt(buf, 10); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, body[10:]) {
		t.Errorf("ReadAt = %q, want %q", buf, body[10:])
	}

	// reads at different offsets are independent
	if _, err := r.ReadAt(buf[:4], 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf[:4], body[:4]) {
		t.Errorf("ReadAt = %q, want %q", buf[:4], body[:4])
	}
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "does-not-exist.pdf"))
	if err == nil {
		t.Error("OpenFile on missing file did not fail")
	}
}
