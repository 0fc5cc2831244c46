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
	"io"
	"os"
)

// A ByteRange is a random-access view of an immutable byte sequence, for
// example a PDF file on disk.  Reads may be requested at arbitrary offsets
// and in arbitrary order.  Implementations must allow many reads over the
// lifetime of one document without per-call setup or teardown.
//
// *FileReader and *bytes.Reader implement this interface.
type ByteRange interface {
	io.ReaderAt

	// Size returns the total length of the byte sequence.
	Size() int64
}

// A FileReader provides random access to the bytes of a file.
type FileReader struct {
	f    *os.File
	size int64
}

// OpenFile opens the named file for random access.  After use, Close must
// be called to release the file handle.
func OpenFile(name string) (*FileReader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileReader{f: f, size: fi.Size()}, nil
}

// ReadAt implements the [io.ReaderAt] interface.
func (r *FileReader) ReadAt(p []byte, off int64) (int, error) {
	return r.f.ReadAt(p, off)
}

// Size implements the [ByteRange] interface.
func (r *FileReader) Size() int64 {
	return r.size
}

// Close releases the underlying file handle.
func (r *FileReader) Close() error {
	return r.f.Close()
}
