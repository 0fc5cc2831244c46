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
	"errors"
	"io"
	"os"
)

// copyChunkSize is the buffer size used when copying the original file into
// the output.  The fixed size keeps memory use during the copy phase
// independent of the document size.
const copyChunkSize = 1 << 20

// An Output is an append-only output file.  It first receives a verbatim
// copy of the original document, and after [Output.MarkAppendPoint] has
// been called it receives incremental updates.  The write cursor only ever
// moves forward: bytes before the append point are never rewritten.
type Output struct {
	f           *os.File
	pos         int64
	appendPoint int64
	marked      bool
}

// Create creates the named output file, truncating it if it already exists,
// and opens it for reading and writing.  After use, Close must be called;
// data flushed before Close remains on disk even if a later write fails.
func Create(name string) (*Output, error) {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, err
	}
	return &Output{f: f}, nil
}

// CopyFrom streams the complete contents of src into the output, in chunks
// of fixed size.  It can only be used before the append point has been
// marked.
func (o *Output) CopyFrom(src io.Reader) (int64, error) {
	if o.marked {
		return 0, errors.New("copy after append point")
	}
	buf := make([]byte, copyChunkSize)
	n, err := io.CopyBuffer(o.f, src, buf)
	o.pos += n
	return n, err
}

// MarkAppendPoint records the end of the verbatim copy and arms the output
// for appending.  All subsequent writes append after this point.
func (o *Output) MarkAppendPoint() error {
	pos, err := o.f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	o.pos = pos
	o.appendPoint = pos
	o.marked = true
	return nil
}

// AppendPoint returns the byte offset where the verbatim copy ends and the
// incremental updates begin.
func (o *Output) AppendPoint() int64 {
	return o.appendPoint
}

// Pos returns the current write position, i.e. the total number of bytes
// written so far.
func (o *Output) Pos() int64 {
	return o.pos
}

// Write appends len(p) bytes at the current cursor and advances the cursor.
// It implements the [io.Writer] interface.  Writing is only allowed after
// the append point has been marked.
func (o *Output) Write(p []byte) (int, error) {
	if !o.marked {
		return 0, errors.New("write before append point")
	}
	n, err := o.f.Write(p)
	o.pos += int64(n)
	return n, err
}

// Close flushes and closes the output file.
func (o *Output) Close() error {
	err := o.f.Sync()
	if e2 := o.f.Close(); err == nil {
		err = e2
	}
	return err
}
