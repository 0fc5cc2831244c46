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

// Package increment appends incremental updates to an existing PDF file.
//
// A [Writer] collects new and replaced objects for one update and flushes
// them as a cross-reference section which is chained to the previous
// section via the /Prev trailer entry.  The bytes of the original file are
// never touched, and after every flush the output is a complete PDF file.
package increment

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"seehuhn.de/go/pdf"
)

// A Source is a random-access view of the original PDF file, byte-identical
// to the data the output file starts with.
type Source interface {
	io.ReaderAt
	Size() int64
}

// A Writer collects changed objects and appends them to a PDF file as
// incremental updates.
//
// Get consults the objects of the current, unflushed update first and
// falls back to the original document, so that mutations within one
// update observe each other.  Objects from already flushed updates are
// not kept in memory; callers must not rely on reading them back.
type Writer struct {
	base pdf.Getter
	meta *pdf.MetaInfo

	w countWriter

	prev    int64 // position of the most recently written xref section
	nextNum uint32

	pending   map[pdf.Reference]pdf.Object
	autoclose map[pdf.Reference]io.Closer
	isClosed  bool
}

// NewWriter prepares out for appending incremental updates.
//
// base is the original document, opened for reading; src provides the raw
// bytes of the original file.  out must be positioned immediately after a
// verbatim copy of src, and the Writer must be the only writer of out from
// this point on.
func NewWriter(base pdf.Getter, src Source, out io.Writer) (*Writer, error) {
	meta := base.GetMeta()
	if _, ok := meta.Trailer["Root"].(pdf.Reference); !ok {
		return nil, errors.New("document has no /Root reference")
	}

	prev, err := findStartXRef(src)
	if err != nil {
		return nil, err
	}

	size, err := pdf.GetInteger(base, meta.Trailer["Size"])
	if err != nil || size < 1 {
		size2, err := findTrailerSize(src, prev)
		if err != nil {
			return nil, err
		}
		size = pdf.Integer(size2)
	}

	w := &Writer{
		base:      base,
		meta:      meta,
		w:         countWriter{w: out, pos: src.Size()},
		prev:      prev,
		nextNum:   uint32(size),
		pending:   make(map[pdf.Reference]pdf.Object),
		autoclose: make(map[pdf.Reference]io.Closer),
	}
	return w, nil
}

// GetMeta returns the document metadata of the original file.
func (w *Writer) GetMeta() *pdf.MetaInfo {
	return w.meta
}

// Get implements the [pdf.Getter] interface.
func (w *Writer) Get(ref pdf.Reference, canObjStm bool) (pdf.Object, error) {
	if obj, ok := w.pending[ref]; ok {
		return obj, nil
	}
	return w.base.Get(ref, canObjStm)
}

// Alloc allocates an object number for a new indirect object.  The
// returned references use numbers beyond those of the original document.
func (w *Writer) Alloc() pdf.Reference {
	ref := pdf.NewReference(w.nextNum, 0)
	w.nextNum++
	return ref
}

// Put adds an object to the current update.  Using the reference of an
// object of the original document replaces that object.
func (w *Writer) Put(ref pdf.Reference, obj pdf.Object) error {
	if w.isClosed {
		return errors.New("update writer is closed")
	}
	w.pending[ref] = obj
	return nil
}

// OpenStream adds a stream object to the current update.  The stream data
// is buffered in memory until the returned writer is closed, which must
// happen before the next Flush.
func (w *Writer) OpenStream(ref pdf.Reference, dict pdf.Dict, filters ...pdf.Filter) (io.WriteCloser, error) {
	if w.isClosed {
		return nil, errors.New("update writer is closed")
	}

	streamDict := maps.Clone(dict)
	if streamDict == nil {
		streamDict = pdf.Dict{}
	}
	if filter, ok := streamDict["Filter"].(pdf.Array); ok {
		streamDict["Filter"] = append(pdf.Array{}, filter...)
	}
	if decodeParms, ok := streamDict["DecodeParms"].(pdf.Array); ok {
		streamDict["DecodeParms"] = append(pdf.Array{}, decodeParms...)
	}

	s := &pdf.Stream{Dict: streamDict}
	w.pending[ref] = s

	var stm io.WriteCloser = &streamWriter{s: s}
	var err error
	for _, filter := range filters {
		stm, err = filter.Encode(w.meta.Version, stm)
		if err != nil {
			return nil, err
		}
		name, parms, err := filter.Info(w.meta.Version)
		if err != nil {
			return nil, err
		}
		appendFilter(streamDict, name, parms)
	}
	return stm, nil
}

// WriteCompressed stores the given objects in the current update.
//
// Object streams only change the encoding of objects, not their meaning,
// and incremental updates are small; the objects are therefore stored
// individually.
func (w *Writer) WriteCompressed(refs []pdf.Reference, objects ...pdf.Object) error {
	if len(refs) != len(objects) {
		return errors.New("lengths of refs and objects differ")
	}
	for i, ref := range refs {
		if err := w.Put(ref, objects[i]); err != nil {
			return err
		}
	}
	return nil
}

// AutoClose registers a resource to be closed when the Writer is closed.
func (w *Writer) AutoClose(obj io.Closer, key pdf.Reference) {
	w.autoclose[key] = obj
}

// Flush appends the objects of the current update to the output, followed
// by a cross-reference section, trailer and startxref line.  After Flush
// returns, the output is a complete PDF file reflecting all updates so
// far.  If no objects are pending, Flush writes nothing.
//
// Flush never rewrites previously written bytes.  Each flushed section
// contains exactly the objects put since the previous flush.
func (w *Writer) Flush() error {
	if w.isClosed {
		return errors.New("update writer is closed")
	}
	if len(w.pending) == 0 {
		return nil
	}

	refs := slices.SortedFunc(maps.Keys(w.pending),
		func(a, b pdf.Reference) int {
			if c := cmp.Compare(a.Number(), b.Number()); c != 0 {
				return c
			}
			return cmp.Compare(a.Generation(), b.Generation())
		})

	// write the objects
	offsets := make(map[pdf.Reference]int64, len(refs))
	for _, ref := range refs {
		offsets[ref] = w.w.pos
		fmt.Fprintf(&w.w, "%d %d obj\n", ref.Number(), ref.Generation())
		if err := w.writeObject(w.pending[ref]); err != nil {
			return err
		}
		w.w.WriteString("\nendobj\n")
	}

	// write the cross-reference section, in subsections of consecutive
	// object numbers
	xRefPos := w.w.pos
	w.w.WriteString("xref\n")
	for i := 0; i < len(refs); {
		j := i + 1
		for j < len(refs) && refs[j].Number() == refs[j-1].Number()+1 {
			j++
		}
		fmt.Fprintf(&w.w, "%d %d\n", refs[i].Number(), j-i)
		for _, ref := range refs[i:j] {
			fmt.Fprintf(&w.w, "%010d %05d n \n", offsets[ref], ref.Generation())
		}
		i = j
	}

	trailer := pdf.Dict{
		"Size": pdf.Integer(w.nextNum),
		"Prev": pdf.Integer(w.prev),
		"Root": w.meta.Trailer["Root"],
	}
	if info := w.meta.Trailer["Info"]; info != nil {
		trailer["Info"] = info
	}
	if id := w.meta.Trailer["ID"]; id != nil {
		trailer["ID"] = id
	}
	w.w.WriteString("trailer\n")
	if err := pdf.Format(&w.w, 0, trailer); err != nil {
		return err
	}
	fmt.Fprintf(&w.w, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)

	if w.w.err != nil {
		return w.w.err
	}

	w.prev = xRefPos
	clear(w.pending)
	return nil
}

func (w *Writer) writeObject(obj pdf.Object) error {
	switch obj := obj.(type) {
	case nil:
		_, err := w.w.WriteString("null")
		return err
	case *pdf.Stream:
		if obj.R == nil {
			return errors.New("stream was not closed")
		}
		if err := pdf.Format(&w.w, 0, obj.Dict); err != nil {
			return err
		}
		w.w.WriteString("\nstream\n")
		if _, err := io.Copy(&w.w, obj.R); err != nil {
			return err
		}
		_, err := w.w.WriteString("\nendstream")
		return err
	default:
		return pdf.Format(&w.w, 0, obj)
	}
}

// Close closes all resources registered with AutoClose.  Pending objects
// are not flushed; the last Flush must happen before Close.
func (w *Writer) Close() error {
	if w.isClosed {
		return nil
	}
	w.isClosed = true

	keys := slices.SortedFunc(maps.Keys(w.autoclose),
		func(a, b pdf.Reference) int {
			return cmp.Compare(a.Number(), b.Number())
		})
	var err error
	for _, key := range keys {
		if e2 := w.autoclose[key].Close(); err == nil {
			err = e2
		}
		delete(w.autoclose, key)
	}
	return err
}

// Pos returns the current write position in the output file.
func (w *Writer) Pos() int64 {
	return w.w.pos
}

// countWriter tracks the absolute write position in the output file and
// latches the first write error.
type countWriter struct {
	w   io.Writer
	pos int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.pos += int64(n)
	c.err = err
	return n, err
}

func (c *countWriter) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

// streamWriter buffers the data of one stream object and finalizes the
// stream on Close.
type streamWriter struct {
	bytes.Buffer
	s *pdf.Stream
}

func (w *streamWriter) Close() error {
	w.s.R = bytes.NewReader(w.Bytes())
	w.s.Dict["Length"] = pdf.Integer(w.Len())
	return nil
}

// appendFilter records a filter in a stream dictionary, promoting the
// Filter and DecodeParms entries to arrays when a filter is already
// present.
func appendFilter(dict pdf.Dict, name pdf.Name, parms pdf.Dict) {
	switch filter := dict["Filter"].(type) {
	case nil:
		dict["Filter"] = name
		if len(parms) > 0 {
			dict["DecodeParms"] = parms
		}
	case pdf.Name:
		dict["Filter"] = pdf.Array{filter, name}
		oldParms := dict["DecodeParms"]
		if oldParms != nil || len(parms) > 0 {
			var p pdf.Object
			if len(parms) > 0 {
				p = parms
			}
			dict["DecodeParms"] = pdf.Array{oldParms, p}
		}
	case pdf.Array:
		dict["Filter"] = append(filter, name)
		if parmsArray, ok := dict["DecodeParms"].(pdf.Array); ok {
			var p pdf.Object
			if len(parms) > 0 {
				p = parms
			}
			dict["DecodeParms"] = append(parmsArray, p)
		} else if len(parms) > 0 {
			a := make(pdf.Array, len(filter)+1)
			a[len(filter)] = parms
			dict["DecodeParms"] = a
		}
	}
}
