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
	"fmt"
	"io"
	"log"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/stamp/increment"
)

// DefaultBatchSize is the number of pages modified per incremental update.
const DefaultBatchSize = 40

// A Page is one page of the document being stamped.
type Page struct {
	// Ref is the reference of the page dictionary in the original file.
	Ref pdf.Reference

	// Dict is the page dictionary as stored in the original file.
	// Mutators must not modify this dictionary in place; to change the
	// page they put a new dictionary under Ref.
	Dict pdf.Dict

	// Number is the page number, starting at 1.
	Number int
}

// A Mutator modifies a single page.  All new objects are allocated from
// and written to w, including the replacement page dictionary under
// page.Ref.  An error aborts the change of this page only.
type Mutator interface {
	Apply(w *increment.Writer, page *Page) error
}

// Options control the stamping process.
type Options struct {
	// Pages selects the pages to modify.  See [ParsePages] for the
	// syntax.  An empty string selects no pages, which is an error.
	Pages string

	// BatchSize is the number of pages per incremental update.
	// Values below 1 select [DefaultBatchSize].
	BatchSize int

	// Quiet suppresses warnings about skipped pages.
	Quiet bool

	// BatchDone, if non-nil, is called after each incremental update has
	// been written, with the number of the last page of the batch.
	BatchDone func(lastPage int)

	// Log receives warnings about skipped pages.
	// If Log is nil, the default logger is used.
	Log *log.Logger
}

// File reads the PDF file inName, applies m to the selected pages, and
// writes the result to outName.  The output starts with a verbatim copy
// of the input, followed by one incremental update per batch of pages.
//
// Pages which cannot be modified are skipped with a warning.  File
// returns the number of pages successfully modified.
func File(inName, outName string, m Mutator, opt *Options) (n int, err error) {
	if opt == nil {
		opt = &Options{Pages: "all"}
	}

	src, err := OpenFile(inName)
	if err != nil {
		return 0, err
	}
	defer func() {
		if e2 := src.Close(); err == nil {
			err = e2
		}
	}()

	base, err := pdf.NewReader(io.NewSectionReader(src, 0, src.Size()), nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", inName, err)
	}
	defer func() {
		if e2 := base.Close(); err == nil {
			err = e2
		}
	}()

	pageRefs, err := pagetree.FindPages(base)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", inName, err)
	}

	out, err := Create(outName)
	if err != nil {
		return 0, err
	}
	defer func() {
		if e2 := out.Close(); err == nil {
			err = e2
		}
	}()

	if _, err := out.CopyFrom(io.NewSectionReader(src, 0, src.Size())); err != nil {
		return 0, err
	}
	if err := out.MarkAppendPoint(); err != nil {
		return 0, err
	}

	return stampPages(base, src, out, pageRefs, m, opt)
}

func stampPages(base pdf.Getter, src ByteRange, out io.Writer, pageRefs []pdf.Reference, m Mutator, opt *Options) (int, error) {
	pages, err := ParsePages(opt.Pages, len(pageRefs))
	if err != nil {
		return 0, err
	}

	batchSize := opt.BatchSize
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	w, err := increment.NewWriter(base, src, out)
	if err != nil {
		return 0, err
	}

	selected := make(map[int]bool, len(pages))
	for _, pageNo := range pages {
		selected[pageNo] = true
	}

	// Batches partition the page numbers of the document, not the
	// selection: page k always belongs to the same update section, no
	// matter which other pages are selected.  Batches containing no
	// selected pages write nothing.
	numPages := len(pageRefs)
	numDone := 0
	var saveErr error
	for start := 1; start <= numPages && saveErr == nil; start += batchSize {
		end := min(start+batchSize-1, numPages)

		for pageNo := start; pageNo <= end; pageNo++ {
			if !selected[pageNo] {
				continue
			}
			err := stampOne(w, pageRefs, pageNo, m)
			if err != nil {
				opt.warn("page %d: %v", pageNo, err)
				continue
			}
			numDone++
		}

		// A failed update leaves the output truncated at the previous
		// section boundary, so we give up at the first error.
		saveErr = w.Flush()
		if saveErr == nil && opt.BatchDone != nil {
			opt.BatchDone(end)
		}
	}

	closeErr := w.Close()
	if saveErr != nil {
		return numDone, saveErr
	}
	return numDone, closeErr
}

func stampOne(w *increment.Writer, pageRefs []pdf.Reference, pageNo int, m Mutator) error {
	ref := pageRefs[pageNo-1]
	if ref == 0 {
		return fmt.Errorf("page has no object reference")
	}
	dict, err := pdf.GetDict(w, ref)
	if err != nil {
		return err
	}
	if dict == nil {
		return fmt.Errorf("page dictionary missing")
	}
	page := &Page{
		Ref:    ref,
		Dict:   dict,
		Number: pageNo,
	}
	return m.Apply(w, page)
}

func (opt *Options) warn(format string, args ...any) {
	if opt.Quiet {
		return
	}
	l := opt.Log
	if l == nil {
		l = log.Default()
	}
	l.Printf("warning: "+format, args...)
}

// inheritedAttr looks up a page attribute, following the /Parent chain
// for attributes which are inherited from the page tree.
func inheritedAttr(r pdf.Getter, pageDict pdf.Dict, name pdf.Name) (pdf.Object, error) {
	dict := pageDict
	for range 64 {
		if obj, ok := dict[name]; ok {
			return obj, nil
		}
		parent, err := pdf.GetDict(r, dict["Parent"])
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, nil
		}
		dict = parent
	}
	return nil, fmt.Errorf("page tree too deep while looking for /%s", name)
}
