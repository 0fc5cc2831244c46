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
	"fmt"
	"slices"
	"strconv"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/font/type1"

	"seehuhn.de/go/stamp/increment"
)

// A TextStamp draws a line of text near the bottom of each page, centered
// horizontally.  The text is set in Helvetica, one of the fonts every
// PDF viewer provides, so no font program needs to be embedded.
type TextStamp struct {
	Text     string
	FontSize float64
	Margin   float64    // distance from the bottom edge of the page
	Color    [3]float64 // fill color, DeviceRGB

	font    *type1.Instance
	fontRef pdf.Reference
	fontW   *increment.Writer
}

// NewTextStamp returns a TextStamp with the default appearance:
// 24pt blue text, 30 units above the bottom edge.
func NewTextStamp(text string) *TextStamp {
	return &TextStamp{
		Text:     text,
		FontSize: 24,
		Margin:   30,
		Color:    [3]float64{0, 0, 1},
	}
}

// Apply implements the [Mutator] interface.
//
// The stamp is drawn by a form XObject with its own resource dictionary,
// so that resource names of the page content are not disturbed.  The
// page's content stream is bracketed by q/Q to protect the stamp from
// graphics state changes left behind by the page.
func (t *TextStamp) Apply(w *increment.Writer, page *Page) error {
	F, err := t.getFont()
	if err != nil {
		return err
	}

	boxObj, err := inheritedAttr(w, page.Dict, "MediaBox")
	if err != nil {
		return err
	}
	mediaBox, err := pdf.GetRectangle(w, boxObj)
	if err != nil {
		return err
	}
	if mediaBox == nil {
		// US Letter, the default of most generators
		mediaBox = &pdf.Rectangle{URx: 612, URy: 792}
	}

	gg := F.Layout(nil, t.FontSize, t.Text)
	width := gg.TotalWidth()
	ascent := F.Ascent * t.FontSize
	descent := F.Descent * t.FontSize // negative

	// centered at the bottom of the page, with the lowest descender
	// t.Margin units above the page edge
	xPos := mediaBox.LLx + (mediaBox.URx-mediaBox.LLx-width)/2
	yPos := mediaBox.LLy + t.Margin - descent

	fontRef, err := t.getFontRef(w)
	if err != nil {
		return err
	}

	formRef, err := t.writeForm(w, fontRef, width, ascent, descent)
	if err != nil {
		return err
	}

	return t.attachToPage(w, page, formRef, xPos, yPos)
}

func (t *TextStamp) getFont() (*type1.Instance, error) {
	if t.font == nil {
		F, err := standard.Helvetica.New(nil)
		if err != nil {
			return nil, err
		}
		t.font = F
	}
	return t.font, nil
}

// getFontRef writes the font dictionary on first use.  Later updates of
// the same file refer back to it, earlier increments stay valid bytes of
// the output.
func (t *TextStamp) getFontRef(w *increment.Writer) (pdf.Reference, error) {
	if t.fontW == w && t.fontRef != 0 {
		return t.fontRef, nil
	}
	ref := w.Alloc()
	dict := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
	if err := w.Put(ref, dict); err != nil {
		return 0, err
	}
	t.fontW = w
	t.fontRef = ref
	return ref, nil
}

// writeForm writes the form XObject which draws the stamp text with its
// baseline at the origin.
func (t *TextStamp) writeForm(w *increment.Writer, fontRef pdf.Reference, width, ascent, descent float64) (pdf.Reference, error) {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "%s %s %s rg\n",
		fmtNum(t.Color[0]), fmtNum(t.Color[1]), fmtNum(t.Color[2]))
	buf.WriteString("BT\n")
	fmt.Fprintf(buf, "/F0 %s Tf\n", fmtNum(t.FontSize))
	if err := pdf.Format(buf, pdf.OptContentStream, pdf.String(t.Text)); err != nil {
		return 0, err
	}
	buf.WriteString(" Tj\nET\n")

	dict := pdf.Dict{
		"Type":     pdf.Name("XObject"),
		"Subtype":  pdf.Name("Form"),
		"FormType": pdf.Integer(1),
		"BBox":     &pdf.Rectangle{LLx: 0, LLy: descent, URx: width, URy: ascent},
		"Resources": pdf.Dict{
			"Font": pdf.Dict{"F0": fontRef},
		},
	}
	ref := w.Alloc()
	stm, err := w.OpenStream(ref, dict, pdf.FilterCompress{})
	if err != nil {
		return 0, err
	}
	if _, err := stm.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	if err := stm.Close(); err != nil {
		return 0, err
	}
	return ref, nil
}

// attachToPage writes the replacement page dictionary.  Dictionaries
// shared with the original file are copied before modification, so no
// object of the original document changes meaning.
func (t *TextStamp) attachToPage(w *increment.Writer, page *Page, formRef pdf.Reference, xPos, yPos float64) error {
	resObj, err := inheritedAttr(w, page.Dict, "Resources")
	if err != nil {
		return err
	}
	oldRes, err := pdf.GetDict(w, resObj)
	if err != nil {
		return err
	}
	res := pdf.Dict{}
	for key, val := range oldRes {
		res[key] = val
	}
	xObjects, err := pdf.GetDict(w, res["XObject"])
	if err != nil {
		return err
	}
	xo := pdf.Dict{}
	for key, val := range xObjects {
		xo[key] = val
	}
	xName := freeName(xo, "S")
	xo[xName] = formRef
	res["XObject"] = xo

	var contents pdf.Array
	switch obj := page.Dict["Contents"].(type) {
	case nil:
		// pages with no content stream get just the stamp
	case pdf.Array:
		contents = slices.Clone(obj)
	case pdf.Reference:
		resolved, err := pdf.Resolve(w, obj)
		if err != nil {
			return err
		}
		if arr, ok := resolved.(pdf.Array); ok {
			contents = slices.Clone(arr)
		} else {
			contents = pdf.Array{obj}
		}
	default:
		return fmt.Errorf("unexpected /Contents type %T", obj)
	}

	if len(contents) > 0 {
		openRef := w.Alloc()
		if err := writeContent(w, openRef, "q\n"); err != nil {
			return err
		}
		contents = append(pdf.Array{openRef}, contents...)
	}
	stampRef := w.Alloc()
	draw := fmt.Sprintf("Q\nq\n1 0 0 1 %s %s cm\n/%s Do\nQ\n",
		fmtNum(xPos), fmtNum(yPos), xName)
	if len(contents) == 0 {
		draw = fmt.Sprintf("q\n1 0 0 1 %s %s cm\n/%s Do\nQ\n",
			fmtNum(xPos), fmtNum(yPos), xName)
	}
	if err := writeContent(w, stampRef, draw); err != nil {
		return err
	}
	contents = append(contents, stampRef)

	newPage := pdf.Dict{}
	for key, val := range page.Dict {
		newPage[key] = val
	}
	newPage["Resources"] = res
	newPage["Contents"] = contents

	return w.Put(page.Ref, newPage)
}

func writeContent(w *increment.Writer, ref pdf.Reference, body string) error {
	stm, err := w.OpenStream(ref, nil)
	if err != nil {
		return err
	}
	if _, err := stm.Write([]byte(body)); err != nil {
		return err
	}
	return stm.Close()
}

// freeName returns a resource name with the given prefix which is not
// yet used in d.
func freeName(d pdf.Dict, prefix string) pdf.Name {
	for i := 0; ; i++ {
		name := pdf.Name(prefix + strconv.Itoa(i))
		if _, used := d[name]; !used {
			return name
		}
	}
}

// fmtNum formats a coordinate for use in a content stream.
func fmtNum(x float64) string {
	s := strconv.FormatFloat(x, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
