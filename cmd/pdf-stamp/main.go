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

package main

import (
	"flag"
	"fmt"
	"os"

	"seehuhn.de/go/stamp"
	"seehuhn.de/go/stamp/internal/profile"
)

var (
	batchSize  = flag.Int("batch", stamp.DefaultBatchSize, "pages per incremental update")
	fontSize   = flag.Float64("size", 24, "font size in PDF units")
	margin     = flag.Float64("margin", 30, "distance from the bottom edge of the page")
	quiet      = flag.Bool("q", false, "suppress warnings about skipped pages")
	memLog     = flag.Bool("mem", false, "report memory use after every batch")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdf-stamp — stamp text onto pages of a PDF file\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-stamp [options] <in.pdf> [pages] [out.pdf] [text]\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  in.pdf   the PDF file to stamp\n")
		fmt.Fprintf(os.Stderr, "  pages    pages to stamp, e.g. \"1,3,5-9\" (default \"all\")\n")
		fmt.Fprintf(os.Stderr, "  out.pdf  the output file (default \"stamped.pdf\")\n")
		fmt.Fprintf(os.Stderr, "  text     the stamp text (default \"Do not copy\")\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pdf-stamp document.pdf\n")
		fmt.Fprintf(os.Stderr, "  pdf-stamp document.pdf 1-10 reviewed.pdf CONFIDENTIAL\n")
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 4 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer stop()

	args := flag.Args()
	inName := args[0]
	pages := "all"
	outName := "stamped.pdf"
	text := "Do not copy"
	if len(args) > 1 {
		pages = args[1]
	}
	if len(args) > 2 {
		outName = args[2]
	}
	if len(args) > 3 {
		text = args[3]
	}

	m := stamp.NewTextStamp(text)
	m.FontSize = *fontSize
	m.Margin = *margin

	opt := &stamp.Options{
		Pages:     pages,
		BatchSize: *batchSize,
		Quiet:     *quiet,
	}
	if *memLog {
		opt.BatchDone = func(lastPage int) {
			profile.LogMem(os.Stderr, fmt.Sprintf("after page %d", lastPage))
		}
	}
	n, err := stamp.File(inName, outName, m, opt)
	if err != nil {
		return err
	}
	if !*quiet {
		fmt.Printf("stamped %d pages, output written to %s\n", n, outName)
	}
	return nil
}
