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

// Package stamp modifies large PDF files in bounded memory.
//
// The output file starts with a verbatim copy of the input file.  Pages are
// then mutated in fixed-size batches, and after each batch the changed
// objects are appended to the output as a PDF incremental update.  At every
// batch boundary the output is a complete, loadable PDF file reflecting all
// mutations applied so far, and peak memory use is proportional to one
// batch of pages rather than to the size of the document.
package stamp
