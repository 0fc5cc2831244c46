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
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrNoPages indicates that a page selection did not match any page of the
// document.
var ErrNoPages = errors.New("no pages selected")

// ParsePages parses a page selection and returns the selected page numbers,
// sorted in increasing order and without duplicates.  Page numbers are
// 1-based.
//
// The selection is either the literal string "all", or a comma-separated
// list of tokens, where each token is a single page number or a range
// "low-high".  Range bounds are normalized: if low > high the bounds are
// swapped, and both are clamped to [1, numPages].  Single page numbers
// outside [1, numPages] are silently dropped.
//
// A malformed token (empty, or not a number) is an error which aborts the
// whole parse; out-of-range values are not.  If the selection matches no
// pages, the function returns [ErrNoPages].
func ParsePages(spec string, numPages int) ([]int, error) {
	if spec == "all" {
		if numPages < 1 {
			return nil, ErrNoPages
		}
		pages := make([]int, numPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}
	if spec == "" {
		return nil, ErrNoPages
	}

	seen := make(map[int]bool)
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		lo, hi, ok := strings.Cut(tok, "-")
		if !ok {
			p, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("invalid page %q", tok)
			}
			if p >= 1 && p <= numPages {
				seen[p] = true
			}
			continue
		}

		a, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid page range %q", tok)
		}
		b, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("invalid page range %q", tok)
		}
		if a > b {
			a, b = b, a
		}
		a = max(a, 1)
		b = min(b, numPages)
		for p := a; p <= b; p++ {
			seen[p] = true
		}
	}

	if len(seen) == 0 {
		return nil, ErrNoPages
	}
	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	slices.Sort(pages)
	return pages, nil
}
