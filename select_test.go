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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePages(t *testing.T) {
	type testCase struct {
		spec     string
		numPages int
		want     []int
	}
	cases := []testCase{
		{"all", 5, []int{1, 2, 3, 4, 5}},
		{"all", 1, []int{1}},
		{"3", 5, []int{3}},
		{"1,3,5", 5, []int{1, 3, 5}},
		{"5,1,3", 5, []int{1, 3, 5}},
		{"2-4", 5, []int{2, 3, 4}},
		{"4-2", 5, []int{2, 3, 4}},
		{"0-2", 5, []int{1, 2}},
		{"0-3", 5, []int{1, 2, 3}},
		{"4-99", 5, []int{4, 5}},
		{"2,2,2-3", 5, []int{2, 3}},
		{"1-3,2-4", 5, []int{1, 2, 3, 4}},
		{" 1 , 2 ", 5, []int{1, 2}},
		{"5-5", 5, []int{5}},
	}
	for _, c := range cases {
		got, err := ParsePages(c.spec, c.numPages)
		if err != nil {
			t.Errorf("ParsePages(%q, %d): unexpected error %v",
				c.spec, c.numPages, err)
			continue
		}
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("ParsePages(%q, %d): diff (-want +got):\n%s",
				c.spec, c.numPages, d)
		}
	}
}

func TestParsePagesEmpty(t *testing.T) {
	cases := []struct {
		spec     string
		numPages int
	}{
		{"", 5},
		{"all", 0},
		{"9", 5},     // out of range
		{"7-9", 5},   // clamps to nothing
		{"0", 5},     // out of range
		{"0-0", 5},   // clamps to nothing
		{"6,7,8", 5}, // all out of range
	}
	for _, c := range cases {
		pages, err := ParsePages(c.spec, c.numPages)
		if !errors.Is(err, ErrNoPages) {
			t.Errorf("ParsePages(%q, %d): got (%v, %v), want ErrNoPages",
				c.spec, c.numPages, pages, err)
		}
	}
}

func TestParsePagesMalformed(t *testing.T) {
	cases := []string{
		"x",
		"1,x",
		"1-2-3",
		"-3",
		"3-",
		"1,,2",
		",",
		"1.5",
		"2 3",
	}
	for _, spec := range cases {
		pages, err := ParsePages(spec, 5)
		if err == nil {
			t.Errorf("ParsePages(%q, 5): got %v, want error", spec, pages)
		} else if errors.Is(err, ErrNoPages) {
			t.Errorf("ParsePages(%q, 5): got ErrNoPages, want parse error", spec)
		}
	}
}
