// seehuhn.de/go/pageview - incremental page rendering for document viewers
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

package document

import "testing"

func TestPixelSize(t *testing.T) {
	cases := []struct {
		w, h, scale float64
		wantW       int
		wantH       int
	}{
		{612, 792, 1, 612, 792},
		{612, 792, 0.5, 306, 396},
		{100, 100, 1.25, 125, 125},
		{100.2, 50.1, 1, 101, 51},
		{0.1 * 3, 10, 10, 3, 100}, // 0.30000000000000004 * 10
		{0, 0, 1, 1, 1},
	}
	for _, c := range cases {
		w, h := PixelSize(c.w, c.h, c.scale)
		if w != c.wantW || h != c.wantH {
			t.Errorf("PixelSize(%g, %g, %g) = %d, %d, want %d, %d",
				c.w, c.h, c.scale, w, h, c.wantW, c.wantH)
		}
	}
}

func TestActionKindString(t *testing.T) {
	for k, want := range map[ActionKind]string{
		ActionNone: "none",
		ActionGoTo: "goto",
		ActionURI:  "uri",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
