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

package pageview

import (
	"image/color"
	"testing"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pageview/testdoc"
)

// fixedViewport is a Viewport with explicitly set values.
type fixedViewport struct {
	from, to int
	scale    float64
	m        matrix.Matrix
}

func (v *fixedViewport) VisibleRange() (int, int) { return v.from, v.to }
func (v *fixedViewport) Scale() float64           { return v.scale }
func (v *fixedViewport) Transform() matrix.Matrix { return v.m }

func TestCompositorLayout(t *testing.T) {
	doc := testdoc.Uniform(3, 10, 20)
	pages := NewPages(3)
	pages[0].CompleteRender(solidSurface(10, 20, red))
	pages[2].CompleteRender(solidSurface(10, 20, blue))

	vp := &fixedViewport{from: 0, to: 2, scale: 1, m: matrix.Identity}
	comp := NewCompositor(doc, pages, vp)
	c := whiteCanvas(10, 60)
	comp.Paint(c)

	img := c.Target()
	cases := []struct {
		x, y int
		want color.RGBA
		desc string
	}{
		{5, 0, red, "top of the first page has no separator"},
		{5, 10, red, "page 0"},
		{5, 30, white, "page 1 is not rendered"},
		{5, 40, black, "separator above page 2"},
		{5, 50, blue, "page 2"},
	}
	for _, tc := range cases {
		if got := img.RGBAAt(tc.x, tc.y); got != tc.want {
			t.Errorf("%s: (%d,%d) is %v, want %v", tc.desc, tc.x, tc.y, got, tc.want)
		}
	}
	if got := c.CTM(); got != matrix.Identity {
		t.Errorf("Paint changed the CTM to %v", got)
	}
}

func TestCompositorOffset(t *testing.T) {
	// Only pages 1 and 2 are visible, and the view is scrolled so that
	// page 1 starts at the top of the frame.
	doc := testdoc.Uniform(3, 10, 20)
	pages := NewPages(3)
	pages[1].CompleteRender(solidSurface(20, 40, red))
	pages[2].CompleteRender(solidSurface(20, 40, white))

	vp := &fixedViewport{from: 1, to: 2, scale: 2, m: matrix.Matrix{2, 0, 0, 2, 0, -40}}
	comp := NewCompositor(doc, pages, vp)
	c := whiteCanvas(20, 80)
	comp.Paint(c)

	img := c.Target()
	if got := img.RGBAAt(10, 0); got != red {
		t.Errorf("top of page 1: %v", got)
	}
	if got := img.RGBAAt(10, 39); got != red {
		t.Errorf("bottom of page 1: %v", got)
	}
	if got := img.RGBAAt(10, 40); got != black {
		t.Errorf("separator: %v", got)
	}
	if got := img.RGBAAt(10, 41); got != white {
		t.Errorf("below the separator: %v", got)
	}
}

func TestCompositorFractionalWidth(t *testing.T) {
	// 10.5 units at scale 1 give an 11 pixel surface, which must be
	// copied without resampling.
	doc := testdoc.Uniform(1, 10.5, 20)
	pages := NewPages(1)
	s := solidSurface(11, 20, red)
	for y := range 20 {
		s.Image().SetRGBA(10, y, blue)
	}
	pages[0].CompleteRender(s)

	vp := &fixedViewport{from: 0, to: 0, scale: 1, m: matrix.Matrix{1, 0, 0, 1, 3, 0}}
	c := whiteCanvas(20, 20)
	NewCompositor(doc, pages, vp).Paint(c)

	img := c.Target()
	cases := []struct {
		x    int
		want color.RGBA
	}{
		{2, white},
		{3, red},
		{12, red},
		{13, blue},
		{14, white},
	}
	for _, tc := range cases {
		for _, y := range []int{0, 10, 19} {
			if got := img.RGBAAt(tc.x, y); got != tc.want {
				t.Errorf("(%d,%d) is %v, want %v", tc.x, y, got, tc.want)
			}
		}
	}
}

func TestCompositorPlaceholder(t *testing.T) {
	doc := testdoc.Uniform(1, 100, 100)
	pages := NewPages(1)
	pages[0].BeginRender()
	pages[0].InstallPlaceholder(MakePlaceholder(100, 100))

	vp := &fixedViewport{from: 0, to: 0, scale: 1, m: matrix.Identity}
	c := NewCanvas(NewSurface(100, 100).Image())
	NewCompositor(doc, pages, vp).Paint(c)

	if got := c.Target().RGBAAt(2, 2); got != placeholderBackground {
		t.Errorf("got %v, want the placeholder background", got)
	}
}

func TestCompositorMissingSurface(t *testing.T) {
	doc := testdoc.Uniform(1, 10, 10)
	pages := NewPages(1)
	pages[0].BeginRender()

	vp := &fixedViewport{from: 0, to: 0, scale: 1, m: matrix.Identity}
	defer func() {
		if recover() == nil {
			t.Error("painting a rendering page without a surface did not panic")
		}
	}()
	NewCompositor(doc, pages, vp).Paint(whiteCanvas(10, 10))
}

func TestCompositorDarkMode(t *testing.T) {
	doc := testdoc.Uniform(2, 10, 10)
	pages := NewPages(2)
	pages[0].CompleteRender(solidSurface(10, 10, red))

	vp := &fixedViewport{from: 0, to: 1, scale: 1, m: matrix.Identity}
	c := whiteCanvas(10, 20)
	NewCompositor(doc, pages, vp, WithDarkMode(true)).Paint(c)

	img := c.Target()
	if got, want := img.RGBAAt(5, 5), (color.RGBA{G: 255, B: 255, A: 255}); got != want {
		t.Errorf("page: got %v, want %v", got, want)
	}
	if got := img.RGBAAt(5, 15); got != black {
		t.Errorf("background: got %v, want %v", got, black)
	}
}

func TestCompositorRangeClamped(t *testing.T) {
	doc := testdoc.Uniform(2, 10, 10)
	pages := NewPages(2)
	pages[1].CompleteRender(solidSurface(10, 10, blue))

	vp := &fixedViewport{from: -3, to: 7, scale: 1, m: matrix.Identity}
	c := whiteCanvas(10, 20)
	NewCompositor(doc, pages, vp).Paint(c)
	if got := c.Target().RGBAAt(5, 15); got != blue {
		t.Errorf("got %v, want %v", got, blue)
	}
}
