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
	"image"
	"image/color"
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf/graphics"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

func whiteCanvas(w, h int) *Canvas {
	c := NewCanvas(image.NewRGBA(image.Rect(0, 0, w, h)))
	c.Paint(color.White)
	return c
}

func solidSurface(w, h int, col color.Color) *Surface {
	s := NewSurface(w, h)
	s.Canvas().Paint(col)
	return s
}

func TestFillRect(t *testing.T) {
	c := whiteCanvas(10, 10)
	c.FillRect(rect.Rect{LLx: 2, LLy: 2, URx: 6, URy: 5}, red)

	img := c.Target()
	if got := img.RGBAAt(3, 3); got != red {
		t.Errorf("inside: got %v, want %v", got, red)
	}
	if got := img.RGBAAt(7, 3); got != white {
		t.Errorf("outside: got %v, want %v", got, white)
	}
}

func TestTranslucentFill(t *testing.T) {
	c := whiteCanvas(4, 4)
	c.FillRect(rect.Rect{URx: 4, URy: 4}, highlightColor)

	got := c.Target().RGBAAt(1, 1)
	if got.G != 255 || got.A != 255 {
		t.Errorf("got %v, want full green and alpha", got)
	}
	if got.R < 125 || got.R > 130 || got.B < 125 || got.B > 130 {
		t.Errorf("got %v, want half intensity red and blue", got)
	}
}

func TestDrawSurfaceCopy(t *testing.T) {
	c := whiteCanvas(10, 10)
	c.Translate(2, 3)
	c.DrawSurface(solidSurface(4, 4, red), 0, 0, 4, 4)

	img := c.Target()
	for _, pt := range []image.Point{{2, 3}, {5, 6}} {
		if got := img.RGBAAt(pt.X, pt.Y); got != red {
			t.Errorf("%v: got %v, want %v", pt, got, red)
		}
	}
	for _, pt := range []image.Point{{1, 3}, {2, 2}, {6, 6}, {5, 7}} {
		if got := img.RGBAAt(pt.X, pt.Y); got != white {
			t.Errorf("%v: got %v, want %v", pt, got, white)
		}
	}
}

func TestDrawSurfaceScaled(t *testing.T) {
	c := whiteCanvas(10, 10)
	c.Scale(2, 2)
	// a 4x4 pixel surface covering 2x2 user space units, drawn at 2x zoom
	c.DrawSurface(solidSurface(4, 4, blue), 1, 1, 2, 2)

	img := c.Target()
	if got := img.RGBAAt(4, 4); got != blue {
		t.Errorf("inside: got %v, want %v", got, blue)
	}
	if got := img.RGBAAt(7, 7); got != white {
		t.Errorf("outside: got %v, want %v", got, white)
	}

	c = whiteCanvas(10, 10)
	c.DrawSurface(solidSurface(2, 2, blue), 0, 0, 8, 8)
	img = c.Target()
	if got := img.RGBAAt(4, 4); got != blue {
		t.Errorf("upscaled: got %v, want %v", got, blue)
	}
	if got := img.RGBAAt(9, 9); got != white {
		t.Errorf("upscaled outside: got %v, want %v", got, white)
	}
}

func TestDrawReleasedSurface(t *testing.T) {
	c := whiteCanvas(4, 4)
	s := solidSurface(4, 4, red)
	s.Release()
	s.Release()
	c.DrawSurface(s, 0, 0, 4, 4)
	if got := c.Target().RGBAAt(1, 1); got != white {
		t.Errorf("got %v, want %v", got, white)
	}
	if w, h := s.Size(); w != 0 || h != 0 {
		t.Errorf("released surface has size %dx%d", w, h)
	}
}

func TestLine(t *testing.T) {
	c := whiteCanvas(4, 10)
	c.Line(0.5, 0, 0.5, 10, 1, graphics.LineCapButt, black)

	img := c.Target()
	if got := img.RGBAAt(0, 5); got != black {
		t.Errorf("on the line: got %v, want %v", got, black)
	}
	if got := img.RGBAAt(1, 5); got != white {
		t.Errorf("next to the line: got %v, want %v", got, white)
	}
}

func TestLineCaps(t *testing.T) {
	for _, capStyle := range []graphics.LineCapStyle{graphics.LineCapButt, graphics.LineCapRound, graphics.LineCapSquare} {
		c := whiteCanvas(20, 10)
		c.Line(5, 5, 15, 5, 4, capStyle, black)
		img := c.Target()

		if got := img.RGBAAt(10, 5); got != black {
			t.Errorf("cap %d: centre is %v", capStyle, got)
		}
		// Pixel 3 lies within 2 units of the start point, on the axis.
		beyond := img.RGBAAt(3, 4)
		if capStyle == graphics.LineCapButt && beyond != white {
			t.Errorf("butt cap extends beyond the end point: %v", beyond)
		}
		if capStyle == graphics.LineCapSquare && beyond != black {
			t.Errorf("square cap does not extend beyond the end point: %v", beyond)
		}
	}
}

func TestSaveRestore(t *testing.T) {
	c := whiteCanvas(4, 4)
	c.Save()
	c.Translate(1, 2)
	c.Scale(3, 3)
	want := matrix.Matrix{3, 0, 0, 3, 1, 2}
	if got := c.CTM(); got != want {
		t.Errorf("CTM = %v, want %v", got, want)
	}
	c.Restore()
	if got := c.CTM(); got != matrix.Identity {
		t.Errorf("CTM after Restore = %v, want identity", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("unbalanced Restore did not panic")
		}
	}()
	c.Restore()
}

func TestTransformOrder(t *testing.T) {
	c := whiteCanvas(10, 10)
	c.Scale(2, 3)
	c.Translate(5, 7)

	// user space is translated first, then scaled
	x, y := c.CTM().Apply(1, 1)
	if math.Abs(x-12) > 1e-12 || math.Abs(y-24) > 1e-12 {
		t.Errorf("got (%g, %g), want (12, 24)", x, y)
	}

	c.Save()
	c.Transform(matrix.Matrix{0, 1, -1, 0, 0, 0})
	x, y = c.CTM().Apply(1, 0)
	if math.Abs(x-10) > 1e-12 || math.Abs(y-24) > 1e-12 {
		t.Errorf("rotated: got (%g, %g), want (10, 24)", x, y)
	}
	c.Restore()
	if got, want := c.CTM(), (matrix.Matrix{2, 0, 0, 3, 10, 21}); got != want {
		t.Errorf("restored CTM %v, want %v", got, want)
	}
}

func TestDrawText(t *testing.T) {
	c := whiteCanvas(60, 30)
	face := newFace(true, labelSize)
	defer face.Close()
	c.DrawOutlinedText("12", 5, 20, face, labelFill, labelOutline)

	var sawFill, sawOutline bool
	img := c.Target()
	for y := range 30 {
		for x := range 60 {
			switch img.RGBAAt(x, y) {
			case red:
				sawFill = true
			case black:
				sawOutline = true
			}
		}
	}
	if !sawFill || !sawOutline {
		t.Errorf("fill drawn: %t, outline drawn: %t", sawFill, sawOutline)
	}
}
