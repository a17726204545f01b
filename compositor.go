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
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/pageview/document"
)

// Viewport describes which part of the document is shown.
//
// Document space stacks the pages vertically, starting with the top-left
// corner of page 0 at the origin, in document units.
type Viewport interface {
	// VisibleRange returns the inclusive range of pages which are at
	// least partially visible.
	VisibleRange() (from, to int)

	// Scale returns the zoom factor, in device pixels per document unit.
	Scale() float64

	// Transform maps document space to device space.  It includes the
	// zoom factor and the scroll position.
	Transform() matrix.Matrix
}

var separatorColor = color.Black

// Compositor paints the cached page surfaces into a frame.
// It must only be used on the goroutine which paints the frames.
type Compositor struct {
	doc      document.Document
	pages    []*Page
	vp       Viewport
	darkMode bool
}

// NewCompositor returns a compositor for the given pages of doc.
func NewCompositor(doc document.Document, pages []*Page, vp Viewport, opts ...Option) *Compositor {
	o := newOptions(opts)
	return &Compositor{
		doc:      doc,
		pages:    pages,
		vp:       vp,
		darkMode: o.darkMode,
	}
}

// Paint draws all visible pages which are rendered or rendering.
// Pages are not modified, and Paint never waits for a render job.
func (comp *Compositor) Paint(c *Canvas) {
	from, to := comp.vp.VisibleRange()
	from = max(from, 0)
	to = min(to, len(comp.pages)-1)
	scale := comp.vp.Scale()

	c.Save()
	c.Transform(comp.vp.Transform())

	var offset float64
	for i := range from {
		_, h := comp.doc.PageSize(i)
		offset += h
	}
	for i := from; i <= to; i++ {
		w, h := comp.doc.PageSize(i)
		comp.pages[i].withSurface(func(status Status, s *Surface) {
			if status == NotRendered {
				return
			}
			if s == nil {
				panic(fmt.Sprintf("pageview: page %d is %s but has no surface", i, status))
			}
			// Surfaces are rounded up to whole pixels, and are drawn one
			// to one when they match the current scale.
			dw, dh := w, h
			if scale > 0 {
				pw, ph := s.Size()
				if ew, eh := document.PixelSize(w, h, scale); pw == ew && ph == eh {
					dw, dh = float64(pw)/scale, float64(ph)/scale
				}
			}
			c.DrawSurface(s, 0, offset, dw, dh)
			if i > from && scale > 0 {
				px := 1 / scale
				c.Line(0, offset+px/2, w, offset+px/2, px, graphics.LineCapButt, separatorColor)
			}
		})
		offset += h
	}
	c.Restore()

	if comp.darkMode {
		invert(c.Target())
	}
}

// invert replaces every colour in img by its complement.
func invert(img *image.RGBA) {
	inv := imaging.Invert(img)
	xdraw.Draw(img, img.Bounds(), inv, inv.Bounds().Min, xdraw.Src)
}
