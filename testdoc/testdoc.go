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

// Package testdoc provides a synthetic in-memory document.
//
// Every page shows one filled shape.  Links and words can be placed on the
// pages, and the document records how it is used, so that tests can check
// the behaviour of the page cache.
package testdoc

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pageview/document"
)

// Ink is the colour of the shapes.
var Ink = color.RGBA{R: 0x20, G: 0x30, B: 0x90, A: 0xff}

// Page describes one page of a synthetic document.
type Page struct {
	Width, Height float64
	Shape         Shape
	Links         []document.Link
	Words         []Word

	// Err, if set, is returned by Rasterize for this page.
	Err error
}

// Word is a piece of text at a fixed position on a page.
type Word struct {
	Text string
	Area rect.Rect
}

// Doc is a synthetic document.  It implements [document.Document].
type Doc struct {
	pages []Page

	// Gate, if non-nil, makes every call to Rasterize wait until a value
	// can be received from the channel.
	Gate chan struct{}

	// Delay, if positive, makes Rasterize sleep before drawing.
	Delay time.Duration

	mu    sync.Mutex
	calls map[int]int

	active    atomic.Int32
	maxActive atomic.Int32
}

// New returns a document with the given pages.
func New(pages ...Page) *Doc {
	return &Doc{
		pages: pages,
		calls: make(map[int]int),
	}
}

// Uniform returns a document with n pages of size w x h.  The shapes cycle
// through all available shapes.
func Uniform(n int, w, h float64) *Doc {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{
			Width:  w,
			Height: h,
			Shape:  Shape(i % int(numShapes)),
		}
	}
	return New(pages...)
}

// Page gives access to the description of page i, for setting up links,
// words and errors before the document is used.
func (d *Doc) Page(i int) *Page {
	return &d.pages[i]
}

// PageCount implements [document.Document].
func (d *Doc) PageCount() int {
	return len(d.pages)
}

// PageSize implements [document.Document].
func (d *Doc) PageSize(index int) (width, height float64) {
	p := &d.pages[index]
	return p.Width, p.Height
}

// Rasterize implements [document.Document].
func (d *Doc) Rasterize(index int, dst *image.RGBA, scale float64) error {
	n := d.active.Add(1)
	defer d.active.Add(-1)
	for {
		m := d.maxActive.Load()
		if n <= m || d.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	d.mu.Lock()
	d.calls[index]++
	d.mu.Unlock()

	if d.Gate != nil {
		<-d.Gate
	}
	if d.Delay > 0 {
		time.Sleep(d.Delay)
	}

	if index < 0 || index >= len(d.pages) {
		return fmt.Errorf("testdoc: page %d out of range", index)
	}
	p := &d.pages[index]
	if p.Err != nil {
		return p.Err
	}

	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	addPath(z, p.Shape.Path(p.Width, p.Height), float32(scale))
	z.Draw(dst, b, image.NewUniform(Ink), image.Point{})
	return nil
}

// addPath copies a path into the rasterizer, scaling all coordinates.
func addPath(z *vector.Rasterizer, p *path.Data, scale float32) {
	k := 0
	next := func() (float32, float32) {
		v := p.Coords[k]
		k++
		return float32(v.X) * scale, float32(v.Y) * scale
	}
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			z.MoveTo(next())
		case path.CmdLineTo:
			z.LineTo(next())
		case path.CmdQuadTo:
			bx, by := next()
			cx, cy := next()
			z.QuadTo(bx, by, cx, cy)
		case path.CmdCubeTo:
			bx, by := next()
			cx, cy := next()
			dx, dy := next()
			z.CubeTo(bx, by, cx, cy, dx, dy)
		case path.CmdClose:
			z.ClosePath()
		}
	}
}

// FindText implements [document.Document].  The comparison ignores case.
func (d *Doc) FindText(index int, query string) []rect.Rect {
	if query == "" {
		return nil
	}
	query = strings.ToLower(query)
	var res []rect.Rect
	for _, w := range d.pages[index].Words {
		if strings.Contains(strings.ToLower(w.Text), query) {
			res = append(res, w.Area)
		}
	}
	return res
}

// Links implements [document.Document].
func (d *Doc) Links(index int) []document.Link {
	return d.pages[index].Links
}

// Calls returns how often page index has been rasterised.
func (d *Doc) Calls(index int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[index]
}

// TotalCalls returns the number of calls to Rasterize.
func (d *Doc) TotalCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.calls {
		total += n
	}
	return total
}

// MaxConcurrent returns the largest number of calls to Rasterize which
// were in progress at the same time.
func (d *Doc) MaxConcurrent() int {
	return int(d.maxActive.Load())
}
