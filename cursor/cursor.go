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

// Package cursor keeps track of the position of a viewer inside a document.
//
// Vertical scrolling moves in steps: every page is divided into a fixed
// number of steps, and scrolling past the first or last step of a page
// continues on the neighbouring page.  The zoom is applied around the
// centre of the view.
package cursor

import (
	"math"

	"seehuhn.de/go/geom/matrix"
)

// Default values for the parameters of a Cursor.
const (
	DefaultSteps     = 15
	DefaultMinScale  = 0.3
	DefaultScaleStep = 0.1
)

// Layout gives the number and the sizes of the pages of a document.
// Every document.Document implements this interface.
type Layout interface {
	PageCount() int
	PageSize(index int) (width, height float64)
}

// Params holds the tunable parameters of a Cursor.
// Zero values are replaced by the defaults.
type Params struct {
	Steps     int     // scroll steps per page
	MinScale  float64 // smallest allowed zoom factor
	ScaleStep float64 // zoom change for ZoomIn and ZoomOut
}

// Cursor is a position in a document, together with a zoom factor.
// Cursor implements the pageview.Viewport interface.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	layout Layout
	params Params

	viewW, viewH float64

	page    int
	yOffset int     // in steps, 0 <= yOffset < Steps
	xOffset float64 // in steps
	scale   float64
	centre  bool
}

// New returns a cursor at the top of the first page of the document.
// The cursor starts with zoom factor 1 in centre mode.
func New(layout Layout, viewW, viewH float64, p Params) *Cursor {
	if p.Steps <= 0 {
		p.Steps = DefaultSteps
	}
	if p.MinScale <= 0 {
		p.MinScale = DefaultMinScale
	}
	if p.ScaleStep <= 0 {
		p.ScaleStep = DefaultScaleStep
	}
	return &Cursor{
		layout: layout,
		params: p,
		viewW:  viewW,
		viewH:  viewH,
		scale:  1,
		centre: true,
	}
}

// SetViewSize changes the size of the view, in device pixels.
func (c *Cursor) SetViewSize(w, h float64) {
	c.viewW, c.viewH = w, h
}

// Page returns the index of the current page.
func (c *Cursor) Page() int {
	return c.page
}

// Offset returns the horizontal and vertical scroll position inside the
// current page, in steps.
func (c *Cursor) Offset() (x float64, y int) {
	return c.currentX(), c.yOffset
}

// Scale returns the zoom factor.
func (c *Cursor) Scale() float64 {
	return c.scale
}

// SetScale changes the zoom factor.  Values below the minimum scale are
// replaced by the minimum.
func (c *Cursor) SetScale(s float64) {
	c.scale = max(c.params.MinScale, s)
}

// ZoomIn increases the zoom factor by one scale step.
func (c *Cursor) ZoomIn() {
	c.SetScale(c.scale + c.params.ScaleStep)
}

// ZoomOut decreases the zoom factor by one scale step.
func (c *Cursor) ZoomOut() {
	c.SetScale(c.scale - c.params.ScaleStep)
}

// Scroll moves the cursor down by the given number of steps, or up if
// steps is negative.  Scrolling stops at the first step of the first page
// and at the last step of the last page.
func (c *Cursor) Scroll(steps int) {
	n := c.layout.PageCount()
	if n == 0 {
		return
	}
	k := c.params.Steps
	pos := c.page*k + c.yOffset + steps
	pos = min(max(pos, 0), n*k-1)
	c.page = pos / k
	c.yOffset = pos % k
}

// ScrollHorizontal moves the page by the given number of steps.  This has
// no visible effect while centre mode is on.
func (c *Cursor) ScrollHorizontal(steps float64) {
	c.xOffset += steps
}

// GotoPage jumps to the top of the given page and fits the page height to
// the view.  Out of range page numbers are clamped.
func (c *Cursor) GotoPage(page int) {
	n := c.layout.PageCount()
	if n == 0 {
		return
	}
	c.page = min(max(page, 0), n-1)
	c.yOffset = 0
	c.FitVertical()
}

// FitHorizontal chooses the zoom factor so that the width of the current
// page fills the view.
func (c *Cursor) FitHorizontal() {
	w, _ := c.pageSize()
	if w > 0 {
		c.scale = c.viewW / w
	}
	c.Centre()
}

// FitVertical chooses the zoom factor so that the height of the current
// page fills the view.
func (c *Cursor) FitVertical() {
	_, h := c.pageSize()
	if h > 0 {
		c.scale = c.viewH / h
	}
	c.Centre()
}

// Centre moves the current page to the horizontal centre of the view.
func (c *Cursor) Centre() {
	c.xOffset = c.centredX()
}

// CentreMode reports whether the page is kept centred horizontally.
func (c *Cursor) CentreMode() bool {
	return c.centre
}

// ToggleCentreMode switches centre mode on or off.
func (c *Cursor) ToggleCentreMode() {
	c.centre = !c.centre
}

// VisibleRange returns the range of pages which may be visible.
// This implements the pageview.Viewport interface.
func (c *Cursor) VisibleRange() (from, to int) {
	n := c.layout.PageCount()
	if n == 0 {
		return 0, -1
	}
	_, h := c.pageSize()
	half := 1
	if h > 0 && c.scale > 0 {
		visible := c.viewH / (c.scale * h)
		half = int(math.Ceil(visible / 2))
	}
	from = max(0, c.page-half)
	to = min(n-1, c.page+half+1)
	return from, to
}

// Transform maps document space to device space.
// This implements the pageview.Viewport interface.
func (c *Cursor) Transform() matrix.Matrix {
	w, h := c.pageSize()
	k := float64(c.params.Steps)

	tx := math.Round(c.currentX() / k * w)
	ty := math.Round(-c.pageTop(c.page) - float64(c.yOffset)/k*h)

	// zoom around the centre of the view, then scroll
	cx := math.Round(c.viewW / 2)
	cy := math.Round(c.viewH / 2)
	s := c.scale
	return matrix.Matrix{
		s, 0,
		0, s,
		s*tx + cx*(1-s), s*ty + cy*(1-s),
	}
}

func (c *Cursor) currentX() float64 {
	if c.centre {
		return c.centredX()
	}
	return c.xOffset
}

func (c *Cursor) centredX() float64 {
	w, _ := c.pageSize()
	if w <= 0 {
		return 0
	}
	return (c.viewW/2 - w/2) / (w / float64(c.params.Steps))
}

// pageTop returns the vertical position of the top edge of a page in
// document space.
func (c *Cursor) pageTop(page int) float64 {
	var y float64
	for i := range page {
		_, h := c.layout.PageSize(i)
		y += h
	}
	return y
}

func (c *Cursor) pageSize() (w, h float64) {
	if c.layout.PageCount() == 0 {
		return 0, 0
	}
	return c.layout.PageSize(c.page)
}
