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
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/pageview/document"
)

var (
	highlightColor = color.NRGBA{R: 0, G: 255, B: 0, A: 128}
	labelFill      = color.RGBA{R: 255, A: 255}
	labelOutline   = color.Black
	edgeColor      = color.Black
)

// renderJob rasterises one page.  All fields are fixed when the job is
// submitted.
type renderJob struct {
	id    ulid.ULID
	page  *Page
	gen   uint64
	scale float64

	search string

	// links[labelFrom:labelTo] are the links on this page.  They get the
	// labels labelFrom+1, ..., labelTo.
	labelFrom, labelTo int
	links              []document.Link
}

// run executes the job on a worker goroutine.
func (j *renderJob) run(s *Scheduler) {
	start := time.Now()
	idx := j.page.Index()
	w, h := document.Size(s.doc, idx, j.scale)

	surface := NewSurface(w, h)
	surface.Canvas().Paint(color.White)

	err := j.rasterize(s, surface)
	if err != nil {
		Logger().Error("cannot rasterise page",
			"job", j.id, "page", idx, "error", err)
		surface.Release()
		surface = makeErrorPlaceholder(w, h)
	} else {
		j.decorate(s.doc, surface)
	}

	if !j.page.complete(j.gen, surface) {
		Logger().Debug("dropping stale page", "job", j.id, "page", idx)
	} else {
		Logger().Debug("page rendered",
			"job", j.id, "page", idx, "scale", j.scale,
			"duration", time.Since(start))
	}
	s.redraw()
}

// rasterize holds the render lock for the duration of the Rasterize call.
func (j *renderJob) rasterize(s *Scheduler, surface *Surface) error {
	s.renderLock.Lock()
	defer s.renderLock.Unlock()
	return s.doc.Rasterize(j.page.Index(), surface.Image(), j.scale)
}

// decorate draws the search highlights, the link labels and the left edge
// line on top of the page content.
func (j *renderJob) decorate(doc document.Document, surface *Surface) {
	if j.scale <= 0 {
		return
	}
	idx := j.page.Index()
	_, pageH := doc.PageSize(idx)

	c := surface.Canvas()
	c.Scale(j.scale, j.scale)

	if j.search != "" {
		for _, r := range doc.FindText(idx, j.search) {
			c.FillRect(r, highlightColor)
		}
	}

	if j.labelTo > j.labelFrom {
		face := newFace(true, labelSize)
		defer face.Close()
		for i, link := range j.links[j.labelFrom:j.labelTo] {
			label := strconv.Itoa(j.labelFrom + i + 1)
			c.DrawOutlinedText(label, link.Area.LLx, link.Area.URy, face, labelFill, labelOutline)
		}
	}

	px := 1 / j.scale
	c.Line(px/2, 0, px/2, pageH, px, graphics.LineCapButt, edgeColor)
}
