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
	"seehuhn.de/go/pageview/document"
)

// Mode holds the display settings which change the content of the pages.
type Mode struct {
	FollowLinks bool
	Search      string
}

// View shows one open document.  It owns the page cache of the document,
// together with the scheduler and the compositor which operate on it.
//
// All methods except Pages must be called from the goroutine which paints
// the frames.
type View struct {
	doc   document.Document
	vp    Viewport
	pages []*Page

	sched *Scheduler
	comp  *Compositor
}

// Open prepares doc for display.  The function redraw is called, from
// arbitrary goroutines, whenever a page has finished rendering and the
// view should be painted again.
func Open(doc document.Document, vp Viewport, redraw func(), opts ...Option) *View {
	pages := NewPages(doc.PageCount())
	return &View{
		doc:   doc,
		vp:    vp,
		pages: pages,
		sched: NewScheduler(doc, pages, redraw, opts...),
		comp:  NewCompositor(doc, pages, vp, opts...),
	}
}

// Draw paints the current frame into c.  Pages which became visible
// are queued for rendering, pages which are no longer visible are
// evicted from the cache.
func (v *View) Draw(c *Canvas, m Mode) {
	from, to := v.vp.VisibleRange()
	v.sched.Reconcile(Frame{
		From:        from,
		To:          to,
		Scale:       v.vp.Scale(),
		FollowLinks: m.FollowLinks,
		Search:      m.Search,
	})
	v.comp.Paint(c)
}

// Pages returns the page cache.
func (v *View) Pages() []*Page {
	return v.pages
}

// Links returns the labelled links of the last frame.  The link with
// label n is at index n-1.
func (v *View) Links() []document.Link {
	return v.sched.Links()
}

// LinkForLabel returns the link which was shown with the given label in
// the last frame.
func (v *View) LinkForLabel(label int) (document.Link, bool) {
	return v.sched.LinkForLabel(label)
}

// NextMatch returns the first page after page from (or before it, if
// forward is false) which contains query.  The search wraps around the
// end of the document and finishes with page from itself.
func (v *View) NextMatch(from int, query string, forward bool) (int, bool) {
	n := len(v.pages)
	if n == 0 || query == "" {
		return 0, false
	}
	step := 1
	if !forward {
		step = n - 1
	}
	from = ((from % n) + n) % n
	for k, i := 0, from; k < n; k++ {
		i = (i + step) % n
		if len(v.doc.FindText(i, query)) > 0 {
			return i, true
		}
	}
	return 0, false
}

// Close waits for outstanding render jobs and releases all cached
// surfaces.  The view must not be used after Close.
func (v *View) Close() {
	v.sched.Close()
	for _, p := range v.pages {
		p.Reset()
	}
}
