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
	"sync"

	"github.com/oklog/ulid/v2"

	"seehuhn.de/go/pageview/document"
)

// Scheduler decides which pages need to be rasterised and dispatches the
// work to a pool of goroutines.
//
// Reconcile and Close must be called from a single goroutine, normally the
// one which paints the frames.  The render jobs call the redraw function
// from worker goroutines whenever a page has been completed.
type Scheduler struct {
	doc    document.Document
	pages  []*Page
	redraw func()

	pool        *workerPool
	placeholder func(width, height int) *Surface

	// renderLock serialises calls to doc.Rasterize.  It is held for
	// nothing else.
	renderLock sync.Mutex

	last Frame

	// links holds the links on the visible pages, in label order, while
	// link labels are shown.  It is only modified by Reconcile.  Jobs keep
	// the slice header they were given and only read the elements which
	// were present when they were submitted.
	links []document.Link
}

// NewScheduler returns a scheduler for the given pages of doc.
// The function redraw must be safe to call from any goroutine.
func NewScheduler(doc document.Document, pages []*Page, redraw func(), opts ...Option) *Scheduler {
	o := newOptions(opts)
	if redraw == nil {
		redraw = func() {}
	}
	return &Scheduler{
		doc:         doc,
		pages:       pages,
		redraw:      redraw,
		pool:        newWorkerPool(o.workers),
		placeholder: o.placeholder,
		last:        neverRendered,
	}
}

// Reconcile updates the page cache for a new frame.  Pages which left the
// visible range are evicted, and render jobs are submitted for pages which
// entered it.  If nothing relevant changed since the previous call,
// Reconcile does nothing.
func (s *Scheduler) Reconcile(f Frame) {
	p := planFrame(s.last, f)
	if p.kind == planNone {
		return
	}
	s.last = f

	Logger().Debug("reconcile",
		"kind", p.kind,
		"from", f.From, "to", f.To, "scale", f.Scale,
		"reset", p.reset, "render", p.render)

	for _, sp := range p.reset {
		for i := sp.from; i <= sp.to; i++ {
			if page := s.page(i); page != nil {
				page.Reset()
			}
		}
	}

	if p.kind == planFull {
		// Start a new slice, since jobs from the previous frame may still
		// read the old one.
		s.links = nil
	}
	for _, sp := range p.render {
		for i := sp.from; i <= sp.to; i++ {
			if page := s.page(i); page != nil {
				s.start(page, f)
			}
		}
	}
}

// start submits a render job for page, unless the page is already being
// rendered or has been rendered.
func (s *Scheduler) start(page *Page, f Frame) {
	gen, ok := page.begin()
	if !ok {
		return
	}
	idx := page.Index()

	job := &renderJob{
		id:     ulid.Make(),
		page:   page,
		gen:    gen,
		scale:  f.Scale,
		search: f.Search,
	}
	if f.FollowLinks {
		job.labelFrom = len(s.links)
		s.links = append(s.links, s.doc.Links(idx)...)
		job.labelTo = len(s.links)
		job.links = s.links
	}

	err := s.pool.Submit(func() { job.run(s) })
	if err != nil {
		page.abortRender(gen)
		if f.FollowLinks {
			if len(s.links) != job.labelTo {
				panic(fmt.Sprintf("pageview: link list has %d entries, expected %d",
					len(s.links), job.labelTo))
			}
			s.links = s.links[:job.labelFrom]
		}
		Logger().Warn("cannot submit render job",
			"job", job.id, "page", idx, "error", err)
		return
	}

	w, h := document.Size(s.doc, idx, f.Scale)
	page.InstallPlaceholder(s.placeholder(w, h))
}

func (s *Scheduler) page(i int) *Page {
	if i < 0 || i >= len(s.pages) {
		return nil
	}
	return s.pages[i]
}

// Links returns the links on the visible pages, in the order of their
// labels: the link with label n is at index n-1.  The list is empty unless
// the last frame had link labels enabled.
func (s *Scheduler) Links() []document.Link {
	if !s.last.FollowLinks {
		return nil
	}
	res := make([]document.Link, len(s.links))
	copy(res, s.links)
	return res
}

// LinkForLabel returns the link which carries the given label.
func (s *Scheduler) LinkForLabel(label int) (document.Link, bool) {
	if !s.last.FollowLinks || label < 1 || label > len(s.links) {
		return document.Link{}, false
	}
	return s.links[label-1], true
}

// Close waits for all queued render jobs to finish and stops the worker
// goroutines.  After Close, render jobs can no longer be submitted.
func (s *Scheduler) Close() {
	s.pool.Close()
}
