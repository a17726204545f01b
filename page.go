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
)

// Status is the render state of a page.
type Status int

// These are the states a page moves through.
const (
	NotRendered Status = iota
	Rendering
	Rendered
)

func (s Status) String() string {
	switch s {
	case NotRendered:
		return "not rendered"
	case Rendering:
		return "rendering"
	case Rendered:
		return "rendered"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Page holds the render state of one document page: its status and the
// cached surface.  Both are only accessed while holding the page's lock.
//
// The lifecycle is NotRendered → Rendering → Rendered, and back to
// NotRendered when the page is evicted or the document is closed.
type Page struct {
	index int

	mu      sync.Mutex
	status  Status
	surface *Surface

	// generation counts the resets of the page.  A render job remembers
	// the generation it was started in, so that results which arrive
	// after the page has been reset can be discarded.
	generation uint64
}

// NewPages returns n pages in the NotRendered state.
func NewPages(n int) []*Page {
	pages := make([]*Page, n)
	for i := range pages {
		pages[i] = &Page{index: i}
	}
	return pages
}

// Index returns the zero-based page number.
func (p *Page) Index() int {
	return p.index
}

// Status returns the current render state.
func (p *Page) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Reset releases the cached surface and marks the page as not rendered.
// Results of render jobs which are still in flight will be discarded.
func (p *Page) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.surface != nil {
		p.surface.Release()
		p.surface = nil
	}
	p.status = NotRendered
	p.generation++
}

// BeginRender marks a NotRendered page as Rendering and returns true.
// If the page is already rendering or rendered, it returns false and the
// caller must not start another render job.
func (p *Page) BeginRender() bool {
	_, ok := p.begin()
	return ok
}

func (p *Page) begin() (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != NotRendered {
		return 0, false
	}
	p.status = Rendering
	return p.generation, true
}

// abortRender undoes begin, after a render job could not be submitted.
func (p *Page) abortRender(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.generation != gen || p.status != Rendering {
		return
	}
	if p.surface != nil {
		p.surface.Release()
		p.surface = nil
	}
	p.status = NotRendered
}

// InstallPlaceholder shows s until the real content arrives.  If the page
// is not rendering, or already has a surface, s is released instead.
func (p *Page) InstallPlaceholder(s *Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != Rendering || p.surface != nil {
		s.Release()
		return
	}
	p.surface = s
}

// CompleteRender replaces any previous surface by s and marks the page as
// rendered.
func (p *Page) CompleteRender(s *Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.install(s)
}

// complete is CompleteRender for a render job started in generation gen.
// If the page has been reset since, s is released and false is returned.
func (p *Page) complete(gen uint64, s *Surface) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.generation != gen {
		s.Release()
		return false
	}
	p.install(s)
	return true
}

func (p *Page) install(s *Surface) {
	if p.surface != nil && p.surface != s {
		p.surface.Release()
	}
	p.surface = s
	p.status = Rendered
}

// withSurface calls fn with the status and surface while holding the page
// lock.  fn must not retain the surface.
func (p *Page) withSurface(fn func(status Status, s *Surface)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.status, p.surface)
}
