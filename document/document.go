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

// Package document defines the document model consumed by the page cache.
//
// All rectangles are given in document units (PDF points for PDF files).
// The origin is the top-left corner of the page and y grows downwards, so
// that document space maps onto image space by a plain scaling.  For a
// [rect.Rect], LLx/LLy hold the minimum corner and URx/URy the maximum
// corner.
package document

import (
	"image"

	"seehuhn.de/go/geom/rect"
)

// Document is a paginated document which can be rasterised page by page.
//
// PageCount, PageSize, FindText and Links must be safe for concurrent use.
// Rasterize is not: callers must make sure that at most one call to
// Rasterize is in progress at any time, even for different pages.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageSize returns the intrinsic size of the page in document units.
	PageSize(index int) (width, height float64)

	// Rasterize draws the page content into dst.  The image has the size
	// of the page multiplied by scale, rounded up to whole pixels, and
	// its origin corresponds to the top-left corner of the page.
	Rasterize(index int, dst *image.RGBA, scale float64) error

	// FindText returns the areas on the page where query occurs.
	FindText(index int, query string) []rect.Rect

	// Links returns the clickable regions of the page.
	Links(index int) []Link
}

// Link is a clickable region on a page.
type Link struct {
	Area   rect.Rect
	Action Action
}

// ActionKind describes what following a link does.
type ActionKind int

// These are the supported link actions.
const (
	ActionNone ActionKind = iota
	ActionGoTo            // jump to Action.Page
	ActionURI             // open Action.URI
)

func (k ActionKind) String() string {
	switch k {
	case ActionGoTo:
		return "goto"
	case ActionURI:
		return "uri"
	default:
		return "none"
	}
}

// Action is the target of a link.
type Action struct {
	Kind ActionKind
	Page int // zero-based, for ActionGoTo
	URI  string
}

// Size returns the page size rounded up to whole pixels at the given scale.
func Size(doc Document, index int, scale float64) (width, height int) {
	w, h := doc.PageSize(index)
	return PixelSize(w, h, scale)
}

// PixelSize converts a size in document units to whole pixels at the given
// scale.  The result is at least 1x1.
func PixelSize(w, h, scale float64) (width, height int) {
	width = ceil(w * scale)
	height = ceil(h * scale)
	return max(width, 1), max(height, 1)
}

// ceil rounds up, ignoring floating point noise just above an integer.
func ceil(x float64) int {
	n := int(x)
	if x-float64(n) > 1e-6 {
		n++
	}
	return n
}
