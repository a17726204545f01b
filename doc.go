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

// Package pageview implements the page cache of a document viewer.
//
// A [View] keeps one [Page] per page of a [document.Document].  Every
// frame, [View.Draw] compares the visible page range with the one of the
// previous frame.  Pages which scrolled out of view are evicted, and pages
// which scrolled into view are rasterised in the background by a pool of
// worker goroutines.  Until a page is ready, a placeholder surface is shown
// in its place.  When a page is completed, the redraw function passed to
// [Open] is called, so that the host can paint a new frame.
//
// Painting uses a [Canvas], a small drawing context for RGBA images with
// an anti-aliased polygon filler.
package pageview
