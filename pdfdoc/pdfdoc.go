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

// Package pdfdoc implements [document.Document] for PDF files.
//
// Pages are rasterised by MuPDF, through go-fitz.  Text positions and link
// annotations are read with a pure Go PDF parser.  Document units are PDF
// points.
package pdfdoc

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	xdraw "golang.org/x/image/draw"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pageview"
	"seehuhn.de/go/pageview/document"
)

// Doc is a PDF file opened for viewing.
type Doc struct {
	path string
	fz   *fitz.Document
	size [][2]float64

	// mu protects the fields below.  The PDF parser is not safe for
	// concurrent use.
	mu    sync.Mutex
	file  *os.File
	r     *pdf.Reader
	text  map[int][]line
	links map[int][]document.Link
}

var _ document.Document = (*Doc)(nil)

// Open opens the PDF file at path.
func Open(path string) (*Doc, error) {
	fz, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: cannot open %q: %w", path, err)
	}

	n := fz.NumPage()
	size := make([][2]float64, n)
	for i := range n {
		b, err := fz.Bound(i)
		if err != nil {
			fz.Close()
			return nil, fmt.Errorf("pdfdoc: %q page %d: %w", path, i+1, err)
		}
		size[i] = [2]float64{float64(b.Dx()), float64(b.Dy())}
	}

	file, r, err := pdf.Open(path)
	if err != nil {
		fz.Close()
		return nil, fmt.Errorf("pdfdoc: cannot parse %q: %w", path, err)
	}

	return &Doc{
		path:  path,
		fz:    fz,
		size:  size,
		file:  file,
		r:     r,
		text:  make(map[int][]line),
		links: make(map[int][]document.Link),
	}, nil
}

// Close releases all resources associated with the document.
func (d *Doc) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return errors.Join(d.fz.Close(), d.file.Close())
}

// PageCount returns the number of pages in the document.
func (d *Doc) PageCount() int {
	return len(d.size)
}

// PageSize returns the size of a page in PDF points.
func (d *Doc) PageSize(index int) (width, height float64) {
	return d.size[index][0], d.size[index][1]
}

// Rasterize renders a page with MuPDF and copies the result into dst.
func (d *Doc) Rasterize(index int, dst *image.RGBA, scale float64) error {
	if index < 0 || index >= len(d.size) {
		return fmt.Errorf("pdfdoc: page %d out of range", index)
	}
	img, err := d.fz.ImageDPI(index, 72*scale)
	if err != nil {
		return fmt.Errorf("pdfdoc: page %d: %w", index+1, err)
	}
	xdraw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, xdraw.Src)
	return nil
}

// FindText returns the bounding boxes of all occurrences of query on the
// page.  The search is case-insensitive and does not cross line breaks.
func (d *Doc) FindText(index int, query string) []rect.Rect {
	if query == "" {
		return nil
	}

	d.mu.Lock()
	lines, ok := d.text[index]
	if !ok {
		lines = d.loadText(index)
		d.text[index] = lines
	}
	d.mu.Unlock()

	var res []rect.Rect
	for _, l := range lines {
		res = append(res, l.find(query)...)
	}
	return res
}

// Links returns the link annotations of the page.
func (d *Doc) Links(index int) []document.Link {
	d.mu.Lock()
	defer d.mu.Unlock()

	links, ok := d.links[index]
	if !ok {
		links = d.loadLinks(index)
		d.links[index] = links
	}
	return links
}

// loadText extracts the text lines of a page.  The caller must hold d.mu.
func (d *Doc) loadText(index int) (lines []line) {
	defer func() {
		if r := recover(); r != nil {
			pageview.Logger().Warn("cannot read page text",
				"file", d.path, "page", index+1, "error", r)
			lines = nil
		}
	}()

	p := d.r.Page(index + 1)
	if p.V.IsNull() {
		return nil
	}
	_, h := d.PageSize(index)
	return splitLines(p.Content().Text, h)
}
