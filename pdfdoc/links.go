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

package pdfdoc

import (
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pageview"
	"seehuhn.de/go/pageview/document"
)

// loadLinks reads the link annotations of a page.  The caller must hold
// d.mu.
//
// The annotation rectangles come from the PDF parser.  MuPDF resolves the
// link targets, including named destinations, and reports them in the same
// order.  If the two lists disagree, only URI actions are kept.
func (d *Doc) loadLinks(index int) (links []document.Link) {
	defer func() {
		if r := recover(); r != nil {
			pageview.Logger().Warn("cannot read page links",
				"file", d.path, "page", index+1, "error", r)
			links = nil
		}
	}()

	p := d.r.Page(index + 1)
	if p.V.IsNull() {
		return nil
	}
	_, h := d.PageSize(index)
	annots := linkAnnotations(p.V.Key("Annots"), h)

	targets, err := d.fz.Links(index)
	if err != nil {
		pageview.Logger().Debug("no link targets from MuPDF",
			"file", d.path, "page", index+1, "error", err)
	}
	if len(targets) == len(annots) {
		for i, t := range targets {
			annots[i].Action = parseTarget(t.URI)
		}
	}

	for _, l := range annots {
		if l.Action.Kind != document.ActionNone {
			links = append(links, l)
		}
	}
	return links
}

// linkAnnotations converts the /Link entries of an /Annots array.
func linkAnnotations(annots pdf.Value, pageH float64) []document.Link {
	var res []document.Link
	for i := range annots.Len() {
		a := annots.Index(i)
		if a.Key("Subtype").Name() != "Link" {
			continue
		}
		r := a.Key("Rect")
		if r.Len() != 4 {
			continue
		}
		x0, y0 := r.Index(0).Float64(), r.Index(1).Float64()
		x1, y1 := r.Index(2).Float64(), r.Index(3).Float64()

		l := document.Link{
			Area: rect.Rect{
				LLx: min(x0, x1),
				LLy: pageH - max(y0, y1),
				URx: max(x0, x1),
				URy: pageH - min(y0, y1),
			},
		}
		if uri := a.Key("A").Key("URI"); !uri.IsNull() {
			l.Action = document.Action{Kind: document.ActionURI, URI: uri.Text()}
		}
		res = append(res, l)
	}
	return res
}

// parseTarget interprets a link target as reported by MuPDF.  Targets
// inside the document have the form "#page=N&..." or "#N,x,y", with
// one-based page numbers.  Everything else is an external URI.
func parseTarget(uri string) document.Action {
	if uri == "" {
		return document.Action{}
	}
	frag, ok := strings.CutPrefix(uri, "#")
	if !ok {
		return document.Action{Kind: document.ActionURI, URI: uri}
	}

	frag = strings.TrimPrefix(frag, "page=")
	if k := strings.IndexAny(frag, "&,"); k >= 0 {
		frag = frag[:k]
	}
	n, err := strconv.Atoi(frag)
	if err != nil || n < 1 {
		return document.Action{}
	}
	return document.Action{Kind: document.ActionGoTo, Page: n - 1}
}
