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
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"seehuhn.de/go/geom/rect"
)

// descent is the part of the font size below the baseline which is
// included in a search match.
const descent = 0.25

// guessAdvance is the advance width per character, as a fraction of the font
// size, used for text without glyph widths.
const guessAdvance = 0.5

// glyph is a piece of text with its position in document space.
type glyph struct {
	x0, x1   float64
	top, bot float64
}

// line is a run of glyphs on a common baseline.
type line struct {
	text   string // lower case
	glyphs []glyph
	start  []int // start[i] is the offset of glyphs[i] in text
}

// splitLines groups the text of a page into lines, in content stream
// order.  PDF coordinates are converted to a top-left origin using the
// page height.
func splitLines(text []pdf.Text, pageH float64) []line {
	var lines []line
	var cur line
	var sb strings.Builder
	lastY := math.NaN()
	var lastX, pen float64

	flush := func() {
		if len(cur.glyphs) > 0 {
			cur.text = sb.String()
			lines = append(lines, cur)
		}
		cur = line{}
		sb.Reset()
	}

	for _, t := range text {
		if t.S == "" {
			continue
		}
		tol := max(t.FontSize/2, 0.5)
		if math.IsNaN(lastY) || math.Abs(t.Y-lastY) > tol {
			flush()
		}
		lastY = t.Y

		// Fonts without /Widths give zero widths, and the text position
		// is not advanced.  Place such glyphs after their predecessor.
		x0, w := t.X, t.W
		if w <= 0 {
			w = guessAdvance * t.FontSize * float64(utf8.RuneCountInString(t.S))
			if len(cur.glyphs) > 0 && t.X == lastX {
				x0 = pen
			}
		}
		lastX, pen = t.X, x0+w

		cur.start = append(cur.start, sb.Len())
		sb.WriteString(strings.ToLower(t.S))
		cur.glyphs = append(cur.glyphs, glyph{
			x0:  x0,
			x1:  x0 + w,
			top: pageH - (t.Y + t.FontSize),
			bot: pageH - (t.Y - descent*t.FontSize),
		})
	}
	flush()
	return lines
}

// find returns the bounding boxes of all occurrences of query in the line.
func (l *line) find(query string) []rect.Rect {
	if query == "" {
		return nil
	}
	query = strings.ToLower(query)
	var res []rect.Rect
	pos := 0
	for {
		k := strings.Index(l.text[pos:], query)
		if k < 0 {
			return res
		}
		first := l.glyphAt(pos + k)
		last := l.glyphAt(pos + k + len(query) - 1)

		r := rect.Rect{
			LLx: math.Inf(1), LLy: math.Inf(1),
			URx: math.Inf(-1), URy: math.Inf(-1),
		}
		for _, g := range l.glyphs[first : last+1] {
			r.LLx = min(r.LLx, g.x0)
			r.URx = max(r.URx, g.x1)
			r.LLy = min(r.LLy, g.top)
			r.URy = max(r.URy, g.bot)
		}
		res = append(res, r)
		pos += k + len(query)
	}
}

// glyphAt returns the index of the glyph which contains the given byte
// offset of l.text.
func (l *line) glyphAt(offset int) int {
	lo, hi := 0, len(l.start)
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if l.start[mid] <= offset {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
