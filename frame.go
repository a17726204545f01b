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
	"math"
)

// scaleTolerance is the largest change of the zoom factor which is not
// treated as a zoom.
const scaleTolerance = 1e-6

// Frame describes everything which affects the content of the rendered
// pages in one frame.
type Frame struct {
	From, To int // inclusive range of visible pages

	Scale float64

	FollowLinks bool   // show numbered labels on all links
	Search      string // highlight occurrences of this text, if non-empty
}

// neverRendered is the frame before the first call to Reconcile.
var neverRendered = Frame{From: -1, To: -1, Scale: -1}

// empty reports whether the frame shows no pages.  This includes the
// sentinel frame.
func (f Frame) empty() bool {
	return f.To < 0 || f.To < f.From
}

// span is an inclusive range of page indices.  It is empty if from > to.
type span struct {
	from, to int
}

func (s span) empty() bool {
	return s.from > s.to
}

func (s span) String() string {
	if s.empty() {
		return "[]"
	}
	return fmt.Sprintf("[%d,%d]", s.from, s.to)
}

type planKind int

const (
	planNone planKind = iota
	planFull
	planForward
	planBackward
	planResize
)

func (k planKind) String() string {
	switch k {
	case planNone:
		return "none"
	case planFull:
		return "full"
	case planForward:
		return "forward"
	case planBackward:
		return "backward"
	case planResize:
		return "resize"
	default:
		return fmt.Sprintf("planKind(%d)", int(k))
	}
}

// plan lists the pages to evict and the pages to render when moving from
// one frame to the next.
type plan struct {
	kind   planKind
	reset  []span
	render []span
}

// planFrame compares the new frame cur with the previous frame old.
//
// If anything other than the visible range changed, or link labels are
// shown, all pages of the old range are evicted and all pages of the new
// range are rendered.  Link labels are numbered across the whole visible
// range, so a change of the range changes the labels on every page.
// Otherwise only the pages which left the range are evicted and only the
// pages which entered it are rendered.
func planFrame(old, cur Frame) plan {
	scaleChanged := math.Abs(cur.Scale-old.Scale) >= scaleTolerance
	modeChanged := cur.FollowLinks != old.FollowLinks || cur.Search != old.Search
	rangeChanged := cur.From != old.From || cur.To != old.To
	if !scaleChanged && !modeChanged && !rangeChanged {
		return plan{kind: planNone}
	}

	oldSpan := span{old.From, old.To}
	curSpan := span{cur.From, cur.To}
	if old.empty() {
		oldSpan = span{0, -1}
	}
	if cur.empty() {
		curSpan = span{0, -1}
	}

	disjoint := oldSpan.empty() || curSpan.empty() ||
		old.To < cur.From || cur.To < old.From
	if disjoint || scaleChanged || modeChanged || cur.FollowLinks {
		return plan{
			kind:   planFull,
			reset:  nonEmpty(oldSpan),
			render: nonEmpty(curSpan),
		}
	}

	forward := cur.From >= old.From && cur.To >= old.To
	backward := cur.From <= old.From && cur.To <= old.To
	switch {
	case forward && backward:
		panic(fmt.Sprintf("pageview: frame %v -> %v is both forward and backward",
			oldSpan, curSpan))
	case forward:
		return plan{
			kind:   planForward,
			reset:  nonEmpty(span{old.From, cur.From - 1}),
			render: nonEmpty(span{old.To + 1, cur.To}),
		}
	case backward:
		return plan{
			kind:   planBackward,
			reset:  nonEmpty(span{cur.To + 1, old.To}),
			render: nonEmpty(span{cur.From, old.From - 1}),
		}
	default:
		// The range grew or shrank at both ends.
		return plan{
			kind:   planResize,
			reset:  nonEmpty(span{old.From, cur.From - 1}, span{cur.To + 1, old.To}),
			render: nonEmpty(span{cur.From, old.From - 1}, span{old.To + 1, cur.To}),
		}
	}
}

func nonEmpty(spans ...span) []span {
	var res []span
	for _, s := range spans {
		if !s.empty() {
			res = append(res, s)
		}
	}
	return res
}
