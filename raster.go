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
	"cmp"
	"image"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// edge is a non-horizontal polygon edge in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
	yMin   float64
	yMax   float64
}

// filler converts polygons into anti-aliased pixel coverage using the
// nonzero winding rule.  Coverage is computed exactly from the signed area
// of the polygon inside each pixel.
//
// Quadratic and cubic segments are flattened into line segments whose
// distance from the curve is at most flatness device pixels.  Unclosed
// subpaths are closed implicitly.
//
// Internal buffers grow as needed and are reused across calls.
// A filler is not safe for concurrent use.
type filler struct {
	ctm  matrix.Matrix
	clip image.Rectangle

	edges     []edge
	active    []int
	cover     []float32 // change of the winding count per pixel
	area      []float32 // winding contribution within the pixel itself
	crossings []float64

	devXMin, devXMax float64
	devYMin, devYMax float64
}

// fill rasterises p, transformed by ctm and restricted to clip.  Coverage is
// delivered row by row through emit; the coverage slice is only valid for
// the duration of the callback.
func (f *filler) fill(p *path.Data, ctm matrix.Matrix, clip image.Rectangle, emit func(y, xMin int, coverage []float32)) {
	f.ctm = ctm
	f.clip = clip

	xMin, xMax, yMin, yMax, ok := f.collectEdges(p)
	if !ok {
		return
	}
	width := xMax - xMin
	f.cover = slices.Grow(f.cover[:0], width)[:width]
	f.area = slices.Grow(f.area[:0], width)[:width]

	slices.SortFunc(f.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin, b.yMin)
	})

	f.active = f.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yTop := float64(y)
		yBot := float64(y + 1)

		for next < len(f.edges) && f.edges[next].yMin < yBot {
			f.active = append(f.active, next)
			next++
		}
		if len(f.active) == 0 {
			continue
		}

		clear(f.cover)
		clear(f.area)
		touched := false
		for i := 0; i < len(f.active); {
			e := &f.edges[f.active[i]]
			if e.yMax <= yTop {
				f.active[i] = f.active[len(f.active)-1]
				f.active = f.active[:len(f.active)-1]
				continue
			}
			if f.accumulate(e, y, xMin, xMax) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		integrateNonZero(f.cover, f.area)
		if row, offset := trimZeros(f.cover); row != nil {
			emit(y, xMin+offset, row)
		}
	}
}

// collectEdges flattens the path into device space edges and returns the
// bounding box of the edges, clamped to the clip rectangle.
func (f *filler) collectEdges(p *path.Data) (xMin, xMax, yMin, yMax int, ok bool) {
	f.edges = f.edges[:0]
	f.devXMin, f.devYMin = math.Inf(1), math.Inf(1)
	f.devXMax, f.devYMax = math.Inf(-1), math.Inf(-1)

	var current, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			f.addEdge(current, start)
			current = p.Coords[k]
			start = current
			k++
		case path.CmdLineTo:
			f.addEdge(current, p.Coords[k])
			current = p.Coords[k]
			k++
		case path.CmdQuadTo:
			f.flattenQuadratic(current, p.Coords[k], p.Coords[k+1])
			current = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			f.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2])
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			f.addEdge(current, start)
			current = start
		}
	}
	f.addEdge(current, start)

	if len(f.edges) == 0 {
		return 0, 0, 0, 0, false
	}

	xMin = max(int(math.Floor(f.devXMin)), f.clip.Min.X)
	xMax = min(int(math.Floor(f.devXMax))+1, f.clip.Max.X)
	yMin = max(int(math.Floor(f.devYMin)), f.clip.Min.Y)
	yMax = min(int(math.Floor(f.devYMax))+1, f.clip.Max.Y)
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// flattenQuadratic adds line segments approximating the quadratic Bézier
// curve with control points p0, p1, p2, given in user space.
func (f *filler) flattenQuadratic(p0, p1, p2 vec.Vec2) {
	// the maximal deviation from the chord is |p0 - 2 p1 + p2| / 4
	e := f.linear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))
	n := 1
	if d := e.Length(); d > flatness {
		n = int(math.Ceil(math.Sqrt(d / flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		f.addEdge(prev, pt)
		prev = pt
	}
}

// flattenCubic adds line segments approximating the cubic Bézier curve
// with control points p0, ..., p3, given in user space.  The number of
// segments is chosen by Wang's formula.
func (f *filler) flattenCubic(p0, p1, p2, p3 vec.Vec2) {
	d1 := f.linear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := f.linear(p1.Sub(p2.Mul(2)).Add(p3))
	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if k := math.Sqrt(3 * m / (4 * flatness)); k > 1 {
			n = int(math.Ceil(k))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		f.addEdge(prev, pt)
		prev = pt
	}
}

// linear applies the linear part of the CTM to v.
func (f *filler) linear(v vec.Vec2) vec.Vec2 {
	m := f.ctm
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}

// addEdge transforms a user space segment to device space and records it.
// Horizontal segments do not contribute to coverage and are dropped.
func (f *filler) addEdge(p0, p1 vec.Vec2) {
	if p0 == p1 {
		return
	}
	m := f.ctm
	x0 := m[0]*p0.X + m[2]*p0.Y + m[4]
	y0 := m[1]*p0.X + m[3]*p0.Y + m[5]
	x1 := m[0]*p1.X + m[2]*p1.Y + m[4]
	y1 := m[1]*p1.X + m[3]*p1.Y + m[5]

	dy := y1 - y0
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	f.edges = append(f.edges, edge{
		x0: x0, y0: y0,
		x1: x1, y1: y1,
		dxdy: (x1 - x0) / dy,
		yMin: min(y0, y1),
		yMax: max(y0, y1),
	})

	f.devXMin = min(f.devXMin, x0, x1)
	f.devXMax = max(f.devXMax, x0, x1)
	f.devYMin = min(f.devYMin, y0, y1)
	f.devYMax = max(f.devYMax, y0, y1)
}

// accumulate adds the contribution of e within scanline y to the cover and
// area buffers, which are indexed by x-xMin.  Edge pieces left of the
// buffer are folded into the first pixel, pieces right of it are dropped.
// The return value reports whether the edge intersects the scanline.
func (f *filler) accumulate(e *edge, y, xMin, xMax int) bool {
	yTop := max(float64(y), e.yMin)
	yBot := min(float64(y+1), e.yMax)
	if yBot <= yTop {
		return false
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(yTop-e.y0)
	xBot := e.x0 + e.dxdy*(yBot-e.y0)
	pixLeft := int(math.Floor(min(xTop, xBot)))
	pixRight := int(math.Floor(max(xTop, xBot)))

	if pixLeft == pixRight {
		f.addPiece(e, yTop, yBot, sign, pixLeft, xMin, xMax)
		return true
	}

	// split the edge where it crosses vertical pixel boundaries
	dydx := 1 / e.dxdy
	f.crossings = append(f.crossings[:0], yTop, yBot)
	for x := pixLeft + 1; x <= pixRight; x++ {
		yx := e.y0 + dydx*(float64(x)-e.x0)
		if yx > yTop && yx < yBot {
			f.crossings = append(f.crossings, yx)
		}
	}
	slices.Sort(f.crossings)

	for i := range len(f.crossings) - 1 {
		y0, y1 := f.crossings[i], f.crossings[i+1]
		if y1 <= y0 {
			continue
		}
		xMid := e.x0 + e.dxdy*((y0+y1)/2-e.y0)
		f.addPiece(e, y0, y1, sign, int(math.Floor(xMid)), xMin, xMax)
	}
	return true
}

// addPiece records an edge piece between yTop and yBot which lies within
// the single pixel column pix.
func (f *filler) addPiece(e *edge, yTop, yBot float64, sign float32, pix, xMin, xMax int) {
	c := sign * float32(yBot-yTop)
	switch {
	case pix < xMin:
		f.cover[0] += c
		f.area[0] += c
	case pix < xMax:
		xMid := e.x0 + e.dxdy*((yTop+yBot)/2-e.y0)
		idx := pix - xMin
		f.cover[idx] += c
		f.area[idx] += c * float32(1-(xMid-float64(pix)))
	}
}

// integrateNonZero turns accumulated cover/area values into coverage in
// [0, 1].  The result overwrites cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		cover[i] = min(raw, 1)
	}
}

// trimZeros returns the part of coverage between the first and last
// non-zero entries, together with its offset.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

// flatness is the maximal distance, in device pixels, between a curve and
// the line segments which replace it.
const flatness = 0.25

// horizontalEdgeThreshold is the minimum vertical extent for an edge to
// contribute to coverage.
const horizontalEdgeThreshold = 1e-10
