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
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// BenchmarkFillerO benchmarks our filler drawing an "O" shape.
func BenchmarkFillerO(b *testing.B) {
	sizes := []int{20, 200, 2000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := image.Rect(0, 0, size, size)
			dst := image.NewAlpha(clip)

			center := float64(size) / 2
			oPath := makeOPath(center, center, float64(size)*0.45, float64(size)*0.30)

			var f filler
			b.ResetTimer()
			b.ReportAllocs()

			for b.Loop() {
				f.fill(oPath, matrix.Identity, clip, func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range coverage {
						row[i] = uint8(c * 255)
					}
				})
			}
		})
	}
}

// BenchmarkVectorO benchmarks x/image/vector drawing an "O" shape.
func BenchmarkVectorO(b *testing.B) {
	sizes := []int{20, 200, 2000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			r := vector.NewRasterizer(size, size)

			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{255})

			center := float32(size) / 2
			outerR := float32(size) * 0.45
			innerR := float32(size) * 0.30

			b.ResetTimer()
			b.ReportAllocs()

			for b.Loop() {
				r.Reset(size, size)
				addCircleToVector(r, center, center, outerR, false)
				addCircleToVector(r, center, center, innerR, true)
				r.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// BenchmarkReconcileScroll measures the cost of planning a frame while
// scrolling through a long document.
func BenchmarkReconcileScroll(b *testing.B) {
	old := Frame{From: 10, To: 14, Scale: 1}
	cur := Frame{From: 11, To: 15, Scale: 1}
	for b.Loop() {
		p := planFrame(old, cur)
		if p.kind != planForward {
			b.Fatalf("unexpected plan %s", p.kind)
		}
	}
}

// makeOPath creates an "O" shape: the outer circle runs anticlockwise and
// the inner circle clockwise, so that the nonzero rule leaves a hole.  If
// innerR is 0, only the outer circle is included.
func makeOPath(cx, cy, outerR, innerR float64) *path.Data {
	p := &path.Data{}
	p = addCircleToPath(p, cx, cy, outerR, false)
	if innerR > 0 {
		p = addCircleToPath(p, cx, cy, innerR, true)
	}
	return p
}

// addCircleToPath adds a circle to a path using cubic Bézier curves.
func addCircleToPath(p *path.Data, cx, cy, r float64, clockwise bool) *path.Data {
	const k = 0.5522847498
	kr := k * r
	v := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }

	p = p.MoveTo(v(cx, cy-r))
	if clockwise {
		p = p.
			CubeTo(v(cx-kr, cy-r), v(cx-r, cy-kr), v(cx-r, cy)).
			CubeTo(v(cx-r, cy+kr), v(cx-kr, cy+r), v(cx, cy+r)).
			CubeTo(v(cx+kr, cy+r), v(cx+r, cy+kr), v(cx+r, cy)).
			CubeTo(v(cx+r, cy-kr), v(cx+kr, cy-r), v(cx, cy-r))
	} else {
		p = p.
			CubeTo(v(cx+kr, cy-r), v(cx+r, cy-kr), v(cx+r, cy)).
			CubeTo(v(cx+r, cy+kr), v(cx+kr, cy+r), v(cx, cy+r)).
			CubeTo(v(cx-kr, cy+r), v(cx-r, cy+kr), v(cx-r, cy)).
			CubeTo(v(cx-r, cy-kr), v(cx-kr, cy-r), v(cx, cy-r))
	}
	return p.Close()
}

// addCircleToVector adds a circle to a vector.Rasterizer using cubic Bézier curves.
func addCircleToVector(r *vector.Rasterizer, cx, cy, radius float32, clockwise bool) {
	const k = float32(0.5522847498)
	kr := k * radius

	if clockwise {
		r.MoveTo(cx, cy-radius)
		r.CubeTo(cx-kr, cy-radius, cx-radius, cy-kr, cx-radius, cy)
		r.CubeTo(cx-radius, cy+kr, cx-kr, cy+radius, cx, cy+radius)
		r.CubeTo(cx+kr, cy+radius, cx+radius, cy+kr, cx+radius, cy)
		r.CubeTo(cx+radius, cy-kr, cx+kr, cy-radius, cx, cy-radius)
	} else {
		r.MoveTo(cx, cy-radius)
		r.CubeTo(cx+kr, cy-radius, cx+radius, cy-kr, cx+radius, cy)
		r.CubeTo(cx+radius, cy+kr, cx+kr, cy+radius, cx, cy+radius)
		r.CubeTo(cx-kr, cy+radius, cx-radius, cy+kr, cx-radius, cy)
		r.CubeTo(cx-radius, cy-kr, cx-kr, cy-radius, cx, cy-radius)
	}
	r.ClosePath()
}
