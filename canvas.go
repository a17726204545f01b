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
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Canvas is a drawing context for an RGBA image.
//
// Drawing operations take coordinates in user space, which is mapped to
// device space (image pixels) by the current transformation matrix.  All
// drawing uses source-over compositing.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	dst   *image.RGBA
	ctm   matrix.Matrix
	stack []matrix.Matrix

	filler filler
	path   path.Data
}

// NewCanvas returns a canvas which draws into dst, with the identity
// transformation.
func NewCanvas(dst *image.RGBA) *Canvas {
	return &Canvas{
		dst: dst,
		ctm: matrix.Identity,
	}
}

// Target returns the image the canvas draws into.
func (c *Canvas) Target() *image.RGBA {
	return c.dst
}

// CTM returns the current transformation matrix.
func (c *Canvas) CTM() matrix.Matrix {
	return c.ctm
}

// Save pushes the current transformation onto a stack.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.ctm)
}

// Restore pops the transformation saved by the matching call to Save.
func (c *Canvas) Restore() {
	n := len(c.stack)
	if n == 0 {
		panic("pageview: Canvas.Restore without Save")
	}
	c.ctm = c.stack[n-1]
	c.stack = c.stack[:n-1]
}

// Transform modifies the CTM so that user space points are first mapped by m
// and then by the previous CTM.
func (c *Canvas) Transform(m matrix.Matrix) {
	c.ctm = m.Mul(c.ctm)
}

// Translate moves the origin of user space to (dx, dy).
func (c *Canvas) Translate(dx, dy float64) {
	c.Transform(matrix.Matrix{1, 0, 0, 1, dx, dy})
}

// Scale scales user space by sx horizontally and sy vertically.
func (c *Canvas) Scale(sx, sy float64) {
	c.Transform(matrix.Matrix{sx, 0, 0, sy, 0, 0})
}

// Paint fills the whole target image with col, ignoring the CTM.
func (c *Canvas) Paint(col color.Color) {
	xdraw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{}, xdraw.Over)
}

// FillRect fills the user space rectangle r with col.
func (c *Canvas) FillRect(r rect.Rect, col color.Color) {
	c.beginPath()
	c.polygon(
		vec.Vec2{X: r.LLx, Y: r.LLy},
		vec.Vec2{X: r.URx, Y: r.LLy},
		vec.Vec2{X: r.URx, Y: r.URy},
		vec.Vec2{X: r.LLx, Y: r.URy},
	)
	c.fillPath(col)
}

// Line strokes the segment from (x0, y0) to (x1, y1).  The width is given
// in user space units.  Round caps are approximated by half octagons.
func (c *Canvas) Line(x0, y0, x1, y1, width float64, capStyle graphics.LineCapStyle, col color.Color) {
	a := vec.Vec2{X: x0, Y: y0}
	b := vec.Vec2{X: x1, Y: y1}
	d := b.Sub(a)
	length := d.Length()
	if length == 0 || width <= 0 {
		return
	}
	t := d.Mul(1 / length)         // unit tangent
	n := vec.Vec2{X: -t.Y, Y: t.X} // unit normal
	h := width / 2

	if capStyle == graphics.LineCapSquare {
		a = a.Sub(t.Mul(h))
		b = b.Add(t.Mul(h))
	}

	c.beginPath()
	pts := []vec.Vec2{a.Add(n.Mul(h)), b.Add(n.Mul(h))}
	if capStyle == graphics.LineCapRound {
		pts = appendHalfOctagon(pts, b, t, n, h)
	}
	pts = append(pts, b.Sub(n.Mul(h)), a.Sub(n.Mul(h)))
	if capStyle == graphics.LineCapRound {
		pts = appendHalfOctagon(pts, a, t.Mul(-1), n.Mul(-1), h)
	}
	c.polygon(pts...)
	c.fillPath(col)
}

// appendHalfOctagon appends the intermediate vertices of a half octagon of
// radius h around the line end p, bulging in direction t and running from
// the +n side to the -n side.
func appendHalfOctagon(pts []vec.Vec2, p, t, n vec.Vec2, h float64) []vec.Vec2 {
	for i := 1; i < 4; i++ {
		phi := float64(i) * math.Pi / 4
		off := n.Mul(h * math.Cos(phi)).Add(t.Mul(h * math.Sin(phi)))
		pts = append(pts, p.Add(off))
	}
	return pts
}

// DrawSurface draws the surface s so that it covers the user space
// rectangle with top-left corner (x, y), width w and height h.  When the
// rectangle maps onto the surface pixels one to one, the pixels are copied
// directly; otherwise they are resampled bilinearly.
func (c *Canvas) DrawSurface(s *Surface, x, y, w, h float64) {
	src := s.Image()
	if src == nil || w <= 0 || h <= 0 {
		return
	}
	sb := src.Bounds()
	kx := w / float64(sb.Dx())
	ky := h / float64(sb.Dy())

	m := c.ctm
	a := m[0] * kx
	b := m[1] * kx
	cc := m[2] * ky
	d := m[3] * ky
	e := m[0]*x + m[2]*y + m[4]
	f := m[1]*x + m[3]*y + m[5]

	if b == 0 && cc == 0 && isUnit(a) && isUnit(d) && isInteger(e) && isInteger(f) {
		dp := image.Pt(int(math.Round(e)), int(math.Round(f)))
		r := image.Rectangle{Min: dp, Max: dp.Add(sb.Size())}
		xdraw.Draw(c.dst, r, src, sb.Min, xdraw.Over)
		return
	}

	s2d := f64.Aff3{a, cc, e, b, d, f}
	xdraw.BiLinear.Transform(c.dst, s2d, src, sb, xdraw.Over, nil)
}

// DrawText draws text with its baseline origin at the user space point
// (x, y).  The glyphs are not transformed: the face determines their size
// in device pixels.
func (c *Canvas) DrawText(text string, x, y float64, face font.Face, col color.Color) {
	dx, dy := c.ctm.Apply(x, y)
	d := &font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(dx), Y: toFixed(dy)},
	}
	d.DrawString(text)
}

// DrawOutlinedText draws text like DrawText, surrounded by a one pixel
// outline in the colour outline.
func (c *Canvas) DrawOutlinedText(text string, x, y float64, face font.Face, fill, outline color.Color) {
	dx, dy := c.ctm.Apply(x, y)
	d := &font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(outline),
		Face: face,
	}
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			if ox == 0 && oy == 0 {
				continue
			}
			d.Dot = fixed.Point26_6{X: toFixed(dx + float64(ox)), Y: toFixed(dy + float64(oy))}
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(fill)
	d.Dot = fixed.Point26_6{X: toFixed(dx), Y: toFixed(dy)}
	d.DrawString(text)
}

func (c *Canvas) beginPath() {
	c.path.Cmds = c.path.Cmds[:0]
	c.path.Coords = c.path.Coords[:0]
}

func (c *Canvas) polygon(pts ...vec.Vec2) {
	for i, p := range pts {
		if i == 0 {
			c.path.Cmds = append(c.path.Cmds, path.CmdMoveTo)
		} else {
			c.path.Cmds = append(c.path.Cmds, path.CmdLineTo)
		}
		c.path.Coords = append(c.path.Coords, p)
	}
	c.path.Cmds = append(c.path.Cmds, path.CmdClose)
}

func (c *Canvas) fillPath(col color.Color) {
	src := color.NRGBAModel.Convert(col).(color.NRGBA)
	if src.A == 0 {
		return
	}
	c.filler.fill(&c.path, c.ctm, c.dst.Bounds(), func(y, xMin int, coverage []float32) {
		blendRow(c.dst, y, xMin, coverage, src)
	})
}

// blendRow composites src over one row of dst, weighted by coverage.
func blendRow(dst *image.RGBA, y, xMin int, coverage []float32, src color.NRGBA) {
	sa := float32(src.A) / 255
	sr := float32(src.R) * sa
	sg := float32(src.G) * sa
	sb := float32(src.B) * sa

	i := dst.PixOffset(xMin, y)
	for _, cov := range coverage {
		px := dst.Pix[i : i+4 : i+4]
		k := 1 - sa*cov
		px[0] = uint8(sr*cov + float32(px[0])*k + 0.5)
		px[1] = uint8(sg*cov + float32(px[1])*k + 0.5)
		px[2] = uint8(sb*cov + float32(px[2])*k + 0.5)
		px[3] = uint8(255*sa*cov + float32(px[3])*k + 0.5)
		i += 4
	}
}

func toFixed(x float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(x * 64))
}

func isUnit(x float64) bool {
	return math.Abs(x-1) < 1e-9
}

func isInteger(x float64) bool {
	return math.Abs(x-math.Round(x)) < 1e-9
}
