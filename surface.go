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

import "image"

// Surface is an owned pixel buffer holding the rasterised content of a
// page, or a placeholder shown while the content is being rendered.
type Surface struct {
	img         *image.RGBA
	placeholder bool
}

// NewSurface allocates a transparent surface of the given size in pixels.
func NewSurface(width, height int) *Surface {
	return &Surface{
		img: image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1))),
	}
}

// Image returns the pixels of the surface, or nil after Release.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Size returns the width and height of the surface in pixels.
// The size of a released surface is 0x0.
func (s *Surface) Size() (width, height int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// IsPlaceholder reports whether the surface was made by the placeholder
// factory rather than by rasterising a page.
func (s *Surface) IsPlaceholder() bool {
	return s.placeholder
}

// Release drops the pixel buffer.  It is safe to call Release more than
// once.
func (s *Surface) Release() {
	s.img = nil
}

// Canvas returns a canvas which draws into the surface.
func (s *Surface) Canvas() *Canvas {
	return NewCanvas(s.img)
}
