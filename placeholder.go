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
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	captionSize = 32 // pixels
	labelSize   = 14 // pixels

	loadingCaption = "Loading…"
	failedCaption  = "Render failed"
)

var (
	placeholderBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	placeholderForeground = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	errorForeground       = color.RGBA{R: 0xb0, G: 0x20, B: 0x20, A: 0xff}
)

var (
	regularFont = sync.OnceValues(func() (*opentype.Font, error) {
		return opentype.Parse(goregular.TTF)
	})
	boldFont = sync.OnceValues(func() (*opentype.Font, error) {
		return opentype.Parse(gobold.TTF)
	})
)

// newFace returns a face of the given pixel size.  Faces keep glyph caches
// and must not be shared between goroutines, so every caller gets its own.
// If the embedded font cannot be loaded, a fixed size bitmap face is used.
func newFace(bold bool, size float64) font.Face {
	load := regularFont
	if bold {
		load = boldFont
	}
	return faceOrFallback(load, size)
}

func faceOrFallback(load func() (*opentype.Font, error), size float64) font.Face {
	face, err := loadFace(load, size)
	if err != nil {
		Logger().Warn("falling back to bitmap font", "error", err)
		return basicfont.Face7x13
	}
	return face
}

func loadFace(load func() (*opentype.Font, error), size float64) (font.Face, error) {
	f, err := load()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// MakePlaceholder returns a surface of the given size with a light
// background and a centred "Loading…" caption.
// It is safe to call MakePlaceholder from any goroutine.
func MakePlaceholder(width, height int) *Surface {
	s := captionSurface(width, height, loadingCaption, placeholderForeground)
	s.placeholder = true
	return s
}

// makeErrorPlaceholder returns the surface shown for a page which could not
// be rasterised.
func makeErrorPlaceholder(width, height int) *Surface {
	return captionSurface(width, height, failedCaption, errorForeground)
}

func captionSurface(width, height int, caption string, col color.Color) *Surface {
	s := NewSurface(width, height)
	c := s.Canvas()
	c.Paint(placeholderBackground)

	face := newFace(false, captionSize)
	defer face.Close()

	// centre the ink bounds, not the advance box
	bounds, _ := font.BoundString(face, caption)
	inkW := (bounds.Max.X - bounds.Min.X).Ceil()
	inkH := (bounds.Max.Y - bounds.Min.Y).Ceil()
	w, h := s.Size()
	x := fixed.I((w-inkW)/2) - bounds.Min.X
	y := fixed.I((h-inkH)/2) - bounds.Min.Y
	c.DrawText(caption, fromFixed(x), fromFixed(y), face, col)
	return s
}

func fromFixed(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
