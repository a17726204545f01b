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

// Package fixture writes a small PDF file for the pdfdoc tests.
//
// The file has a single page of 200x300 points with a white background.
// All positions below are measured from the top-left corner of the page.
package fixture

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/action"
	"seehuhn.de/go/pdf/annotation"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics/color"
)

// Page size in points.
const (
	Width  = 200
	Height = 300
)

// A mid-grey square covers the region from (20, 20) to (100, 100).
const (
	SquareMin = 20
	SquareMax = 100
)

// Text is set in 20 point Helvetica, with the baseline of the first glyph
// at (TextX, TextY).
const (
	Text     = "Hello Gopher"
	TextX    = 20
	TextY    = 150
	FontSize = 20
)

// A link annotation covers LinkArea and opens LinkURI.
var LinkArea = pdf.Rectangle{LLx: 20, LLy: 180, URx: 120, URy: 200}

// LinkURI is the target of the link annotation.
const LinkURI = "https://www.example.com/"

// Write creates the fixture in the file fname.
func Write(fname string) error {
	paper := &pdf.Rectangle{URx: Width, URy: Height}
	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(1))
	page.Rectangle(0, 0, Width, Height)
	page.Fill()

	page.SetFillColor(color.DeviceGray(0))
	page.TextBegin()
	page.TextSetFont(standard.Helvetica.New(), FontSize)
	page.TextFirstLine(TextX, Height-TextY)
	page.TextShow(Text)
	page.TextEnd()

	page.Page.Annots = append(page.Page.Annots, &annotation.Link{
		Common: annotation.Common{
			Rect: pdf.Rectangle{
				LLx: LinkArea.LLx,
				LLy: Height - LinkArea.URy,
				URx: LinkArea.URx,
				URy: Height - LinkArea.LLy,
			},
			Flags: annotation.FlagPrint,
		},
		Action: &action.URI{URI: LinkURI},
	})

	// PDF origin is bottom-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, Height})

	page.SetFillColor(color.DeviceGray(0.5))
	page.Rectangle(SquareMin, SquareMin, SquareMax-SquareMin, SquareMax-SquareMin)
	page.Fill()

	return page.Close()
}
