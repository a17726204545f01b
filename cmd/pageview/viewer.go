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

package main

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"seehuhn.de/go/pageview"
	"seehuhn.de/go/pageview/config"
	"seehuhn.de/go/pageview/cursor"
	"seehuhn.de/go/pageview/document"
)

var background = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}

// viewer is the headless host.  All methods run on the goroutine which
// called newViewer, which acts as the UI thread.
type viewer struct {
	doc    document.Document
	cur    *cursor.Cursor
	view   *pageview.View
	mode   pageview.Mode
	redraw chan struct{}

	width, height int

	outDir      string
	outputScale float64
	timeout     time.Duration
	frame       int
}

func newViewer(doc document.Document, cfg config.Config, outDir string, outputScale float64, timeout time.Duration) *viewer {
	v := &viewer{
		doc:         doc,
		cur:         newCursor(doc, cfg),
		redraw:      make(chan struct{}, 1),
		width:       cfg.ViewWidth,
		height:      cfg.ViewHeight,
		outDir:      outDir,
		outputScale: outputScale,
		timeout:     timeout,
	}
	v.cur.FitHorizontal()
	v.view = pageview.Open(doc, v.cur, v.requestRedraw,
		pageview.WithWorkers(cfg.Workers),
		pageview.WithDarkMode(cfg.DarkMode))
	return v
}

// requestRedraw is called by the render workers.
func (v *viewer) requestRedraw() {
	select {
	case v.redraw <- struct{}{}:
	default:
	}
}

func (v *viewer) close() {
	v.view.Close()
}

// play executes the script and writes one frame per step.
func (v *viewer) play(steps []step) error {
	for _, st := range steps {
		if err := v.apply(st); err != nil {
			return err
		}
		if err := v.showFrame(); err != nil {
			return err
		}
	}
	return nil
}

func (v *viewer) apply(st step) error {
	switch st.op {
	case opShow:
	case opScroll:
		v.cur.Scroll(st.n)
	case opHScroll:
		v.cur.ScrollHorizontal(float64(st.n))
	case opZoomIn:
		for range st.n {
			v.cur.ZoomIn()
		}
	case opZoomOut:
		for range st.n {
			v.cur.ZoomOut()
		}
	case opFitWidth:
		v.cur.FitHorizontal()
	case opFitHeight:
		v.cur.FitVertical()
	case opCentre:
		v.cur.ToggleCentreMode()
	case opGoto:
		v.cur.GotoPage(st.n - 1)
	case opLinks:
		v.mode.FollowLinks = !v.mode.FollowLinks
	case opFollow:
		l, ok := v.view.LinkForLabel(st.n)
		if !ok {
			return fmt.Errorf("no link with label %d", st.n)
		}
		v.mode.FollowLinks = false
		switch l.Action.Kind {
		case document.ActionGoTo:
			v.cur.GotoPage(l.Action.Page)
		case document.ActionURI:
			fmt.Println(l.Action.URI)
		}
	case opSearch:
		v.mode.Search = st.arg
	case opNext, opPrev:
		if page, ok := v.view.NextMatch(v.cur.Page(), v.mode.Search, st.op == opNext); ok {
			v.cur.GotoPage(page)
		}
	}
	return nil
}

// showFrame paints frames until all visible pages are rendered, and saves
// the last one.
func (v *viewer) showFrame() error {
	deadline := time.NewTimer(v.timeout)
	defer deadline.Stop()

	var img *image.RGBA
	for {
		img = v.paint()
		if v.settled() {
			break
		}
		select {
		case <-v.redraw:
		case <-deadline.C:
			pageview.Logger().Warn("saving incomplete frame", "frame", v.frame)
			return v.save(img)
		}
	}
	return v.save(img)
}

func (v *viewer) paint() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, v.width, v.height))
	c := pageview.NewCanvas(img)
	c.Paint(background)
	v.view.Draw(c, v.mode)
	return img
}

// settled reports whether no visible page is waiting for its render job.
func (v *viewer) settled() bool {
	from, to := v.cur.VisibleRange()
	pages := v.view.Pages()
	for i := max(from, 0); i <= min(to, len(pages)-1); i++ {
		if pages[i].Status() == pageview.Rendering {
			return false
		}
	}
	return true
}

func (v *viewer) save(img *image.RGBA) error {
	var out image.Image = img
	if v.outputScale > 0 && v.outputScale != 1 {
		b := img.Bounds()
		w := max(int(float64(b.Dx())*v.outputScale), 1)
		h := max(int(float64(b.Dy())*v.outputScale), 1)
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)
		out = scaled
	}

	name := filepath.Join(v.outDir, fmt.Sprintf("frame-%03d.png", v.frame))
	v.frame++
	if err := imaging.Save(out, name); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	pageview.Logger().Info("frame saved", "file", name, "page", v.cur.Page()+1)
	return nil
}
