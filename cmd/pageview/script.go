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
	"strconv"
	"strings"
)

// op is the kind of a script step.
type op int

const (
	opShow op = iota
	opScroll
	opHScroll
	opZoomIn
	opZoomOut
	opFitWidth
	opFitHeight
	opCentre
	opGoto
	opLinks
	opFollow
	opSearch
	opNext
	opPrev
)

var opNames = map[string]op{
	"show":    opShow,
	"scroll":  opScroll,
	"hscroll": opHScroll,
	"zoomin":  opZoomIn,
	"zoomout": opZoomOut,
	"fitw":    opFitWidth,
	"fith":    opFitHeight,
	"centre":  opCentre,
	"goto":    opGoto,
	"links":   opLinks,
	"follow":  opFollow,
	"search":  opSearch,
	"next":    opNext,
	"prev":    opPrev,
}

// step is one command of a viewer script.
type step struct {
	op  op
	n   int    // count or argument, 1 if omitted
	arg string // search text
}

// parseScript parses a comma separated list of commands.  Commands have
// the form "name" or "name:arg", for example "scroll:5,zoomin,goto:3".
// Page numbers and link labels are one-based.
func parseScript(s string) ([]step, error) {
	var res []step
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, arg, hasArg := strings.Cut(field, ":")
		o, ok := opNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown command %q", name)
		}

		st := step{op: o, n: 1}
		switch o {
		case opSearch:
			st.arg = arg
		case opScroll, opHScroll, opZoomIn, opZoomOut, opGoto, opFollow:
			if hasArg {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return nil, fmt.Errorf("command %q: %w", field, err)
				}
				st.n = n
			}
		default:
			if hasArg {
				return nil, fmt.Errorf("command %q takes no argument", name)
			}
		}
		if (o == opGoto || o == opFollow) && st.n < 1 {
			return nil, fmt.Errorf("command %q: %d is not a valid number", field, st.n)
		}
		res = append(res, st)
	}
	return res, nil
}
