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

// Option configures a [Scheduler] or a [View].
type Option func(*options)

type options struct {
	workers     int
	darkMode    bool
	placeholder func(width, height int) *Surface
}

func newOptions(opts []Option) *options {
	o := &options{
		placeholder: MakePlaceholder,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithWorkers sets the number of goroutines used for rasterising pages.
// The default, used if n <= 0, is the number of CPUs.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithDarkMode makes the compositor invert the colours of every frame.
func WithDarkMode(on bool) Option {
	return func(o *options) {
		o.darkMode = on
	}
}

// WithPlaceholder replaces the function which makes the surfaces shown
// while a page is being rasterised.
func WithPlaceholder(fn func(width, height int) *Surface) Option {
	return func(o *options) {
		if fn != nil {
			o.placeholder = fn
		}
	}
}
