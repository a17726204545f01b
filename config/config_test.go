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

package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv makes sure that none of the variables read by Setup is set,
// and that they are restored after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PAGEVIEW_STEPS", "PAGEVIEW_MIN_SCALE", "PAGEVIEW_SCALE_STEP",
		"PAGEVIEW_WORKERS", "PAGEVIEW_DARK_MODE", "PAGEVIEW_LOG_LEVEL",
		"PAGEVIEW_VIEW_WIDTH", "PAGEVIEW_VIEW_HEIGHT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	c, logger, err := Setup("", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if c != Default() {
		t.Errorf("got %+v, want %+v", c, Default())
	}
	if logger == nil {
		t.Fatal("no logger")
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output %q", buf.String())
	}
}

func TestLayering(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "pageview.yaml", "steps: 20\nmin_scale: 0.5\nworkers: 2\nview_width: 640\n")
	writeFile(t, ".env", "PAGEVIEW_WORKERS=4\nPAGEVIEW_DARK_MODE=true\n")
	t.Setenv("PAGEVIEW_STEPS", "30")

	c, _, err := Setup(path, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Steps = 30      // environment beats YAML
	want.MinScale = 0.5  // YAML
	want.Workers = 4     // .env beats YAML
	want.DarkMode = true // .env
	want.ViewWidth = 640 // YAML
	if c != want {
		t.Errorf("got %+v, want %+v", c, want)
	}
}

func TestDotEnvDoesNotOverride(t *testing.T) {
	clearEnv(t)

	writeFile(t, ".env", "PAGEVIEW_STEPS=7\n")
	t.Setenv("PAGEVIEW_STEPS", "9")

	c, _, err := Setup("", &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Steps != 9 {
		t.Errorf("steps = %d, want 9", c.Steps)
	}
}

func TestValidation(t *testing.T) {
	clearEnv(t)

	t.Setenv("PAGEVIEW_STEPS", "0")
	t.Setenv("PAGEVIEW_MIN_SCALE", "-1")
	t.Setenv("PAGEVIEW_LOG_LEVEL", "loud")
	t.Setenv("PAGEVIEW_VIEW_HEIGHT", "not a number")

	var buf bytes.Buffer
	c, _, err := Setup("", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if c != Default() {
		t.Errorf("got %+v, want the defaults", c)
	}

	out := buf.String()
	for _, key := range []string{
		"setting=steps", "setting=min_scale", "setting=log_level",
		"setting=view_height", `value="not a number"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("no warning for %s in %q", key, out)
		}
	}
}

func TestEnvParseError(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "pageview.yaml", "workers: 3\ndark_mode: true\nscale_step: 0.5\n")
	t.Setenv("PAGEVIEW_WORKERS", "many")
	t.Setenv("PAGEVIEW_DARK_MODE", "sometimes")
	t.Setenv("PAGEVIEW_SCALE_STEP", "0,2")

	var buf bytes.Buffer
	c, _, err := Setup(path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if c.Workers != 3 || !c.DarkMode || c.ScaleStep != 0.5 {
		t.Errorf("file settings not kept: %+v", c)
	}

	out := buf.String()
	for _, key := range []string{"setting=workers", "setting=dark_mode", "setting=scale_step"} {
		if !strings.Contains(out, key) {
			t.Errorf("no warning for %s in %q", key, out)
		}
	}
}

func TestBadFile(t *testing.T) {
	clearEnv(t)

	if _, _, err := Setup("missing.yaml", &bytes.Buffer{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	path := writeFile(t, "bad.yaml", "steps: [1, 2\n")
	if _, _, err := Setup(path, &bytes.Buffer{}); err == nil {
		t.Error("malformed file accepted")
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, false},
		{"trace", slog.LevelInfo, false},
	}
	for _, tc := range cases {
		got, ok := ParseLevel(tc.name)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLevel(%q) = %v, %t", tc.name, got, ok)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, filepath.Join(dir, "b.yaml"), "")

	got, err := Find("", filepath.Join(dir, "a.yaml"), b)
	if err != nil || got != b {
		t.Errorf("Find = %q, %v", got, err)
	}
	if _, err := Find(filepath.Join(dir, "c.yaml")); !errors.Is(err, ErrNoConfig) {
		t.Errorf("got %v, want ErrNoConfig", err)
	}
}
