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

// Package config loads the settings of the page viewer.
//
// Settings are taken from, in increasing order of priority, the built-in
// defaults, an optional YAML file, and PAGEVIEW_* environment variables.
// Variables from a .env file in the working directory are added to the
// environment first, without overriding variables which are already set.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the viewer settings.
type Config struct {
	Steps     int     `yaml:"steps"`      // scroll steps per page
	MinScale  float64 `yaml:"min_scale"`  // smallest zoom factor
	ScaleStep float64 `yaml:"scale_step"` // zoom change per key press
	Workers   int     `yaml:"workers"`    // render workers, 0 for one per CPU
	DarkMode  bool    `yaml:"dark_mode"`
	LogLevel  string  `yaml:"log_level"`

	ViewWidth  int `yaml:"view_width"`
	ViewHeight int `yaml:"view_height"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Steps:      15,
		MinScale:   0.3,
		ScaleStep:  0.1,
		LogLevel:   "info",
		ViewWidth:  800,
		ViewHeight: 1000,
	}
}

// Setup loads the configuration and creates a logger which writes to w at
// the configured level.  If path is empty, no YAML file is read.
//
// Environment values which cannot be parsed are ignored, and invalid
// settings are replaced by their defaults.  Both are logged as warnings.
func Setup(path string, w io.Writer) (Config, *slog.Logger, error) {
	c := Default()
	if path != "" {
		if err := c.readFile(path); err != nil {
			return Config{}, nil, err
		}
	}

	_ = godotenv.Load(".env")
	problems := c.fromEnv()
	problems = append(problems, c.validate()...)
	logger := NewLogger(c.LogLevel, w)
	for _, p := range problems {
		logger.Warn("invalid setting ignored", "setting", p.key, "value", p.value)
	}
	logger.Debug("configuration loaded", "config", fmt.Sprintf("%+v", c))
	return c, logger, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

// fromEnv applies the PAGEVIEW_* environment variables.  Values which
// cannot be parsed leave the setting unchanged and are reported.
func (c *Config) fromEnv() []problem {
	e := &envReader{}
	c.Steps = e.getInt("PAGEVIEW_STEPS", c.Steps)
	c.MinScale = e.getFloat("PAGEVIEW_MIN_SCALE", c.MinScale)
	c.ScaleStep = e.getFloat("PAGEVIEW_SCALE_STEP", c.ScaleStep)
	c.Workers = e.getInt("PAGEVIEW_WORKERS", c.Workers)
	c.DarkMode = e.getBool("PAGEVIEW_DARK_MODE", c.DarkMode)
	c.LogLevel = getEnv("PAGEVIEW_LOG_LEVEL", c.LogLevel)
	c.ViewWidth = e.getInt("PAGEVIEW_VIEW_WIDTH", c.ViewWidth)
	c.ViewHeight = e.getInt("PAGEVIEW_VIEW_HEIGHT", c.ViewHeight)
	return e.problems
}

type problem struct {
	key   string
	value any
}

// validate replaces invalid settings by their defaults.
func (c *Config) validate() []problem {
	def := Default()
	var res []problem
	if c.Steps < 1 {
		res = append(res, problem{"steps", c.Steps})
		c.Steps = def.Steps
	}
	if !(c.MinScale > 0) {
		res = append(res, problem{"min_scale", c.MinScale})
		c.MinScale = def.MinScale
	}
	if !(c.ScaleStep > 0) {
		res = append(res, problem{"scale_step", c.ScaleStep})
		c.ScaleStep = def.ScaleStep
	}
	if c.Workers < 0 {
		res = append(res, problem{"workers", c.Workers})
		c.Workers = def.Workers
	}
	if _, ok := ParseLevel(c.LogLevel); !ok {
		res = append(res, problem{"log_level", c.LogLevel})
		c.LogLevel = def.LogLevel
	}
	if c.ViewWidth < 1 {
		res = append(res, problem{"view_width", c.ViewWidth})
		c.ViewWidth = def.ViewWidth
	}
	if c.ViewHeight < 1 {
		res = append(res, problem{"view_height", c.ViewHeight})
		c.ViewHeight = def.ViewHeight
	}
	return res
}

// ParseLevel converts a level name (debug, info, warn or error) to a
// slog level.  Names are not case sensitive.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger returns a text logger writing to w.  Unknown level names
// select the info level.
func NewLogger(level string, w io.Writer) *slog.Logger {
	l, _ := ParseLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// ErrNoConfig is returned by Find if no configuration file exists.
var ErrNoConfig = errors.New("config: no configuration file found")

// Find returns the first existing file among the candidates.
func Find(candidates ...string) (string, error) {
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", ErrNoConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses environment variables and collects the values which
// could not be parsed.
type envReader struct {
	problems []problem
}

func (e *envReader) fail(key, value string) {
	setting := strings.ToLower(strings.TrimPrefix(key, "PAGEVIEW_"))
	e.problems = append(e.problems, problem{setting, value})
}

func (e *envReader) getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		e.fail(key, value)
		return defaultValue
	}
	return boolVal
}

func (e *envReader) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		e.fail(key, value)
		return defaultValue
	}
	return intVal
}

func (e *envReader) getFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		e.fail(key, value)
		return defaultValue
	}
	return floatVal
}
