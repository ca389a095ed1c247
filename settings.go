package main

import (
	"image/color"
	"regexp"
	"time"
)

const (
	FLAG_CONFIG_PATH    = "config-path"
	DEFAULT_CONFIG_PATH = "/etc/shapemon/shapemon.ini"
	HELP_CONFIG_PATH    = "Filepath to shapemon configuration file"

	DEFAULT_DB_PATH = "/var/shapemon/db/shapemon.sqlite"
	DEFAULT_SHELL   = "/bin/sh"
	DEFAULT_ADDR    = "localhost:15515"
)

const (
	DEFAULT_PANEL_WIDTH        = 400
	DEFAULT_PANEL_HEIGHT       = 300
	MAX_PANEL_DIMENSION        = 8192
	DEFAULT_RETENTION_TIME     = 90 * 24 * time.Hour
	DEFAULT_REFRESH_PERIOD     = 2 * time.Minute
	DEFAULT_PRUNE_PERIOD       = 15 * time.Minute
	DEFAULT_MEASUREMENT_PERIOD = 1 * time.Minute
	DEFAULT_REBUILD_DELAY      = 50 * time.Millisecond
	DEFAULT_IMAGE_WAIT         = 2 * time.Second
	DEFAULT_IMAGE_TIMEOUT      = 10 * time.Second
	DEFAULT_GRAPH_FORMAT       = "png"
	CONFIG_DELIM               = "|"
	PANEL_SECTION_PREFIX       = "panel."
)

const (
	// Auto-scaled boxes grow by this fraction of their extent on each side.
	BOUNDS_PADDING = 0.05
	// A zero-width axis is widened by this much on each side.
	BOUNDS_DEGENERATE_HALF = 10.0

	GRID_STROKE_WEIGHT = 0.5
	AXIS_STROKE_WEIGHT = 2.0
	MAX_GRID_LINES     = 2000

	MAX_FORMAT_PRECISION = 100
	MAX_IMAGE_BYTES      = 32 << 20
)

var (
	COLOR_THEME_TEXT   = color.NRGBA{204, 204, 220, 255}
	COLOR_GRID_DEFAULT = color.NRGBA{0, 0, 0, 26}
	COLOR_ERROR_FILL   = color.NRGBA{255, 0, 0, 26}
	COLOR_ERROR_LINE   = color.NRGBA{255, 0, 0, 255}
	COLOR_FALLBACK     = color.NRGBA{0, 0, 0, 255}
	TIMESTAMP_FORMAT   = "2006-01-02 15:04:05"
)

var (
	RE_NAME = regexp.MustCompile("^[_a-zA-Z0-9]{1,512}$")
)
