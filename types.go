package main

import (
	"image/color"
	"time"
)

type config struct {
	sections map[string]map[string][]config_pair
}

type config_pair struct {
	value  string
	lineno int
}

type config_measure struct {
	path_db         string
	measure_period  time.Duration
	retention_time  time.Duration
	prune_db_period time.Duration
	shell           string
}

type config_serve struct {
	path_db        string
	measure_period time.Duration

	listen_addr        string
	autorefresh_period time.Duration
	graph_format       string
	rebuild_delay      time.Duration
	image_wait         time.Duration
	image_timeout      time.Duration
	theme_text_color   color.Color
	watch_options      bool
}

type config_panel struct {
	name, description string
	path_options      string
	path_workbook     string
	width, height     int
	queries           []string
}

type metric struct {
	name, description, command string
}

type measurement struct {
	metric *metric
	value  float64
}

const (
	DB_TASK_PRUNE_TABLE = iota
	DB_TASK_INSERT
)

type db_task struct {
	kind int

	prune_metric           *metric
	prune_retention_period time.Duration

	insert_measurement *measurement
}
