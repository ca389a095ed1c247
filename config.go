package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/susji/tinyini"
)

func config_load(r io.Reader) (*config, error) {
	sections, errs := tinyini.Parse(r)
	if len(errs) != 0 {
		log.Println("errors when reading configuration file")
		for n, err := range errs {
			log.Printf("[%d] %v\n", n+1, err)
		}
		return nil, errors.New("invalid configuration file")
	}
	c := &config{
		sections: map[string]map[string][]config_pair{},
	}
	for section, keys := range sections {
		c.sections[section] = map[string][]config_pair{}
		for key, pairs := range keys {
			for _, pair := range pairs {
				c.sections[section][key] = append(
					c.sections[section][key],
					config_pair{value: pair.Value, lineno: pair.Lineno})
			}
		}
	}
	return c, nil
}

func config_load_file(filepath string) (*config, error) {
	log.Println("attempting to read settings from ", filepath)
	f, err := os.Open(filepath)
	if err != nil {
		log.Println("cannot open configuration file for reading: ", err)
		return nil, err
	}
	defer f.Close()
	c, err := config_load(f)
	if err != nil {
		return nil, fmt.Errorf("unable to handle configuration file %q: %w", filepath, err)
	}
	return c, nil
}

func (c *config) parse_metrics() ([]*metric, error) {
	metrics := []*metric{}
	in_err := false
	for k, pairs := range c.sections["metrics"] {
		for _, pair := range pairs {
			switch k {
			case "metric":
				metric, err := metrics_parse_line(pair.value)
				if err != nil {
					log.Printf(
						"%d: parsing metric line failed: %v\n",
						pair.lineno, err)
					in_err = true
					continue
				}
				metrics = append(metrics, metric)
			default:
				log.Printf(
					"metrics section supports only 'metric' definitions "+
						"but line %d has something else.", pair.lineno)
				in_err = true
			}
		}
	}

	if err := validate_metrics(metrics); err != nil {
		log.Println("metrics validation failed: ", err)
		return nil, err
	}
	if in_err {
		return nil, errors.New("metrics section contained errors")
	}
	return metrics, nil
}

func (c *config) parse_common() (string, time.Duration, error) {
	var path_db string
	measure_period := DEFAULT_MEASUREMENT_PERIOD

	in_err := false

	for k, pairs := range c.sections[""] {
		for _, pair := range pairs {
			var err error
			switch k {
			case "path_db":
				path_db = pair.value
			case "measure_period":
				measure_period, err = time.ParseDuration(pair.value)
				if err == nil && measure_period.Seconds() < 1 {
					err = errors.New("must be at least 1 second")
				}
			default:
				err = fmt.Errorf("%d: unrecognized config item: %s",
					pair.lineno, k)
			}
			if err != nil {
				log.Printf("%s: invalid value: %v", k, err)
				in_err = true
			}
		}
	}
	if in_err {
		return "", time.Duration(0), errors.New("errors in common section")
	}
	if path_db == "" {
		return "", time.Duration(0), errors.New("no database path in common section")
	}
	return path_db, measure_period, nil
}

func (c *config) parse_measure() (*config_measure, error) {
	ret := &config_measure{
		retention_time:  DEFAULT_RETENTION_TIME,
		prune_db_period: DEFAULT_PRUNE_PERIOD,
		path_db:         DEFAULT_DB_PATH,
		shell:           DEFAULT_SHELL,
	}

	in_err := false

	if path_db, measure_period, cerr := c.parse_common(); cerr == nil {
		ret.path_db = path_db
		ret.measure_period = measure_period
	} else {
		in_err = true
		log.Println(cerr)
	}

	for k, pairs := range c.sections["measure"] {
		for _, pair := range pairs {
			var err error
			switch k {
			case "retention_time":
				ret.retention_time, err = time.ParseDuration(pair.value)
			case "prune_db_period":
				ret.prune_db_period, err = time.ParseDuration(pair.value)
				if err == nil && ret.prune_db_period <= 0 {
					err = errors.New("must be positive")
				}
			case "shell":
				ret.shell = pair.value
			default:
				err = fmt.Errorf(
					"%d: unrecognized config item: %s",
					pair.lineno, k)
			}
			if err != nil {
				log.Printf("%s: invalid value: %v", k, err)
				in_err = true
			}
		}
	}
	if in_err {
		return nil, errors.New("parsing measure config failed")
	}

	return ret, nil
}

func duration_nonnegative(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err == nil && d < 0 {
		err = errors.New("must not be negative")
	}
	return d, err
}

func (c *config) parse_serve() (*config_serve, error) {
	ret := &config_serve{
		path_db: DEFAULT_DB_PATH,

		listen_addr:        DEFAULT_ADDR,
		autorefresh_period: DEFAULT_REFRESH_PERIOD,
		graph_format:       DEFAULT_GRAPH_FORMAT,
		rebuild_delay:      DEFAULT_REBUILD_DELAY,
		image_wait:         DEFAULT_IMAGE_WAIT,
		image_timeout:      DEFAULT_IMAGE_TIMEOUT,
		theme_text_color:   COLOR_THEME_TEXT,
	}

	in_err := false

	if path_db, measure_period, cerr := c.parse_common(); cerr == nil {
		ret.path_db = path_db
		ret.measure_period = measure_period
	} else {
		in_err = true
		log.Println(cerr)
	}

	for k, pairs := range c.sections["serve"] {
		for _, pair := range pairs {
			var err error
			switch k {
			case "listen_addr":
				ret.listen_addr = pair.value
			case "autorefresh_period":
				ret.autorefresh_period, err = time.ParseDuration(pair.value)
				if err == nil && ret.autorefresh_period < time.Second {
					err = errors.New("must be at least 1 second")
				}
			case "graph_format":
				ret.graph_format = strings.ToLower(pair.value)
				if ret.graph_format != "png" && ret.graph_format != "svg" {
					err = fmt.Errorf("unsupported format %q", pair.value)
				}
			case "rebuild_delay":
				ret.rebuild_delay, err = duration_nonnegative(pair.value)
			case "image_wait":
				ret.image_wait, err = duration_nonnegative(pair.value)
			case "image_timeout":
				ret.image_timeout, err = time.ParseDuration(pair.value)
				if err == nil && ret.image_timeout <= 0 {
					err = errors.New("must be positive")
				}
			case "theme_text_color":
				ret.theme_text_color, err = color_parse(pair.value, nil)
			case "watch_options":
				ret.watch_options, err = strconv.ParseBool(pair.value)
			default:
				err = fmt.Errorf(
					"%d: unrecognized config item: %s",
					pair.lineno, k)
			}
			if err != nil {
				log.Printf("%s: invalid value: %v", k, err)
				in_err = true
			}
		}
	}
	if in_err {
		return nil, errors.New("parsing serve config failed")
	}

	return ret, nil
}

func panel_dimension_parse(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 1 || v > MAX_PANEL_DIMENSION {
		return 0, fmt.Errorf("must be within [1, %d]", MAX_PANEL_DIMENSION)
	}
	return v, nil
}

// parse_panels reads the [panel.<name>] sections in name order.
func (c *config) parse_panels() ([]*config_panel, error) {
	names := []string{}
	for section := range c.sections {
		if name, ok := strings.CutPrefix(section, PANEL_SECTION_PREFIX); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	panels := []*config_panel{}
	in_err := false
	for _, name := range names {
		if !RE_NAME.MatchString(name) {
			log.Printf("panel name %q is not valid\n", name)
			in_err = true
			continue
		}
		p := &config_panel{
			name:   name,
			width:  DEFAULT_PANEL_WIDTH,
			height: DEFAULT_PANEL_HEIGHT,
		}
		for k, pairs := range c.sections[PANEL_SECTION_PREFIX+name] {
			for _, pair := range pairs {
				var err error
				switch k {
				case "description":
					p.description = pair.value
				case "options":
					p.path_options = pair.value
				case "workbook":
					p.path_workbook = pair.value
				case "width":
					p.width, err = panel_dimension_parse(pair.value)
				case "height":
					p.height, err = panel_dimension_parse(pair.value)
				case "query":
					p.queries = append(p.queries, pair.value)
				default:
					err = fmt.Errorf(
						"%d: unrecognized config item: %s",
						pair.lineno, k)
				}
				if err != nil {
					log.Printf("panel %s: %s: invalid value: %v", name, k, err)
					in_err = true
				}
			}
		}
		if p.path_options == "" {
			log.Printf("panel %s: no options file\n", name)
			in_err = true
		}
		panels = append(panels, p)
	}
	if in_err {
		return nil, errors.New("panel sections contained errors")
	}
	return panels, nil
}

func panel_find(panels []*config_panel, name string) *config_panel {
	for _, cur := range panels {
		if cur.name == name {
			return cur
		}
	}
	return nil
}
