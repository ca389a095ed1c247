package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

func exec_metric(ctx context.Context, m *metric, shell string, ord int, tasks chan<- db_task) {
	cmd := exec.CommandContext(ctx, shell, "-c", m.command)
	out, err := cmd.Output()
	if err != nil {
		log.Printf(
			"{%d}... run failed: %v\n",
			ord, err)
		return
	}
	val, err := measurement_parse(out)
	if err != nil {
		log.Printf(
			"{%d}... but it's not floaty: %v\n",
			ord, err)
		return
	}
	log.Printf("{%d}... run worked and returned: %v\n", ord, val)

	select {
	case tasks <- db_task{
		kind: DB_TASK_INSERT,
		insert_measurement: &measurement{
			metric: m,
			value:  val,
		}}:
	case <-ctx.Done():
		log.Printf("{%d}... gave up waiting for the database writer\n", ord)
	}
}

func measurement_parse(out []byte) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}

func run_metrics(ctx context.Context, period time.Duration, shell string,
	metrics []*metric, tasks chan<- db_task) {

	log.Println("Entering measurement loop with period of ", period, "...")
	ord := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(period):
			for n, m := range metrics {
				ord++
				log.Printf(
					"{%d} Running command %d/%d: %q\n",
					ord, n+1, len(metrics), m.command)
				go func(m *metric, ord int) {
					sctx, cf := context.WithTimeout(ctx, period/2+1)
					defer cf()
					exec_metric(sctx, m, shell, ord, tasks)
				}(m, ord)
			}
		}
	}
}

func is_metric_name_valid(name string) bool {
	return RE_NAME.MatchString(name)
}

func validate_metrics(metrics []*metric) error {
	in_err := false
	seen := map[string]bool{}
	for n, m := range metrics {
		log.Printf("Validating metric name %d/%d: %s\n", n+1, len(metrics), m.name)
		if !is_metric_name_valid(m.name) {
			log.Println("... and the name is not valid.")
			in_err = true
		}
		if seen[m.name] {
			log.Println("... and the name is already taken.")
			in_err = true
		}
		seen[m.name] = true
	}
	if in_err {
		return errors.New("one or more metrics did not validate")
	}
	return nil
}

// metrics_parse_line reads "name|description|command". The command may
// itself contain the delimiter.
func metrics_parse_line(line string) (*metric, error) {
	vals := strings.SplitN(line, CONFIG_DELIM, 3)
	if len(vals) < 3 {
		return nil, fmt.Errorf(
			"line does not contain three %s-separated values, got %d",
			CONFIG_DELIM, len(vals))
	}
	m := &metric{
		name:        strings.TrimSpace(vals[0]),
		description: strings.TrimSpace(vals[1]),
		command:     vals[2],
	}
	if strings.TrimSpace(m.command) == "" {
		return nil, fmt.Errorf("%s: empty command", m.name)
	}
	return m, nil
}

func metric_find(metrics []*metric, name string) *metric {
	for _, cur := range metrics {
		if cur.name == name {
			return cur
		}
	}
	return nil
}
