package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type params_render struct {
	panel         string
	path_out      string
	format        string
	width, height int
	timeout       time.Duration
}

// render_format picks the output format from the flag or the file suffix.
func render_format(p *params_render, def string) (string, error) {
	format := strings.ToLower(p.format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(p.path_out)), ".")
	}
	if format == "" {
		format = def
	}
	if format != "png" && format != "svg" {
		return "", fmt.Errorf("unsupported format %q", format)
	}
	return format, nil
}

// render_panel draws a single panel once and writes it to a file.
func render_panel(path_config string, p *params_render) error {
	config, err := config_load_file(path_config)
	if err != nil {
		return err
	}
	sconfig, err := config.parse_serve()
	if err != nil {
		return err
	}
	panels, err := config.parse_panels()
	if err != nil {
		return err
	}
	panel := panel_find(panels, p.panel)
	if panel == nil {
		return fmt.Errorf("no such panel: %s", p.panel)
	}
	format, err := render_format(p, sconfig.graph_format)
	if err != nil {
		return err
	}
	width, height := panel.width, panel.height
	if p.width > 0 {
		width = p.width
	}
	if p.height > 0 {
		height = p.height
	}
	if width > MAX_PANEL_DIMENSION || height > MAX_PANEL_DIMENSION {
		return fmt.Errorf("panel size %dx%d exceeds %d", width, height, MAX_PANEL_DIMENSION)
	}

	var db *sql.DB
	if len(panel.queries) > 0 {
		db, err = db_init(fmt.Sprintf("%s?mode=ro", sconfig.path_db))
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Println("warning: error when closing database: ", err)
			}
		}()
	}

	ctx, cf := context.WithTimeout(context.Background(), p.timeout)
	defer cf()

	sconfig.rebuild_delay = 0
	h := new_panel_host(panel, sconfig, new_encodable_surface)
	defer h.unmount()
	h.update(h.props_collect(ctx, db, format, width, height))

	b := bytes.Buffer{}
	if err := h.render(ctx, &b); err != nil {
		return err
	}
	if st := h.state(); st == STATE_HALTED {
		log.Printf("panel %s rendered as an error placeholder\n", panel.name)
	}
	if err := os.WriteFile(p.path_out, b.Bytes(), 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s (%dx%d %s) to %s\n", panel.name, width, height, format, p.path_out)
	return nil
}
