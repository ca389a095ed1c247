//go:build openbsd

package main

import (
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const (
	promises          = "inet stdio rpath wpath cpath tmppath flock dns"
	execpromises      = ""
	unveilflags_db    = "rw"
	unveilflags_tmp   = "rwc"
	unveilflags_panel = "r"
)

func protect_serve(path_db string, panels []*config_panel) error {
	log.Printf("unveil database directory: path=%q, flags=%q\n", path_db, unveilflags_db)
	if err := unix.Unveil(path_db, unveilflags_db); err != nil {
		return err
	}
	log.Printf("unveil temp directory: path=%q, flags=%q\n", os.TempDir(), unveilflags_tmp)
	if err := unix.Unveil(os.TempDir(), unveilflags_tmp); err != nil {
		return err
	}
	for _, p := range panels {
		paths := []string{filepath.Dir(p.path_options)}
		if p.path_workbook != "" {
			paths = append(paths, p.path_workbook)
		}
		if o, err := options_load_file(p.path_options); err == nil {
			for _, dir := range image_source_dirs(o.shapes) {
				log.Printf("unveil panel %s images: path=%q, flags=%q\n", p.name, dir, unveilflags_panel)
				if err := unix.Unveil(dir, unveilflags_panel); err != nil {
					log.Printf("panel %s: images in %s will not load: %v\n", p.name, dir, err)
				}
			}
		} else {
			log.Printf("panel %s: cannot look for image files: %v\n", p.name, err)
		}
		for _, path := range paths {
			log.Printf("unveil panel %s: path=%q, flags=%q\n", p.name, path, unveilflags_panel)
			if err := unix.Unveil(path, unveilflags_panel); err != nil {
				return err
			}
		}
	}
	if err := unix.UnveilBlock(); err != nil {
		return err
	}
	log.Printf("pledge: promises=%q, execpromises=%q\n", promises, execpromises)
	if err := unix.Pledge(promises, execpromises); err != nil {
		return err
	}
	return nil
}

func protect_measure() error {
	return nil
}
