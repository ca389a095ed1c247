package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// options_watch reloads panel options whenever their files change. The
// containing directories are watched so that editors replacing the file
// by rename are noticed too.
func options_watch(ctx context.Context, hosts []*panel_host) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed creating file watcher: %w", err)
	}

	by_path := map[string][]*panel_host{}
	dirs := map[string]bool{}
	for _, h := range hosts {
		p, err := filepath.Abs(h.panel.path_options)
		if err != nil {
			watcher.Close()
			return err
		}
		by_path[p] = append(by_path[p], h)
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("cannot watch %s: %w", dir, err)
		}
		log.Println("watching panel options in ", dir)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				for _, h := range by_path[filepath.Clean(ev.Name)] {
					log.Printf("panel %s: options changed, reloading\n", h.panel.name)
					if err := h.options_reload(); err != nil {
						log.Printf("panel %s: keeping previous options: %v\n", h.panel.name, err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Println("watcher: ", err)
			}
		}
	}()
	return nil
}
