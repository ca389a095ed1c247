package main

import (
	"context"
	"database/sql"
	"errors"
	"image/color"
	"io"
	"log"
	"sync"
	"time"
)

var ERR_UNMOUNTED = errors.New("panel is not mounted")

// panel_host keeps the live session of one panel. Every change of props
// disposes the current session and schedules a new one after delay; a
// newer change or an unmount cancels a construction that has not started.
type panel_host struct {
	panel      *config_panel
	factory    surface_factory
	loader     *image_loader
	theme      color.Color
	delay      time.Duration
	image_wait time.Duration

	mu      sync.Mutex
	options *panel_options
	props   *session_props
	current *session
	pending *time.Timer
	ready   chan struct{}
	gen     uint64
}

func new_panel_host(p *config_panel, cs *config_serve, factory surface_factory) *panel_host {
	return &panel_host{
		panel:      p,
		factory:    factory,
		loader:     new_image_loader(cs.image_timeout),
		theme:      cs.theme_text_color,
		delay:      cs.rebuild_delay,
		image_wait: cs.image_wait,
	}
}

// options_reload reads the panel options from disk and rebuilds the
// session if one is mounted.
func (h *panel_host) options_reload() error {
	o, err := options_load_file(h.panel.path_options)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.options = o
	if h.props != nil {
		p := *h.props
		p.options, p.options_err = o, nil
		h.schedule(p)
	}
	return nil
}

func (h *panel_host) options_get() (*panel_options, error) {
	h.mu.Lock()
	o := h.options
	h.mu.Unlock()
	if o != nil {
		return o, nil
	}
	if err := h.options_reload(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.options, nil
}

// props_collect gathers fresh session props. Unreadable options and failing
// queries are carried in the props so that the session shows the error
// placeholder.
func (h *panel_host) props_collect(ctx context.Context, db *sql.DB, format string, width, height int) session_props {
	p := session_props{
		format: format,
		width:  width,
		height: height,
	}
	p.options, p.options_err = h.options_get()
	if p.options_err != nil {
		log.Printf("panel %s: cannot load options: %v\n", h.panel.name, p.options_err)
		return p
	}
	p.data, p.data_err = panel_frames(ctx, db, h.panel)
	if p.data_err != nil {
		log.Printf("panel %s: cannot collect data: %v\n", h.panel.name, p.data_err)
	}
	return p
}

// update hands new props to the host. Unchanged props keep the current or
// scheduled session.
func (h *panel_host) update(p session_props) {
	h.mu.Lock()
	defer h.mu.Unlock()
	mounted := h.current != nil || h.pending != nil
	if mounted && h.props != nil && h.props.same(p) {
		return
	}
	h.schedule(p)
}

func (h *panel_host) schedule(p session_props) {
	h.cancel_pending()
	if h.current != nil {
		h.current.dispose()
		h.current = nil
	}
	h.props = &p
	gen := h.gen
	done := make(chan struct{})
	h.ready = done
	h.pending = time.AfterFunc(h.delay, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.gen != gen {
			return
		}
		s := new_session(p, h.factory, h.loader, h.theme)
		if err := s.setup(); err != nil {
			log.Printf("panel %s: setup failed: %v\n", h.panel.name, err)
		}
		h.current = s
		h.pending = nil
		h.ready = nil
		close(done)
	})
}

// cancel_pending stops a scheduled construction and wakes its waiters.
func (h *panel_host) cancel_pending() {
	h.gen++
	if h.pending != nil {
		h.pending.Stop()
		h.pending = nil
	}
	if h.ready != nil {
		close(h.ready)
		h.ready = nil
	}
}

func (h *panel_host) unmount() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancel_pending()
	if h.current != nil {
		h.current.dispose()
		h.current = nil
	}
	h.props = nil
}

// await blocks until a constructed session is available and returns with
// the host locked.
func (h *panel_host) await(ctx context.Context) error {
	for {
		h.mu.Lock()
		if h.current != nil && h.pending == nil {
			return nil
		}
		ready := h.ready
		h.mu.Unlock()
		if ready == nil {
			return ERR_UNMOUNTED
		}
		select {
		case <-ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// render draws a frame of the current session and encodes it into w. The
// first frame of a session waits for its images with the host unlocked.
func (h *panel_host) render(ctx context.Context, w io.Writer) error {
	var waited *session
	var loaded []image_result
	for {
		if err := h.await(ctx); err != nil {
			return err
		}
		s := h.current
		if s == waited {
			for _, res := range loaded {
				s.image_store(res)
			}
			break
		}
		if s.frames > 0 || s.pending == 0 {
			break
		}
		ch, n := s.loaded, s.pending
		h.mu.Unlock()
		loaded = images_collect(ctx, ch, n, h.image_wait)
		waited = s
	}
	defer h.mu.Unlock()
	s := h.current
	if err := s.draw(); err != nil {
		log.Printf("panel %s: %v\n", h.panel.name, err)
	}
	return s.encode(w)
}

func (h *panel_host) state() session_state {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return STATE_UNINITIALIZED
	}
	return h.current.state
}
