package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"time"

	"seehuhn.de/go/geom/vec"
)

type session_state int

const (
	STATE_UNINITIALIZED session_state = iota
	STATE_READY
	STATE_DRAWING
	STATE_ERROR
	STATE_HALTED
	STATE_DISPOSED
)

func (s session_state) String() string {
	switch s {
	case STATE_UNINITIALIZED:
		return "uninitialized"
	case STATE_READY:
		return "ready"
	case STATE_DRAWING:
		return "drawing"
	case STATE_ERROR:
		return "error"
	case STATE_HALTED:
		return "halted"
	case STATE_DISPOSED:
		return "disposed"
	}
	return fmt.Sprintf("session_state(%d)", int(s))
}

var ERR_SESSION_DISPOSED = errors.New("session has been disposed")

// session_props is everything a session is built from. Any change to them
// means a new session.
type session_props struct {
	format      string
	width       int
	height      int
	options     *panel_options
	options_err error
	data        *result_set
	data_err    error
}

func (p session_props) same(o session_props) bool {
	return p.format == o.format &&
		p.width == o.width &&
		p.height == o.height &&
		p.options == o.options &&
		fmt.Sprint(p.options_err) == fmt.Sprint(o.options_err) &&
		p.data.fingerprint() == o.data.fingerprint() &&
		fmt.Sprint(p.data_err) == fmt.Sprint(o.data_err)
}

// session owns one drawing surface and the bitmaps loaded for its image
// shapes. It is not safe for concurrent use.
type session struct {
	state       session_state
	props       session_props
	new_surface surface_factory
	loader      *image_loader
	theme       color.Color

	surface encodable
	images  map[string]image.Image
	loaded  <-chan image_result
	pending int
	err     error
	frames  int
}

func new_session(props session_props, factory surface_factory, loader *image_loader, theme color.Color) *session {
	return &session{
		state:       STATE_UNINITIALIZED,
		props:       props,
		new_surface: factory,
		loader:      loader,
		theme:       theme,
		images:      map[string]image.Image{},
	}
}

// setup creates the surface and fires the image loads.
func (s *session) setup() (err error) {
	if s.state != STATE_UNINITIALIZED {
		return fmt.Errorf("setup in state %s", s.state)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("setup panicked: %v", rec)
		}
		if err != nil {
			s.fail(err)
		}
	}()

	surf, err := s.new_surface(s.props.format, s.props.width, s.props.height)
	if err != nil {
		return fmt.Errorf("cannot create surface: %w", err)
	}
	s.surface = surf
	if s.props.options_err != nil {
		return fmt.Errorf("options unavailable: %w", s.props.options_err)
	}
	if s.props.data_err != nil {
		return fmt.Errorf("data unavailable: %w", s.props.data_err)
	}
	if s.props.options == nil {
		return errors.New("no panel options")
	}
	if s.loader != nil {
		reqs := image_requests(s.props.options.shapes, new_field_resolver(s.props.data))
		s.pending = len(reqs)
		s.loaded = s.loader.start(reqs)
	}
	s.state = STATE_READY
	return nil
}

// fail moves through the error state to halted and leaves the placeholder
// on the surface.
func (s *session) fail(err error) {
	log.Println("session: ", err)
	s.err = err
	s.state = STATE_ERROR
	if s.surface != nil {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Println("session: cannot draw error placeholder: ", rec)
				}
			}()
			draw_error_placeholder(s.surface)
		}()
	}
	s.state = STATE_HALTED
}

func (s *session) image_store(res image_result) {
	s.pending--
	if res.err != nil {
		log.Printf("image: shape %s: %v\n", res.id, res.err)
		return
	}
	s.images[res.id] = res.img
}

func (s *session) images_drain() {
	for s.pending > 0 {
		select {
		case res := <-s.loaded:
			s.image_store(res)
		default:
			return
		}
	}
}

// images_collect reads up to n results from ch until ctx is done or limit
// has passed. It touches no session state so it can run unlocked.
func images_collect(ctx context.Context, ch <-chan image_result, n int, limit time.Duration) []image_result {
	ret := []image_result{}
	if n <= 0 || limit <= 0 || ch == nil {
		return ret
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()
	for len(ret) < n {
		select {
		case res := <-ch:
			ret = append(ret, res)
		case <-timer.C:
			return ret
		case <-ctx.Done():
			return ret
		}
	}
	return ret
}

// images_wait blocks until all image loads have finished, ctx is done or
// limit has passed.
func (s *session) images_wait(ctx context.Context, limit time.Duration) {
	for _, res := range images_collect(ctx, s.loaded, s.pending, limit) {
		s.image_store(res)
	}
}

// draw renders one frame. A session in error, halted or disposed state
// draws nothing more.
func (s *session) draw() (err error) {
	switch s.state {
	case STATE_READY, STATE_DRAWING:
	case STATE_DISPOSED:
		return ERR_SESSION_DISPOSED
	case STATE_ERROR, STATE_HALTED:
		return s.err
	default:
		return fmt.Errorf("draw in state %s", s.state)
	}
	s.state = STATE_DRAWING
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("frame %d panicked: %v", s.frames+1, rec)
			s.fail(err)
		}
	}()
	s.images_drain()
	draw_frame(s.surface, s.props.options, s.props.data, s.images, s.theme)
	s.frames++
	return nil
}

func (s *session) encode(w io.Writer) error {
	if s.state == STATE_DISPOSED {
		return ERR_SESSION_DISPOSED
	}
	if s.surface == nil {
		return fmt.Errorf("no surface: %w", s.err)
	}
	return s.surface.encode(w)
}

// dispose releases the surface. Image loads still in flight finish into the
// buffered channel and are dropped with it.
func (s *session) dispose() {
	s.state = STATE_DISPOSED
	s.surface = nil
	s.images = nil
	s.loaded = nil
	s.pending = 0
}

func draw_error_placeholder(s surface) {
	w, h := s.size()
	s.clear()
	s.set_stroke(COLOR_ERROR_LINE, 1)
	s.set_fill(COLOR_ERROR_FILL)
	s.shape_path(rect_path(vec.Vec2{X: w / 2, Y: h / 2}, w-1, h-1, 0))
	s.text("Error rendering canvas", w/2, h/2-10, 14, COLOR_ERROR_LINE)
	s.text("Check logs for details", w/2, h/2+10, 12, COLOR_ERROR_LINE)
}
