package main

import (
	"fmt"
	"math"
)

// bounds is a box in data space.
type bounds struct {
	min_x, max_x, min_y, max_y float64
}

func (b bounds) width() float64  { return b.max_x - b.min_x }
func (b bounds) height() float64 { return b.max_y - b.min_y }

func bounds_empty() bounds {
	return bounds{
		min_x: math.Inf(1),
		max_x: math.Inf(-1),
		min_y: math.Inf(1),
		max_y: math.Inf(-1),
	}
}

func (b bounds) is_empty() bool {
	return b.min_x > b.max_x || b.min_y > b.max_y
}

func (b *bounds) add(x, y float64) {
	b.min_x = math.Min(b.min_x, x)
	b.max_x = math.Max(b.max_x, x)
	b.min_y = math.Min(b.min_y, y)
	b.max_y = math.Max(b.max_y, y)
}

// add_box adds a box centred on (x, y).
func (b *bounds) add_box(x, y, w, h float64) {
	b.add(x-w/2, y-h/2)
	b.add(x+w/2, y+h/2)
}

func bounds_from_limits(l view_limits) bounds {
	return bounds{min_x: l.XMin, max_x: l.XMax, min_y: l.YMin, max_y: l.YMax}
}

// shape_extent adds the data-space extent of s to b.
func shape_extent(b *bounds, s shape, r *field_resolver) {
	switch s := s.(type) {
	case *shape_point:
		b.add(r.number(s.X), r.number(s.Y))
	case *shape_text:
		b.add(r.number(s.X), r.number(s.Y))
	case *shape_line:
		b.add(r.number(s.X1), r.number(s.Y1))
		b.add(r.number(s.X2), r.number(s.Y2))
	case *shape_triangle:
		b.add(r.number(s.X1), r.number(s.Y1))
		b.add(r.number(s.X2), r.number(s.Y2))
		b.add(r.number(s.X3), r.number(s.Y3))
	case *shape_quad:
		b.add(r.number(s.X1), r.number(s.Y1))
		b.add(r.number(s.X2), r.number(s.Y2))
		b.add(r.number(s.X3), r.number(s.Y3))
		b.add(r.number(s.X4), r.number(s.Y4))
	case *shape_rectangle:
		b.add_box(r.number(s.X), r.number(s.Y), r.number(s.Width), r.number(s.Height))
	case *shape_ellipse:
		b.add_box(r.number(s.X), r.number(s.Y), r.number(s.Width), r.number(s.Height))
	case *shape_image:
		b.add_box(r.number(s.X), r.number(s.Y), r.number(s.Width), r.number(s.Height))
	case *shape_circle:
		d := r.number(s.Diameter)
		b.add_box(r.number(s.X), r.number(s.Y), d, d)
	case *shape_polyline:
		xs, ys := r.array(s.XPoints), r.array(s.YPoints)
		n := min(len(xs), len(ys))
		for i := 0; i < n; i++ {
			b.add(xs[i], ys[i])
		}
	default:
		panic(fmt.Sprintf("This is a bug: unhandled shape type %T", s))
	}
}

// bounds_compute returns the data-space box to display. Auto-scaling
// accumulates visible shape extents and pads them; otherwise the limits are
// used as given. A zero-width axis is always widened.
func bounds_compute(shapes []shape, r *field_resolver, limits view_limits) bounds {
	b := bounds_from_limits(limits)
	if limits.AutoScale {
		acc := bounds_empty()
		for _, s := range shapes {
			if !s.envelope().Visible {
				continue
			}
			shape_extent(&acc, s, r)
		}
		if !acc.is_empty() {
			pad_x := acc.width() * BOUNDS_PADDING
			pad_y := acc.height() * BOUNDS_PADDING
			b = bounds{
				min_x: acc.min_x - pad_x,
				max_x: acc.max_x + pad_x,
				min_y: acc.min_y - pad_y,
				max_y: acc.max_y + pad_y,
			}
		}
	}
	return bounds_fix_degenerate(b)
}

func bounds_fix_degenerate(b bounds) bounds {
	if b.min_x == b.max_x {
		b.min_x -= BOUNDS_DEGENERATE_HALF
		b.max_x += BOUNDS_DEGENERATE_HALF
	}
	if b.min_y == b.max_y {
		b.min_y -= BOUNDS_DEGENERATE_HALF
		b.max_y += BOUNDS_DEGENERATE_HALF
	}
	return b
}

// bounds_fit_aspect grows one axis symmetrically so that the box has the
// same aspect ratio as the canvas. It never shrinks an axis.
func bounds_fit_aspect(b bounds, width, height float64) bounds {
	if width <= 0 || height <= 0 {
		return b
	}
	data_w, data_h := b.width(), b.height()
	if data_w <= 0 || data_h <= 0 {
		return b
	}
	canvas_aspect := width / height
	if data_w/data_h > canvas_aspect {
		diff := data_w/canvas_aspect - data_h
		b.min_y -= diff / 2
		b.max_y += diff / 2
	} else {
		diff := data_h*canvas_aspect - data_w
		b.min_x -= diff / 2
		b.max_x += diff / 2
	}
	return b
}
