package main

import (
	"fmt"
	"image"
	"image/color"

	"seehuhn.de/go/geom/vec"
)

// draw_context carries what every shape of one frame is drawn against.
type draw_context struct {
	s      surface
	r      *field_resolver
	m      coord_mapper
	images map[string]image.Image
	theme  color.Color
}

// draw_frame computes the view of one frame and draws grid, axes and
// shapes on a cleared surface.
func draw_frame(s surface, o *panel_options, data *result_set, images map[string]image.Image, theme color.Color) {
	r := new_field_resolver(data)
	w, h := s.size()
	b := bounds_compute(o.shapes, r, o.view_limits)
	b = bounds_fit_aspect(b, w, h)
	dc := &draw_context{
		s:      s,
		r:      r,
		m:      new_coord_mapper(b, w, h),
		images: images,
		theme:  theme,
	}
	s.clear()
	draw_grid(s, dc.m, o.axis, theme)
	for _, sh := range o.shapes {
		dc.draw_shape(sh)
	}
}

func (dc *draw_context) fill(fill string, opacity float64) color.Color {
	if fill == "" {
		return nil
	}
	return color_with_alpha(color_or(fill, dc.theme, COLOR_FALLBACK), opacity)
}

func (dc *draw_context) at(x, y field_config) vec.Vec2 {
	return vec.Vec2{X: dc.m.x(dc.r.number(x)), Y: dc.m.y(dc.r.number(y))}
}

// draw_shape draws one shape. Invisible shapes issue no draw calls.
func (dc *draw_context) draw_shape(sh shape) {
	base := sh.envelope()
	if !base.Visible {
		return
	}
	opacity := opacity_clamp(base.Opacity)
	stroke := color_fade(color_or(base.StrokeColor, dc.theme, COLOR_FALLBACK), opacity)
	s, r, m := dc.s, dc.r, dc.m
	s.set_stroke(stroke, base.StrokeWeight)
	s.set_fill(nil)

	switch sh := sh.(type) {
	case *shape_point:
		c := dc.at(sh.X, sh.Y)
		s.point(c.X, c.Y, sh.PointSize)
	case *shape_line:
		a, b := dc.at(sh.X1, sh.Y1), dc.at(sh.X2, sh.Y2)
		s.line(a.X, a.Y, b.X, b.Y)
	case *shape_rectangle:
		x, y := r.number(sh.X), r.number(sh.Y)
		w, h := r.number(sh.Width), r.number(sh.Height)
		c := vec.Vec2{X: m.x(x), Y: m.y(y)}
		s.set_fill(dc.fill(sh.FillColor, opacity))
		s.shape_path(rect_path(c, m.span_x(x, w), m.span_y(y, h), r.number(sh.Rotation)))
	case *shape_ellipse:
		x, y := r.number(sh.X), r.number(sh.Y)
		w, h := r.number(sh.Width), r.number(sh.Height)
		c := vec.Vec2{X: m.x(x), Y: m.y(y)}
		s.set_fill(dc.fill(sh.FillColor, opacity))
		s.shape_path(ellipse_path(c, m.span_x(x, w), m.span_y(y, h), r.number(sh.Rotation)))
	case *shape_circle:
		x, y := r.number(sh.X), r.number(sh.Y)
		d := m.span_x(x, r.number(sh.Diameter))
		s.set_fill(dc.fill(sh.FillColor, opacity))
		s.shape_path(ellipse_path(vec.Vec2{X: m.x(x), Y: m.y(y)}, d, d, 0))
	case *shape_triangle:
		s.set_fill(dc.fill(sh.FillColor, opacity))
		s.shape_path(polygon_path(
			dc.at(sh.X1, sh.Y1),
			dc.at(sh.X2, sh.Y2),
			dc.at(sh.X3, sh.Y3)))
	case *shape_quad:
		s.set_fill(dc.fill(sh.FillColor, opacity))
		s.shape_path(polygon_path(
			dc.at(sh.X1, sh.Y1),
			dc.at(sh.X2, sh.Y2),
			dc.at(sh.X3, sh.Y3),
			dc.at(sh.X4, sh.Y4)))
	case *shape_polyline:
		xs, ys := r.array(sh.XPoints), r.array(sh.YPoints)
		n := min(len(xs), len(ys))
		pts := make([]vec.Vec2, n)
		for i := range pts {
			pts[i] = vec.Vec2{X: m.x(xs[i]), Y: m.y(ys[i])}
		}
		p := polyline_path(pts, sh.ClosePath, sh.SmoothCurve)
		if p == nil {
			return
		}
		if sh.ClosePath {
			s.set_fill(dc.fill(sh.FillColor, opacity))
		}
		s.shape_path(p)
	case *shape_image:
		img, ok := dc.images[base.ID]
		if !ok {
			return
		}
		x, y := r.number(sh.X), r.number(sh.Y)
		w, h := m.span_x(x, r.number(sh.Width)), m.span_y(y, r.number(sh.Height))
		if w <= 0 || h <= 0 {
			return
		}
		s.image(image_prepare(img, w, h, opacity), m.x(x), m.y(y), w, h, r.number(sh.Rotation))
	case *shape_text:
		c := dc.at(sh.X, sh.Y)
		str := text_format(r.scalar(sh.Text), sh.FormatString, sh.Unit)
		tc := color_fade(color_or(sh.TextColor, dc.theme, COLOR_FALLBACK), opacity)
		s.text(str, c.X+sh.XOffset, c.Y+sh.YOffset, sh.TextSize, tc)
	default:
		panic(fmt.Sprintf("This is a bug: unhandled shape type %T", sh))
	}
}
