package main

import (
	"fmt"
	"math/rand"
	"testing"
)

func test_point(x, y field_config) *shape_point {
	s, _ := shape_default(SHAPE_POINT)
	p := s.(*shape_point)
	p.X, p.Y = x, y
	return p
}

func bounds_equal(a, b bounds) bool {
	return almost_equals(a.min_x, b.min_x) &&
		almost_equals(a.max_x, b.max_x) &&
		almost_equals(a.min_y, b.min_y) &&
		almost_equals(a.max_y, b.max_y)
}

var test_limits = view_limits{AutoScale: true, XMin: -100, XMax: 100, YMin: -50, YMax: 50}

func TestBoundsFixedLimits(t *testing.T) {
	limits := view_limits{AutoScale: false, XMin: 0, XMax: 10, YMin: 0, YMax: 10}
	shapes := []shape{test_point(constant_of(1000.0), constant_of(1000.0))}
	got := bounds_compute(shapes, new_field_resolver(nil), limits)
	want := bounds{0, 10, 0, 10}
	assertf(t, bounds_equal(got, want), "wanted %+v, got %+v", want, got)
}

func TestBoundsAutoScale(t *testing.T) {
	r := new_field_resolver(nil)
	rect, _ := shape_default(SHAPE_RECTANGLE)
	circle, _ := shape_default(SHAPE_CIRCLE)
	c := circle.(*shape_circle)
	c.X, c.Y, c.Diameter = constant_of(100.0), constant_of(100.0), constant_of(20.0)
	poly, _ := shape_default(SHAPE_POLYLINE)
	pl := poly.(*shape_polyline)
	pl.XPoints, pl.YPoints = constant_of("-40,0,40"), constant_of("-30,10")

	table := []struct {
		name   string
		shapes []shape
		want   bounds
	}{
		{
			// 100x50 centred on the origin, padded by 5 and 2.5.
			name:   "rectangle",
			shapes: []shape{rect},
			want:   bounds{-55, 55, -27.5, 27.5},
		},
		{
			name:   "circle",
			shapes: []shape{c},
			want:   bounds{89, 111, 89, 111},
		},
		{
			// Only two points count: (-40,-30) and (0,10).
			name:   "polyline_truncated",
			shapes: []shape{pl},
			want:   bounds{-42, 2, -32, 12},
		},
		{
			name:   "rectangle_and_circle",
			shapes: []shape{rect, c},
			want:   bounds{-58, 118, -31.75, 116.75},
		},
	}
	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			got := bounds_compute(entry.shapes, r, test_limits)
			assertf(t, bounds_equal(got, entry.want), "wanted %+v, got %+v", entry.want, got)
		})
	}
}

func TestBoundsShapeExtents(t *testing.T) {
	r := new_field_resolver(nil)
	mk := func(kind string) shape {
		s, err := shape_default(kind)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	table := []struct {
		kind string
		want bounds
	}{
		{SHAPE_POINT, bounds{0, 0, 0, 0}},
		{SHAPE_TEXT, bounds{0, 0, 0, 0}},
		{SHAPE_LINE, bounds{0, 100, 0, 100}},
		{SHAPE_TRIANGLE, bounds{0, 100, 0, 100}},
		{SHAPE_QUAD, bounds{0, 100, 0, 100}},
		{SHAPE_RECTANGLE, bounds{-50, 50, -25, 25}},
		{SHAPE_ELLIPSE, bounds{-50, 50, -25, 25}},
		{SHAPE_IMAGE, bounds{-50, 50, -50, 50}},
		{SHAPE_CIRCLE, bounds{-25, 25, -25, 25}},
		{SHAPE_POLYLINE, bounds{0, 150, 0, 50}},
	}
	for _, entry := range table {
		t.Run(entry.kind, func(t *testing.T) {
			got := bounds_empty()
			shape_extent(&got, mk(entry.kind), r)
			assertf(t, bounds_equal(got, entry.want), "wanted %+v, got %+v", entry.want, got)
		})
	}
}

func TestBoundsInvisibleIgnored(t *testing.T) {
	r := new_field_resolver(nil)
	visible := test_point(constant_of(1.0), constant_of(2.0))
	visible2 := test_point(constant_of(3.0), constant_of(6.0))
	hidden := test_point(constant_of(1000.0), constant_of(-1000.0))
	hidden.Visible = false

	with := bounds_compute([]shape{visible, hidden, visible2}, r, test_limits)
	without := bounds_compute([]shape{visible, visible2}, r, test_limits)
	assertf(t, bounds_equal(with, without), "invisible shape changed bounds: %+v != %+v", with, without)

	only_hidden := bounds_compute([]shape{hidden}, r, test_limits)
	want := bounds_from_limits(test_limits)
	assertf(t, bounds_equal(only_hidden, want), "wanted limits %+v, got %+v", want, only_hidden)
}

func TestBoundsEmptyFallsBackToLimits(t *testing.T) {
	got := bounds_compute([]shape{}, new_field_resolver(nil), test_limits)
	want := bounds_from_limits(test_limits)
	assertf(t, bounds_equal(got, want), "wanted %+v, got %+v", want, got)
}

func TestBoundsDegenerate(t *testing.T) {
	r := new_field_resolver(nil)
	table := []struct {
		name   string
		shapes []shape
		limits view_limits
		want   bounds
	}{
		{
			name:   "single_point",
			shapes: []shape{test_point(constant_of(5.0), constant_of(7.0))},
			limits: test_limits,
			want:   bounds{-5, 15, -3, 17},
		},
		{
			name:   "fixed_limits_zero_width",
			limits: view_limits{XMin: 3, XMax: 3, YMin: 0, YMax: 1},
			want:   bounds{-7, 13, 0, 1},
		},
		{
			name:   "fixed_limits_zero_height",
			limits: view_limits{XMin: 0, XMax: 1, YMin: -2, YMax: -2},
			want:   bounds{0, 1, -12, 8},
		},
	}
	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			got := bounds_compute(entry.shapes, r, entry.limits)
			assertf(t, bounds_equal(got, entry.want), "wanted %+v, got %+v", entry.want, got)
			if entry.want.width() == 20 {
				assert(t, got.width() == 20, "degenerate width should become 20, got", got.width())
			}
		})
	}
}

func TestFitAspect(t *testing.T) {
	table := []struct {
		name          string
		give          bounds
		width, height float64
		want          bounds
	}{
		{"wide_canvas", bounds{0, 10, 0, 10}, 200, 100, bounds{-5, 15, 0, 10}},
		{"tall_canvas", bounds{0, 10, 0, 10}, 100, 200, bounds{0, 10, -5, 15}},
		{"wide_data", bounds{0, 40, 0, 10}, 100, 100, bounds{0, 40, -15, 25}},
		{"already_fits", bounds{-2, 2, -1, 1}, 200, 100, bounds{-2, 2, -1, 1}},
		{"zero_canvas", bounds{0, 1, 0, 2}, 0, 100, bounds{0, 1, 0, 2}},
	}
	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			got := bounds_fit_aspect(entry.give, entry.width, entry.height)
			assertf(t, bounds_equal(got, entry.want), "wanted %+v, got %+v", entry.want, got)
		})
	}
}

func TestFitAspectNeverShrinks(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		x0, y0 := rnd.Float64()*200-100, rnd.Float64()*200-100
		b := bounds{x0, x0 + 0.01 + rnd.Float64()*100, y0, y0 + 0.01 + rnd.Float64()*100}
		w, h := 1+rnd.Float64()*2000, 1+rnd.Float64()*2000
		got := bounds_fit_aspect(b, w, h)
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			assert(t, got.min_x <= b.min_x && got.max_x >= b.max_x, "x range shrank", b, got)
			assert(t, got.min_y <= b.min_y && got.max_y >= b.max_y, "y range shrank", b, got)
			assert(t,
				almost_equals(got.width()/got.height(), w/h) ||
					almost_equals(got.height()/got.width(), h/w),
				"aspect not fitted", got, w, h)
		})
	}
}

func TestMapperRoundTrip(t *testing.T) {
	table := []struct {
		b             bounds
		width, height float64
	}{
		{bounds{0, 10, 0, 10}, 100, 100},
		{bounds{-5, 15, 0, 10}, 200, 100},
		{bounds{-123.4, -0.5, 1e3, 1e4}, 640, 480},
	}
	for n, entry := range table {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			m := new_coord_mapper(entry.b, entry.width, entry.height)
			assert(t, almost_equals(m.x(entry.b.min_x), 0), "min_x should map to 0, got", m.x(entry.b.min_x))
			assert(t, almost_equals(m.x(entry.b.max_x), entry.width), "max_x should map to width, got", m.x(entry.b.max_x))
			assert(t, almost_equals(m.y(entry.b.min_y), entry.height), "min_y should map to height, got", m.y(entry.b.min_y))
			assert(t, almost_equals(m.y(entry.b.max_y), 0), "max_y should map to 0, got", m.y(entry.b.max_y))
		})
	}
}

func TestMapperSpans(t *testing.T) {
	// 2 px per unit on x, 1 px per unit on y.
	m := new_coord_mapper(bounds{0, 50, 0, 100}, 100, 100)
	assert(t, almost_equals(m.span_x(10, 10), 20), "unexpected x span", m.span_x(10, 10))
	assert(t, almost_equals(m.span_y(10, 10), 10), "unexpected y span", m.span_y(10, 10))
	assert(t, almost_equals(m.span_x(10, -10), 20), "spans should be absolute", m.span_x(10, -10))
	assert(t, almost_equals(m.y(75), 25), "y should grow upwards", m.y(75))
}

func TestScenarioPointBoundToField(t *testing.T) {
	rs := &result_set{frames: []*frame{{
		fields: []*frame_field{{name: "temp", values: []any{10.0, 20.0, 30.0}}},
	}}}
	r := new_field_resolver(rs)
	p := test_point(field_of("temp"), constant_of(5.0))

	assert(t, r.number(p.X) == 30, "x should be the last value", r.number(p.X))
	assert(t, r.number(p.Y) == 5, "y should be the constant", r.number(p.Y))

	// A lone point is padded by nothing and then widened by 10 each way.
	got := bounds_compute([]shape{p}, r, test_limits)
	want := bounds{20, 40, -5, 15}
	assertf(t, bounds_equal(got, want), "wanted %+v, got %+v", want, got)

	other := test_point(constant_of(10.0), constant_of(25.0))
	got = bounds_compute([]shape{p, other}, r, test_limits)
	want = bounds{9, 31, 4, 26}
	assertf(t, bounds_equal(got, want), "wanted %+v, got %+v", want, got)
}

func TestScenarioFixedLimitsWideCanvas(t *testing.T) {
	limits := view_limits{AutoScale: false, XMin: 0, XMax: 10, YMin: 0, YMax: 10}
	b := bounds_compute(nil, new_field_resolver(nil), limits)
	got := bounds_fit_aspect(b, 200, 100)
	want := bounds{-5, 15, 0, 10}
	assertf(t, bounds_equal(got, want), "wanted %+v, got %+v", want, got)
	assert(t, almost_equals(got.width()/got.height(), 2), "aspect should match the canvas")
}
