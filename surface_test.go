package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func all_shapes_options(t *testing.T) (*panel_options, map[string]image.Image) {
	t.Helper()
	o := options_default()
	images := map[string]image.Image{}
	for _, kind := range all_shape_kinds {
		s := must_shape(t, kind)
		if kind == SHAPE_IMAGE {
			img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
			img.Set(1, 1, color.NRGBA{0, 0, 255, 255})
			images[s.envelope().ID] = img
		}
		if pl, ok := s.(*shape_polyline); ok {
			pl.SmoothCurve = true
			pl.ClosePath = true
		}
		o.shapes = append(o.shapes, s)
	}
	return o, images
}

func TestVGSurfacePNG(t *testing.T) {
	s, err := new_encodable_surface("png", 120, 80)
	if err != nil {
		t.Fatal(err)
	}
	o, images := all_shapes_options(t)
	draw_frame(s, o, nil, images, COLOR_THEME_TEXT)

	b := bytes.Buffer{}
	if err := s.encode(&b); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&b)
	if err != nil {
		t.Fatal(err)
	}
	assert(t, img.Bounds().Dx() == 120 && img.Bounds().Dy() == 80, "unexpected size", img.Bounds())

	opaque := 0
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				opaque++
			}
		}
	}
	assert(t, opaque > 0, "something should have been drawn")
}

func TestVGSurfaceClear(t *testing.T) {
	s, err := new_encodable_surface("png", 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	s.set_stroke(COLOR_FALLBACK, 0)
	s.set_fill(COLOR_FALLBACK)
	s.shape_path(rect_path(vec.Vec2{X: 5, Y: 5}, 10, 10, 0))
	s.clear()

	b := bytes.Buffer{}
	if err := s.encode(&b); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&b)
	if err != nil {
		t.Fatal(err)
	}
	_, _, _, a := img.At(5, 5).RGBA()
	assert(t, a == 0, "cleared surface should be transparent", a)
}

func TestVGSurfaceSVG(t *testing.T) {
	s, err := new_encodable_surface("svg", 120, 80)
	if err != nil {
		t.Fatal(err)
	}
	o, images := all_shapes_options(t)
	draw_frame(s, o, nil, images, COLOR_THEME_TEXT)
	b := bytes.Buffer{}
	if err := s.encode(&b); err != nil {
		t.Fatal(err)
	}
	assert(t, strings.Contains(b.String(), "<svg"), "svg document expected")
}

func TestVGSurfacePlaceholder(t *testing.T) {
	s, err := new_encodable_surface("png", 200, 100)
	if err != nil {
		t.Fatal(err)
	}
	draw_error_placeholder(s)
	b := bytes.Buffer{}
	if err := s.encode(&b); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&b)
	if err != nil {
		t.Fatal(err)
	}
	r, _, _, a := img.At(100, 50).RGBA()
	assert(t, a > 0 && r > 0, "placeholder should be tinted red")
}

func TestNewSurfaceErrors(t *testing.T) {
	_, err := new_encodable_surface("gif", 10, 10)
	assert(t, err != nil, "unknown format should fail")
	_, err = new_encodable_surface("png", 0, 10)
	assert(t, err != nil, "zero width should fail")
	_, err = new_encodable_surface("svg", 10, -1)
	assert(t, err != nil, "negative height should fail")
	assert(t, graph_mimetype("svg") == "image/svg+xml", "unexpected svg mimetype")
	assert(t, graph_mimetype("png") == "image/png", "unexpected png mimetype")
}
