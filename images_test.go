package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func test_png(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{255, 0, 0, 255})
		}
	}
	b := bytes.Buffer{}
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func test_png_data_url(t *testing.T) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(test_png(t))
}

func TestImageLoad(t *testing.T) {
	raw := test_png(t)
	path := filepath.Join(t.TempDir(), "red.png")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/red.png" {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(raw)
	}))
	defer srv.Close()

	table := []struct {
		name        string
		source      string
		source_type string
	}{
		{"data url", test_png_data_url(t), IMAGE_SOURCE_URL},
		{"base64", base64.StdEncoding.EncodeToString(raw), IMAGE_SOURCE_BASE64},
		{"file", path, IMAGE_SOURCE_URL},
		{"file url", "file://" + path, IMAGE_SOURCE_URL},
		{"http", srv.URL + "/red.png", IMAGE_SOURCE_URL},
	}
	l := new_image_loader(5 * time.Second)
	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			img, err := l.load(context.Background(), image_request{id: "x", source: tc.source, source_type: tc.source_type})
			if err != nil {
				t.Fatal(err)
			}
			assert(t, img.Bounds().Dx() == 4 && img.Bounds().Dy() == 4, "unexpected size", img.Bounds())
		})
	}

	bad := []string{
		srv.URL + "/missing.png",
		filepath.Join(t.TempDir(), "missing.png"),
		"data:image/png;base64,bm90IGFuIGltYWdl",
		"data:image/png;base64",
	}
	for _, src := range bad {
		_, err := l.load(context.Background(), image_request{id: "x", source: src, source_type: IMAGE_SOURCE_URL})
		assert(t, err != nil, "load should fail for", src)
	}
}

func TestImageLoaderStart(t *testing.T) {
	l := new_image_loader(time.Second)
	reqs := []image_request{
		{id: "a", source: test_png_data_url(t)},
		{id: "b", source: "data:,"},
	}
	ch := l.start(reqs)
	got := map[string]bool{}
	for range reqs {
		select {
		case res := <-ch:
			got[res.id] = res.err == nil
		case <-time.After(5 * time.Second):
			t.Fatal("image loads did not finish")
		}
	}
	assert(t, got["a"], "first image should load")
	assert(t, !got["b"], "empty image should fail")
}

func TestImageRequests(t *testing.T) {
	with_source := must_shape(t, SHAPE_IMAGE).(*shape_image)
	with_source.Source = field_of("logo")
	empty := must_shape(t, SHAPE_IMAGE)
	rs := &result_set{frames: []*frame{{
		fields: []*frame_field{{name: "logo", values: []any{" /tmp/logo.png "}}},
	}}}
	reqs := image_requests(
		[]shape{with_source, empty, must_shape(t, SHAPE_TEXT)},
		new_field_resolver(rs))
	if len(reqs) != 1 {
		t.Fatal("one request expected, got", reqs)
	}
	assert(t, reqs[0].id == with_source.ID, "unexpected id", reqs[0].id)
	assert(t, reqs[0].source == "/tmp/logo.png", "source should be trimmed", reqs[0].source)
}

func TestDataURLDecode(t *testing.T) {
	b, err := data_url_decode("data:text/plain,hello%20world")
	if err != nil {
		t.Fatal(err)
	}
	assert(t, string(b) == "hello world", "unexpected payload", string(b))
	_, err = data_url_decode("data:text/plain")
	assert(t, err != nil, "payload should be required")
}

func TestImagePrepare(t *testing.T) {
	img, _, err := image.Decode(bytes.NewReader(test_png(t)))
	if err != nil {
		t.Fatal(err)
	}

	scaled := image_prepare(img, 10, 6.4, 1)
	assert(t, scaled.Bounds().Dx() == 10 && scaled.Bounds().Dy() == 6, "unexpected size", scaled.Bounds())
	c := color.NRGBAModel.Convert(scaled.At(5, 3)).(color.NRGBA)
	assert(t, c.A > 250 && c.R > 250, "unexpected colour", c)

	faded := image_prepare(img, 10, 6, 0.5)
	c = color.NRGBAModel.Convert(faded.At(5, 3)).(color.NRGBA)
	assert(t, c.A > 120 && c.A < 136, "unexpected alpha", c)
	assert(t, c.R > 250, "fading should keep the colour", c)

	tiny := image_prepare(img, 0.2, 0, 1)
	assert(t, tiny.Bounds().Dx() == 1 && tiny.Bounds().Dy() == 1, "size should be at least one pixel", tiny.Bounds())
}

func TestImageSourceDirs(t *testing.T) {
	source := func(src, source_type string) shape {
		s := must_shape(t, SHAPE_IMAGE).(*shape_image)
		s.Source = constant_of(src)
		s.SourceType = source_type
		return s
	}
	bound := must_shape(t, SHAPE_IMAGE).(*shape_image)
	bound.Source = field_of("logo")
	shapes := []shape{
		source("/srv/images/a.png", IMAGE_SOURCE_URL),
		source("file:///srv/icons/b.png", IMAGE_SOURCE_URL),
		source("/srv/images/c.png", IMAGE_SOURCE_URL),
		source("https://example.com/d.png", IMAGE_SOURCE_URL),
		source("data:image/png;base64,AAAA", IMAGE_SOURCE_URL),
		source("AAAA", IMAGE_SOURCE_BASE64),
		source("", IMAGE_SOURCE_URL),
		bound,
		must_shape(t, SHAPE_TEXT),
	}
	got := image_source_dirs(shapes)
	want := []string{"/srv/icons", "/srv/images"}
	assertf(t, strings.Join(got, ",") == strings.Join(want, ","), "wanted %v, got %v", want, got)
}
