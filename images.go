package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// image_request is one image shape whose bitmap has to be fetched.
type image_request struct {
	id          string
	source      string
	source_type string
}

type image_result struct {
	id  string
	img image.Image
	err error
}

type image_loader struct {
	client  *http.Client
	timeout time.Duration
}

func new_image_loader(timeout time.Duration) *image_loader {
	return &image_loader{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// image_requests resolves the sources of all image shapes. Shapes without a
// source are left out.
func image_requests(shapes []shape, r *field_resolver) []image_request {
	ret := []image_request{}
	for _, sh := range shapes {
		img, ok := sh.(*shape_image)
		if !ok {
			continue
		}
		src := strings.TrimSpace(r.text(img.Source))
		if src == "" {
			continue
		}
		ret = append(ret, image_request{
			id:          img.ID,
			source:      src,
			source_type: img.SourceType,
		})
	}
	return ret
}

// image_source_dirs returns the directories of constant image sources that
// name local files.
func image_source_dirs(shapes []shape) []string {
	seen := map[string]bool{}
	ret := []string{}
	for _, sh := range shapes {
		img, ok := sh.(*shape_image)
		if !ok || img.Source.Type != FIELD_KIND_CONSTANT || img.SourceType == IMAGE_SOURCE_BASE64 {
			continue
		}
		src, ok := img.Source.Constant.(string)
		src = strings.TrimSpace(src)
		if !ok || src == "" ||
			strings.HasPrefix(src, "data:") ||
			strings.HasPrefix(src, "http://") ||
			strings.HasPrefix(src, "https://") {
			continue
		}
		dir := filepath.Dir(strings.TrimPrefix(src, "file://"))
		if !seen[dir] {
			seen[dir] = true
			ret = append(ret, dir)
		}
	}
	sort.Strings(ret)
	return ret
}

// start fires one goroutine per request. Results arrive on the returned
// channel, which is buffered so that the loaders never block on a reader
// that has gone away.
func (l *image_loader) start(reqs []image_request) <-chan image_result {
	ch := make(chan image_result, len(reqs))
	for _, req := range reqs {
		go func(req image_request) {
			ctx, cf := context.WithTimeout(context.Background(), l.timeout)
			defer cf()
			img, err := l.load(ctx, req)
			ch <- image_result{id: req.id, img: img, err: err}
		}(req)
	}
	return ch
}

func (l *image_loader) load(ctx context.Context, req image_request) (image.Image, error) {
	var raw []byte
	var err error
	switch {
	case strings.HasPrefix(req.source, "data:"):
		raw, err = data_url_decode(req.source)
	case req.source_type == IMAGE_SOURCE_BASE64:
		raw, err = base64.StdEncoding.DecodeString(req.source)
	case strings.HasPrefix(req.source, "http://"), strings.HasPrefix(req.source, "https://"):
		raw, err = l.fetch(ctx, req.source)
	default:
		raw, err = file_read_limited(strings.TrimPrefix(req.source, "file://"))
	}
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}
	log.Printf("image: loaded %s image %dx%d for shape %s\n",
		format, img.Bounds().Dx(), img.Bounds().Dy(), req.id)
	return img, nil
}

func read_limited(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MAX_IMAGE_BYTES+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MAX_IMAGE_BYTES {
		return nil, fmt.Errorf("image larger than %d bytes", MAX_IMAGE_BYTES)
	}
	return raw, nil
}

func file_read_limited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read_limited(f)
}

func (l *image_loader) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", src, resp.Status)
	}
	return read_limited(resp.Body)
}

// data_url_decode returns the payload of a data URL.
func data_url_decode(s string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, errors.New("data URL without payload")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(decoded), nil
}

// image_prepare scales img to w by h pixels and fades it by opacity.
func image_prepare(img image.Image, w, h, opacity float64) image.Image {
	pw := min(max(1, int(math.Round(w))), MAX_PANEL_DIMENSION)
	ph := min(max(1, int(math.Round(h))), MAX_PANEL_DIMENSION)
	scaled := image.NewNRGBA(image.Rect(0, 0, pw, ph))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	alpha := opacity_to_alpha(opacity)
	if alpha == 255 {
		return scaled
	}
	faded := image.NewNRGBA(scaled.Bounds())
	mask := image.NewUniform(color.Alpha{A: alpha})
	xdraw.DrawMask(faded, faded.Bounds(), scaled, image.Point{}, mask, image.Point{}, xdraw.Over)
	return faded
}
