package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
)

const (
	FIELD_KIND_CONSTANT = "constant"
	FIELD_KIND_FIELD    = "field"
)

const (
	SHAPE_POINT     = "point"
	SHAPE_LINE      = "line"
	SHAPE_RECTANGLE = "rectangle"
	SHAPE_ELLIPSE   = "ellipse"
	SHAPE_CIRCLE    = "circle"
	SHAPE_TRIANGLE  = "triangle"
	SHAPE_QUAD      = "quad"
	SHAPE_POLYLINE  = "polyline"
	SHAPE_IMAGE     = "image"
	SHAPE_TEXT      = "text"
)

const (
	IMAGE_SOURCE_URL    = "url"
	IMAGE_SOURCE_BASE64 = "base64"
)

// field_config is either a literal constant or a reference to a named field
// of one of the frames. Constant holds a float64 or a string after decoding.
type field_config struct {
	Type       string `json:"type"`
	Constant   any    `json:"constant,omitempty"`
	Field      string `json:"field,omitempty"`
	FrameIndex *int   `json:"frameIndex,omitempty"`
}

type field_config_wire field_config

// UnmarshalJSON replaces the whole config so that an absent constant really
// is absent instead of inheriting the default.
func (fc *field_config) UnmarshalJSON(b []byte) error {
	var w field_config_wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*fc = field_config(w)
	return nil
}

func constant_of(v any) field_config {
	return field_config{Type: FIELD_KIND_CONSTANT, Constant: v}
}

func field_of(name string) field_config {
	return field_config{Type: FIELD_KIND_FIELD, Field: name}
}

type shape_base struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	StrokeColor  string  `json:"strokeColor"`
	StrokeWeight float64 `json:"strokeWeight"`
	Opacity      float64 `json:"opacity"`
	Visible      bool    `json:"visible"`
}

func (b *shape_base) envelope() *shape_base {
	return b
}

// shape is implemented by the pointer types of the ten shape kinds below.
type shape interface {
	envelope() *shape_base
}

type shape_point struct {
	shape_base
	X         field_config `json:"x"`
	Y         field_config `json:"y"`
	PointSize float64      `json:"pointSize"`
}

type shape_line struct {
	shape_base
	X1 field_config `json:"x1"`
	Y1 field_config `json:"y1"`
	X2 field_config `json:"x2"`
	Y2 field_config `json:"y2"`
}

type shape_rectangle struct {
	shape_base
	X         field_config `json:"x"`
	Y         field_config `json:"y"`
	Width     field_config `json:"width"`
	Height    field_config `json:"height"`
	Rotation  field_config `json:"rotation"`
	FillColor string       `json:"fillColor"`
}

type shape_ellipse struct {
	shape_base
	X         field_config `json:"x"`
	Y         field_config `json:"y"`
	Width     field_config `json:"width"`
	Height    field_config `json:"height"`
	Rotation  field_config `json:"rotation"`
	FillColor string       `json:"fillColor"`
}

type shape_circle struct {
	shape_base
	X         field_config `json:"x"`
	Y         field_config `json:"y"`
	Diameter  field_config `json:"diameter"`
	FillColor string       `json:"fillColor"`
}

type shape_triangle struct {
	shape_base
	X1        field_config `json:"x1"`
	Y1        field_config `json:"y1"`
	X2        field_config `json:"x2"`
	Y2        field_config `json:"y2"`
	X3        field_config `json:"x3"`
	Y3        field_config `json:"y3"`
	FillColor string       `json:"fillColor"`
}

type shape_quad struct {
	shape_base
	X1        field_config `json:"x1"`
	Y1        field_config `json:"y1"`
	X2        field_config `json:"x2"`
	Y2        field_config `json:"y2"`
	X3        field_config `json:"x3"`
	Y3        field_config `json:"y3"`
	X4        field_config `json:"x4"`
	Y4        field_config `json:"y4"`
	FillColor string       `json:"fillColor"`
}

type shape_polyline struct {
	shape_base
	XPoints     field_config `json:"xPoints"`
	YPoints     field_config `json:"yPoints"`
	ClosePath   bool         `json:"closePath"`
	SmoothCurve bool         `json:"smoothCurve"`
	FillColor   string       `json:"fillColor"`
}

type shape_image struct {
	shape_base
	Source     field_config `json:"source"`
	SourceType string       `json:"sourceType"`
	X          field_config `json:"x"`
	Y          field_config `json:"y"`
	Width      field_config `json:"width"`
	Height     field_config `json:"height"`
	Rotation   field_config `json:"rotation"`
}

type shape_text struct {
	shape_base
	X            field_config `json:"x"`
	Y            field_config `json:"y"`
	Text         field_config `json:"text"`
	TextSize     float64      `json:"textSize"`
	TextColor    string       `json:"textColor"`
	XOffset      float64      `json:"xOffset"`
	YOffset      float64      `json:"yOffset"`
	FormatString string       `json:"formatString"`
	Unit         string       `json:"unit"`
}

type axis_config struct {
	ShowXAxis  bool    `json:"showXAxis"`
	ShowYAxis  bool    `json:"showYAxis"`
	XAxisColor string  `json:"xAxisColor"`
	YAxisColor string  `json:"yAxisColor"`
	ShowGrid   bool    `json:"showGrid"`
	GridColor  string  `json:"gridColor"`
	GridSize   float64 `json:"gridSize"`
}

type view_limits struct {
	AutoScale bool    `json:"autoScale"`
	XMin      float64 `json:"xMin"`
	XMax      float64 `json:"xMax"`
	YMin      float64 `json:"yMin"`
	YMax      float64 `json:"yMax"`
}

type panel_options struct {
	shapes      []shape
	axis        axis_config
	view_limits view_limits
}

func options_default() *panel_options {
	return &panel_options{
		shapes: []shape{},
		axis: axis_config{
			ShowXAxis:  true,
			ShowYAxis:  true,
			XAxisColor: THEME_TEXT_COLOR,
			YAxisColor: THEME_TEXT_COLOR,
			ShowGrid:   true,
			GridColor:  "rgba(0, 0, 0, 0.1)",
			GridSize:   20,
		},
		view_limits: view_limits{
			AutoScale: true,
			XMin:      -100,
			XMax:      100,
			YMin:      -100,
			YMax:      100,
		},
	}
}

func shape_id_generate() string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 9)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return "shape_" + string(b)
}

// shape_default returns a shape of the given kind populated the same way the
// panel editor creates new shapes.
func shape_default(kind string) (shape, error) {
	base := shape_base{
		ID:           shape_id_generate(),
		Type:         kind,
		Name:         kind + " shape",
		StrokeColor:  "rgba(255, 0, 0, 1)",
		StrokeWeight: 1,
		Opacity:      1,
		Visible:      true,
	}
	zero := constant_of(0.0)
	fill := "rgba(255, 255, 255, 0.5)"

	switch kind {
	case SHAPE_POINT:
		return &shape_point{
			shape_base: base,
			X:          zero,
			Y:          zero,
			PointSize:  5,
		}, nil
	case SHAPE_LINE:
		return &shape_line{
			shape_base: base,
			X1:         zero,
			Y1:         zero,
			X2:         constant_of(100.0),
			Y2:         constant_of(100.0),
		}, nil
	case SHAPE_RECTANGLE:
		return &shape_rectangle{
			shape_base: base,
			X:          zero,
			Y:          zero,
			Width:      constant_of(100.0),
			Height:     constant_of(50.0),
			Rotation:   zero,
			FillColor:  fill,
		}, nil
	case SHAPE_ELLIPSE:
		return &shape_ellipse{
			shape_base: base,
			X:          zero,
			Y:          zero,
			Width:      constant_of(100.0),
			Height:     constant_of(50.0),
			Rotation:   zero,
			FillColor:  fill,
		}, nil
	case SHAPE_CIRCLE:
		return &shape_circle{
			shape_base: base,
			X:          zero,
			Y:          zero,
			Diameter:   constant_of(50.0),
			FillColor:  fill,
		}, nil
	case SHAPE_TRIANGLE:
		return &shape_triangle{
			shape_base: base,
			X1:         zero,
			Y1:         constant_of(100.0),
			X2:         constant_of(50.0),
			Y2:         zero,
			X3:         constant_of(100.0),
			Y3:         zero,
			FillColor:  fill,
		}, nil
	case SHAPE_QUAD:
		return &shape_quad{
			shape_base: base,
			X1:         zero,
			Y1:         zero,
			X2:         constant_of(100.0),
			Y2:         zero,
			X3:         constant_of(100.0),
			Y3:         constant_of(100.0),
			X4:         zero,
			Y4:         constant_of(100.0),
			FillColor:  fill,
		}, nil
	case SHAPE_POLYLINE:
		return &shape_polyline{
			shape_base: base,
			XPoints:    constant_of("0,50,100,150"),
			YPoints:    constant_of("0,50,0,50"),
			FillColor:  fill,
		}, nil
	case SHAPE_IMAGE:
		return &shape_image{
			shape_base: base,
			Source:     constant_of(""),
			SourceType: IMAGE_SOURCE_URL,
			X:          zero,
			Y:          zero,
			Width:      constant_of(100.0),
			Height:     constant_of(100.0),
			Rotation:   zero,
		}, nil
	case SHAPE_TEXT:
		return &shape_text{
			shape_base: base,
			X:          zero,
			Y:          zero,
			Text:       constant_of("Text"),
			TextSize:   20,
			TextColor:  "rgba(255, 255, 255, 1)",
		}, nil
	}
	return nil, fmt.Errorf("unknown shape type: %q", kind)
}

// options_decode reads panel options JSON. Keys absent from the document keep
// their defaults, including the per-kind shape defaults. Shapes of unknown
// kind or with malformed fields are logged and left out.
func options_decode(r io.Reader) (*panel_options, error) {
	o := options_default()
	wire := struct {
		Shapes     []json.RawMessage `json:"shapes"`
		Axis       *axis_config      `json:"axis"`
		ViewLimits *view_limits      `json:"viewLimits"`
	}{
		Axis:       &o.axis,
		ViewLimits: &o.view_limits,
	}
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("invalid panel options: %w", err)
	}

	for n, raw := range wire.Shapes {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			log.Printf("shape %d: cannot read type, skipping: %v\n", n+1, err)
			continue
		}
		s, err := shape_default(head.Type)
		if err != nil {
			log.Printf("shape %d: %v, skipping\n", n+1, err)
			continue
		}
		if err := json.Unmarshal(raw, s); err != nil {
			log.Printf("shape %d (%s): skipping: %v\n", n+1, head.Type, err)
			continue
		}
		o.shapes = append(o.shapes, s)
	}
	options_assign_ids(o)
	return o, nil
}

func options_load_file(path string) (*panel_options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	o, err := options_decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// options_assign_ids makes shape ids unique. Images are cached by id so a
// collision would make two shapes share one bitmap.
func options_assign_ids(o *panel_options) {
	seen := map[string]bool{}
	for _, s := range o.shapes {
		b := s.envelope()
		if b.ID == "" || seen[b.ID] {
			id := shape_id_generate()
			for seen[id] {
				id = shape_id_generate()
			}
			log.Printf("shape %q: replacing missing or duplicate id %q with %q\n",
				b.Name, b.ID, id)
			b.ID = id
		}
		seen[b.ID] = true
	}
}
