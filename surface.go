package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// surface is the set of pixel-space primitives shapes are drawn with. The
// origin is the top-left corner and y grows downwards. A nil stroke or fill
// colour disables that part of the next primitives.
type surface interface {
	size() (float64, float64)
	clear()
	set_stroke(c color.Color, weight float64)
	set_fill(c color.Color)
	line(x1, y1, x2, y2 float64)
	point(x, y, diameter float64)
	shape_path(p *path.Data)
	image(img image.Image, cx, cy, w, h, rotation float64)
	text(s string, x, y, size float64, c color.Color)
}

// encodable surfaces can serialize what has been drawn.
type encodable interface {
	surface
	encode(w io.Writer) error
}

type surface_factory func(format string, width, height int) (encodable, error)

// vg_surface draws with gonum/plot's vg canvases, which put the origin at
// the bottom-left corner. One vg unit equals one pixel.
type vg_surface struct {
	format        string
	width, height float64
	canvas        vg.CanvasSizer
	dc            draw.Canvas

	stroke color.Color
	weight float64
	fill   color.Color
}

func new_encodable_surface(format string, width, height int) (encodable, error) {
	switch format {
	case "png", "svg":
	default:
		return nil, fmt.Errorf("unsupported graph format: %q", format)
	}
	s, err := new_vg_surface(format, width, height)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func graph_mimetype(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

func new_vg_surface(format string, width, height int) (*vg_surface, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	s := &vg_surface{
		format: format,
		width:  float64(width),
		height: float64(height),
	}
	s.clear()
	return s, nil
}

func (s *vg_surface) size() (float64, float64) {
	return s.width, s.height
}

func (s *vg_surface) clear() {
	w, h := vg.Length(s.width), vg.Length(s.height)
	switch s.format {
	case "svg":
		s.canvas = vgsvg.New(w, h)
	default:
		s.canvas = vgimg.NewWith(
			vgimg.UseWH(w, h),
			vgimg.UseDPI(72),
			vgimg.UseBackgroundColor(color.Transparent))
	}
	s.dc = draw.New(s.canvas)
	s.stroke, s.fill, s.weight = nil, nil, 0
}

func (s *vg_surface) pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(s.height - y)}
}

func (s *vg_surface) set_stroke(c color.Color, weight float64) {
	s.stroke = c
	s.weight = weight
}

func (s *vg_surface) set_fill(c color.Color) {
	s.fill = c
}

func (s *vg_surface) render(p vg.Path) {
	if s.fill != nil {
		s.canvas.SetColor(s.fill)
		s.canvas.Fill(p)
	}
	if s.stroke != nil && s.weight > 0 {
		s.canvas.SetColor(s.stroke)
		s.canvas.SetLineWidth(vg.Length(s.weight))
		s.canvas.Stroke(p)
	}
}

func (s *vg_surface) line(x1, y1, x2, y2 float64) {
	if s.stroke == nil || s.weight <= 0 {
		return
	}
	var p vg.Path
	p.Move(s.pt(x1, y1))
	p.Line(s.pt(x2, y2))
	s.canvas.SetColor(s.stroke)
	s.canvas.SetLineWidth(vg.Length(s.weight))
	s.canvas.Stroke(p)
}

// point draws a dot in the stroke colour.
func (s *vg_surface) point(x, y, diameter float64) {
	if s.stroke == nil || diameter <= 0 {
		return
	}
	c := s.pt(x, y)
	r := vg.Length(diameter / 2)
	var p vg.Path
	p.Move(vg.Point{X: c.X + r, Y: c.Y})
	p.Arc(c, r, 0, 2*math.Pi)
	p.Close()
	s.canvas.SetColor(s.stroke)
	s.canvas.Fill(p)
}

func (s *vg_surface) shape_path(pd *path.Data) {
	s.render(s.vg_path(pd))
}

// vg_path converts a pixel-space path to vg's coordinate system.
func (s *vg_surface) vg_path(pd *path.Data) vg.Path {
	var p vg.Path
	at := func(v vec.Vec2) vg.Point { return s.pt(v.X, v.Y) }
	i := 0
	for _, cmd := range pd.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			p.Move(at(pd.Coords[i]))
			i++
		case path.CmdLineTo:
			p.Line(at(pd.Coords[i]))
			i++
		case path.CmdQuadTo:
			p.QuadTo(at(pd.Coords[i]), at(pd.Coords[i+1]))
			i += 2
		case path.CmdCubeTo:
			p.CubeTo(at(pd.Coords[i]), at(pd.Coords[i+1]), at(pd.Coords[i+2]))
			i += 3
		case path.CmdClose:
			p.Close()
		}
	}
	return p
}

// image draws img centred on (cx, cy), rotated clockwise on screen by
// rotation degrees.
func (s *vg_surface) image(img image.Image, cx, cy, w, h, rotation float64) {
	s.canvas.Push()
	defer s.canvas.Pop()
	s.canvas.Translate(s.pt(cx, cy))
	s.canvas.Rotate(-rotation * math.Pi / 180)
	hw, hh := vg.Length(w/2), vg.Length(h/2)
	s.canvas.DrawImage(vg.Rectangle{
		Min: vg.Point{X: -hw, Y: -hh},
		Max: vg.Point{X: hw, Y: hh},
	}, img)
}

// text draws s centred on (x, y).
func (s *vg_surface) text(str string, x, y, size float64, c color.Color) {
	if str == "" || size <= 0 {
		return
	}
	fnt := plot.DefaultFont
	fnt.Variant = "Sans"
	fnt.Size = vg.Length(size)
	s.dc.FillText(text.Style{
		Color:   c,
		Font:    fnt,
		XAlign:  text.XCenter,
		YAlign:  text.YCenter,
		Handler: plot.DefaultTextHandler,
	}, s.pt(x, y), str)
}

func (s *vg_surface) encode(w io.Writer) error {
	var err error
	switch c := s.canvas.(type) {
	case *vgimg.Canvas:
		_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	case *vgsvg.Canvas:
		_, err = c.WriteTo(w)
	default:
		err = errors.New("surface cannot be encoded")
	}
	return err
}
