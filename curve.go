package main

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Distance of cubic Bézier control points from the ends of a quarter circle
// of radius 1.
const ELLIPSE_KAPPA = 0.5522847498307936

// polygon_path returns the closed path through pts.
func polygon_path(pts ...vec.Vec2) *path.Data {
	if len(pts) == 0 {
		return nil
	}
	p := (&path.Data{}).MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p = p.LineTo(pt)
	}
	return p.Close()
}

// rotation_about returns a function rotating offsets from c by deg degrees,
// clockwise on a y-down screen.
func rotation_about(c vec.Vec2, deg float64) func(dx, dy float64) vec.Vec2 {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return func(dx, dy float64) vec.Vec2 {
		return vec.Vec2{
			X: c.X + dx*cos - dy*sin,
			Y: c.Y + dx*sin + dy*cos,
		}
	}
}

// rect_path is a w by h rectangle centred on c.
func rect_path(c vec.Vec2, w, h, deg float64) *path.Data {
	at := rotation_about(c, deg)
	hw, hh := w/2, h/2
	return polygon_path(at(-hw, -hh), at(hw, -hh), at(hw, hh), at(-hw, hh))
}

// ellipse_path approximates the ellipse inscribed in rect_path(c, w, h, deg)
// with four cubic arcs.
func ellipse_path(c vec.Vec2, w, h, deg float64) *path.Data {
	at := rotation_about(c, deg)
	rx, ry := w/2, h/2
	kx, ky := rx*ELLIPSE_KAPPA, ry*ELLIPSE_KAPPA
	return (&path.Data{}).
		MoveTo(at(rx, 0)).
		CubeTo(at(rx, ky), at(kx, ry), at(0, ry)).
		CubeTo(at(-kx, ry), at(-rx, ky), at(-rx, 0)).
		CubeTo(at(-rx, -ky), at(-kx, -ry), at(0, -ry)).
		CubeTo(at(kx, -ry), at(rx, -ky), at(rx, 0)).
		Close()
}

// curve_controls returns the curve vertices for a smooth polyline through
// pts, including the phantom control points at both ends.
func curve_controls(pts []vec.Vec2, closed bool) []vec.Vec2 {
	n := len(pts)
	ret := make([]vec.Vec2, 0, n+3)
	switch {
	case !closed:
		ret = append(ret, pts[0])
		ret = append(ret, pts...)
		ret = append(ret, pts[n-1])
	case n == 3:
		ret = append(ret, pts[2])
		ret = append(ret, pts...)
		ret = append(ret, pts[0], pts[1])
	default:
		ret = append(ret, pts[n-2])
		ret = append(ret, pts...)
		ret = append(ret, pts[0], pts[1])
	}
	return ret
}

// catmull_rom returns the Catmull-Rom spline through ctrl[1:len-1] as cubic
// segments. The first and last entries only steer the tangents.
func catmull_rom(ctrl []vec.Vec2) *path.Data {
	p := (&path.Data{}).MoveTo(ctrl[1])
	for i := 1; i+2 < len(ctrl); i++ {
		p0, p1, p2, p3 := ctrl[i-1], ctrl[i], ctrl[i+1], ctrl[i+2]
		b1 := p1.Add(p2.Sub(p0).Mul(1.0 / 6))
		b2 := p2.Sub(p3.Sub(p1).Mul(1.0 / 6))
		p = p.CubeTo(b1, b2, p2)
	}
	return p
}

// polyline_path builds the path of a polyline. Fewer than two points give
// nil, and smoothing needs at least three.
func polyline_path(pts []vec.Vec2, closed, smooth bool) *path.Data {
	if len(pts) < 2 {
		return nil
	}
	var p *path.Data
	if smooth && len(pts) >= 3 {
		p = catmull_rom(curve_controls(pts, closed))
	} else {
		p = (&path.Data{}).MoveTo(pts[0])
		for _, pt := range pts[1:] {
			p = p.LineTo(pt)
		}
	}
	if closed {
		p = p.Close()
	}
	return p
}
