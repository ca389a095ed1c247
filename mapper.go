package main

import "math"

// coord_mapper maps data space onto a canvas whose origin is the top-left
// corner. Increasing data y moves up the screen.
type coord_mapper struct {
	b             bounds
	width, height float64
}

func new_coord_mapper(b bounds, width, height float64) coord_mapper {
	return coord_mapper{b: b, width: width, height: height}
}

func lerp(v, in_lo, in_hi, out_lo, out_hi float64) float64 {
	return out_lo + (v-in_lo)/(in_hi-in_lo)*(out_hi-out_lo)
}

func (m coord_mapper) x(x float64) float64 {
	return lerp(x, m.b.min_x, m.b.max_x, 0, m.width)
}

func (m coord_mapper) y(y float64) float64 {
	return lerp(y, m.b.min_y, m.b.max_y, m.height, 0)
}

// span_x is the pixel length of a data-space extent w centred on x.
func (m coord_mapper) span_x(x, w float64) float64 {
	return math.Abs(m.x(x+w/2) - m.x(x-w/2))
}

func (m coord_mapper) span_y(y, h float64) float64 {
	return math.Abs(m.y(y+h/2) - m.y(y-h/2))
}
