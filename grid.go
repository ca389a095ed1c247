package main

import (
	"image/color"
	"log"
	"math"
)

// color_or parses s and logs and returns fallback when it cannot.
func color_or(s string, theme, fallback color.Color) color.NRGBA {
	c, err := color_parse(s, theme)
	if err != nil {
		log.Println("colour: ", err)
		return color.NRGBAModel.Convert(fallback).(color.NRGBA)
	}
	return c
}

// grid_steps returns the grid positions covering [lo, hi]. It gives up on
// non-positive spacing and on grids too dense to be useful.
func grid_steps(lo, hi, size float64) []float64 {
	if !(size > 0) || math.IsInf(size, 0) {
		return nil
	}
	start := math.Floor(lo/size) * size
	count := math.Floor((hi-start)/size) + 1
	if count <= 0 {
		return nil
	}
	if count > MAX_GRID_LINES {
		log.Printf("grid: %v lines at spacing %v, skipping\n", count, size)
		return nil
	}
	ret := make([]float64, int(count))
	for i := range ret {
		ret[i] = start + float64(i)*size
	}
	return ret
}

// draw_grid draws the background grid and the zero axes.
func draw_grid(s surface, m coord_mapper, axis axis_config, theme color.Color) {
	w, h := s.size()
	s.set_fill(nil)

	if axis.ShowGrid {
		s.set_stroke(color_or(axis.GridColor, theme, COLOR_GRID_DEFAULT), GRID_STROKE_WEIGHT)
		for _, x := range grid_steps(m.b.min_x, m.b.max_x, axis.GridSize) {
			px := m.x(x)
			s.line(px, 0, px, h)
		}
		for _, y := range grid_steps(m.b.min_y, m.b.max_y, axis.GridSize) {
			py := m.y(y)
			s.line(0, py, w, py)
		}
	}

	if axis.ShowXAxis {
		if py := m.y(0); py >= 0 && py <= h {
			s.set_stroke(color_or(axis.XAxisColor, theme, COLOR_FALLBACK), AXIS_STROKE_WEIGHT)
			s.line(0, py, w, py)
		}
	}
	if axis.ShowYAxis {
		if px := m.x(0); px >= 0 && px <= w {
			s.set_stroke(color_or(axis.YAxisColor, theme, COLOR_FALLBACK), AXIS_STROKE_WEIGHT)
			s.line(px, 0, px, h)
		}
	}
}
