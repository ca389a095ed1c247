package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// THEME_TEXT_COLOR is what the panel editor stores for "use the theme's text
// colour".
const THEME_TEXT_COLOR = "var(--color-text)"

var named_colors = map[string]color.NRGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"cyan":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"transparent": {0, 0, 0, 0},
}

// color_parse understands the colour strings the panel editor produces: hex
// notation, rgb()/rgba(), a handful of names and the theme text variable.
func color_parse(s string, theme color.Color) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, errors.New("empty colour")
	}
	if strings.HasPrefix(s, "var(") {
		if theme == nil {
			return color.NRGBA{}, fmt.Errorf("no theme for %q", s)
		}
		return color.NRGBAModel.Convert(theme).(color.NRGBA), nil
	}
	if c, ok := named_colors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return color_parse_hex(s[1:])
	}
	if args, ok := strings.CutPrefix(s, "rgba("); ok {
		return color_parse_func(s, args, 4)
	}
	if args, ok := strings.CutPrefix(s, "rgb("); ok {
		return color_parse_func(s, args, 3)
	}
	return color.NRGBA{}, fmt.Errorf("unrecognized colour: %q", s)
}

func color_parse_hex(h string) (color.NRGBA, error) {
	switch len(h) {
	case 3, 4:
		var expanded strings.Builder
		for _, r := range h {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		h = expanded.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("bad hex colour length: %d", len(h))
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex colour: %w", err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

func color_parse_func(orig, args string, n int) (color.NRGBA, error) {
	args, ok := strings.CutSuffix(args, ")")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("unterminated colour: %q", orig)
	}
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return color.NRGBA{}, fmt.Errorf("%q: want %d components, got %d", orig, n, len(parts))
	}
	var ch [4]uint8
	ch[3] = 255
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%q: component %d: %w", orig, i+1, err)
		}
		if i == 3 {
			v *= 255
		}
		ch[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// color_with_alpha replaces the alpha channel, like setting a fill alpha from
// the shape opacity.
func color_with_alpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = opacity_to_alpha(alpha)
	return c
}

// color_fade multiplies the existing alpha by opacity.
func color_fade(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * opacity_clamp(opacity)))
	return c
}

func opacity_clamp(o float64) float64 {
	if math.IsNaN(o) {
		return 1
	}
	return math.Max(0, math.Min(1, o))
}

func opacity_to_alpha(o float64) uint8 {
	return uint8(math.Round(opacity_clamp(o) * 255))
}
