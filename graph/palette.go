package graph

import (
	"fmt"
	"math"
	"strings"
)

type Palette int

const (
	PaletteSize Palette = iota
	PaletteRainbow
	PaletteGreyscale
	PaletteMonochrome
	PaletteClassic
)

// ParsePalette selects a palette by the first letter of name, case-insensitively.
// An empty name selects PaletteSize.
func ParsePalette(name string) (Palette, error) {
	if name == "" {
		return PaletteSize, nil
	}
	switch strings.ToLower(name)[0] {
	case 's':
		return PaletteSize, nil
	case 'r':
		return PaletteRainbow, nil
	case 'g':
		return PaletteGreyscale, nil
	case 'm':
		return PaletteMonochrome, nil
	case 'c':
		return PaletteClassic, nil
	}
	return PaletteSize, fmt.Errorf("unknown palette %q, available palettes are: size, rainbow, greyscale, monochrome, classic", name)
}

type color struct {
	r, g, b uint8
}

func (c color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// fill picks the colour of s.
func (g *Graph) fill(s segment) color {
	mid := (s.a0 + s.a1) / 2
	light := 0.5
	if g.opts.Gradient {
		light = 0.35 + 0.1*float64(s.level)
	}
	sat := 0.75
	if !s.entry.IsDir() {
		sat = 0.35
	}

	switch g.opts.Palette {
	case PaletteRainbow:
		return hsl(mid/(2*math.Pi)*360, sat, light)
	case PaletteGreyscale:
		v := uint8(math.Min(0x50+float64(s.level)*0x20, 0xe0))
		return color{v, v, v}
	case PaletteMonochrome:
		return color{0xff, 0xff, 0xff}
	case PaletteClassic:
		return hsl(mid/(2*math.Pi)*360, sat/float64(s.level), light)
	default:
		hue := 240 * (1 - math.Min(1, math.Sqrt(s.frac)*2))
		return hsl(hue, sat, light)
	}
}

func (g *Graph) stroke() color {
	if g.opts.Palette == PaletteMonochrome {
		return color{0, 0, 0}
	}
	return color{0xff, 0xff, 0xff}
}

func hsl(h, s, l float64) color {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g = c, x
	case hp < 2:
		r, g = x, c
	case hp < 3:
		g, b = c, x
	case hp < 4:
		g, b = x, c
	case hp < 5:
		r, b = x, c
	default:
		r, b = c, x
	}
	m := l - c/2
	to8 := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v+m)) * 255))
	}
	return color{to8(r), to8(g), to8(b)}
}
