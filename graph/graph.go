package graph

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"ducweb/db"
	"ducweb/entity"
)

// Segments narrower than this many radians are not drawn.
const minAngle = 0.01

type Options struct {
	Size       int
	MaxLevel   int
	Fuzz       float64
	Palette    Palette
	ExactBytes bool
	SizeType   entity.SizeType
	RingGap    int
	Gradient   bool
}

type segment struct {
	level  int
	a0, a1 float64
	r0, r1 float64
	frac   float64
	parent *db.Dir
	entry  entity.Entry
}

// Graph lays out a directory as concentric rings: the centre disc is the
// directory itself and each ring outward is one level deeper. Angles run
// clockwise from twelve o'clock.
type Graph struct {
	opts Options

	laidOut  string
	segments []segment
}

func New(opts Options) *Graph {
	if opts.Size <= 0 {
		opts.Size = 800
	}
	if opts.MaxLevel <= 0 {
		opts.MaxLevel = 4
	}
	return &Graph{opts: opts}
}

func (g *Graph) center() float64 {
	return float64(g.opts.Size) / 2
}

func (g *Graph) innerRadius() float64 {
	return float64(g.opts.Size) / 10
}

func (g *Graph) outerRadius() float64 {
	return g.center() - 2
}

func (g *Graph) ringWidth() float64 {
	return (g.outerRadius() - g.innerRadius()) / float64(g.opts.MaxLevel)
}

func (g *Graph) layout(dir *db.Dir) ([]segment, error) {
	if g.laidOut == dir.Path() && g.segments != nil {
		return g.segments, nil
	}
	segs := []segment{}
	g.walk(dir, 1, 0, 2*math.Pi, float64(dir.Size().Get(g.opts.SizeType)), &segs)
	g.laidOut = dir.Path()
	g.segments = segs
	return segs, nil
}

func (g *Graph) walk(dir *db.Dir, level int, a0, a1, rootTotal float64, segs *[]segment) {
	total := dir.Size().Get(g.opts.SizeType)
	if level > g.opts.MaxLevel || total <= 0 {
		return
	}

	width := g.ringWidth()
	r0 := g.innerRadius() + float64(level-1)*width
	thick := math.Max(width-float64(g.opts.RingGap), 1)

	a := a0
	for _, e := range dir.Read(g.opts.SizeType) {
		v := e.Size.Get(g.opts.SizeType)
		if v <= 0 {
			break
		}
		share := float64(v) / float64(total)
		span := (a1 - a0) * share
		if span < minAngle {
			break
		}

		fuzz := 1 - g.opts.Fuzz*(1-math.Pow(share, 0.25))
		s := segment{
			level:  level,
			a0:     a,
			a1:     a + span,
			r0:     r0,
			r1:     r0 + thick*fuzz,
			parent: dir,
			entry:  e,
		}
		if rootTotal > 0 {
			s.frac = float64(v) / rootTotal
		}
		*segs = append(*segs, s)

		if e.IsDir() && level < g.opts.MaxLevel {
			if child, err := dir.OpenEntry(e); err == nil {
				g.walk(child, level+1, a, a+span, rootTotal, segs)
			}
		}
		a += span
	}
}

// Draw writes dir as an inline SVG element with id duc_canvas.
func (g *Graph) Draw(w io.Writer, dir *db.Dir) error {
	segs, err := g.layout(dir)
	if err != nil {
		return err
	}

	c := g.center()
	var b strings.Builder
	fmt.Fprintf(&b, "<svg id=\"duc_canvas\" xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		g.opts.Size, g.opts.Size, g.opts.Size, g.opts.Size)
	fmt.Fprintf(&b, " <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"#f4f4f4\" stroke=\"#777777\"/>\n", c, c, g.innerRadius())

	stroke := g.stroke()
	for _, s := range segs {
		g.sector(&b, s.a0, s.a1, s.r0, s.r1, g.fill(s), stroke)
	}

	size := entity.HumanSize(dir.Size(), g.opts.SizeType, g.opts.ExactBytes)
	fmt.Fprintf(&b, " <text x=\"%.2f\" y=\"%.2f\" text-anchor=\"middle\" font-size=\"12\">%s</text>\n", c, c-4, html.EscapeString(dir.Name()))
	fmt.Fprintf(&b, " <text x=\"%.2f\" y=\"%.2f\" text-anchor=\"middle\" font-size=\"12\">%s</text>\n", c, c+12, html.EscapeString(size))
	b.WriteString("</svg>\n")

	_, err = io.WriteString(w, b.String())
	return err
}

// sector writes an annular sector, splitting sweeps above half a turn so every
// arc is unambiguous.
func (g *Graph) sector(b *strings.Builder, a0, a1, r0, r1 float64, fill, stroke color) {
	if a1-a0 > math.Pi {
		mid := (a0 + a1) / 2
		g.sector(b, a0, mid, r0, r1, fill, stroke)
		g.sector(b, mid, a1, r0, r1, fill, stroke)
		return
	}
	x0, y0 := g.point(r1, a0)
	x1, y1 := g.point(r1, a1)
	x2, y2 := g.point(r0, a1)
	x3, y3 := g.point(r0, a0)
	fmt.Fprintf(b, " <path d=\"M%.2f,%.2f A%.2f,%.2f 0 0 1 %.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 0 0 %.2f,%.2f Z\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.5\"/>\n",
		x0, y0, r1, r1, x1, y1, x2, y2, r0, r0, x3, y3, fill, stroke)
}

func (g *Graph) point(r, a float64) (float64, float64) {
	c := g.center()
	return c + r*math.Sin(a), c - r*math.Cos(a)
}

// FindSpot maps a pixel of the drawn graph of dir back to the tree. The centre
// disc yields the parent directory. A segment yields its entry, plus the opened
// directory when the entry is one. Anything else yields nothing.
func (g *Graph) FindSpot(dir *db.Dir, x, y int) (*db.Dir, *entity.Entry, error) {
	c := g.center()
	dx := float64(x) - c
	dy := float64(y) - c
	r := math.Hypot(dx, dy)

	if r < g.innerRadius() {
		parent, err := dir.Parent()
		if err != nil {
			return nil, nil, nil
		}
		return parent, nil, nil
	}
	if r > g.outerRadius() {
		return nil, nil, nil
	}

	segs, err := g.layout(dir)
	if err != nil {
		return nil, nil, err
	}

	a := math.Atan2(dx, -dy)
	if a < 0 {
		a += 2 * math.Pi
	}

	for _, s := range segs {
		if r < s.r0 || r >= s.r1 || a < s.a0 || a >= s.a1 {
			continue
		}
		e := s.entry
		if !e.IsDir() {
			return nil, &e, nil
		}
		child, err := s.parent.OpenEntry(e)
		if err != nil {
			return nil, &e, nil
		}
		return child, &e, nil
	}
	return nil, nil, nil
}
