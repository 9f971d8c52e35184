package render

import (
	"bytes"
	"fmt"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

const (
	defaultScale = 10.0
	sketchMargin = 4.0
	helixRadius  = 3.0
	triangleSize = 2.0
	barWidth     = 4.0

	helixRise  = 1.5
	strandRise = 3.2
)

// ColorScheme selects the fill and edge colors per SSE type.
type ColorScheme struct {
	AlphaFill string
	AlphaEdge string
	BetaFill  string
	BetaEdge  string
}

// DefaultColors returns the stock sketch palette.
func DefaultColors() ColorScheme {
	return ColorScheme{
		AlphaFill: "blue",
		AlphaEdge: "black",
		BetaFill:  "red",
		BetaEdge:  "black",
	}
}

// SketchOption configures sketch rendering.
type SketchOption func(*sketchRenderer)

// WithScale sets the pixels-per-angstrom scale factor.
func WithScale(s float64) SketchOption {
	return func(r *sketchRenderer) { r.scale = s }
}

// WithColors replaces the palette.
func WithColors(cs ColorScheme) SketchOption {
	return func(r *sketchRenderer) { r.colors = cs }
}

type sketchRenderer struct {
	scale  float64
	colors ColorScheme
}

func newSketchRenderer(opts ...SketchOption) sketchRenderer {
	r := sketchRenderer{scale: defaultScale, colors: DefaultColors()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// SketchXZ renders the top view of a case: sheets and helix layers seen
// down the secondary structure axes. Helices draw as circles, strands as
// triangles pointing with their directionality.
func SketchXZ(c form.Case, opts ...SketchOption) ([]byte, error) {
	abs, err := c.CastAbsolute()
	if err != nil {
		return nil, err
	}
	r := newSketchRenderer(opts...)

	xmin, xmax, zmin, zmax := bounds(abs, func(p form.Coordinate) (float64, float64) {
		return p.X, p.Z
	})

	width := (xmax - xmin + 2*sketchMargin) * r.scale
	height := (zmax - zmin + 2*sketchMargin) * r.scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white" />`+"\n")

	for _, layer := range abs.Topology.Architecture {
		for _, sse := range layer {
			pos := sse.Position()
			px := (pos.X - xmin + sketchMargin) * r.scale
			pz := (pos.Z - zmin + sketchMargin) * r.scale
			rot := 0.0
			if flipped(sse) {
				rot = 180
			}

			switch sse.Type {
			case form.TypeHelix:
				fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill=%q stroke=%q />`+"\n",
					px, pz, helixRadius*r.scale, r.colors.AlphaFill, r.colors.AlphaEdge)
				r.triangle(&buf, px, pz, rot, lighten(r.colors.AlphaFill), r.colors.AlphaEdge)
			case form.TypeStrand:
				r.triangle(&buf, px, pz, rot, r.colors.BetaFill, r.colors.BetaEdge)
			}
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" text-anchor="middle">%s</text>`+"\n",
				px, pz+(helixRadius+1.2)*r.scale, r.scale, sse.ID)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// SketchXY renders the front view of a case: each SSE as a vertical bar
// whose height follows its residue span, with a direction marker at the
// end the chain leaves from.
func SketchXY(c form.Case, opts ...SketchOption) ([]byte, error) {
	abs, err := c.CastAbsolute()
	if err != nil {
		return nil, err
	}
	r := newSketchRenderer(opts...)

	xmin, xmax, _, _ := bounds(abs, func(p form.Coordinate) (float64, float64) {
		return p.X, p.Z
	})

	span := maxSpan(abs)
	width := (xmax - xmin + 2*sketchMargin) * r.scale
	height := (span + 2*sketchMargin) * r.scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white" />`+"\n")

	for _, layer := range abs.Topology.Architecture {
		for _, sse := range layer {
			pos := sse.Position()
			h := spanOf(sse)
			px := (pos.X - xmin + sketchMargin) * r.scale
			top := (sketchMargin + (span-h)/2 + pos.Y) * r.scale

			fill, edge := r.colors.AlphaFill, r.colors.AlphaEdge
			if sse.Type == form.TypeStrand {
				fill, edge = r.colors.BetaFill, r.colors.BetaEdge
			}
			fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill=%q stroke=%q />`+"\n",
				px-barWidth/2*r.scale, top, barWidth*r.scale, h*r.scale, fill, edge)

			my := top
			rot := 0.0
			if flipped(sse) {
				my = top + h*r.scale
				rot = 180
			}
			r.triangle(&buf, px, my, rot, lighten(fill), edge)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// triangle draws a regular triangle pointing up, rotated by rot degrees.
func (r sketchRenderer) triangle(buf *bytes.Buffer, x, y, rot float64, fill, edge string) {
	s := triangleSize * r.scale
	fmt.Fprintf(buf, `  <polygon points="0,%.1f %.1f,%.1f %.1f,%.1f" transform="translate(%.1f %.1f) rotate(%.0f)" fill=%q stroke=%q />`+"\n",
		-s, -0.866*s, 0.5*s, 0.866*s, 0.5*s, x, y, rot, fill, edge)
}

func flipped(sse form.Structure) bool {
	return sse.Tilt != nil && sse.Tilt.X > 90 && sse.Tilt.X < 270
}

func spanOf(sse form.Structure) float64 {
	if sse.Type == form.TypeHelix {
		return float64(sse.Length) * helixRise
	}
	return float64(sse.Length) * strandRise
}

func maxSpan(c form.Case) float64 {
	var out float64
	for _, layer := range c.Topology.Architecture {
		for _, sse := range layer {
			if h := spanOf(sse); h > out {
				out = h
			}
		}
	}
	return out
}

func bounds(c form.Case, project func(form.Coordinate) (float64, float64)) (xmin, xmax, zmin, zmax float64) {
	for _, layer := range c.Topology.Architecture {
		for _, sse := range layer {
			x, z := project(sse.Position())
			if x < xmin {
				xmin = x
			}
			if x > xmax {
				xmax = x
			}
			if z < zmin {
				zmin = z
			}
			if z > zmax {
				zmax = z
			}
		}
	}
	return xmin, xmax, zmin, zmax
}

// lighten maps the stock fills to their pale variants used for direction
// markers.
func lighten(color string) string {
	switch color {
	case "blue":
		return "lightblue"
	case "red":
		return "lightsalmon"
	default:
		return color
	}
}
