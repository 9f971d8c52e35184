package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

// GraphOptions configures connectivity network export.
type GraphOptions struct {
	// Detailed includes type and length in node labels.
	Detailed bool
}

// ToDOT exports the connectivity networks of a case as a Graphviz digraph.
// Every SSE of the architecture becomes a node, every connectivity a chain
// of directed edges. With more than one connectivity, edges carry the
// connectivity index as label.
func ToDOT(c form.Case, opts GraphOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, layer := range c.Topology.Architecture {
		for _, sse := range layer {
			label := sse.ID
			if opts.Detailed {
				label = fmt.Sprintf("%s\n%s %d", sse.ID, sse.Type, sse.Length)
			}
			fill := "lightblue"
			if sse.Type == form.TypeStrand {
				fill = "lightpink"
			}
			fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s];\n", sse.ID, label, fill)
		}
	}

	buf.WriteString("\n")
	for ci, conn := range c.Topology.Connectivity {
		for i := 0; i+1 < len(conn); i++ {
			if len(c.Topology.Connectivity) > 1 {
				fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", conn[i], conn[i+1], ci+1)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", conn[i], conn[i+1])
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG, nil)
}

func renderFormat(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := buf.Bytes()
	if post != nil {
		out = post(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg tag so the document scales
// from origin with explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
