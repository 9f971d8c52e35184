// Package render draws FORM sketches and connectivity networks.
//
// # Sketches
//
// [SketchXZ] looks down the secondary structure axes: each layer is a row,
// helices are circles and strands are triangles whose orientation follows
// the element's directionality. [SketchXY] is the front view, drawing each
// element as a bar scaled to its residue span. Both produce standalone SVG
// documents.
//
// # Connectivity networks
//
// [ToDOT] exports the connectivity order of a case as a Graphviz digraph
// and [RenderSVG] rasterizes it through go-graphviz. PNG output goes
// through [RenderPNG].
package render
