package form

import (
	"fmt"
	"strings"
)

// Case is a complete FORM definition: configuration plus topology.
//
// Mutating operations return a new Case and leave the receiver untouched, so
// pipeline plugins can fan one case out into many without aliasing surprises.
type Case struct {
	Configuration Configuration `yaml:"configuration" json:"configuration"`
	Topology      Topology      `yaml:"topology" json:"topology"`
}

// New creates a minimal named case with stock defaults and no architecture.
func New(name string) Case {
	return Case{
		Configuration: Configuration{
			Name:     name,
			User:     currentUser(),
			Defaults: NewDefaults(),
			Relative: true,
		},
		Topology: Topology{Architecture: [][]Structure{}},
	}
}

// Name returns the case identifier.
func (c Case) Name() string { return c.Configuration.Name }

// IsAbsolute reports whether SSE placements are explicit 3D positions.
func (c Case) IsAbsolute() bool { return !c.Configuration.Relative }

// IsReoriented reports whether connectivity directions have been applied.
func (c Case) IsReoriented() bool { return c.Configuration.Reoriented }

// HasArchitecture reports whether any SSE layer is defined.
func (c Case) HasArchitecture() bool {
	for _, layer := range c.Topology.Architecture {
		if len(layer) > 0 {
			return true
		}
	}
	return false
}

// ConnectivityCount returns the number of defined connectivities.
func (c Case) ConnectivityCount() int {
	n := 0
	for _, conn := range c.Topology.Connectivity {
		if len(conn) > 0 {
			n++
		}
	}
	return n
}

// Shape returns the number of SSEs in each layer.
func (c Case) Shape() []int {
	if !c.HasArchitecture() {
		return nil
	}
	out := make([]int, len(c.Topology.Architecture))
	for i, layer := range c.Topology.Architecture {
		out[i] = len(layer)
	}
	return out
}

// ShapeLen returns the residue length of every SSE, with the same nesting as
// the architecture. Lengths come from an absolute copy of the case so that
// defaults are resolved.
func (c Case) ShapeLen() [][]int {
	if !c.HasArchitecture() {
		return nil
	}
	abs, err := c.CastAbsolute()
	if err != nil {
		return nil
	}
	out := make([][]int, len(abs.Topology.Architecture))
	for i, layer := range abs.Topology.Architecture {
		out[i] = make([]int, len(layer))
		for j, sse := range layer {
			out[i][j] = sse.Length
		}
	}
	return out
}

// LayerBounds is the bounding box of the SSE center points of one layer.
type LayerBounds struct {
	Top, Bottom, Left, Right float64
	Width, Height            float64
}

// CenterShape returns the bounding box of SSE centers per layer, keyed by
// layer letter.
func (c Case) CenterShape() map[string]LayerBounds {
	if !c.HasArchitecture() {
		return nil
	}
	abs, err := c.CastAbsolute()
	if err != nil {
		return nil
	}
	out := make(map[string]LayerBounds, len(abs.Topology.Architecture))
	for i, layer := range abs.Topology.Architecture {
		var b LayerBounds
		for _, sse := range layer {
			pos := sse.Position()
			if pos.Y > b.Top {
				b.Top = pos.Y
			}
			if pos.Y < b.Bottom {
				b.Bottom = pos.Y
			}
			if pos.X < b.Left {
				b.Left = pos.X
			}
			if pos.X > b.Right {
				b.Right = pos.X
			}
		}
		b.Width = b.Right - b.Left
		b.Height = b.Top - b.Bottom
		out[layerLetter(i)] = b
	}
	return out
}

// DirectionalityProfile returns one bit per SSE, '1' when the SSE points
// down (x tilt between 90 and 270 degrees). Meaningful once the case has
// been reoriented.
func (c Case) DirectionalityProfile() string {
	if !c.HasArchitecture() {
		return ""
	}
	abs, err := c.CastAbsolute()
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, layer := range abs.Topology.Architecture {
		for _, sse := range layer {
			if sse.Tilt != nil && sse.Tilt.X > 90 && sse.Tilt.X < 270 {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}
	return b.String()
}

// StructureByID looks an SSE up by its grid identifier.
func (c Case) StructureByID(id string) (Structure, bool) {
	for _, layer := range c.Topology.Architecture {
		for _, sse := range layer {
			if sse.ID == id {
				return sse, true
			}
		}
	}
	return Structure{}, false
}

// LayerType returns the SSE type of a layer, or "X" for an empty layer.
func (c Case) LayerType(layer int) (string, error) {
	if layer < 0 || layer >= len(c.Topology.Architecture) {
		return "", fmt.Errorf("%w: layer %d is not defined", ErrIncomplete, layer)
	}
	if len(c.Topology.Architecture[layer]) == 0 {
		return "X", nil
	}
	return c.Topology.Architecture[layer][0].Type, nil
}

// WithLayerCount returns a copy of the case where the given layer holds
// count fresh SSEs of the layer's type. Used by range expansion.
func (c Case) WithLayerCount(layer, count int) (Case, error) {
	t, err := c.LayerType(layer)
	if err != nil {
		return Case{}, err
	}
	out := c.Clone()
	sses := make([]Structure, count)
	for i := range sses {
		sses[i] = Structure{
			ID:   fmt.Sprintf("%s%d%s", layerLetter(layer), i+1, t),
			Type: t,
		}
	}
	out.Topology.Architecture[layer] = sses
	return out, nil
}

// AssignProtocols replaces the protocol pipeline of the case.
func (c Case) AssignProtocols(protocols []Protocol) Case {
	out := c.Clone()
	out.Configuration.Protocols = protocols
	return out
}

// SetProtocolDone marks the protocol at index id as executed.
func (c Case) SetProtocolDone(id int) (Case, error) {
	if id < 0 {
		return c, nil
	}
	if id >= len(c.Configuration.Protocols) {
		return Case{}, fmt.Errorf("%w: protocol %d is not assigned", ErrIncomplete, id)
	}
	out := c.Clone()
	out.Configuration.Protocols[id].Status = true
	return out, nil
}

// Clone returns a deep copy of the case.
func (c Case) Clone() Case {
	out := c
	out.Configuration.Protocols = nil
	for _, p := range c.Configuration.Protocols {
		np := p
		if p.Options != nil {
			np.Options = make(map[string]any, len(p.Options))
			for k, v := range p.Options {
				np.Options[k] = v
			}
		}
		out.Configuration.Protocols = append(out.Configuration.Protocols, np)
	}
	out.Configuration.Comments = append([]string(nil), c.Configuration.Comments...)
	out.Topology.Architecture = make([][]Structure, len(c.Topology.Architecture))
	for i, layer := range c.Topology.Architecture {
		out.Topology.Architecture[i] = make([]Structure, len(layer))
		for j, sse := range layer {
			out.Topology.Architecture[i][j] = sse.clone()
		}
	}
	out.Topology.Connectivity = make([][]string, len(c.Topology.Connectivity))
	for i, conn := range c.Topology.Connectivity {
		out.Topology.Connectivity[i] = append([]string(nil), conn...)
	}
	return out
}

// Validate checks the case against the schema rules. Absolute cases must
// define explicit length, coordinates and tilt for every SSE.
func (c Case) Validate() error {
	if c.Configuration.Name == "" {
		return fmt.Errorf("%w: a case identifier is required", ErrInvalidCase)
	}
	if err := c.Topology.validate(); err != nil {
		return err
	}
	if c.IsAbsolute() {
		for _, layer := range c.Topology.Architecture {
			for _, sse := range layer {
				if sse.Length == 0 {
					return fmt.Errorf("%w: length of %s must be provided in absolute mode",
						ErrInvalidCase, sse.ID)
				}
				if sse.Coordinates == nil {
					return fmt.Errorf("%w: coordinates of %s must be provided in absolute mode",
						ErrInvalidCase, sse.ID)
				}
				if sse.Tilt == nil {
					return fmt.Errorf("%w: tilt of %s must be provided in absolute mode",
						ErrInvalidCase, sse.ID)
				}
			}
		}
	}
	return nil
}

// layerLetter maps a layer index to its letter name (0 -> A).
func layerLetter(i int) string {
	return string(rune('A' + i))
}

// layerIndex maps a layer letter to its index (A -> 0). Returns -1 for
// anything that is not a single uppercase letter.
func layerIndex(s string) int {
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return -1
	}
	return int(s[0] - 'A')
}
