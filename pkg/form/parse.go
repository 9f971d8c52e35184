package form

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	archLayerPattern = regexp.MustCompile(`^(\d+)([EH])$`)
	topoSSEPattern   = regexp.MustCompile(`^([A-Z])(\d+)([EH])(\d*)$`)
)

// ParseArchitecture expands an architecture string (for example "2H.4E.2H",
// optionally with per-SSE lengths as in "2H:13:10.4E:5:5:5:5.2H:7:13") into
// a layered topology without connectivity. Lower case input is accepted.
func ParseArchitecture(architecture string) (Topology, error) {
	var t Topology
	for li, token := range strings.Split(strings.ToUpper(architecture), ".") {
		parts := strings.Split(token, ":")
		m := archLayerPattern.FindStringSubmatch(parts[0])
		if m == nil {
			return Topology{}, fmt.Errorf("%w: architecture layer %q", ErrParse, token)
		}
		count, _ := strconv.Atoi(m[1])
		layer := make([]Structure, count)
		for i := 0; i < count; i++ {
			layer[i] = Structure{
				ID:   fmt.Sprintf("%s%d%s", layerLetter(li), i+1, m[2]),
				Type: m[2],
			}
			if len(parts) > 1 {
				if i+1 >= len(parts) {
					return Topology{}, fmt.Errorf(
						"%w: lengths were not provided for all structures in layer %q",
						ErrParse, token)
				}
				length, err := strconv.Atoi(parts[i+1])
				if err != nil {
					return Topology{}, fmt.Errorf("%w: length values must be integers in %q",
						ErrParse, token)
				}
				layer[i].Length = length
			}
		}
		t.Architecture = append(t.Architecture, layer)
	}
	return t, nil
}

// ParseTopology expands a topology string ("B2E.C1H.B1E.A1H...", optionally
// with a length suffix per SSE as in "B2E5.C1H12") into an architecture plus
// its connectivity order. Layers and in-layer positions must be contiguous.
func ParseTopology(topology string) (Topology, error) {
	type slot struct {
		typ, id string
		length  int
	}
	grid := map[int]map[int]slot{}
	conn := []string{}

	for _, token := range strings.Split(strings.ToUpper(topology), ".") {
		m := topoSSEPattern.FindStringSubmatch(token)
		if m == nil {
			return Topology{}, fmt.Errorf("%w: topology element %q", ErrParse, token)
		}
		layer := layerIndex(m[1])
		pos, _ := strconv.Atoi(m[2])
		id := m[1] + m[2] + m[3]
		conn = append(conn, id)

		length := 0
		if m[4] != "" {
			length, _ = strconv.Atoi(m[4])
		}
		if grid[layer] == nil {
			grid[layer] = map[int]slot{}
		}
		grid[layer][pos] = slot{typ: m[3], id: id, length: length}
	}

	layers := sortedKeys(grid)
	if !contiguous(layers) {
		return Topology{}, fmt.Errorf("%w: topology skips layers", ErrParse)
	}

	var t Topology
	for _, li := range layers {
		positions := sortedKeys(grid[li])
		if !contiguous(positions) {
			return Topology{}, fmt.Errorf("%w: topology skips positions in layer %s",
				ErrParse, layerLetter(li))
		}
		layer := make([]Structure, 0, len(positions))
		for _, pi := range positions {
			s := grid[li][pi]
			layer = append(layer, Structure{ID: s.id, Type: s.typ, Length: s.length})
		}
		t.Architecture = append(t.Architecture, layer)
	}
	t.Connectivity = [][]string{conn}
	return t, nil
}

// ArchitectureString collapses the architecture back into its compact string
// form. Per-SSE lengths are not representable and are dropped.
func (c Case) ArchitectureString() string {
	if !c.HasArchitecture() {
		return ""
	}
	parts := make([]string, len(c.Topology.Architecture))
	for i, layer := range c.Topology.Architecture {
		parts[i] = fmt.Sprintf("%d%s", len(layer), layer[0].Type)
	}
	return strings.Join(parts, ".")
}

// ConnectivityStrings returns each connectivity as a dot-joined id string.
func (c Case) ConnectivityStrings() []string {
	out := make([]string, 0, len(c.Topology.Connectivity))
	for _, conn := range c.Topology.Connectivity {
		if len(conn) > 0 {
			out = append(out, strings.Join(conn, "."))
		}
	}
	return out
}

// AddArchitecture attaches a parsed architecture to a copy of the case. It
// refuses to replace an existing one.
func (c Case) AddArchitecture(architecture string) (Case, error) {
	if architecture == "" {
		return c.Clone(), nil
	}
	if c.HasArchitecture() {
		return Case{}, fmt.Errorf("%w: an architecture is already defined", ErrOverwrite)
	}
	t, err := ParseArchitecture(architecture)
	if err != nil {
		return Case{}, err
	}
	out := c.Clone()
	out.Topology.Architecture = t.Architecture
	if err := out.Validate(); err != nil {
		return Case{}, err
	}
	return out, nil
}

// AddTopology attaches a parsed topology to a copy of the case. When the
// case already has an architecture, the topology must describe the same
// shape; its connectivity is then appended if new.
func (c Case) AddTopology(topology string) (Case, error) {
	if topology == "" {
		return c.Clone(), nil
	}
	t, err := ParseTopology(topology)
	if err != nil {
		return Case{}, err
	}

	if c.HasArchitecture() {
		incoming := Case{Configuration: c.Configuration, Topology: t}
		if c.ArchitectureString() != incoming.ArchitectureString() ||
			!equalShapeLen(c.ShapeLen(), incoming.ShapeLen()) {
			return Case{}, fmt.Errorf("%w: provided topology does not match existing architecture",
				ErrOverwrite)
		}
	}

	out := c.Clone()
	if out.ConnectivityCount() == 0 {
		out.Topology = t
	} else {
		conn := strings.Join(t.Connectivity[0], ".")
		for _, known := range out.ConnectivityStrings() {
			if known == conn {
				return out, nil
			}
		}
		out.Topology.Connectivity = append(out.Topology.Connectivity, t.Connectivity[0])
	}
	if err := out.Validate(); err != nil {
		return Case{}, err
	}
	return out, nil
}

func equalShapeLen(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func contiguous(sorted []int) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			return false
		}
	}
	return true
}
