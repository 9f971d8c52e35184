package form

import (
	"fmt"
	"os/user"
	"regexp"

	"github.com/luskyqi1995/topobuilder/pkg/pdb"
)

// Default residue lengths and inter-SSE distances, in residues and angstrom.
const (
	DefaultHelixLength = 13
	DefaultBetaLength  = 7

	DefaultHelixDistance     = 10.0
	DefaultHelixBetaDistance = 11.0
	DefaultBetaPairDistance  = 4.85
	DefaultBetaStackDistance = 8.0
	DefaultLoopDistance      = 18.97
)

// SSE type identifiers.
const (
	TypeHelix  = "H"
	TypeStrand = "E"
)

var (
	sseTypePattern = regexp.MustCompile(`^[HE]$`)
	sseIDPattern   = regexp.MustCompile(`^[A-Z]\d+[HE]$`)
)

// Coordinate is a point or rotation in 3D space. When used as a tilt the
// components are degrees around each axis.
type Coordinate struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Add returns the component-wise sum of c and other.
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{X: c.X + other.X, Y: c.Y + other.Y, Z: c.Z + other.Z}
}

// Lengths holds the default residue count per SSE type.
type Lengths struct {
	H int `yaml:"H" json:"H"`
	E int `yaml:"E" json:"E"`
}

// ByType returns the default length for an SSE type.
func (l Lengths) ByType(t string) int {
	if t == TypeHelix {
		return l.H
	}
	return l.E
}

// Distances holds the default separations between SSE pairs, keyed by the
// types involved. AA separates two helices, AB a helix and a strand, BBPair
// two hydrogen-bonded strands in a layer and BBStack two stacked strand
// layers. MaxLoop bounds the span a loop is allowed to cross.
type Distances struct {
	AA      float64 `yaml:"aa" json:"aa"`
	AB      float64 `yaml:"ab" json:"ab"`
	BBPair  float64 `yaml:"bb_pair" json:"bb_pair"`
	BBStack float64 `yaml:"bb_stack" json:"bb_stack"`
	MaxLoop float64 `yaml:"max_loop" json:"max_loop"`
}

// XDistance returns the in-layer separation between two SSE types. The
// previous type is empty for the first SSE of a layer, which stays at x=0.
func (d Distances) XDistance(prev, cur string) float64 {
	switch {
	case prev == "":
		return 0
	case prev == TypeHelix || cur == TypeHelix:
		if prev == cur {
			return d.AA
		}
		return d.AB
	default:
		return d.BBPair
	}
}

// ZDistance returns the layer-to-layer separation between two SSE types. The
// previous type is empty for the first layer, which stays at z=0.
func (d Distances) ZDistance(prev, cur string) float64 {
	switch {
	case prev == "":
		return 0
	case prev == TypeHelix || cur == TypeHelix:
		if prev == cur {
			return d.AA
		}
		return d.AB
	default:
		return d.BBStack
	}
}

// Defaults groups the tunable placement parameters of a case.
type Defaults struct {
	Length   Lengths   `yaml:"length" json:"length"`
	Distance Distances `yaml:"distance" json:"distance"`
}

// NewDefaults returns the stock placement parameters.
func NewDefaults() Defaults {
	return Defaults{
		Length: Lengths{H: DefaultHelixLength, E: DefaultBetaLength},
		Distance: Distances{
			AA:      DefaultHelixDistance,
			AB:      DefaultHelixBetaDistance,
			BBPair:  DefaultBetaPairDistance,
			BBStack: DefaultBetaStackDistance,
			MaxLoop: DefaultLoopDistance,
		},
	}
}

// Protocol is one pipeline step requested by a case: a plugin name, its
// options and a completion flag maintained by the runner.
type Protocol struct {
	Name    string         `yaml:"name" json:"name"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
	Status  bool           `yaml:"status" json:"status"`
}

// Configuration carries case identity and global settings.
type Configuration struct {
	Name       string     `yaml:"name" json:"name"`
	User       string     `yaml:"user,omitempty" json:"user,omitempty"`
	Defaults   Defaults   `yaml:"defaults" json:"defaults"`
	Relative   bool       `yaml:"relative" json:"relative"`
	Reoriented bool       `yaml:"reoriented" json:"reoriented"`
	Protocols  []Protocol `yaml:"protocols,omitempty" json:"protocols,omitempty"`
	Comments   []string   `yaml:"comments,omitempty" json:"comments,omitempty"`
}

// StructureMeta holds data attached to an SSE by pipeline plugins.
type StructureMeta struct {
	Atoms       []pdb.Atom      `yaml:"atoms,omitempty" json:"atoms,omitempty"`
	Corrections []CorrectionSet `yaml:"corrections,omitempty" json:"corrections,omitempty"`
	Motif       string          `yaml:"motif,omitempty" json:"motif,omitempty"`
}

// Structure is a single secondary structure element.
type Structure struct {
	ID          string         `yaml:"id,omitempty" json:"id,omitempty"`
	Type        string         `yaml:"type" json:"type"`
	Length      int            `yaml:"length,omitempty" json:"length,omitempty"`
	Coordinates *Coordinate    `yaml:"coordinates,omitempty" json:"coordinates,omitempty"`
	Tilt        *Coordinate    `yaml:"tilt,omitempty" json:"tilt,omitempty"`
	LayerTilt   *Coordinate    `yaml:"layer_tilt,omitempty" json:"layer_tilt,omitempty"`
	Reference   string         `yaml:"reference,omitempty" json:"reference,omitempty"`
	Metadata    *StructureMeta `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Position returns the SSE coordinates, or the origin when unset.
func (s Structure) Position() Coordinate {
	if s.Coordinates == nil {
		return Coordinate{}
	}
	return *s.Coordinates
}

// clone returns a deep copy of the structure.
func (s Structure) clone() Structure {
	out := s
	if s.Coordinates != nil {
		c := *s.Coordinates
		out.Coordinates = &c
	}
	if s.Tilt != nil {
		c := *s.Tilt
		out.Tilt = &c
	}
	if s.LayerTilt != nil {
		c := *s.LayerTilt
		out.LayerTilt = &c
	}
	if s.Metadata != nil {
		m := StructureMeta{Motif: s.Metadata.Motif}
		m.Atoms = append([]pdb.Atom(nil), s.Metadata.Atoms...)
		for _, cs := range s.Metadata.Corrections {
			m.Corrections = append(m.Corrections, cs.clone())
		}
		out.Metadata = &m
	}
	return out
}

// Topology holds the layered SSE definitions and, optionally, one or more
// connectivities describing the sequence order of the SSEs.
type Topology struct {
	Architecture [][]Structure `yaml:"architecture" json:"architecture"`
	Connectivity [][]string    `yaml:"connectivity,omitempty" json:"connectivity,omitempty"`
}

// validate checks SSE ids and types across the whole topology.
func (t Topology) validate() error {
	for _, layer := range t.Architecture {
		for _, sse := range layer {
			if !sseTypePattern.MatchString(sse.Type) {
				return fmt.Errorf("%w: structure type %q should match %s",
					ErrInvalidCase, sse.Type, sseTypePattern)
			}
			if sse.ID != "" && !sseIDPattern.MatchString(sse.ID) {
				return fmt.Errorf("%w: structure id %q should match %s",
					ErrInvalidCase, sse.ID, sseIDPattern)
			}
		}
	}
	return nil
}

// currentUser resolves the login name for new case configurations.
func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}
