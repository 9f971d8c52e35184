package builder

import (
	"fmt"
	"math"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pdb"
)

// vec3 is a Cartesian point used during construction.
type vec3 struct{ x, y, z float64 }

func (v vec3) add(o vec3) vec3 { return vec3{v.x + o.x, v.y + o.y, v.z + o.z} }

// rotate applies rotations around the fixed x, y and z axes, in that order.
// Angles are degrees.
func (v vec3) rotate(xd, yd, zd float64) vec3 {
	out := v
	if xd != 0 {
		s, c := math.Sincos(xd * math.Pi / 180)
		out = vec3{out.x, out.y*c - out.z*s, out.y*s + out.z*c}
	}
	if yd != 0 {
		s, c := math.Sincos(yd * math.Pi / 180)
		out = vec3{out.x*c + out.z*s, out.y, -out.x*s + out.z*c}
	}
	if zd != 0 {
		s, c := math.Sincos(zd * math.Pi / 180)
		out = vec3{out.x*c - out.y*s, out.x*s + out.y*c, out.z}
	}
	return out
}

// monomer lists the backbone atoms of one canonical residue.
type monomer []struct {
	name string
	pos  vec3
}

// parametric describes how one SSE type is constructed.
type parametric struct {
	rise     float64 // axis advance per residue, angstrom
	rotation float64 // twist per residue, degrees
	mono     monomer
}

// Canonical parameters per SSE type. The alpha helix rises 1.5 A per
// residue with a 100 degree twist; the flat beta strand rises 3.2 A and
// alternates 180 degrees.
var architects = map[string]parametric{
	form.TypeHelix: {
		rise:     1.5,
		rotation: 100,
		mono: monomer{
			{"N", vec3{1.321, 0.841, -0.711}},
			{"CA", vec3{2.300, 0.000, 0.000}},
			{"C", vec3{1.576, -1.029, 0.870}},
			{"O", vec3{1.911, -2.248, 0.871}},
		},
	},
	form.TypeStrand: {
		rise:     3.2,
		rotation: -180,
		mono: monomer{
			{"N", vec3{-0.440, -1.200, 0.330}},
			{"CA", vec3{0.000, 0.000, 1.210}},
			{"C", vec3{-0.550, 1.200, 0.330}},
			{"O", vec3{-2.090, 1.300, 0.220}},
		},
	},
}

// Build constructs the backbone of a single absolute SSE. The element is
// grown centered on the local origin along y, twisted residue by residue,
// then tilted and moved to its case coordinates.
func Build(sse form.Structure) (pdb.Structure, error) {
	p, ok := architects[sse.Type]
	if !ok {
		return pdb.Structure{}, fmt.Errorf("unrecognized secondary structure type %q", sse.Type)
	}
	if sse.Length <= 0 {
		return pdb.Structure{}, fmt.Errorf("structure %s has no length; cast the case absolute first", sse.ID)
	}

	span := p.rise * float64(sse.Length-1)
	top := span / 2

	tilt := form.Coordinate{}
	if sse.Tilt != nil {
		tilt = *sse.Tilt
	}
	shift := sse.Position()

	var out pdb.Structure
	for i := 0; i < sse.Length; i++ {
		center := vec3{0, top - p.rise*float64(i), 0}
		twist := p.rotation * float64(i)
		for _, atom := range p.mono {
			pos := atom.pos.rotate(0, twist, 0).add(center)
			pos = pos.rotate(tilt.X, tilt.Y, tilt.Z)
			out.Atoms = append(out.Atoms, pdb.Atom{
				Name:    atom.name,
				Residue: "GLY",
				Seq:     i + 1,
				X:       pos.x + shift.X,
				Y:       pos.y + shift.Y,
				Z:       pos.z + shift.Z,
			})
		}
	}
	return out, nil
}
