package form

// CastAbsolute resolves the relative case into explicit 3D placements.
//
// SSEs are placed left to right within a layer, advancing x by the pairwise
// distance of the neighboring types, and layers stack along z by the
// stacking distance of the first SSE types of consecutive layers. Explicit
// coordinates on an SSE act as offsets on top of the computed position and
// are inherited by the following SSEs of the layer. Missing lengths are
// filled from the per-type defaults and missing tilts zeroed.
//
// Casting an absolute case is a no-op copy.
func (c Case) CastAbsolute() (Case, error) {
	out := c.Clone()
	if c.IsAbsolute() {
		return out, nil
	}
	out.Configuration.Relative = false

	defaults := out.Configuration.Defaults
	var pos Coordinate
	for i, layer := range out.Topology.Architecture {
		pos.X = 0
		if len(layer) == 0 {
			continue
		}
		prevLayerType := ""
		if i > 0 && len(out.Topology.Architecture[i-1]) > 0 {
			prevLayerType = out.Topology.Architecture[i-1][0].Type
		}
		pos.Z += defaults.Distance.ZDistance(prevLayerType, layer[0].Type)

		for j := range layer {
			sse := &out.Topology.Architecture[i][j]

			left := ""
			if j > 0 {
				left = layer[j-1].Type
			}
			pos.X += defaults.Distance.XDistance(left, sse.Type)
			pos.Y = 0

			if sse.Length == 0 {
				sse.Length = defaults.Length.ByType(sse.Type)
			}
			coord := sse.Position().Add(pos)
			sse.Coordinates = &coord
			if sse.Tilt == nil {
				sse.Tilt = &Coordinate{}
			}
			if sse.LayerTilt == nil {
				sse.LayerTilt = &Coordinate{}
			}

			// The x shift of an SSE carries over to its neighbors.
			pos = *sse.Coordinates
		}
	}

	if err := out.Validate(); err != nil {
		return Case{}, err
	}
	return out, nil
}

// ApplyTopologies produces one reoriented case per defined connectivity.
//
// Walking the connectivity order, every second SSE runs against the chain
// direction and is flipped by 180 degrees on the x and y tilts. The
// resulting cases carry a single connectivity each and are flagged as
// reoriented.
func (c Case) ApplyTopologies() ([]Case, error) {
	if !c.HasArchitecture() || c.ConnectivityCount() == 0 {
		return nil, ErrIncomplete
	}

	out := make([]Case, 0, len(c.Topology.Connectivity))
	for _, conn := range c.Topology.Connectivity {
		single := c.Clone()
		single.Topology.Connectivity = [][]string{append([]string(nil), conn...)}

		flips := CorrectionSet{}
		for i := 1; i < len(conn); i += 2 {
			flips[conn[i]] = Correction{Tilt: &Coordinate{X: 180, Y: 180}}
		}
		corrected, err := single.ApplyCorrections(flips)
		if err != nil {
			return nil, err
		}
		corrected.Configuration.Reoriented = true
		out = append(out, corrected)
	}
	return out, nil
}
