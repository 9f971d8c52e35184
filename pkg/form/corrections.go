package form

import (
	"fmt"
)

// Correction adjusts one SSE or one layer.
//
// Coordinate-like fields are additive deltas on top of the current values.
// Scalar fields replace the current value when set. XAlign only makes sense
// on a layer key (a single letter) and aligns the layer horizontally
// against the widest layer of the case.
type Correction struct {
	Length      int         `yaml:"length,omitempty" json:"length,omitempty"`
	Reference   string      `yaml:"reference,omitempty" json:"reference,omitempty"`
	XAlign      string      `yaml:"xalign,omitempty" json:"xalign,omitempty"`
	Coordinates *Coordinate `yaml:"coordinates,omitempty" json:"coordinates,omitempty"`
	Tilt        *Coordinate `yaml:"tilt,omitempty" json:"tilt,omitempty"`
	LayerTilt   *Coordinate `yaml:"layer_tilt,omitempty" json:"layer_tilt,omitempty"`
}

// CorrectionSet maps SSE ids (A1H) or layer letters (A) to corrections.
type CorrectionSet map[string]Correction

func (cs CorrectionSet) clone() CorrectionSet {
	out := make(CorrectionSet, len(cs))
	for k, v := range cs {
		nv := v
		if v.Coordinates != nil {
			c := *v.Coordinates
			nv.Coordinates = &c
		}
		if v.Tilt != nil {
			c := *v.Tilt
			nv.Tilt = &c
		}
		if v.LayerTilt != nil {
			c := *v.LayerTilt
			nv.LayerTilt = &c
		}
		out[k] = nv
	}
	return out
}

// ApplyCorrections returns a copy of the case with the correction set
// applied. Layer corrections are resolved into SSE corrections first, then
// every SSE correction is applied in place.
func (c Case) ApplyCorrections(corrections CorrectionSet) (Case, error) {
	if len(corrections) == 0 {
		return c.Clone(), nil
	}
	if !c.HasArchitecture() {
		return Case{}, fmt.Errorf("%w: corrections need a defined architecture", ErrIncomplete)
	}

	resolved, err := c.resolveLayerCorrections(corrections.clone())
	if err != nil {
		return Case{}, err
	}

	out := c.Clone()
	for i, layer := range out.Topology.Architecture {
		for j := range layer {
			sse := &out.Topology.Architecture[i][j]
			corr, ok := resolved[sse.ID]
			if !ok {
				continue
			}
			applyStructureCorrection(sse, corr)
		}
	}
	if err := out.Validate(); err != nil {
		return Case{}, err
	}
	return out, nil
}

// resolveLayerCorrections turns xalign layer entries into coordinate deltas
// on the first SSE of the layer; the shift then propagates through
// CastAbsolute to the rest of the layer.
func (c Case) resolveLayerCorrections(corrections CorrectionSet) (CorrectionSet, error) {
	sizes := c.CenterShape()
	maxWidth := 0.0
	for _, b := range sizes {
		if b.Width > maxWidth {
			maxWidth = b.Width
		}
	}

	for i, layer := range c.Topology.Architecture {
		letter := layerLetter(i)
		corr, ok := corrections[letter]
		if !ok || corr.XAlign == "" {
			continue
		}
		diff := maxWidth - sizes[letter].Width
		if diff == 0 {
			continue
		}
		var shift float64
		switch corr.XAlign {
		case "left", "Left", "LEFT":
			continue
		case "right", "Right", "RIGHT":
			shift = diff
		case "center", "Center", "CENTER":
			shift = diff / 2
		default:
			return nil, fmt.Errorf("%w: unknown xalign %q for layer %s",
				ErrInvalidCase, corr.XAlign, letter)
		}
		if len(layer) == 0 {
			continue
		}
		first := layer[0].ID
		sc := corrections[first]
		if sc.Coordinates == nil {
			sc.Coordinates = &Coordinate{}
		}
		sc.Coordinates.X += shift
		corrections[first] = sc
	}
	return corrections, nil
}

func applyStructureCorrection(sse *Structure, corr Correction) {
	if corr.Length != 0 {
		sse.Length = corr.Length
	}
	if corr.Reference != "" {
		sse.Reference = corr.Reference
	}
	if corr.Coordinates != nil {
		merged := sse.Position().Add(*corr.Coordinates)
		sse.Coordinates = &merged
	}
	if corr.Tilt != nil {
		base := Coordinate{}
		if sse.Tilt != nil {
			base = *sse.Tilt
		}
		merged := base.Add(*corr.Tilt)
		sse.Tilt = &merged
	}
	if corr.LayerTilt != nil {
		base := Coordinate{}
		if sse.LayerTilt != nil {
			base = *sse.LayerTilt
		}
		merged := base.Add(*corr.LayerTilt)
		sse.LayerTilt = &merged
	}
}
