package form

import (
	"errors"
	"testing"
)

func TestApplyCorrectionsAdditive(t *testing.T) {
	c, err := New("corr").AddArchitecture("2H")
	if err != nil {
		t.Fatal(err)
	}
	cs := CorrectionSet{
		"A1H": {Coordinates: &Coordinate{X: 2, Z: -1}, Tilt: &Coordinate{Y: 15}},
		"A2H": {Length: 21},
	}
	out, err := c.ApplyCorrections(cs)
	if err != nil {
		t.Fatal(err)
	}

	sse, _ := out.StructureByID("A1H")
	if got := sse.Position(); got.X != 2 || got.Z != -1 {
		t.Errorf("A1H position = %+v, want x=2 z=-1", got)
	}
	if sse.Tilt == nil || sse.Tilt.Y != 15 {
		t.Errorf("A1H tilt = %+v, want y=15", sse.Tilt)
	}
	sse, _ = out.StructureByID("A2H")
	if sse.Length != 21 {
		t.Errorf("A2H length = %d, want 21", sse.Length)
	}

	// Applying the same delta again accumulates.
	out, err = out.ApplyCorrections(cs)
	if err != nil {
		t.Fatal(err)
	}
	sse, _ = out.StructureByID("A1H")
	if got := sse.Position().X; got != 4 {
		t.Errorf("A1H x after second pass = %v, want 4", got)
	}
}

func TestApplyCorrectionsXAlign(t *testing.T) {
	// Layer A (5 strands) is wider than layer B (2 helices).
	c, err := New("align").AddArchitecture("5E.2H")
	if err != nil {
		t.Fatal(err)
	}
	widths := c.CenterShape()
	diff := widths["A"].Width - widths["B"].Width

	tests := []struct {
		align string
		shift float64
	}{
		{align: "left", shift: 0},
		{align: "center", shift: diff / 2},
		{align: "right", shift: diff},
	}
	for _, tt := range tests {
		t.Run(tt.align, func(t *testing.T) {
			out, err := c.ApplyCorrections(CorrectionSet{"B": {XAlign: tt.align}})
			if err != nil {
				t.Fatal(err)
			}
			abs, err := out.CastAbsolute()
			if err != nil {
				t.Fatal(err)
			}
			sse, _ := abs.StructureByID("B1H")
			if got := sse.Position().X; got != tt.shift {
				t.Errorf("B1H x = %v, want %v", got, tt.shift)
			}
		})
	}
}

func TestApplyCorrectionsErrors(t *testing.T) {
	if _, err := New("bare").ApplyCorrections(CorrectionSet{"A1H": {Length: 3}}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}

	c, err := New("align").AddArchitecture("5E.2H")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ApplyCorrections(CorrectionSet{"B": {XAlign: "diagonal"}}); !errors.Is(err, ErrInvalidCase) {
		t.Fatalf("expected ErrInvalidCase, got %v", err)
	}
}
