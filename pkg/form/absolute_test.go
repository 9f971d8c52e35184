package form

import (
	"errors"
	"testing"
)

func TestCastAbsolute(t *testing.T) {
	c, err := New("abs").AddArchitecture("2E.2H")
	if err != nil {
		t.Fatal(err)
	}
	abs, err := c.CastAbsolute()
	if err != nil {
		t.Fatal(err)
	}
	if !abs.IsAbsolute() {
		t.Fatal("case should be absolute after CastAbsolute")
	}
	if c.IsAbsolute() {
		t.Fatal("original case must stay relative")
	}

	a := abs.Topology.Architecture
	// First strand sits at the origin, the pair distance separates strands.
	if got := a[0][0].Position(); got != (Coordinate{}) {
		t.Errorf("A1E position = %+v, want origin", got)
	}
	if got := a[0][1].Position().X; got != DefaultBetaPairDistance {
		t.Errorf("A2E x = %v, want %v", got, DefaultBetaPairDistance)
	}
	// Helix layer stacks at the helix-strand distance.
	if got := a[1][0].Position().Z; got != DefaultHelixBetaDistance {
		t.Errorf("B1H z = %v, want %v", got, DefaultHelixBetaDistance)
	}
	if got := a[1][1].Position().X; got != DefaultHelixDistance {
		t.Errorf("B2H x = %v, want %v", got, DefaultHelixDistance)
	}
	// Default lengths are resolved.
	if got := a[0][0].Length; got != DefaultBetaLength {
		t.Errorf("A1E length = %d, want %d", got, DefaultBetaLength)
	}
	if got := a[1][0].Length; got != DefaultHelixLength {
		t.Errorf("B1H length = %d, want %d", got, DefaultHelixLength)
	}
	// Tilts are zero-filled.
	if a[0][0].Tilt == nil || a[0][0].LayerTilt == nil {
		t.Error("tilts must be filled in absolute mode")
	}

	// Casting twice is stable.
	again, err := abs.CastAbsolute()
	if err != nil {
		t.Fatal(err)
	}
	if again.Topology.Architecture[1][1].Position() != a[1][1].Position() {
		t.Error("CastAbsolute must be idempotent")
	}
}

func TestCastAbsoluteInheritsShift(t *testing.T) {
	c, err := New("shift").AddArchitecture("2H")
	if err != nil {
		t.Fatal(err)
	}
	// Shift the first helix; its neighbor should inherit the offset.
	c.Topology.Architecture[0][0].Coordinates = &Coordinate{X: 3}
	abs, err := c.CastAbsolute()
	if err != nil {
		t.Fatal(err)
	}
	if got := abs.Topology.Architecture[0][0].Position().X; got != 3 {
		t.Errorf("A1H x = %v, want 3", got)
	}
	if got := abs.Topology.Architecture[0][1].Position().X; got != 3+DefaultHelixDistance {
		t.Errorf("A2H x = %v, want %v", got, 3+DefaultHelixDistance)
	}
}

func TestApplyTopologies(t *testing.T) {
	c, err := New("topologies").AddArchitecture("5E:8:8:7:7:7.2H:18:19")
	if err != nil {
		t.Fatal(err)
	}
	c, err = c.AddTopology("A2E8.A1E8.B1H18.A3E7.B2H19.A5E7.A4E7")
	if err != nil {
		t.Fatal(err)
	}
	c, err = c.AddTopology("A2E8.A1E8.B1H18.A3E7.B2H19.A4E7.A5E7")
	if err != nil {
		t.Fatal(err)
	}

	cases, err := c.ApplyTopologies()
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(cases))
	}
	for i, k := range cases {
		if got := k.ConnectivityCount(); got != 1 {
			t.Errorf("case %d connectivity count = %d, want 1", i, got)
		}
		if !k.IsReoriented() {
			t.Errorf("case %d should be reoriented", i)
		}
	}
	if got := cases[0].ConnectivityStrings()[0]; got != "A2E.A1E.B1H.A3E.B2H.A5E.A4E" {
		t.Errorf("case 0 connectivity = %s", got)
	}

	// Every second SSE of the connectivity order is flipped.
	sse, ok := cases[0].StructureByID("A1E")
	if !ok {
		t.Fatal("A1E not found")
	}
	if sse.Tilt == nil || sse.Tilt.X != 180 || sse.Tilt.Y != 180 {
		t.Errorf("A1E tilt = %+v, want 180/180 flip", sse.Tilt)
	}
	sse, _ = cases[0].StructureByID("A2E")
	if sse.Tilt != nil && (sse.Tilt.X != 0 || sse.Tilt.Y != 0) {
		t.Errorf("A2E should not be flipped, tilt = %+v", sse.Tilt)
	}
}

func TestApplyTopologiesIncomplete(t *testing.T) {
	if _, err := New("none").ApplyTopologies(); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestDirectionalityProfile(t *testing.T) {
	c, err := New("dir").AddTopology("A1H.A2H")
	if err != nil {
		t.Fatal(err)
	}
	cases, err := c.ApplyTopologies()
	if err != nil {
		t.Fatal(err)
	}
	if got := cases[0].DirectionalityProfile(); got != "01" {
		t.Errorf("DirectionalityProfile() = %s, want 01", got)
	}
}
