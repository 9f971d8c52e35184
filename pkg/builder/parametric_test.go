package builder

import (
	"math"
	"testing"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

func TestBuildHelix(t *testing.T) {
	sse := form.Structure{
		ID: "A1H", Type: form.TypeHelix, Length: 13,
		Coordinates: &form.Coordinate{},
		Tilt:        &form.Coordinate{},
	}
	s, err := Build(sse)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(s.Atoms); got != 13*4 {
		t.Fatalf("atom count = %d, want %d", got, 13*4)
	}
	if got := s.Residues(); got != 13 {
		t.Errorf("residue count = %d, want 13", got)
	}

	// The element is centered on the origin: CA centers span +-rise*(n-1)/2 in y.
	span := 1.5 * 12 / 2
	var minY, maxY float64
	for _, a := range s.Atoms {
		if a.Name != "CA" {
			continue
		}
		minY = math.Min(minY, a.Y)
		maxY = math.Max(maxY, a.Y)
	}
	if maxY < span-3 || maxY > span+3 {
		t.Errorf("max CA y = %v, expected near %v", maxY, span)
	}
	if minY > -span+3 || minY < -span-3 {
		t.Errorf("min CA y = %v, expected near %v", minY, -span)
	}
}

func TestBuildTranslates(t *testing.T) {
	base := form.Structure{
		ID: "A1E", Type: form.TypeStrand, Length: 4,
		Coordinates: &form.Coordinate{},
		Tilt:        &form.Coordinate{},
	}
	moved := base
	moved.Coordinates = &form.Coordinate{X: 10, Y: -2, Z: 5}

	s0, err := Build(base)
	if err != nil {
		t.Fatal(err)
	}
	s1, err := Build(moved)
	if err != nil {
		t.Fatal(err)
	}
	for i := range s0.Atoms {
		dx := s1.Atoms[i].X - s0.Atoms[i].X
		dy := s1.Atoms[i].Y - s0.Atoms[i].Y
		dz := s1.Atoms[i].Z - s0.Atoms[i].Z
		if math.Abs(dx-10) > 1e-9 || math.Abs(dy+2) > 1e-9 || math.Abs(dz-5) > 1e-9 {
			t.Fatalf("atom %d shifted by (%v,%v,%v), want (10,-2,5)", i, dx, dy, dz)
		}
	}
}

func TestBuildFlip(t *testing.T) {
	up := form.Structure{
		ID: "A1H", Type: form.TypeHelix, Length: 5,
		Coordinates: &form.Coordinate{},
		Tilt:        &form.Coordinate{},
	}
	down := up
	down.Tilt = &form.Coordinate{X: 180, Y: 180}

	s0, err := Build(up)
	if err != nil {
		t.Fatal(err)
	}
	s1, err := Build(down)
	if err != nil {
		t.Fatal(err)
	}
	// A 180 degree x flip inverts the axis: the first CA swaps ends.
	if math.Abs(s0.Atoms[1].Y+s1.Atoms[1].Y) > 1e-9 {
		t.Errorf("flip should mirror y: %v vs %v", s0.Atoms[1].Y, s1.Atoms[1].Y)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(form.Structure{ID: "A1X", Type: "X", Length: 5}); err == nil {
		t.Error("unknown type should fail")
	}
	if _, err := Build(form.Structure{ID: "A1H", Type: form.TypeHelix}); err == nil {
		t.Error("missing length should fail")
	}
}

func TestSketchChainsInOrder(t *testing.T) {
	c, err := form.New("sketch").AddArchitecture("2E.1H")
	if err != nil {
		t.Fatal(err)
	}
	s, err := Sketch(c)
	if err != nil {
		t.Fatal(err)
	}
	wantResidues := 7 + 7 + 13
	if got := s.Residues(); got != wantResidues {
		t.Errorf("residues = %d, want %d", got, wantResidues)
	}
	if got := s.LastSeq(); got != wantResidues {
		t.Errorf("last residue = %d, want %d", got, wantResidues)
	}
}

func TestConnectivitySketchOrder(t *testing.T) {
	c, err := form.New("conn").AddTopology("A2E.A1E")
	if err != nil {
		t.Fatal(err)
	}
	s, err := ConnectivitySketch(c)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Residues(); got != 14 {
		t.Errorf("residues = %d, want 14", got)
	}
	// The first chained residue belongs to A2E, which sits right of A1E.
	if s.Atoms[0].X < 1 {
		t.Errorf("first atom x = %v, expected the shifted strand first", s.Atoms[0].X)
	}

	noConn, _ := form.New("none").AddArchitecture("2E")
	if _, err := ConnectivitySketch(noConn); err == nil {
		t.Error("expected error without connectivity")
	}
}
