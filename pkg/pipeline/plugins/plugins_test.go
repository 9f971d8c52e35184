package plugins

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
)

func architectureCase(t *testing.T, name, architecture string) form.Case {
	t.Helper()
	c, err := form.New(name).AddArchitecture(architecture)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func topologyCase(t *testing.T, name, architecture, topology string) form.Case {
	t.Helper()
	c, err := architectureCase(t, name, architecture).AddTopology(topology)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRegisterAll(t *testing.T) {
	reg := pipeline.NewRegistry()
	RegisterAll(reg, Config{})

	for _, name := range []string{
		"nomenclator", "corrector", "ranger", "topologies", "builder",
		"plotter", "graph", "funfoldes", "loopmaster", "motifpicker",
		"layer_ranger", "make_topologies", "loop_master", "motif_picker",
	} {
		if !reg.Known(name) {
			t.Errorf("plugin %s not registered", name)
		}
	}
}

func TestNomenclator(t *testing.T) {
	node, err := NewNomenclator(map[string]any{"subnames": []any{"experiment1", "naive"}})
	if err != nil {
		t.Fatal(err)
	}

	cases := []form.Case{form.New("1QYS")}
	out, err := node.Execute(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Name() != "1QYS_experiment1_naive" {
		t.Errorf("name = %q", out[0].Name())
	}

	// Re-running must not stack the suffix again.
	out, err = node.Execute(context.Background(), out)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Name() != "1QYS_experiment1_naive" {
		t.Errorf("name after re-run = %q", out[0].Name())
	}
}

func TestNomenclatorReservedKeyword(t *testing.T) {
	for _, reserved := range []string{"architecture", "connectivity", "images", "summary"} {
		_, err := NewNomenclator(map[string]any{"subnames": reserved})
		var optsErr *pipeline.OptionsError
		if !errors.As(err, &optsErr) {
			t.Errorf("subname %s: err = %v, want OptionsError", reserved, err)
		}
	}
}

func TestNomenclatorNoSubnames(t *testing.T) {
	if _, err := NewNomenclator(map[string]any{}); err == nil {
		t.Error("expected error without subnames")
	}
}

func TestCorrectorFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "corrections.yml")
	body := "B1H:\n  coordinates: {x: 3}\n"
	if err := os.WriteFile(file, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	node, err := NewCorrector(map[string]any{"corrections": file})
	if err != nil {
		t.Fatal(err)
	}

	cases := []form.Case{architectureCase(t, "demo", "2E.1H")}
	out, err := node.Execute(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}
	sse, _ := out[0].StructureByID("B1H")
	if sse.Coordinates == nil || sse.Coordinates.X != 3 {
		t.Errorf("B1H coordinates = %+v", sse.Coordinates)
	}
}

func TestCorrectorInline(t *testing.T) {
	node, err := NewCorrector(map[string]any{
		"corrections": map[string]any{
			"A1E": map[string]any{"tilt": map[string]any{"x": 15.0}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := node.Execute(context.Background(), []form.Case{architectureCase(t, "demo", "2E.1H")})
	if err != nil {
		t.Fatal(err)
	}
	sse, _ := out[0].StructureByID("A1E")
	if sse.Tilt == nil || sse.Tilt.X != 15 {
		t.Errorf("A1E tilt = %+v", sse.Tilt)
	}
}

func TestCorrectorCheckNeedsArchitecture(t *testing.T) {
	node, err := NewCorrector(map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	var dataErr *pipeline.DataError
	if err := node.Check([]form.Case{form.New("empty")}); !errors.As(err, &dataErr) {
		t.Errorf("err = %v, want DataError", err)
	}
}

func TestRanger(t *testing.T) {
	node, err := NewRanger(map[string]any{
		"layers": map[string]any{"A": []any{2, 4}},
	})
	if err != nil {
		t.Fatal(err)
	}

	cases := []form.Case{architectureCase(t, "demo", "3E.2H")}
	if err := node.Check(cases); err != nil {
		t.Fatal(err)
	}
	out, err := node.Execute(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("case count = %d, want 3", len(out))
	}
	for i, want := range []int{2, 3, 4} {
		if got := out[i].Shape()[0]; got != want {
			t.Errorf("case %d layer A count = %d, want %d", i, got, want)
		}
	}
}

func TestRangerProduct(t *testing.T) {
	node, err := NewRanger(map[string]any{
		"layers": map[string]any{"A": []any{2, 3}, "B": []any{1, 3}},
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := node.Execute(context.Background(), []form.Case{architectureCase(t, "demo", "3E.2H")})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 {
		t.Errorf("case count = %d, want 2*3", len(out))
	}
}

func TestRangerRejectsConnectivity(t *testing.T) {
	node, err := NewRanger(map[string]any{
		"layers": map[string]any{"A": []any{1, 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := topologyCase(t, "demo", "2E.1H", "A1E.B1H.A2E")
	var dataErr *pipeline.DataError
	if err := node.Check([]form.Case{c}); !errors.As(err, &dataErr) {
		t.Errorf("err = %v, want DataError", err)
	}
}

// JSON decodes numbers as float64, YAML as int. Both shapes must work.
func TestRangerDecodedBounds(t *testing.T) {
	node, err := NewRanger(map[string]any{
		"layers": map[string]any{"A": []any{float64(2), float64(3)}},
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := node.Execute(context.Background(), []form.Case{architectureCase(t, "demo", "3E.2H")})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Errorf("case count = %d, want 2", len(out))
	}
}

func TestRangerBadOptions(t *testing.T) {
	for name, opts := range map[string]map[string]any{
		"missing layers": {},
		"bad range":      {"layers": map[string]any{"A": []any{4, 2}}},
		"not a pair":     {"layers": map[string]any{"A": []any{1}}},
		"not numeric":    {"layers": map[string]any{"A": []any{"2", "4"}}},
	} {
		if _, err := NewRanger(opts); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestTopologies(t *testing.T) {
	node, err := NewTopologies(nil)
	if err != nil {
		t.Fatal(err)
	}

	c, err := topologyCase(t, "demo", "2E.1H", "A1E.B1H.A2E").AddTopology("A2E.B1H.A1E")
	if err != nil {
		t.Fatal(err)
	}

	out, err := node.Execute(context.Background(), []form.Case{c})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("case count = %d, want 2", len(out))
	}
	for _, c := range out {
		if !c.IsReoriented() {
			t.Error("expanded cases should be reoriented")
		}
		if c.ConnectivityCount() != 1 {
			t.Errorf("connectivity count = %d, want 1", c.ConnectivityCount())
		}
	}
}

func TestTopologiesCheck(t *testing.T) {
	node, _ := NewTopologies(nil)
	var dataErr *pipeline.DataError
	if err := node.Check([]form.Case{architectureCase(t, "demo", "2E")}); !errors.As(err, &dataErr) {
		t.Errorf("err = %v, want DataError", err)
	}
}

func TestMotifPicker(t *testing.T) {
	source := filepath.Join(t.TempDir(), "motif.pdb")
	if err := os.WriteFile(source, []byte("END\n"), 0644); err != nil {
		t.Fatal(err)
	}

	node, err := NewMotifPicker(map[string]any{
		"source":    source,
		"selection": "10-20,35-40",
		"attach":    []any{"A1E", "B1H"},
	})
	if err != nil {
		t.Fatal(err)
	}

	cases := []form.Case{architectureCase(t, "demo", "2E.1H")}
	if err := node.Check(cases); err != nil {
		t.Fatal(err)
	}
	out, err := node.Execute(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}

	sse, _ := out[0].StructureByID("A1E")
	if sse.Metadata == nil || sse.Metadata.Motif != source+":10-20" {
		t.Errorf("A1E motif = %+v", sse.Metadata)
	}
	sse, _ = out[0].StructureByID("B1H")
	if sse.Metadata == nil || sse.Metadata.Motif != source+":35-40" {
		t.Errorf("B1H motif = %+v", sse.Metadata)
	}
}

func TestMotifPickerBadOptions(t *testing.T) {
	source := filepath.Join(t.TempDir(), "motif.pdb")
	if err := os.WriteFile(source, []byte("END\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for name, opts := range map[string]map[string]any{
		"missing source": {"selection": "1-3", "attach": "A1E"},
		"count mismatch": {"source": source, "selection": "1-3,5-8", "attach": "A1E"},
		"bad sse id":     {"source": source, "selection": "1-3", "attach": "1EA"},
	} {
		if _, err := NewMotifPicker(opts); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
