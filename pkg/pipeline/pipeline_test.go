package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/luskyqi1995/topobuilder/pkg/cache"
	"github.com/luskyqi1995/topobuilder/pkg/form"
)

type fakeNode struct {
	name     string
	checked  int
	executed int
	fail     error
}

func (n *fakeNode) Name() string { return n.name }

func (n *fakeNode) Check(cases []form.Case) error {
	n.checked++
	return nil
}

func (n *fakeNode) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	n.executed++
	if n.fail != nil {
		return nil, n.fail
	}
	return cases, nil
}

func testRegistry(nodes ...*fakeNode) *Registry {
	reg := NewRegistry()
	for _, n := range nodes {
		node := n
		reg.Register(node.name, func(opts map[string]any) (Node, error) {
			return node, nil
		})
	}
	return reg
}

func TestRegistryUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Build(form.Protocol{Name: "missing"})
	if !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestLoadProtocolsSources(t *testing.T) {
	c := form.New("demo")

	if _, err := LoadProtocols(c, ""); !errors.Is(err, ErrNoProtocols) {
		t.Errorf("empty sources: err = %v, want ErrNoProtocols", err)
	}

	c.Configuration.Protocols = []form.Protocol{{Name: "nomenclator"}}
	got, err := LoadProtocols(c, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "nomenclator" {
		t.Errorf("protocols = %+v", got)
	}

	file := filepath.Join(t.TempDir(), "protocol.yml")
	if err := os.WriteFile(file, []byte("- name: builder\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProtocols(c, file); !errors.Is(err, ErrProtocolSource) {
		t.Errorf("both sources: err = %v, want ErrProtocolSource", err)
	}
}

func TestLoadProtocolsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "protocol.yml")
	body := `- name: nomenclator
  subnames: [experiment1]
- name: builder
  status: true
  overwrite: true
`
	if err := os.WriteFile(file, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadProtocols(form.New("demo"), file)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("protocol count = %d, want 2", len(got))
	}
	if got[0].Name != "nomenclator" || got[0].Status {
		t.Errorf("first = %+v", got[0])
	}
	if _, ok := got[0].Options["subnames"]; !ok {
		t.Errorf("options not captured: %+v", got[0].Options)
	}
	if !got[1].Status {
		t.Error("status field not parsed")
	}
	if _, ok := got[1].Options["status"]; ok {
		t.Error("status should not leak into options")
	}
}

func TestLoadProtocolsFileJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "protocol.json")
	if err := os.WriteFile(file, []byte(`[{"name": "plotter", "prefix": "images"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadProtocols(form.New("demo"), file)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "plotter" {
		t.Errorf("protocols = %+v", got)
	}
}

func TestLoadProtocolsMissingName(t *testing.T) {
	file := filepath.Join(t.TempDir(), "protocol.yml")
	if err := os.WriteFile(file, []byte("- subnames: [a]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProtocols(form.New("demo"), file); err == nil {
		t.Error("expected error for protocol without name")
	}
}

func TestRunnerExecutesPending(t *testing.T) {
	first := &fakeNode{name: "first"}
	second := &fakeNode{name: "second"}
	reg := testRegistry(first, second)

	r := NewRunner(reg, nil, nil)
	cases := []form.Case{form.New("demo")}
	protocols := []form.Protocol{
		{Name: "first", Status: true},
		{Name: "second"},
	}

	out, stats, err := r.Run(context.Background(), cases, protocols)
	if err != nil {
		t.Fatal(err)
	}
	if first.executed != 0 {
		t.Error("done protocols must be skipped")
	}
	if second.executed != 1 || second.checked != 1 {
		t.Errorf("second: executed=%d checked=%d", second.executed, second.checked)
	}
	if stats.Executed != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if !out[0].Configuration.Protocols[1].Status {
		t.Error("executed protocol not marked done")
	}
	if stats.RunID == "" {
		t.Error("missing run id")
	}
}

func TestRunnerUnknownProtocol(t *testing.T) {
	r := NewRunner(testRegistry(), nil, nil)
	_, _, err := r.Run(context.Background(), []form.Case{form.New("demo")},
		[]form.Protocol{{Name: "nope"}})
	if !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestRunnerNodeFailure(t *testing.T) {
	boom := errors.New("boom")
	bad := &fakeNode{name: "bad", fail: boom}
	r := NewRunner(testRegistry(bad), nil, nil)

	_, _, err := r.Run(context.Background(), []form.Case{form.New("demo")},
		[]form.Protocol{{Name: "bad"}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped node error", err)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cp := NewCheckpoint(store, false)

	type result struct {
		Silent []string `json:"silent"`
	}
	saved := result{Silent: []string{"a.silent", "b.silent"}}
	if err := cp.Save(ctx, "demo", "funfoldes", saved); err != nil {
		t.Fatal(err)
	}

	var loaded result
	hit, err := cp.Load(ctx, "demo", "funfoldes", &loaded)
	if err != nil {
		t.Fatal(err)
	}
	if !hit || len(loaded.Silent) != 2 {
		t.Errorf("hit=%v loaded=%+v", hit, loaded)
	}

	// Forced checkpoints never reload.
	forced := NewCheckpoint(store, true)
	hit, err = forced.Load(ctx, "demo", "funfoldes", &loaded)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("forced checkpoint should miss")
	}
}
