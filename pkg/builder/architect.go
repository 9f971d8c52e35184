package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pdb"
)

// Workspace is the on-disk tree of one building experiment.
type Workspace struct {
	Root         string // <case name>/
	Architecture string // <root>/architecture/
	Sketch       string // <root>/architecture/sketch.pdb
	Connectivity string // <root>/connectivity/
	CaseFile     string // <root>/<case name>.yml
}

// Setup creates the working tree for a case and writes the case definition
// into it. With overwrite, any previous tree is removed first.
func Setup(c form.Case, overwrite bool) (Workspace, error) {
	ws := Workspace{Root: c.Name()}
	ws.Architecture = filepath.Join(ws.Root, "architecture")
	ws.Sketch = filepath.Join(ws.Architecture, "sketch.pdb")
	ws.Connectivity = filepath.Join(ws.Root, "connectivity")

	if overwrite {
		if err := os.RemoveAll(ws.Root); err != nil {
			return Workspace{}, err
		}
	}
	if err := os.MkdirAll(ws.Architecture, 0755); err != nil {
		return Workspace{}, err
	}

	path, err := c.Save(filepath.Join(ws.Root, c.Name()), form.FormatYAML)
	if err != nil {
		return Workspace{}, err
	}
	ws.CaseFile = path
	return ws, nil
}

// Sketch builds every SSE of the case and chains them into one structure,
// renumbered contiguously in architecture order.
func Sketch(c form.Case) (pdb.Structure, error) {
	abs, err := c.CastAbsolute()
	if err != nil {
		return pdb.Structure{}, err
	}
	var out pdb.Structure
	for _, layer := range abs.Topology.Architecture {
		for _, sse := range layer {
			part, err := Build(sse)
			if err != nil {
				return pdb.Structure{}, fmt.Errorf("building %s: %w", sse.ID, err)
			}
			part.Renumber(out.LastSeq() + 1)
			out.Append(part)
		}
	}
	return out, nil
}

// ConnectivitySketch builds the case SSEs chained in connectivity order.
// The case must carry exactly one connectivity.
func ConnectivitySketch(c form.Case) (pdb.Structure, error) {
	if c.ConnectivityCount() != 1 {
		return pdb.Structure{}, fmt.Errorf("connectivity sketch needs exactly one connectivity, case has %d",
			c.ConnectivityCount())
	}
	abs, err := c.CastAbsolute()
	if err != nil {
		return pdb.Structure{}, err
	}
	var out pdb.Structure
	for _, id := range abs.Topology.Connectivity[0] {
		sse, ok := abs.StructureByID(id)
		if !ok {
			return pdb.Structure{}, fmt.Errorf("connectivity names unknown structure %s", id)
		}
		part, err := Build(sse)
		if err != nil {
			return pdb.Structure{}, fmt.Errorf("building %s: %w", id, err)
		}
		part.Renumber(out.LastSeq() + 1)
		out.Append(part)
	}
	return out, nil
}

// WriteSketch writes the architecture sketch of the case into the
// workspace and returns the file path.
func WriteSketch(c form.Case, ws Workspace) (string, error) {
	s, err := Sketch(c)
	if err != nil {
		return "", err
	}
	f, err := os.Create(ws.Sketch)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := s.Write(f); err != nil {
		return "", err
	}
	return ws.Sketch, nil
}
