package plugins

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/luskyqi1995/topobuilder/pkg/builder"
	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pdb"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
)

// LoopMaster prepares MASTER searches for the loops of a case: for every
// consecutive SSE pair of the single connectivity it writes a jump PDB
// holding both elements and the createPDS plus per-database master command
// script querying it against the PDS database.
type LoopMaster struct {
	rmsd float64
	cfg  Config
	log  *log.Logger
}

func loopmasterBuilder(cfg Config) pipeline.Builder {
	return func(opts map[string]any) (pipeline.Node, error) {
		if cfg.Master.PDS == "" {
			return nil, &pipeline.OptionsError{Node: "loopmaster",
				Reason: "no MASTER PDS database configured"}
		}
		return &LoopMaster{
			rmsd: optFloat(opts, "rmsd", 5.0),
			cfg:  cfg,
			log:  cfg.logger().WithPrefix("loopmaster"),
		}, nil
	}
}

func (n *LoopMaster) Name() string { return "loopmaster" }

func (n *LoopMaster) Check(cases []form.Case) error {
	for _, c := range cases {
		if c.ConnectivityCount() != 1 {
			return &pipeline.DataError{Node: "loopmaster",
				Reason: fmt.Sprintf("case %s needs exactly one connectivity, has %d", c.Name(), c.ConnectivityCount())}
		}
	}
	return nil
}

func (n *LoopMaster) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	pdsList, err := PDSDatabase(n.cfg.Master.PDS)
	if err != nil {
		return nil, err
	}

	for i := range cases {
		built, err := n.caseApply(cases[i], pdsList)
		if err != nil {
			return nil, err
		}
		cases[i] = built
	}
	return cases, nil
}

func (n *LoopMaster) caseApply(c form.Case, pdsList []string) (form.Case, error) {
	if !c.IsReoriented() {
		expanded, err := c.ApplyTopologies()
		if err != nil {
			return form.Case{}, err
		}
		c = expanded[0]
	}
	c, err := c.CastAbsolute()
	if err != nil {
		return form.Case{}, err
	}

	conn := c.Topology.Connectivity[0]
	root := filepath.Join(c.Name(), "connectivity")

	for i := 0; i+1 < len(conn); i++ {
		wdir := filepath.Join(root, fmt.Sprintf("loop%02d", i+1))
		if err := os.MkdirAll(wdir, 0755); err != nil {
			return form.Case{}, err
		}

		jump, err := n.jumpStructure(c, conn[i], conn[i+1])
		if err != nil {
			return form.Case{}, err
		}
		jumpFile := filepath.Join(wdir, fmt.Sprintf("loop_master.jump%02d.pdb", i+1))
		if err := writePDB(jump, jumpFile); err != nil {
			return form.Case{}, err
		}
		n.log.Info("jump structure written", "file", jumpFile)

		if err := n.writeCommands(wdir, jumpFile, pdsList); err != nil {
			return form.Case{}, err
		}
	}
	return c, nil
}

// jumpStructure chains the atoms of two SSEs into one renumbered structure.
// Atoms come from the SSE metadata when the builder already ran, otherwise
// they are computed in place.
func (n *LoopMaster) jumpStructure(c form.Case, id1, id2 string) (pdb.Structure, error) {
	var out pdb.Structure
	for _, id := range []string{id1, id2} {
		sse, ok := c.StructureByID(id)
		if !ok {
			return pdb.Structure{}, fmt.Errorf("connectivity names unknown structure %s", id)
		}
		part := pdb.Structure{}
		if sse.Metadata != nil && len(sse.Metadata.Atoms) > 0 {
			part.Atoms = append(part.Atoms, sse.Metadata.Atoms...)
		} else {
			built, err := builder.Build(sse)
			if err != nil {
				return pdb.Structure{}, err
			}
			part = built
		}
		part.Renumber(out.LastSeq() + 1)
		out.Append(part)
	}
	return out, nil
}

// writeCommands emits master.sh: one createPDS call for the jump structure
// and one master call per database entry, each keeping only its best match.
func (n *LoopMaster) writeCommands(wdir, jumpFile string, pdsList []string) error {
	pdsFile := strings.TrimSuffix(jumpFile, ".pdb") + ".pds"
	matchDir := filepath.Join(wdir, "matches")
	if err := os.MkdirAll(matchDir, 0755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "%s --type query --pdb %s --pds %s\n", n.cfg.Master.Create, jumpFile, pdsFile)
	for _, pds := range pdsList {
		tid := strings.TrimSuffix(filepath.Base(pds), filepath.Ext(pds))
		outfile := filepath.Join(matchDir, tid+".master")
		fmt.Fprintf(&b, "%s --query %s --target %s --rmsdCut %g --topN 1 --matchOut %s\n",
			n.cfg.Master.Master, pdsFile, pds, n.rmsd, outfile)
	}

	script := filepath.Join(wdir, "master.sh")
	return os.WriteFile(script, []byte(b.String()), 0755)
}

// PDSDatabase resolves the configured PDS source: a list file with one PDS
// path per line, or a database directory searched as */*.pds.
func PDSDatabase(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("MASTER database %s: %w", path, err)
	}

	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, "*", "*.pds"))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("MASTER database %s: no PDS files found", path)
		}
		return matches, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	return out, scanner.Err()
}

func writePDB(s pdb.Structure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Write(f)
}

var _ pipeline.Node = (*LoopMaster)(nil)
