package plugins

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/luskyqi1995/topobuilder/pkg/builder"
	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/pipeline"
	"github.com/luskyqi1995/topobuilder/pkg/rosetta"
	"github.com/luskyqi1995/topobuilder/pkg/slurm"
)

const defaultLoopLength = 3

// FunFolDes drives the Rosetta FunFolDes protocol: it writes the template
// sketch, renders the folding and design scripts, and either runs Rosetta
// locally or submits a SLURM array job. Finished cases checkpoint their
// results so re-runs skip the expensive part.
type FunFolDes struct {
	foldingNstruct int
	designNstruct  int
	natbias        float64
	loopLengths    []int
	smallFrags     string
	largeFrags     string
	cfg            Config
}

func funfoldesBuilder(cfg Config) pipeline.Builder {
	return func(opts map[string]any) (pipeline.Node, error) {
		node := &FunFolDes{
			foldingNstruct: optInt(opts, "nstruct", 2000),
			designNstruct:  optInt(opts, "design_nstruct", 10),
			natbias:        optFloat(opts, "natbias", 2.5),
			smallFrags:     optString(opts, "small_fragments", "frags.200.3mers"),
			largeFrags:     optString(opts, "large_fragments", "frags.200.9mers"),
			cfg:            cfg,
		}
		if raw, ok := opts["loop_lengths"].([]any); ok {
			for _, v := range raw {
				length, ok := toInt(v)
				if !ok {
					length = defaultLoopLength
				}
				node.loopLengths = append(node.loopLengths, length)
			}
		}
		return node, nil
	}
}

func (n *FunFolDes) Name() string { return "funfoldes" }

func (n *FunFolDes) Check(cases []form.Case) error {
	for _, c := range cases {
		if c.ConnectivityCount() != 1 {
			return &pipeline.DataError{Node: "funfoldes",
				Reason: fmt.Sprintf("case %s needs exactly one connectivity, has %d", c.Name(), c.ConnectivityCount())}
		}
	}
	return nil
}

// funfoldesResult is the checkpointed outcome of one case.
type funfoldesResult struct {
	FoldingScript string   `json:"folding_script"`
	DesignScript  string   `json:"design_script"`
	FoldingCmd    []string `json:"folding_cmd"`
	DesignCmd     []string `json:"design_cmd"`
	FoldingSilent string   `json:"folding_silent"`
	DesignSilent  string   `json:"design_silent"`
}

func (n *FunFolDes) Execute(ctx context.Context, cases []form.Case) ([]form.Case, error) {
	for _, c := range cases {
		if err := n.caseApply(ctx, c); err != nil {
			return nil, err
		}
	}
	return cases, nil
}

func (n *FunFolDes) caseApply(ctx context.Context, c form.Case) error {
	logger := n.cfg.logger().WithPrefix("funfoldes")

	var done funfoldesResult
	hit, err := n.cfg.checkpoint().Load(ctx, c.Name(), "funfoldes", &done)
	if err != nil {
		return err
	}
	if hit {
		logger.Info("checkpoint found, skipping", "case", c.Name())
		return nil
	}

	main := filepath.Join(c.Name(), "connectivity", "funfoldes")
	outdir := filepath.Join(main, "outputs")
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return err
	}

	// Template sketch in connectivity order.
	built, err := n.reorient(c)
	if err != nil {
		return err
	}
	sketch, err := builder.ConnectivitySketch(built)
	if err != nil {
		return err
	}
	pdbFile := filepath.Join(main, "template_sketch.pdb")
	f, err := os.Create(pdbFile)
	if err != nil {
		return err
	}
	if err := sketch.Write(f); err != nil {
		f.Close()
		return err
	}
	f.Close()

	ss, inserts, err := n.foldTargets(built)
	if err != nil {
		return err
	}

	result := funfoldesResult{
		FoldingScript: filepath.Join(main, "funfoldes_fold.xml"),
		DesignScript:  filepath.Join(main, "funfoldes_design.xml"),
	}

	fold := rosetta.FoldingScript{
		SecondaryStructure: ss,
		Inserts:            inserts,
		SmallFrags:         n.smallFrags,
		LargeFrags:         n.largeFrags,
	}
	if err := os.WriteFile(result.FoldingScript, []byte(fold.Render()), 0644); err != nil {
		return err
	}
	design := rosetta.DesignScript{NatBias: n.natbias}
	if err := os.WriteFile(result.DesignScript, []byte(design.Render()), 0644); err != nil {
		return err
	}

	prefix := c.Name() + "_"
	foldingNstruct := n.foldingNstruct
	if n.cfg.Slurm.Use {
		prefix = c.Name() + "_${SLURM_ARRAY_TASK_ID}_"
		foldingNstruct = int(math.Ceil(float64(n.foldingNstruct) / float64(n.cfg.Slurm.Array)))
	}
	result.FoldingSilent = filepath.Join(outdir, prefix+"funfol.silent")
	result.DesignSilent = filepath.Join(outdir, prefix+"des.silent")
	result.FoldingCmd = n.cfg.Rosetta.FoldingCommand(
		result.FoldingScript, pdbFile, prefix+"funfol_", result.FoldingSilent, foldingNstruct)
	result.DesignCmd = n.cfg.Rosetta.DesignCommand(
		result.DesignScript, result.FoldingSilent, prefix+"des_", result.DesignSilent, n.designNstruct)

	if n.cfg.Slurm.Use {
		script := filepath.Join(main, "submit_funfoldes.sh")
		var b strings.Builder
		b.WriteString(slurm.Header(n.cfg.Slurm))
		b.WriteString("\n")
		b.WriteString("srun " + strings.Join(result.FoldingCmd, " ") + "\n")
		b.WriteString("srun " + strings.Join(result.DesignCmd, " ") + "\n")
		if err := os.WriteFile(script, []byte(b.String()), 0755); err != nil {
			return err
		}
		logger.Info("submission file written", "file", script)

		submitter := n.cfg.Submitter
		if submitter == nil {
			submitter = slurm.NewSubmitter(n.cfg.Slurm, slurm.WithRunner(n.cfg.runner()))
		}
		logger.Info("submitting jobs, this may take a while", "case", c.Name())
		if err := submitter.SubmitAndWait(ctx, script); err != nil {
			return err
		}
	} else {
		run := n.cfg.runner()
		for _, cmd := range [][]string{result.FoldingCmd, result.DesignCmd} {
			logger.Debug("running rosetta", "cmd", strings.Join(cmd, " "))
			if _, err := run(ctx, cmd[0], cmd[1:]...); err != nil {
				return fmt.Errorf("rosetta run: %w", err)
			}
		}
	}

	return n.cfg.checkpoint().Save(ctx, c.Name(), "funfoldes", result)
}

// reorient applies the single connectivity when the case is not already
// reoriented.
func (n *FunFolDes) reorient(c form.Case) (form.Case, error) {
	if !c.IsReoriented() {
		expanded, err := c.ApplyTopologies()
		if err != nil {
			return form.Case{}, err
		}
		c = expanded[0]
	}
	return c.CastAbsolute()
}

// foldTargets derives the target secondary structure string and the loop
// inserts between consecutive SSEs of the connectivity.
func (n *FunFolDes) foldTargets(c form.Case) (string, []rosetta.LoopInsert, error) {
	conn := c.Topology.Connectivity[0]
	var ss strings.Builder
	var inserts []rosetta.LoopInsert
	position := 0

	for i, id := range conn {
		sse, ok := c.StructureByID(id)
		if !ok {
			return "", nil, fmt.Errorf("connectivity names unknown structure %s", id)
		}
		ss.WriteString(strings.Repeat(sse.Type, sse.Length))
		position += sse.Length

		if i < len(conn)-1 {
			loop := defaultLoopLength
			if i < len(n.loopLengths) {
				loop = n.loopLengths[i]
			}
			ss.WriteString(strings.Repeat("L", loop))
			inserts = append(inserts, rosetta.LoopInsert{Anchor: position, Length: loop})
			position += loop
		}
	}
	return ss.String(), inserts, nil
}

var _ pipeline.Node = (*FunFolDes)(nil)
