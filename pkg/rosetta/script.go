package rosetta

import (
	"fmt"
	"strings"
)

// LoopInsert describes a stretch of glycine residues grown after an anchor
// residue to connect two secondary structure elements.
type LoopInsert struct {
	Anchor int
	Length int
}

// SecondaryStructureSelector renders a residue selector pinned to an
// explicit per-residue secondary structure string.
func SecondaryStructureSelector(id, ss string) string {
	return fmt.Sprintf(`<SecondaryStructure name=%q overlap="0" minE="1" minH="1"
    ss="HE" include_terminal_loops="false" use_dssp="false"
    pose_secstruct=%q />`, id, ss)
}

// PeptideStubMover renders the mover that grows loop residues between the
// sketch's secondary structure elements, one GLY insert per loop position.
func PeptideStubMover(id string, inserts []LoopInsert) string {
	var rules []string
	for _, ins := range inserts {
		for i := 0; i < ins.Length; i++ {
			rules = append(rules, fmt.Sprintf(
				`<Insert resname="GLY" repeat="1" jump="false" anchor_rsd="%d" anchor_atom="C" connecting_atom="N" />`,
				ins.Anchor+i))
		}
	}
	return fmt.Sprintf("<PeptideStubMover name=%q reset=\"false\">\n%s\n</PeptideStubMover>",
		id, strings.Join(rules, "\n"))
}

// FoldingScript holds everything needed to render the FunFolDes folding
// protocol for one sketch.
type FoldingScript struct {
	// SecondaryStructure is the target per-residue structure string,
	// including loop positions ("LEEEEELLHHHH...").
	SecondaryStructure string

	// Inserts are the loop stretches grown into the sketch before folding.
	Inserts []LoopInsert

	SmallFrags string
	LargeFrags string
}

// Render produces the complete RosettaScripts XML for the folding run.
func (s FoldingScript) Render() string {
	selector := SecondaryStructureSelector("sse", s.SecondaryStructure)
	stub := PeptideStubMover("loops", s.Inserts)

	return fmt.Sprintf(`<ROSETTASCRIPTS>
    <SCOREFXNS>
    </SCOREFXNS>
    <RESIDUE_SELECTORS>
        <Index name="piece" resnums="28-30" />
        %s
    </RESIDUE_SELECTORS>
    <FILTERS>
        <RmsdFromResidueSelectorFilter name="rmsd" reference_selector="sse"
            reference_name="sketchPose" query_selector="sse" confidence="0." />
    </FILTERS>
    <MOVERS>
        %s
        <SavePoseMover name="inSketch" reference_name="sketchPose" restore_pose="0" />
        <StructFragmentMover name="makeFrags" prefix="frags"
            small_frag_file=%q large_frag_file=%q
        />
        <AddConstraints name="foldingCST" >
            <SegmentedAtomPairConstraintGenerator name="foldCST" residue_selector="sse" >
                <Inner sd="1.2" weight="1." ca_only="1"
                    use_harmonic="true" unweighted="false" min_seq_sep="4" />
                <Outer sd="2" weight="2." ca_only="1"
                    use_harmonic="true" unweighted="false" max_distance="40" />
            </SegmentedAtomPairConstraintGenerator>
            <AutomaticSheetConstraintGenerator name="sheetCST" sd="2.0" distance="6.1" />
        </AddConstraints>
        <NubInitioMover name="FFL" fragments_id="frags" template_motif_selector="piece"
                    rmsd_threshold="10" residue_type="V" >
            <Nub reference_name="sketchPose" residue_selector="piece" >
                <Segment order="1" n_term_flex="2" c_term_flex="1"/>
            </Nub>
        </NubInitioMover>
        <WriteSSEMover name="structure" dssp="true" />
    </MOVERS>
    <PROTOCOLS>
        <Add mover="loops" />
        <Add mover="inSketch" />
        <Add mover="makeFrags" />
        <Add mover="foldingCST" />
        <Add mover="FFL" />
        <Add mover="structure" />
        <Add filter="rmsd" />
    </PROTOCOLS>
    <OUTPUT />
</ROSETTASCRIPTS>`, selector, stub, s.SmallFrags, s.LargeFrags)
}

// DesignScript holds the parameters of the sequence design run executed on
// the folded decoys.
type DesignScript struct {
	// NatBias weights native residue identities during design.
	NatBias float64
}

// Render produces the RosettaScripts XML for the design run.
func (s DesignScript) Render() string {
	return fmt.Sprintf(`<ROSETTASCRIPTS>
    <SCOREFXNS>
        <ScoreFunction name="design" weights="ref2015" />
    </SCOREFXNS>
    <TASKOPERATIONS>
        <LayerDesign name="layers" layer="core_boundary_surface_Nterm_Cterm" use_sidechain_neighbors="True" />
    </TASKOPERATIONS>
    <MOVERS>
        <FavorSequenceProfile name="natbias" weight="%.1f" use_current="true" matrix="IDENTITY" />
        <FastDesign name="design" scorefxn="design" task_operations="layers" repeats="2" />
        <WriteSSEMover name="structure" dssp="true" />
    </MOVERS>
    <PROTOCOLS>
        <Add mover="natbias" />
        <Add mover="design" />
        <Add mover="structure" />
    </PROTOCOLS>
    <OUTPUT scorefxn="design" />
</ROSETTASCRIPTS>`, s.NatBias)
}
