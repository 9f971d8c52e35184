// Package pdb implements minimal reading and writing of protein backbone
// coordinates in the PDB format.
//
// Only the subset of the format needed by the sketch builder is supported:
// ATOM records for backbone atoms, TER separators between chains and the END
// marker. Everything else is ignored on read and never produced on write.
package pdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Atom is a single atom record.
type Atom struct {
	Name    string  `json:"name" yaml:"name"`       // atom name (N, CA, C, O)
	Residue string  `json:"residue" yaml:"residue"` // three-letter residue code
	Seq     int     `json:"seq" yaml:"seq"`         // residue sequence number
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Z       float64 `json:"z" yaml:"z"`
}

// Structure is an ordered list of atoms forming one chain.
type Structure struct {
	Atoms []Atom
}

// Append adds the atoms of other after the current ones without renumbering.
func (s *Structure) Append(other Structure) {
	s.Atoms = append(s.Atoms, other.Atoms...)
}

// Renumber rewrites residue sequence numbers so the first residue becomes
// start and numbering is contiguous afterwards. Atom order is preserved.
func (s *Structure) Renumber(start int) {
	if len(s.Atoms) == 0 {
		return
	}
	seq := start - 1
	last := s.Atoms[0].Seq - 1
	for i := range s.Atoms {
		if s.Atoms[i].Seq != last {
			last = s.Atoms[i].Seq
			seq++
		}
		s.Atoms[i].Seq = seq
	}
}

// Residues returns the number of distinct residues in the structure.
func (s *Structure) Residues() int {
	n := 0
	last := 0
	for i, a := range s.Atoms {
		if i == 0 || a.Seq != last {
			n++
			last = a.Seq
		}
	}
	return n
}

// LastSeq returns the sequence number of the final residue, or 0 when empty.
func (s *Structure) LastSeq() int {
	if len(s.Atoms) == 0 {
		return 0
	}
	return s.Atoms[len(s.Atoms)-1].Seq
}

// Write serializes the structure as PDB ATOM records followed by TER and END.
func (s *Structure) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, a := range s.Atoms {
		// Columns follow the PDB v3.3 fixed layout for ATOM records.
		_, err := fmt.Fprintf(bw, "ATOM  %5d %-4s %3s %s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f\n",
			i+1, padAtomName(a.Name), a.Residue, "A", a.Seq, a.X, a.Y, a.Z, 1.0, 0.0)
		if err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(bw, "TER"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(bw, "END"); err != nil {
		return err
	}
	return bw.Flush()
}

// String returns the PDB text for the structure.
func (s *Structure) String() string {
	var b strings.Builder
	_ = s.Write(&b)
	return b.String()
}

// Parse reads ATOM records from r. Non-ATOM lines are skipped.
func Parse(r io.Reader) (Structure, error) {
	var s Structure
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "ATOM") || len(line) < 54 {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
		if err != nil {
			return Structure{}, fmt.Errorf("pdb: bad residue number: %w", err)
		}
		var coord [3]float64
		for i, span := range [][2]int{{30, 38}, {38, 46}, {46, 54}} {
			v, err := strconv.ParseFloat(strings.TrimSpace(line[span[0]:span[1]]), 64)
			if err != nil {
				return Structure{}, fmt.Errorf("pdb: bad coordinate: %w", err)
			}
			coord[i] = v
		}
		s.Atoms = append(s.Atoms, Atom{
			Name:    strings.TrimSpace(line[12:16]),
			Residue: strings.TrimSpace(line[17:20]),
			Seq:     seq,
			X:       coord[0],
			Y:       coord[1],
			Z:       coord[2],
		})
	}
	if err := sc.Err(); err != nil {
		return Structure{}, err
	}
	return s, nil
}

// padAtomName formats an atom name into the four-column PDB field. Names of
// up to three characters are indented one space per convention.
func padAtomName(name string) string {
	if len(name) < 4 {
		return " " + name
	}
	return name
}
