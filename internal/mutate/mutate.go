// Package mutate is for truncating residues of a structure, one PDB per
// residue, eg: an alanine scan of the residues found by `alasca contacts`
package mutate

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/emainas/alasca/config"
	"github.com/emainas/alasca/internal/cpptraj"
)

// Failure is a residue that cpptraj couldn't mutate
type Failure struct {
	Residue string
	Err     error
}

// Report is the outcome of a Batch
type Report struct {
	// Renumbered is the path to the renumbered input structure
	Renumbered string

	// Atoms is the number of records that were renumbered
	Atoms int

	// Mutated are the paths of the mutated PDBs, in residue order
	Mutated []string

	// Failed are the residues cpptraj exited non-zero on
	Failed []Failure
}

// Batch is the `alasca mutate` pipeline. The configured PDB is renumbered
// into the mutation dir and each residue in the residue file is mutated,
// in order, from the renumbered copy.
//
// A residue that cpptraj fails on is logged and added to Report.Failed,
// the rest of the residues are still run. Failing to renumber or to read
// the residue list is returned as an error
func Batch(r cpptraj.Runner, conf config.Config, w io.Writer) (Report, error) {
	dir := conf.MutationDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Report{}, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(conf.PDBFile), filepath.Ext(conf.PDBFile))
	report := Report{Renumbered: filepath.Join(dir, stem+"_renumbered.pdb")}

	atoms, err := Renumber(conf.Structure(), report.Renumbered)
	if err != nil {
		return report, err
	}
	report.Atoms = atoms
	fmt.Fprintf(w, "Renumbered PDB written to %s\n", report.Renumbered)

	resids, err := ReadResidues(conf.ResidFile)
	if err != nil {
		return report, err
	}

	for _, id := range resids {
		out, err := Residue(r, report.Renumbered, id, dir, conf.MutationResname)
		if err != nil {
			log.Printf("failed to mutate residue %s: %v", id, err)
			report.Failed = append(report.Failed, Failure{Residue: id, Err: err})
			continue
		}

		fmt.Fprintf(w, "Wrote mutated PDB: %s\n", out)
		report.Mutated = append(report.Mutated, out)
	}

	return report, nil
}

// Residue mutates one residue of the structure to resname with cpptraj,
// keeping only the backbone and CB of its side chain. The result is
// written to outputDir/mutated_<resid>.pdb and its path is returned
func Residue(r cpptraj.Runner, structure, resid, outputDir, resname string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir %s: %w", outputDir, err)
	}

	out := filepath.Join(outputDir, fmt.Sprintf("mutated_%s.pdb", resid))
	_, err := r.Run(cpptraj.MutateScript(cpptraj.MutateInput{
		Structure: structure,
		Residue:   resid,
		Resname:   resname,
		Out:       out,
	}))
	if err != nil {
		return "", err
	}

	return out, nil
}

// ReadResidues returns the residue IDs in a newline separated file, in
// file order. Blank lines are skipped
func ReadResidues(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open residue list: %w", err)
	}
	defer f.Close()

	var resids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			resids = append(resids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read residue list %s: %w", path, err)
	}

	return resids, nil
}
