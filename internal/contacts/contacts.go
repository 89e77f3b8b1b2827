// Package contacts is for finding the non-native contacts between two
// groups over a trajectory and reducing cpptraj's contact table to the
// residues that are in contact often enough
package contacts

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/emainas/alasca/config"
	"github.com/emainas/alasca/internal/cpptraj"
)

// DefaultRaw is the name of cpptraj's contact table if one isn't set
const DefaultRaw = "native-contacts.dat"

// Options is the set of outputs and the threshold for PostProcess
type Options struct {
	// Dir is the directory the three output files are written to
	Dir string

	// ContactsTxt is the contact table without its comment lines
	ContactsTxt string

	// FractionTxt is the contacts at or above Fraction
	FractionTxt string

	// ResidTxt is the sorted list of residue IDs from FractionTxt
	ResidTxt string

	// Fraction is the minimum fraction of frames for a contact to be kept
	Fraction float64
}

// Summary is what PostProcess wrote
type Summary struct {
	// Contacts is the number of data lines in the contact table
	Contacts int

	// Filtered is the number of contacts at or above the threshold
	Filtered int

	// Residues are the distinct residue IDs, in ascending order
	Residues []string
}

// Run is the `alasca contacts` pipeline: cpptraj's nativecontacts
// followed by PostProcess. Everything is written to the config's result
// dir. Nothing is post-processed if cpptraj fails
func Run(r cpptraj.Runner, conf config.Config, w io.Writer) (Summary, error) {
	dir := conf.ResultDir()

	raw, err := RunExternal(r, w, cpptraj.ContactsInput{
		Topology:   conf.Topology(),
		Trajectory: conf.Trajectory(),
		MaskA:      conf.LigandMask,
		MaskB:      conf.ProteinMask,
		Distance:   conf.Distance,
		Out:        conf.ContactsDat,
	}, dir)
	if err != nil {
		return Summary{}, err
	}

	return PostProcess(raw, Options{
		Dir:         dir,
		ContactsTxt: conf.ContactsTxt,
		FractionTxt: conf.FractionTxt,
		ResidTxt:    conf.ResidTxt,
		Fraction:    conf.Fraction,
	}, w)
}

// RunExternal creates outputDir and runs nativecontacts between the two
// masks. in.Out is the name of the contact table inside outputDir.
// cpptraj's stdout is copied to w and the table's path is returned.
// If cpptraj exits non-zero the *cpptraj.ExitError is returned as is
func RunExternal(r cpptraj.Runner, w io.Writer, in cpptraj.ContactsInput, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir %s: %w", outputDir, err)
	}

	name := in.Out
	if name == "" {
		name = DefaultRaw
	}
	in.Out = filepath.Join(outputDir, name)

	res, err := r.Run(cpptraj.ContactsScript(in))
	if err != nil {
		return "", err
	}
	fmt.Fprint(w, res.Stdout)

	return in.Out, nil
}

// PostProcess reads cpptraj's contact table at raw and writes:
//
//	ContactsTxt: every line that isn't a comment
//	FractionTxt: the lines whose 4th column is >= Fraction
//	ResidTxt: the residue IDs of the second group in FractionTxt, one per line
//
// Lines are copied verbatim and keep their order. Residue IDs are
// deduplicated and sorted by their integer value
func PostProcess(raw string, opts Options, w io.Writer) (Summary, error) {
	lines, err := readLines(raw)
	if err != nil {
		return Summary{}, err
	}

	var data []string
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		data = append(data, line)
	}

	filtered, err := filter(data, opts.Fraction)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to filter %s: %w", raw, err)
	}

	resids, err := residues(filtered)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to parse residues in %s: %w", raw, err)
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return Summary{}, fmt.Errorf("failed to create output dir %s: %w", opts.Dir, err)
	}

	residPath := filepath.Join(opts.Dir, opts.ResidTxt)
	outputs := []struct {
		path  string
		lines []string
	}{
		{filepath.Join(opts.Dir, opts.ContactsTxt), data},
		{filepath.Join(opts.Dir, opts.FractionTxt), filtered},
		{residPath, withNewlines(resids)},
	}
	for _, out := range outputs {
		if err := os.WriteFile(out.path, []byte(strings.Join(out.lines, "")), 0644); err != nil {
			return Summary{}, fmt.Errorf("failed to write %s: %w", out.path, err)
		}
	}

	if len(filtered) == 0 {
		log.Printf("warning: no contacts in %s at or above a fraction of %v", raw, opts.Fraction)
	}
	fmt.Fprintf(w, "Wrote %d residues to %s\n", len(resids), residPath)

	return Summary{
		Contacts: len(data),
		Filtered: len(filtered),
		Residues: resids,
	}, nil
}

// readLines returns every line in the file with its line ending
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open contact table: %w", err)
	}
	defer f.Close()

	var lines []string
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
}

// filter returns the lines with a contact fraction >= threshold. Blank
// lines are skipped; a line with fewer than four columns is an error
func filter(lines []string, threshold float64) ([]string, error) {
	var kept []string
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d has %d columns, expected at least 4: %q", i+1, len(fields), strings.TrimSpace(line))
		}

		frac, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d has an invalid fraction %q: %w", i+1, fields[3], err)
		}
		if frac >= threshold {
			kept = append(kept, line)
		}
	}
	return kept, nil
}

// residues returns the distinct residue IDs in the second column of
// the lines, sorted by their integer value
func residues(lines []string) ([]string, error) {
	type resid struct {
		id  string
		num int
	}

	seen := make(map[string]bool)
	var ids []resid
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		id := residueID(fields[1])
		if seen[id] {
			continue
		}
		seen[id] = true

		num, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("invalid residue ID %q in %q: %w", id, fields[1], err)
		}
		ids = append(ids, resid{id, num})
	}

	sort.Slice(ids, func(i, j int) bool {
		if ids[i].num != ids[j].num {
			return ids[i].num < ids[j].num
		}
		return ids[i].id < ids[j].id
	})

	out := make([]string, len(ids))
	for i, r := range ids {
		out[i] = r.id
	}
	return out, nil
}

// residueID takes the residue number from a contact label, eg:
// "LIG_:12@CA" -> "12"
func residueID(label string) string {
	if i := strings.LastIndex(label, "_:"); i >= 0 {
		label = label[i+2:]
	}
	if i := strings.Index(label, "@"); i >= 0 {
		label = label[:i]
	}
	return label
}

// withNewlines ends each line with a newline
func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
