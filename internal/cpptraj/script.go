package cpptraj

import (
	"fmt"
	"strconv"
	"strings"
)

// ContactsInput is the set of values for a nativecontacts run
type ContactsInput struct {
	// Topology is the path to the parm file
	Topology string

	// Trajectory is the path to the trajectory read with trajin
	Trajectory string

	// MaskA and MaskB are the two groups contacts are measured between
	MaskA string
	MaskB string

	// Distance is the contact cutoff in angstroms
	Distance float64

	// Out is the file cpptraj writes the contact table to
	Out string
}

// ContactsScript returns a script that finds the non-native contacts
// between the two masks over the trajectory and writes them to in.Out
func ContactsScript(in ContactsInput) string {
	return fmt.Sprintf(`
parm %s
trajin %s
nativecontacts name NC1 %s %s \
    writecontacts %s \
    distance %s \
    skipnative
go
`, in.Topology, in.Trajectory, in.MaskA, in.MaskB, in.Out, formatFloat(in.Distance))
}

// MutateInput is the set of values for mutating one residue
type MutateInput struct {
	// Structure is the PDB that's loaded and edited
	Structure string

	// Residue is the ID of the residue to mutate
	Residue string

	// Resname is the residue name it's changed to
	Resname string

	// Out is the mutated PDB's path
	Out string
}

// MutateScript returns a script that renames a residue and strips its side
// chain back to CB. The backbone (N, CA, C, O) and CB are kept
func MutateScript(in MutateInput) string {
	return fmt.Sprintf(`
parm %[1]s
loadcrd %[1]s name edited
change crdset edited resname from :%[2]s to %[3]s
crdaction edited strip :%[2]s&!(@N,CA,C,O,CB)
crdout edited %[4]s
go
`, in.Structure, in.Residue, in.Resname, in.Out)
}

// formatFloat writes a float with at least one decimal, eg: 3 -> "3.0"
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
