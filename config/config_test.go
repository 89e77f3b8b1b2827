package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

// writeConfig writes a YAML config to a temp dir and returns its path
func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_contactsDefaults(t *testing.T) {
	p := writeConfig(t, "mon.yaml", `
parmfile: mon.prmtop
trajfile: mon_prod.nc
ligand_mask: ":170"
protein_mask: ":1-169"
`)

	got, err := Load(p, Contacts, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		ContactsConfig: ContactsConfig{
			ParmFile:    "mon.prmtop",
			TrajFile:    "mon_prod.nc",
			LigandMask:  ":170",
			ProteinMask: ":1-169",
			Distance:    3.0,
			Fraction:    0.5,
			ContactsDat: "native-contacts.dat",
			ContactsTxt: "contacts2.txt",
			FractionTxt: "fraction.txt",
			ResidTxt:    "2-resids.txt",
		},
		MutateConfig: MutateConfig{
			MutationResname: "ALA",
		},
		Path:       p,
		Slurm:      "no",
		InitialDir: "initial_files",
		Cpptraj:    "cpptraj",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if got.UseSlurm() {
		t.Error("UseSlurm() = true for the default config")
	}
	if dir := got.ResultDir(); dir != filepath.Join("result", "mon") {
		t.Errorf("ResultDir() = %s", dir)
	}
	if top := got.Topology(); top != filepath.Join("initial_files", "mon.prmtop") {
		t.Errorf("Topology() = %s", top)
	}
}

func TestLoad_overrides(t *testing.T) {
	p := writeConfig(t, "run2.yml", `
slurm: "yes"
initial_dir: inputs
pdbfile: complex.pdb
resid_file: result/run1/2-resids.txt
mutation_resname: GLY
distance: 4
fraction: 0.25
`)

	got, err := Load(p, Mutate, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !got.UseSlurm() {
		t.Error("UseSlurm() = false, want true")
	}
	if got.MutationResname != "GLY" {
		t.Errorf("MutationResname = %s, want GLY", got.MutationResname)
	}
	if got.Distance != 4.0 || got.Fraction != 0.25 {
		t.Errorf("Distance, Fraction = %v, %v", got.Distance, got.Fraction)
	}
	if s := got.Structure(); s != filepath.Join("inputs", "complex.pdb") {
		t.Errorf("Structure() = %s", s)
	}
	if dir := got.MutationDir(); dir != filepath.Join("result", "run2", "mutations") {
		t.Errorf("MutationDir() = %s", dir)
	}
}

func TestLoad_flags(t *testing.T) {
	p := writeConfig(t, "mut.yaml", "pdbfile: a.pdb\nresid_file: r.txt\ncpptraj: /opt/amber/bin/cpptraj\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verbose", false, "")
	flags.String("cpptraj", "cpptraj", "")
	if err := flags.Parse([]string{"--verbose"}); err != nil {
		t.Fatal(err)
	}

	got, err := Load(p, Mutate, flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Verbose {
		t.Error("Verbose = false, want the flag's value")
	}
	if got.Cpptraj != "/opt/amber/bin/cpptraj" {
		t.Errorf("Cpptraj = %s, an unset flag shouldn't override the file", got.Cpptraj)
	}
}

func TestLoad_errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		pipeline Pipeline
		key      string
	}{
		{
			"contacts without a trajectory",
			"parmfile: a.prmtop\nligand_mask: ':1'\nprotein_mask: ':2-9'\n",
			Contacts,
			"trajfile",
		},
		{
			"contacts without masks",
			"parmfile: a.prmtop\ntrajfile: a.nc\n",
			Contacts,
			"ligand_mask",
		},
		{
			"mutate without a residue list",
			"pdbfile: a.pdb\n",
			Mutate,
			"resid_file",
		},
		{
			"mutate config passed to contacts",
			"pdbfile: a.pdb\nresid_file: r.txt\n",
			Contacts,
			"parmfile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeConfig(t, "c.yaml", tt.contents)

			_, err := Load(p, tt.pipeline, nil)
			var missing *MissingKeyError
			if !errors.As(err, &missing) {
				t.Fatalf("Load() error = %v, want a *MissingKeyError", err)
			}
			if missing.Key != tt.key {
				t.Errorf("missing key = %s, want %s", missing.Key, tt.key)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), Contacts, nil); err == nil {
		t.Error("Load() of a missing file returned no error")
	}

	bad := writeConfig(t, "bad.yaml", "parmfile: [unterminated\n")
	if _, err := Load(bad, Contacts, nil); err == nil {
		t.Error("Load() of malformed YAML returned no error")
	}
}

func TestConfig_UseSlurm(t *testing.T) {
	tests := []struct {
		slurm string
		want  bool
	}{
		{"yes", true},
		{"YES", true},
		{"1", true},
		{"true", true},
		{"no", false},
		{"0", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := (Config{Slurm: tt.slurm}).UseSlurm(); got != tt.want {
			t.Errorf("Config{Slurm: %q}.UseSlurm() = %v, want %v", tt.slurm, got, tt.want)
		}
	}
}
