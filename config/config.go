// Package config is for the run settings that are read from a YAML file
// with Viper and decoded into a Config
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Pipeline is the alasca subcommand a Config is loaded for. It decides
// which keys are required
type Pipeline int

const (
	// Contacts is the non-native contacts pipeline
	Contacts Pipeline = iota

	// Mutate is the residue mutation pipeline
	Mutate
)

func (p Pipeline) String() string {
	switch p {
	case Contacts:
		return "contacts"
	case Mutate:
		return "mutate"
	}
	return fmt.Sprintf("Pipeline(%d)", int(p))
}

// EnvPrefix is prepended to every key when looking for an environment
// override, eg: ALASCA_CPPTRAJ=/opt/amber/bin/cpptraj
const EnvPrefix = "ALASCA"

// defaults for optional keys
var defaults = map[string]interface{}{
	"slurm":            "no",
	"initial_dir":      "initial_files",
	"cpptraj":          "cpptraj",
	"verbose":          false,
	"distance":         3.0,
	"fraction":         0.5,
	"contacts_dat":     "native-contacts.dat",
	"contacts_txt":     "contacts2.txt",
	"fraction_txt":     "fraction.txt",
	"resid_txt":        "2-resids.txt",
	"mutation_resname": "ALA",
}

// required keys per pipeline, in the order they're checked
var required = map[Pipeline][]string{
	Contacts: {"parmfile", "trajfile", "ligand_mask", "protein_mask"},
	Mutate:   {"pdbfile", "resid_file"},
}

// ContactsConfig is settings for `alasca contacts`
type ContactsConfig struct {
	// topology file name (.prmtop), relative to the initial dir
	ParmFile string `mapstructure:"parmfile"`

	// trajectory file name (.nc), relative to the initial dir
	TrajFile string `mapstructure:"trajfile"`

	// first selection mask, the group contacts are measured from
	LigandMask string `mapstructure:"ligand_mask"`

	// second selection mask. Residue IDs are taken from this group
	ProteinMask string `mapstructure:"protein_mask"`

	// distance cutoff for a contact in angstroms
	Distance float64 `mapstructure:"distance"`

	// minimum fraction of frames a contact has to be present in
	Fraction float64 `mapstructure:"fraction"`

	// name of cpptraj's raw contact table
	ContactsDat string `mapstructure:"contacts_dat"`

	// output file names, all written to the result dir
	ContactsTxt string `mapstructure:"contacts_txt"`
	FractionTxt string `mapstructure:"fraction_txt"`
	ResidTxt    string `mapstructure:"resid_txt"`
}

// MutateConfig is settings for `alasca mutate`
type MutateConfig struct {
	// structure file name, relative to the initial dir
	PDBFile string `mapstructure:"pdbfile"`

	// path to a newline separated list of residue IDs to mutate
	ResidFile string `mapstructure:"resid_file"`

	// residue name every target is mutated to
	MutationResname string `mapstructure:"mutation_resname"`
}

// Config is the root-level settings struct. It's a mix of the settings
// in a YAML file, environment overrides and command line flags
type Config struct {
	ContactsConfig `mapstructure:",squash"`
	MutateConfig   `mapstructure:",squash"`

	// Path is the YAML file the Config was read from
	Path string `mapstructure:"-"`

	// Slurm is whether to hand the run off to the batch scheduler
	Slurm string `mapstructure:"slurm"`

	// InitialDir is the directory with the input structure files
	InitialDir string `mapstructure:"initial_dir"`

	// Cpptraj is the path to the cpptraj executable
	Cpptraj string `mapstructure:"cpptraj"`

	// Verbose is whether cpptraj scripts are echoed to stderr
	Verbose bool `mapstructure:"verbose"`
}

// MissingKeyError is returned by Load when a key required by the
// pipeline is absent from the config file
type MissingKeyError struct {
	Path string
	Key  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("config %s: missing required key %q", e.Path, e.Key)
}

// Load reads the YAML file at path and returns its Config, checking
// that every key required by the pipeline is set. Flags, if not nil,
// are bound to the keys of the same name ("verbose", "cpptraj") and
// win over the file when set on the command line
func Load(path string, p Pipeline, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)

	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for _, keys := range required {
		for _, key := range keys {
			if err := v.BindEnv(key); err != nil {
				return Config{}, err
			}
		}
	}
	v.AutomaticEnv()

	if flags != nil {
		for _, name := range []string{"verbose", "cpptraj"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	c.Path = path

	if err := c.Validate(p); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate returns a *MissingKeyError for the first key the pipeline
// needs that's empty
func (c Config) Validate(p Pipeline) error {
	values := map[string]string{
		"parmfile":     c.ParmFile,
		"trajfile":     c.TrajFile,
		"ligand_mask":  c.LigandMask,
		"protein_mask": c.ProteinMask,
		"pdbfile":      c.PDBFile,
		"resid_file":   c.ResidFile,
	}

	for _, key := range required[p] {
		if strings.TrimSpace(values[key]) == "" {
			return &MissingKeyError{Path: c.Path, Key: key}
		}
	}
	return nil
}

// UseSlurm returns whether the config asks for the run to be deferred to
// the batch scheduler. Unquoted YAML booleans are decoded as "1"/"0"
func (c Config) UseSlurm() bool {
	switch strings.ToLower(strings.TrimSpace(c.Slurm)) {
	case "yes", "y", "true", "on", "1":
		return true
	}
	return false
}

// Name is the config file's base name without its extension
func (c Config) Name() string {
	base := filepath.Base(c.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ResultDir is where the contacts pipeline writes: result/<name>
func (c Config) ResultDir() string {
	return filepath.Join("result", c.Name())
}

// MutationDir is where the mutation pipeline writes: result/<name>/mutations
func (c Config) MutationDir() string {
	return filepath.Join(c.ResultDir(), "mutations")
}

// Topology is the path to the parm file
func (c Config) Topology() string {
	return filepath.Join(c.InitialDir, c.ParmFile)
}

// Trajectory is the path to the trajectory file
func (c Config) Trajectory() string {
	return filepath.Join(c.InitialDir, c.TrajFile)
}

// Structure is the path to the PDB file that's renumbered and mutated
func (c Config) Structure() string {
	return filepath.Join(c.InitialDir, c.PDBFile)
}
