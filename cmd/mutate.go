package cmd

import (
	"log"

	"github.com/emainas/alasca/config"
	"github.com/emainas/alasca/internal/mutate"
	"github.com/spf13/cobra"
)

// mutateCmd is for mutating each residue in a list, one PDB per residue
var mutateCmd = &cobra.Command{
	Use:                        "mutate",
	Short:                      "Mutate each residue in a list to ALA, one PDB per residue",
	RunE:                       runMutate,
	Args:                       cobra.NoArgs,
	SuggestionsMinimumDistance: 2,
	Aliases:                    []string{"mutation", "scan"},
	Long: `
Renumber the atoms of pdbfile and, for every residue ID in resid_file, write a
copy with that residue renamed to mutation_resname and its side chain cut back
to CB. Residues cpptraj fails on are logged and skipped.`,
	Example: `  alasca mutate -i mon.yaml

where mon.yaml is:

  pdbfile: complex.pdb
  resid_file: result/mon/2-resids.txt
  mutation_resname: ALA`,
}

func runMutate(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(cmd, config.Mutate)
	if err != nil {
		return err
	}
	if deferred(cmd, conf) {
		return nil
	}

	report, err := mutate.Batch(newRunner(conf), conf, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if n := len(report.Failed); n > 0 {
		log.Printf("warning: %d of %d residues failed to mutate", n, n+len(report.Mutated))
	}
	return nil
}

// set flags
func init() {
	mutateCmd.Flags().StringP("config", "i", "", "YAML config file")
	mutateCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(mutateCmd)
}
