package cmd

import (
	"github.com/emainas/alasca/config"
	"github.com/emainas/alasca/internal/contacts"
	"github.com/spf13/cobra"
)

// contactsCmd is for finding the residues in contact with a ligand
var contactsCmd = &cobra.Command{
	Use:                        "contacts",
	Short:                      "Find the non-native contacts between two masks over a trajectory",
	RunE:                       runContacts,
	Args:                       cobra.NoArgs,
	SuggestionsMinimumDistance: 2,
	Long: `
Run cpptraj's nativecontacts between ligand_mask and protein_mask over the
trajectory and reduce its contact table to:

  contacts_txt   every contact, without the table's comment lines
  fraction_txt   the contacts present in at least 'fraction' of the frames
  resid_txt      the protein residue IDs in fraction_txt, sorted

If cpptraj fails, its error is printed and alasca exits with cpptraj's status.`,
	Example: `  alasca contacts -i mon.yaml

where mon.yaml is:

  parmfile: mon.prmtop
  trajfile: mon_prod.nc
  ligand_mask: ":170"
  protein_mask: ":1-169"
  distance: 3.0
  fraction: 0.5`,
}

func runContacts(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(cmd, config.Contacts)
	if err != nil {
		return err
	}
	if deferred(cmd, conf) {
		return nil
	}

	_, err = contacts.Run(newRunner(conf), conf, cmd.OutOrStdout())
	return err
}

// set flags
func init() {
	contactsCmd.Flags().StringP("config", "i", "", "YAML config file")
	contactsCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(contactsCmd)
}
