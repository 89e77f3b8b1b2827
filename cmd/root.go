// Package cmd is for command line interactions with alasca
package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/emainas/alasca/config"
	"github.com/emainas/alasca/internal/cpptraj"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "alasca",
	Short: "Find the residues a ligand contacts and mutate them with cpptraj",
	Long: `
alasca wraps AmberTools' cpptraj for alanine scanning.

'alasca contacts' finds the non-native contacts between a ligand and a protein
over a trajectory and lists the protein residues in contact for a minimum
fraction of frames. 'alasca mutate' truncates each residue in a list to ALA
(or another residue), writing one PDB per residue.

Both read their settings from a YAML config passed with -i. Results are written
to result/<config name>/.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// newRunner returns the Runner that the pipelines call cpptraj through
var newRunner = func(conf config.Config) cpptraj.Runner {
	return cpptraj.Exec{Binary: conf.Cpptraj, Verbose: conf.Verbose}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
//
// If cpptraj fails in a way that stops a pipeline, its stderr is written
// as is and alasca exits with cpptraj's exit status
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exitErr *cpptraj.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprint(os.Stderr, exitErr.Stderr)
	} else {
		log.Print(err)
	}
	os.Exit(exitCode(err))
}

// exitCode is the process exit status for an error returned by a command
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *cpptraj.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

// loadConfig reads the config passed to a command with -i
func loadConfig(cmd *cobra.Command, p config.Pipeline) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}

	return config.Load(path, p, cmd.Flags())
}

// deferred returns whether the config hands the run off to the batch
// scheduler, in which case nothing is run locally
//
// TODO: write and sbatch a job script that calls alasca on a compute node
func deferred(cmd *cobra.Command, conf config.Config) bool {
	if !conf.UseSlurm() {
		return false
	}

	fmt.Fprintf(cmd.OutOrStdout(), "slurm submission requested for %s; not running locally\n", conf.Path)
	return true
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print each cpptraj script before it runs")
	rootCmd.PersistentFlags().String("cpptraj", "cpptraj", "path to the cpptraj executable")
}
