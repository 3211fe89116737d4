package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <doi>",
	Short: "Check whether a paper is in your library",
	Long: `Check the library for the paper and report its status: present
with a file, present without one, or absent. When the paper is present
without a file you are offered the chance to trash it so a retried add
can fetch the file (suppress with --no-prompt).`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	cd, err := a.engine.ClassifyCitingDocument(cmd.Context(), args[0])
	if err != nil {
		exitWithError(exitCodeFor(err), "checking %s: %v", args[0], err)
	}
	a.remember(args[0])

	if humanOutput {
		fmt.Printf("%s %s: %s\n", statusGlyph(cd.Status), cd.DOI, cd.Status)
		return nil
	}
	return outputJSON(StatusResponse{Status: cd.Status.String(), DOI: cd.DOI})
}
