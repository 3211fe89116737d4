package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholartools/shrew/internal/engine"
)

var removeRefIndex int

func init() {
	removeCmd.Flags().IntVar(&removeRefIndex, "ref", 0, "Reference number to remove (required)")
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove --ref N <doi>",
	Short: "Remove a cached reference of a paper",
	Long: `Remove reference N of the paper from the local reference cache, so
it stops appearing in forward-citation results. The remote library is
untouched; use trash to remove a document from the library itself.

Examples:
  shrew remove --ref 12 10.1038/nature12373`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	if removeRefIndex <= 0 {
		return fmt.Errorf("--ref must name a reference number")
	}

	a := mustApp()
	defer a.close()

	doi := args[0]
	records, err := a.engine.Resolve(cmd.Context(), doi, engine.KindDOI)
	if err != nil {
		exitWithError(exitCodeFor(err), "getting references for %s: %v", doi, err)
	}
	if removeRefIndex > len(records) {
		exitWithError(ExitError, "paper has %d references, no reference %d", len(records), removeRefIndex)
	}
	rec := records[removeRefIndex-1]

	if err := a.engine.RemoveReference(rec, doi); err != nil {
		exitWithError(exitCodeFor(err), "removing reference %d of %s: %v", removeRefIndex, doi, err)
	}
	a.remember(doi)

	if humanOutput {
		fmt.Printf("Removed reference %d: %s\n", removeRefIndex, rec.ShortText)
		return nil
	}
	return outputJSON(StatusResponse{Status: "removed", DOI: rec.DOI})
}
