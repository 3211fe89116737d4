package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholartools/shrew/internal/engine"
	"github.com/scholartools/shrew/internal/reference"
)

var addRefIndex int

func init() {
	addCmd.Flags().IntVar(&addRefIndex, "ref", 0, "Add reference N of the paper instead of the paper itself")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <doi>",
	Short: "Add a paper (or one of its references) to your library",
	Long: `Add the paper named by the DOI to your library. With --ref N, the
paper's reference list is resolved first and its Nth entry is added
instead; that entry must carry a DOI.

A paper already in the library is reported, not treated as an error.

Examples:
  shrew add 10.1038/nature12373
  shrew add --ref 12 10.1038/nature12373`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	doi := args[0]
	rec := reference.NewRecord(reference.Raw{DOI: doi})
	citingDOI := ""

	if addRefIndex > 0 {
		records, err := a.engine.Resolve(cmd.Context(), doi, engine.KindDOI)
		if err != nil {
			exitWithError(exitCodeFor(err), "getting references for %s: %v", doi, err)
		}
		if addRefIndex > len(records) {
			exitWithError(ExitError, "paper has %d references, no reference %d", len(records), addRefIndex)
		}
		rec = records[addRefIndex-1]
		citingDOI = doi
	}

	err := a.engine.AddToLibrary(cmd.Context(), rec, citingDOI, engine.AddOptions{SuppressPrompts: noPrompt})
	switch {
	case errors.Is(err, engine.ErrAlreadyInLibrary):
		if humanOutput {
			fmt.Println("Paper is already in library.")
			return nil
		}
		return outputJSON(StatusResponse{Status: "already_in_library", DOI: rec.DOI})
	case errors.Is(err, engine.ErrMissingIdentifier):
		exitWithError(ExitError, "no DOI found for this reference")
	case err != nil:
		exitWithError(exitCodeFor(err), "adding %s: %v", rec.DOI, err)
	}
	a.remember(doi)

	if humanOutput {
		fmt.Printf("%s %s: %s\n", statusGlyph(rec.Status), rec.DOI, rec.Status)
		return nil
	}
	return outputJSON(StatusResponse{Status: rec.Status.String(), DOI: rec.DOI})
}
