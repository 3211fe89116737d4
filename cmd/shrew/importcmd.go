package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholartools/shrew/internal/pdf"
)

var importAdd bool

func init() {
	importCmd.Flags().BoolVar(&importAdd, "add", false, "Add the paper to your library after identification")
	rootCmd.AddCommand(importCmd)
}

// ImportResponse is the import command's JSON output.
type ImportResponse struct {
	File   string `json:"file"`
	DOI    string `json:"doi"`
	Status string `json:"status"`
}

var importCmd = &cobra.Command{
	Use:   "import <file.pdf>",
	Short: "Identify a paper from a PDF on disk",
	Long: `Scan the first pages of the PDF for a DOI, then check the library
for the identified paper. With --add, a paper not yet in the library is
added.

Examples:
  shrew import ~/Downloads/paper.pdf
  shrew import --add ~/Downloads/paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	doi, err := pdf.ExtractDOI(args[0])
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", args[0], err)
	}
	if doi == "" {
		exitWithError(ExitNotFound, "no DOI found in %s", args[0])
	}

	cd, err := a.engine.ClassifyCitingDocument(cmd.Context(), doi)
	if err != nil {
		exitWithError(exitCodeFor(err), "checking %s: %v", doi, err)
	}
	a.remember(doi)

	if importAdd && !cd.Status.InLibrary() {
		if err := a.library.AddDocument(cmd.Context(), doi); err != nil {
			exitWithError(exitCodeFor(err), "adding %s: %v", doi, err)
		}
		cd, err = a.engine.ClassifyCitingDocument(cmd.Context(), doi)
		if err != nil {
			exitWithError(exitCodeFor(err), "checking %s: %v", doi, err)
		}
	}

	if humanOutput {
		fmt.Printf("%s %s: %s\n", statusGlyph(cd.Status), doi, cd.Status)
		return nil
	}
	return outputJSON(ImportResponse{File: args[0], DOI: doi, Status: cd.Status.String()})
}
