package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholartools/shrew/internal/engine"
)

func init() {
	rootCmd.AddCommand(resolveDOIsCmd)
}

// ResolveDOIsResponse summarizes a back-fill pass.
type ResolveDOIsResponse struct {
	Found   int              `json:"found"`
	Records []RecordResponse `json:"records"`
}

var resolveDOIsCmd = &cobra.Command{
	Use:   "resolve-dois <doi>",
	Short: "Back-fill missing DOIs for a paper's references",
	Long: `Resolve the paper's reference list and, for every entry without a
DOI, submit its citation text to the resolution service. A recovered
identifier is accepted only when it looks like a real DOI; accepted
identifiers are folded into the cached reference rows, matched by
author and year when authors are known and by title otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolveDOIs,
}

func runResolveDOIs(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	doi := args[0]
	if _, err := a.engine.Resolve(cmd.Context(), doi, engine.KindDOI); err != nil {
		exitWithError(exitCodeFor(err), "getting references for %s: %v", doi, err)
	}
	a.remember(doi)

	found, err := a.engine.BackfillAll(cmd.Context(), doi)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	if humanOutput {
		fmt.Printf("Recovered %d DOIs\n", found)
		printRecordsHuman(a.engine.Records())
		return nil
	}
	return outputJSON(ResolveDOIsResponse{
		Found:   found,
		Records: buildRecordResponses(a.engine.Records()),
	})
}
