package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholartools/shrew/internal/engine"
)

func init() {
	rootCmd.AddCommand(addAllCmd)
}

// AddAllResponse summarizes a batch add for output.
type AddAllResponse struct {
	Added    int               `json:"added"`
	Skipped  int               `json:"skipped"`
	Failures []BatchFailureOut `json:"failures,omitempty"`
	Records  []RecordResponse  `json:"records"`
}

// BatchFailureOut is one failed add in batch output.
type BatchFailureOut struct {
	Index int    `json:"index"`
	DOI   string `json:"doi,omitempty"`
	Error string `json:"error"`
}

var addAllCmd = &cobra.Command{
	Use:   "add-all <doi>",
	Short: "Add every reference of a paper to your library",
	Long: `Resolve the paper's reference list and add every entry that
carries a DOI to your library, one at a time. References the local cache
already knows to be in the library are skipped without a round trip.
Individual failures
never abort the batch; after the full pass one library sync runs and
every entry is reclassified.`,
	Args: cobra.ExactArgs(1),
	RunE: runAddAll,
}

func runAddAll(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	doi := args[0]
	if _, err := a.engine.Resolve(cmd.Context(), doi, engine.KindDOI); err != nil {
		exitWithError(exitCodeFor(err), "getting references for %s: %v", doi, err)
	}
	a.remember(doi)

	result, err := a.engine.BatchAddAll(cmd.Context(), doi)
	if err != nil {
		// The partial result is still worth showing.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	if humanOutput {
		fmt.Printf("Added %d, skipped %d, failed %d\n", result.Added, result.Skipped, len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  reference %d (%s): %v\n", f.Index, f.DOI, f.Err)
		}
		printRecordsHuman(a.engine.Records())
		return nil
	}

	resp := AddAllResponse{
		Added:   result.Added,
		Skipped: result.Skipped,
		Records: buildRecordResponses(a.engine.Records()),
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, BatchFailureOut{Index: f.Index, DOI: f.DOI, Error: f.Err.Error()})
	}
	return outputJSON(resp)
}
