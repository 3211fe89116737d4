package main

import (
	"github.com/spf13/cobra"

	"github.com/scholartools/shrew/internal/engine"
)

var refsKind string

func init() {
	refsCmd.Flags().StringVar(&refsKind, "kind", "doi", "Identifier kind: doi, pmid, url, fulltext")
	rootCmd.AddCommand(refsCmd)
}

var refsCmd = &cobra.Command{
	Use:   "refs <identifier>",
	Short: "Fetch and classify a paper's reference list",
	Long: `Fetch the reference list of the paper named by the identifier,
classify every entry that carries a DOI against your library, and cache
the list locally.

Status markers in --human output:
  [+]  in library with file attached
  [o]  in library without a file
  [-]  not in library
  [?]  no DOI, or the lookup failed

Examples:
  shrew refs 10.1038/nature12373
  shrew refs 19872477 --kind pmid`,
	Args: cobra.ExactArgs(1),
	RunE: runRefs,
}

func runRefs(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	records, err := a.engine.Resolve(cmd.Context(), args[0], engine.IDKind(refsKind))
	if err != nil {
		exitWithError(exitCodeFor(err), "getting references for %s: %v", args[0], err)
	}
	a.remember(args[0])

	if humanOutput {
		printRecordsHuman(records)
		return nil
	}
	return outputJSON(buildRecordResponses(records))
}
