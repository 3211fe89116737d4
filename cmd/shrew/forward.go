package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(forwardCmd)
}

var forwardCmd = &cobra.Command{
	Use:   "forward <doi>",
	Short: "List locally recorded papers that cite a DOI",
	Long: `List the papers in your local reference cache known to cite the
DOI. Statuses are whatever was last persisted; no live library lookups
run, so the list is fast but may not be exhaustive.`,
	Args: cobra.ExactArgs(1),
	RunE: runForward,
}

func runForward(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	records, err := a.engine.FollowForward(cmd.Context(), args[0])
	if err != nil {
		exitWithError(exitCodeFor(err), "following %s forward: %v", args[0], err)
	}
	a.remember(args[0])

	if humanOutput {
		if len(records) == 0 {
			fmt.Println("No citing papers recorded locally.")
			return nil
		}
		fmt.Println("Papers in your cache that cite the given DOI (may not be exhaustive):")
		printRecordsHuman(records)
		return nil
	}
	return outputJSON(buildRecordResponses(records))
}
