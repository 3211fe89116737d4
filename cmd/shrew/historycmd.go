package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

// HistoryResponse is the history command's JSON output.
type HistoryResponse struct {
	Entries []string `json:"entries"`
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently used identifiers",
	Long:  `Show the identifiers recent commands worked with, most recent first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	if humanOutput {
		for i, entry := range a.hist.Entries {
			fmt.Printf("%2d. %s\n", i+1, entry)
		}
		return nil
	}
	entries := a.hist.Entries
	if entries == nil {
		entries = []string{}
	}
	return outputJSON(HistoryResponse{Entries: entries})
}
