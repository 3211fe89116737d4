package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [doi]",
	Short: "Sync with the library backend",
	Long: `Flush pending library changes so lookups see a consistent view.
With a DOI argument, the paper is reclassified after the sync and its
fresh status reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	if err := a.engine.Resync(cmd.Context()); err != nil {
		exitWithError(exitCodeFor(err), "syncing library: %v", err)
	}

	if len(args) == 0 {
		if humanOutput {
			fmt.Println("Library synced.")
			return nil
		}
		return outputJSON(StatusResponse{Status: "synced"})
	}

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
