package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholartools/shrew/internal/engine"
)

func init() {
	rootCmd.AddCommand(trashCmd)
}

var trashCmd = &cobra.Command{
	Use:   "trash <doi>",
	Short: "Move a paper from your library to the trash",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrash,
}

func runTrash(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	status, err := a.engine.Trash(cmd.Context(), args[0])
	if errors.Is(err, engine.ErrDocumentNotFound) {
		if humanOutput {
			fmt.Println("Document not found in library.")
			return nil
		}
		return outputJSON(StatusResponse{Status: "not_found", DOI: args[0]})
	}
	if err != nil {
		exitWithError(exitCodeFor(err), "trashing %s: %v", args[0], err)
	}
	a.remember(args[0])

	if humanOutput {
		fmt.Printf("Trashed %s (%s)\n", args[0], status)
		return nil
	}
	return outputJSON(StatusResponse{Status: status.String(), DOI: args[0]})
}
