package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholartools/shrew/internal/engine"
)

var (
	notesSet   string
	notesStdin bool
)

func init() {
	notesCmd.Flags().StringVar(&notesSet, "set", "", "Replace the document's notes with this text")
	notesCmd.Flags().BoolVar(&notesStdin, "stdin", false, "Replace the document's notes with text read from stdin")
	rootCmd.AddCommand(notesCmd)
}

// NotesResponse is the notes command's JSON output.
type NotesResponse struct {
	DOI   string `json:"doi"`
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Notes string `json:"notes"`
}

var notesCmd = &cobra.Command{
	Use:   "notes <doi>",
	Short: "Show or update a library document's notes",
	Long: `Show the notes stored for the document, or replace them with
--set or --stdin. Updates sync the library afterwards so the change is
visible to subsequent lookups.

Examples:
  shrew notes 10.1038/nature12373
  shrew notes 10.1038/nature12373 --set "re-read for methods section"
  cat notes.txt | shrew notes 10.1038/nature12373 --stdin`,
	Args: cobra.ExactArgs(1),
	RunE: runNotes,
}

func runNotes(cmd *cobra.Command, args []string) error {
	if notesSet != "" && notesStdin {
		return fmt.Errorf("--set and --stdin are mutually exclusive")
	}

	a := mustApp()
	defer a.close()

	doc, err := a.engine.Notes(cmd.Context(), args[0])
	if errors.Is(err, engine.ErrDocumentNotFound) {
		exitWithError(ExitNotFound, "document not found in library: %s", args[0])
	}
	if err != nil {
		exitWithError(exitCodeFor(err), "fetching %s: %v", args[0], err)
	}
	a.remember(args[0])

	if notesSet != "" || notesStdin {
		notes := notesSet
		if notesStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitWithError(ExitError, "reading stdin: %v", err)
			}
			notes = string(data)
		}
		if err := a.engine.SaveNotes(cmd.Context(), doc.ID, notes); err != nil {
			exitWithError(exitCodeFor(err), "saving notes: %v", err)
		}
		doc.Notes = notes
	}

	if humanOutput {
		if doc.Title != "" {
			fmt.Printf("%s\n\n", doc.Title)
		}
		fmt.Println(doc.Notes)
		return nil
	}
	return outputJSON(NotesResponse{DOI: args[0], ID: doc.ID, Title: doc.Title, Notes: doc.Notes})
}
