package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholartools/shrew/internal/engine"
	"github.com/scholartools/shrew/internal/pdf"
	"github.com/scholartools/shrew/internal/reference"
)

var fetchOutput string

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Destination file (default <doi suffix>.pdf)")
	rootCmd.AddCommand(fetchCmd)
}

// FetchResponse is the fetch command's JSON output.
type FetchResponse struct {
	DOI      string `json:"doi"`
	File     string `json:"file"`
	Verified bool   `json:"verified"` // DOI extracted from the file matches
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <doi>",
	Short: "Download a library document's attached file",
	Long: `Download the file attached to the library document and verify it:
the saved PDF is scanned for a DOI, and a mismatch against the requested
one is reported (the file is kept either way).`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	a := mustApp()
	defer a.close()

	doi := reference.NormalizeDOI(args[0])
	doc, err := a.library.GetDocument(cmd.Context(), doi)
	if errors.Is(err, engine.ErrDocumentNotFound) {
		exitWithError(ExitNotFound, "document not found in library: %s", doi)
	}
	if err != nil {
		exitWithError(exitCodeFor(err), "fetching %s: %v", doi, err)
	}
	if !doc.FileAttached {
		exitWithError(ExitNotFound, "document %s has no file attached", doi)
	}

	dest := fetchOutput
	if dest == "" {
		dest = defaultFileName(doi)
	}
	f, err := os.Create(dest)
	if err != nil {
		exitWithError(ExitError, "creating %s: %v", dest, err)
	}
	if err := a.library.DownloadFile(cmd.Context(), doc.ID, f); err != nil {
		f.Close()
		os.Remove(dest)
		exitWithError(exitCodeFor(err), "downloading file for %s: %v", doi, err)
	}
	if err := f.Close(); err != nil {
		exitWithError(ExitError, "writing %s: %v", dest, err)
	}
	a.remember(doi)

	extracted, err := pdf.ExtractDOI(dest)
	verified := err == nil && extracted == doi
	if err == nil && extracted != "" && extracted != doi {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: file carries DOI %s, expected %s\n", extracted, doi)
	}

	if humanOutput {
		fmt.Printf("Saved %s (verified: %v)\n", dest, verified)
		return nil
	}
	return outputJSON(FetchResponse{DOI: doi, File: dest, Verified: verified})
}

// defaultFileName derives a file name from the DOI suffix.
func defaultFileName(doi string) string {
	name := doi
	if i := len(doi) - 1; i > 0 {
		for j := i; j >= 0; j-- {
			if doi[j] == '/' {
				name = doi[j+1:]
				break
			}
		}
	}
	if name == "" {
		name = "document"
	}
	return name + ".pdf"
}
