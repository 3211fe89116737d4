// Package main provides the shrew CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// noPrompt disables interactive trash-and-retry prompts
var noPrompt bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shrew",
	Short: "Reference manager assistant CLI",
	Long: `shrew reconciles a paper's reference list across three sources:
the citation-resolution service, your remote library, and a local
reference cache.

Core features:
  - Fetch a paper's reference list by DOI and classify each entry
    against your library (present with file, present without, absent)
  - Add one reference or the whole list to the library
  - Back-fill missing DOIs from free-text citations
  - Follow references forward through the local cache
  - Read and edit document notes

Credentials come from SHREW_LIBRARY_TOKEN and SHREW_RESOLVER_KEY
(a .env file in the working directory is honored). All commands output
JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Pick up credentials from a local .env file when present.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVar(&noPrompt, "no-prompt", false, "Never ask about trashing file-less documents")
	rootCmd.Version = Version
}
