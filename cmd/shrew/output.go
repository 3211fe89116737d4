package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/scholartools/shrew/internal/engine"
	"github.com/scholartools/shrew/internal/reference"
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	DOI    string `json:"doi,omitempty"`
}

// RecordResponse is one reference record in command output.
type RecordResponse struct {
	Index    int      `json:"index"`
	RefID    string   `json:"ref_id,omitempty"`
	Title    string   `json:"title,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Year     string   `json:"year,omitempty"`
	Venue    string   `json:"venue,omitempty"`
	DOI      string   `json:"doi,omitempty"`
	Status   string   `json:"status"`
	Short    string   `json:"short_text"`
	Expanded string   `json:"expanded_text"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCodeFor maps an engine error onto the CLI's exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrDocumentNotFound), errors.Is(err, engine.ErrEmptyResult):
		return ExitNotFound
	case errors.Is(err, engine.ErrUnsupportedPublisher):
		return ExitUnsupported
	case errors.Is(err, engine.ErrTransport):
		return ExitTransport
	default:
		return ExitError
	}
}

// buildRecordResponses converts engine records for output.
func buildRecordResponses(records []*reference.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for i, rec := range records {
		out = append(out, RecordResponse{
			Index:    i + 1,
			RefID:    rec.RefID,
			Title:    rec.Title,
			Authors:  rec.Authors,
			Year:     rec.Year,
			Venue:    rec.Publication,
			DOI:      rec.DOI,
			Status:   rec.Status.String(),
			Short:    rec.ShortText,
			Expanded: rec.ExpandedText,
		})
	}
	return out
}

// statusGlyph renders a status as a short terminal indicator.
func statusGlyph(s reference.Status) string {
	switch s {
	case reference.StatusInLibraryWithFile:
		return "[+]" // in library, file attached
	case reference.StatusInLibraryNoFile:
		return "[o]" // in library, no file
	case reference.StatusNotInLibrary:
		return "[-]" // not in library
	default:
		return "[?]" // no DOI or lookup failed
	}
}

// printRecordsHuman prints the session's reference list.
func printRecordsHuman(records []*reference.Record) {
	for i, rec := range records {
		fmt.Printf("%3d %s %s\n", i+1, statusGlyph(rec.Status), rec.ShortText)
	}
}
