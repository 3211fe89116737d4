package engine

import (
	"errors"
	"fmt"
)

// Closed error taxonomy. Collaborator-originated failures are translated
// into exactly these kinds at the engine boundary; callers branch with
// errors.Is and never see collaborator-specific error types.
var (
	// ErrUnsupportedPublisher means the resolver has no scraper for the
	// document's publisher.
	ErrUnsupportedPublisher = errors.New("publisher not supported")

	// ErrCallFailed means the library backend rejected or failed the call.
	ErrCallFailed = errors.New("library call failed")

	// ErrParseFailure means a fetched page or payload could not be parsed.
	ErrParseFailure = errors.New("parse failure")

	// ErrPDFUnavailable means the document's file could not be retrieved.
	ErrPDFUnavailable = errors.New("pdf unavailable")

	// ErrDocumentNotFound means the library reports the document absent.
	// As a classification outcome this is expected control flow.
	ErrDocumentNotFound = errors.New("document not found in library")

	// ErrAlreadyInLibrary short-circuits an add whose subject is already
	// present. Expected control flow, never logged as an error.
	ErrAlreadyInLibrary = errors.New("document already in library")

	// ErrMissingIdentifier means the operation needs a DOI the record
	// does not have. Checked before any network call.
	ErrMissingIdentifier = errors.New("no DOI for reference")

	// ErrTransport means the network call itself failed; the condition is
	// retryable and distinct from "not found".
	ErrTransport = errors.New("transport error")

	// ErrEmptyResult means the resolver returned no references.
	ErrEmptyResult = errors.New("no references found")

	// ErrUnknown wraps failures outside the closed taxonomy.
	ErrUnknown = errors.New("unknown error")
)

// taxonomy lists the kinds a collaborator error may already carry.
var taxonomy = []error{
	ErrUnsupportedPublisher,
	ErrCallFailed,
	ErrParseFailure,
	ErrPDFUnavailable,
	ErrDocumentNotFound,
	ErrAlreadyInLibrary,
	ErrMissingIdentifier,
	ErrTransport,
	ErrEmptyResult,
}

// IsExpected reports whether err is an expected control-flow outcome
// rather than a failure. Expected outcomes are never sent to the sink.
func IsExpected(err error) bool {
	return errors.Is(err, ErrAlreadyInLibrary) || errors.Is(err, ErrDocumentNotFound)
}

// translate normalizes a collaborator error into the closed taxonomy,
// preserving the original message for diagnostics. Errors already inside
// the taxonomy pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range taxonomy {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrUnknown, err)
}

// report sends a diagnostic for err unless it is expected control flow.
// Translation happens first so the sink sees the taxonomy kind.
func (e *Engine) report(method, message string, err error, doi string, refIndex int, citingDOI string) error {
	err = translate(err)
	if err == nil || IsExpected(err) {
		return err
	}
	if e.sink != nil {
		e.sink.Record(Report{
			Method:    method,
			Message:   message,
			Err:       err.Error(),
			DOI:       doi,
			RefIndex:  refIndex,
			CitingDOI: citingDOI,
		})
	}
	return err
}
