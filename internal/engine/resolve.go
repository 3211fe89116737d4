package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/scholartools/shrew/internal/reference"
)

// Resolve fetches the reference list of the document named by id, builds
// a record for each entry, classifies the ones that already carry a DOI
// against the library, and installs the result as the new session.
// Records come back in resolver order, which is citation order.
//
// Failures carry one of ErrUnsupportedPublisher, ErrParseFailure,
// ErrEmptyResult, or ErrUnknown; the caller decides user messaging.
func (e *Engine) Resolve(ctx context.Context, id string, kind IDKind) ([]*reference.Record, error) {
	if id == "" {
		return nil, ErrMissingIdentifier
	}

	raws, err := e.resolver.ResolveReferences(ctx, id, kind)
	if err != nil {
		return nil, e.report("engine.Resolve", "resolving references", err, id, 0, "")
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrEmptyResult, id)
	}

	citingDOI := reference.NormalizeDOI(id)
	records := make([]*reference.Record, 0, len(raws))
	for i, raw := range raws {
		rec := reference.NewRecord(raw)
		if rec.DOI != "" {
			e.classifyRecord(ctx, rec)
		}
		records = append(records, rec)

		// Cache the reference locally so forward-citation queries and
		// DOI back-fill have a row to work against. Best-effort.
		if e.store != nil {
			if err := e.store.InsertReference(rec.Raw(), citingDOI); err != nil {
				e.report("engine.Resolve", "caching reference", err, rec.DOI, i+1, citingDOI)
			}
		}
	}

	e.beginSession(citingDOI, records)
	return records, nil
}

// classifyRecord looks the record's DOI up in the library and sets its
// status. Absence is a terminal classification; any other failure leaves
// the record unknown and is not retried here.
func (e *Engine) classifyRecord(ctx context.Context, rec *reference.Record) {
	if rec.DOI == "" {
		rec.Status = reference.StatusUnknown
		return
	}

	doc, err := e.library.GetDocument(ctx, rec.DOI)
	switch {
	case err == nil:
		if doc.FileAttached {
			rec.Status = reference.StatusInLibraryWithFile
		} else {
			rec.Status = reference.StatusInLibraryNoFile
		}
	case errors.Is(err, ErrDocumentNotFound):
		rec.Status = reference.StatusNotInLibrary
	default:
		e.report("engine.classifyRecord", "library lookup", err, rec.DOI, 0, "")
		rec.Status = reference.StatusUnknown
	}
}
