package engine

import (
	"context"
	"fmt"

	"github.com/scholartools/shrew/internal/reference"
)

// FollowForward returns the locally recorded documents that cite doi and
// installs them as the new session. Statuses are whatever the store last
// persisted: this query favors latency over freshness and performs no
// live library classification, and the result is explicitly allowed to be
// non-exhaustive.
func (e *Engine) FollowForward(ctx context.Context, doi string) ([]*reference.Record, error) {
	if doi == "" {
		return nil, ErrMissingIdentifier
	}
	doi = reference.NormalizeDOI(doi)

	raws, err := e.store.ForwardCitations(doi)
	if err != nil {
		return nil, e.report("engine.FollowForward", "forward-citation query", err, doi, 0, "")
	}

	records := make([]*reference.Record, 0, len(raws))
	for _, raw := range raws {
		records = append(records, reference.NewRecord(raw))
	}
	e.beginSession(doi, records)
	return records, nil
}

// RemoveReference drops a reference from the local cache and, when it
// belongs to the active session, from the session's record list. The
// remote library is untouched: removal is a cache operation, not a
// trash.
func (e *Engine) RemoveReference(rec *reference.Record, citingDOI string) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.DeleteReference(rec.Raw(), citingDOI); err != nil {
		return e.report("engine.RemoveReference", "deleting cached reference", err, rec.DOI, 0, citingDOI)
	}
	for i, r := range e.records {
		if r == rec {
			e.records = append(e.records[:i], e.records[i+1:]...)
			break
		}
	}
	return nil
}

// Notes fetches the library document for doi, including its notes.
// Absence surfaces as ErrDocumentNotFound, an expected outcome the caller
// may answer by offering to add the document.
func (e *Engine) Notes(ctx context.Context, doi string) (*Document, error) {
	if doi == "" {
		return nil, ErrMissingIdentifier
	}
	doc, err := e.library.GetDocument(ctx, reference.NormalizeDOI(doi))
	if err != nil {
		return nil, e.report("engine.Notes", "fetching document", err, doi, 0, "")
	}
	return doc, nil
}

// SaveNotes writes updated notes to the document and syncs the library so
// the change is visible to subsequent lookups.
func (e *Engine) SaveNotes(ctx context.Context, docID, notes string) error {
	if docID == "" {
		return fmt.Errorf("%w: document id required", ErrMissingIdentifier)
	}
	if err := e.library.UpdateNotes(ctx, docID, notes); err != nil {
		return e.report("engine.SaveNotes", "updating notes", err, "", 0, "")
	}
	if err := e.library.Sync(ctx); err != nil {
		return e.report("engine.SaveNotes", "post-update sync", err, "", 0, "")
	}
	if e.citing != nil && e.citing.Doc != nil && e.citing.Doc.ID == docID {
		e.citing.Doc.Notes = notes
	}
	return nil
}
