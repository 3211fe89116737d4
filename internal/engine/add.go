package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/scholartools/shrew/internal/reference"
)

// AddOptions tunes a single add.
type AddOptions struct {
	// AddingAll marks the call as part of a batch: the duplicate check
	// runs against the local store instead of the live library (no syncs
	// happen mid-batch, so the library's view is stale anyway), and the
	// status refresh is deferred to the batch's final pass.
	AddingAll bool

	// SuppressPrompts skips the trash-and-retry offer after the add.
	SuppressPrompts bool
}

// AddToLibrary adds one reference's document to the remote library.
//
// A record without a DOI fails fast with ErrMissingIdentifier and touches
// no collaborator. A duplicate short-circuits with ErrAlreadyInLibrary,
// which is expected control flow and never logged. On success the record
// is cached locally and, outside batch mode, reclassified immediately.
func (e *Engine) AddToLibrary(ctx context.Context, rec *reference.Record, citingDOI string, opts AddOptions) error {
	if rec.DOI == "" {
		return ErrMissingIdentifier
	}
	doi := reference.NormalizeDOI(rec.DOI)

	dup, err := e.checkDuplicate(ctx, doi, opts.AddingAll)
	if err != nil {
		return e.report("engine.AddToLibrary", "duplicate check", err, doi, 0, citingDOI)
	}
	if dup {
		return fmt.Errorf("%s: %w", doi, ErrAlreadyInLibrary)
	}

	if err := e.library.AddDocument(ctx, doi); err != nil {
		return e.report("engine.AddToLibrary", "adding document", err, doi, 0, citingDOI)
	}

	// A direct add has no citing paper; caching it under an empty key
	// would surface a phantom citer in forward-citation queries.
	if e.store != nil && citingDOI != "" {
		if err := e.store.InsertReference(rec.Raw(), citingDOI); err != nil {
			e.report("engine.AddToLibrary", "caching reference", err, doi, 0, citingDOI)
		}
	}

	if opts.AddingAll {
		// Status refresh happens once, after the batch's single sync.
		return nil
	}
	e.refreshAfterAdd(ctx, rec, opts.SuppressPrompts)
	return nil
}

// checkDuplicate consults the local store in batch mode and the live
// library otherwise. The two sources can disagree; the batch path trades
// freshness for avoiding a network round trip per record.
func (e *Engine) checkDuplicate(ctx context.Context, doi string, addingAll bool) (bool, error) {
	if addingAll && e.store != nil {
		return e.store.HasDOI(doi)
	}
	return e.library.DocumentExists(ctx, doi)
}

// refreshAfterAdd reclassifies a just-added record. When the library
// reports the document present without a file and prompts are allowed,
// the user may trash it to retry; declining keeps InLibraryNoFile.
func (e *Engine) refreshAfterAdd(ctx context.Context, rec *reference.Record, suppressPrompts bool) {
	doc, err := e.library.GetDocument(ctx, rec.DOI)
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		rec.Status = reference.StatusNotInLibrary
		return
	case err != nil:
		e.report("engine.refreshAfterAdd", "post-add lookup", err, rec.DOI, 0, "")
		rec.Status = reference.StatusUnknown
		return
	}

	if doc.FileAttached {
		rec.Status = reference.StatusInLibraryWithFile
		return
	}

	rec.Status = reference.StatusInLibraryNoFile
	if suppressPrompts || e.prompt == nil || !e.prompt.ConfirmTrash(doc) {
		return
	}
	if err := e.library.TrashDocument(ctx, rec.DOI); err != nil {
		e.report("engine.refreshAfterAdd", "trashing document", err, rec.DOI, 0, "")
		return
	}
	rec.Status = reference.StatusNotInLibrary
	if e.store != nil {
		if err := e.store.SetStatus(reference.NormalizeDOI(rec.DOI), rec.Status); err != nil {
			e.report("engine.refreshAfterAdd", "persisting status", err, rec.DOI, 0, "")
		}
	}
}

// BatchFailure records one reference that could not be added.
type BatchFailure struct {
	Index int    // 1-based position in the session's reference list
	DOI   string // may be empty when the failure is a missing identifier
	Err   error
}

// BatchResult summarizes a batch add. Partial success is the normal case.
type BatchResult struct {
	Added    int
	Skipped  int // duplicates and DOI-less records
	Failures []BatchFailure
}

// BatchAddAll attempts to add every session record to the library, in
// list order, one network round trip at a time. Individual failures are
// accumulated and never abort the remaining records. After the full pass
// the engine issues exactly one library sync and then reclassifies every
// record that has a DOI.
//
// Cancellation is cooperative: the context is checked between records,
// and an unspecified context runs the batch to completion. On early
// cancellation the partial result is still returned alongside ctx.Err().
func (e *Engine) BatchAddAll(ctx context.Context, citingDOI string) (*BatchResult, error) {
	result := &BatchResult{}

	for i, rec := range e.records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := e.AddToLibrary(ctx, rec, citingDOI, AddOptions{AddingAll: true, SuppressPrompts: true})
		switch {
		case err == nil:
			result.Added++
		case errors.Is(err, ErrAlreadyInLibrary), errors.Is(err, ErrMissingIdentifier):
			result.Skipped++
		default:
			result.Failures = append(result.Failures, BatchFailure{Index: i + 1, DOI: rec.DOI, Err: err})
		}
	}

	if err := e.library.Sync(ctx); err != nil {
		return result, e.report("engine.BatchAddAll", "post-batch sync", err, "", 0, citingDOI)
	}

	for _, rec := range e.records {
		if rec.DOI != "" {
			e.classifyRecord(ctx, rec)
		}
	}
	return result, nil
}
