package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/scholartools/shrew/internal/reference"
)

// ClassifyCitingDocument checks the library for doi and returns the
// resulting citing-document state.
//
// Absence is a terminal classification (status NotInLibrary, nil error).
// A transport or other failure is retryable: the status stays Unknown and
// the translated error is returned. When the document is present without
// a file, the prompter is offered the trash-and-retry choice; declining
// keeps InLibraryNoFile, and either outcome of the decision is persisted
// to the local store best-effort.
func (e *Engine) ClassifyCitingDocument(ctx context.Context, doi string) (*CitingDocument, error) {
	if doi == "" {
		return nil, ErrMissingIdentifier
	}
	doi = reference.NormalizeDOI(doi)
	cd := &CitingDocument{DOI: doi}

	doc, err := e.library.GetDocument(ctx, doi)
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		cd.Status = reference.StatusNotInLibrary
		e.savePaper(cd)
		return cd, nil
	case err != nil:
		cd.Status = reference.StatusUnknown
		return cd, e.report("engine.ClassifyCitingDocument", "library lookup", err, doi, 0, "")
	}

	cd.Doc = doc
	if doc.FileAttached {
		cd.Status = reference.StatusInLibraryWithFile
		e.savePaper(cd)
		return cd, nil
	}

	// Present without a file. The user may trash the broken entry so the
	// add can be retried; declining keeps the status as-is, never lower.
	cd.Status = reference.StatusInLibraryNoFile
	if e.prompt != nil && e.prompt.ConfirmTrash(doc) {
		if err := e.library.TrashDocument(ctx, doi); err != nil {
			e.report("engine.ClassifyCitingDocument", "trashing document", err, doi, 0, "")
		} else {
			cd.Doc = nil
			cd.Status = reference.StatusNotInLibrary
		}
	}
	e.savePaper(cd)
	return cd, nil
}

// savePaper persists the citing document's state. A persistence failure
// here is logged, not surfaced, and never rolls back in-memory state.
func (e *Engine) savePaper(cd *CitingDocument) {
	if e.store == nil {
		return
	}
	if err := e.store.SavePaper(cd.DOI, cd.Status); err != nil {
		e.report("engine.savePaper", "persisting paper status", err, cd.DOI, 0, "")
	}
}

// Resync issues one library sync and reclassifies the whole session: every
// record that has a DOI, then the citing document. No prompts fire.
func (e *Engine) Resync(ctx context.Context) error {
	if err := e.library.Sync(ctx); err != nil {
		return e.report("engine.Resync", "library sync", err, "", 0, "")
	}
	for _, rec := range e.records {
		if rec.DOI != "" {
			e.classifyRecord(ctx, rec)
		}
	}
	if e.citing != nil {
		doc, err := e.library.GetDocument(ctx, e.citing.DOI)
		switch {
		case err == nil:
			e.citing.Doc = doc
			if doc.FileAttached {
				e.citing.Status = reference.StatusInLibraryWithFile
			} else {
				e.citing.Status = reference.StatusInLibraryNoFile
			}
		case errors.Is(err, ErrDocumentNotFound):
			e.citing.Doc = nil
			e.citing.Status = reference.StatusNotInLibrary
		default:
			e.citing.Status = reference.StatusUnknown
			e.report("engine.Resync", "reclassifying citing document", err, e.citing.DOI, 0, "")
		}
	}
	return nil
}

// Trash moves the document out of the library and reclassifies it.
// Absence comes back as ErrDocumentNotFound, which callers treat as an
// expected outcome. The resulting transition is persisted best-effort.
func (e *Engine) Trash(ctx context.Context, doi string) (reference.Status, error) {
	if doi == "" {
		return reference.StatusUnknown, ErrMissingIdentifier
	}
	doi = reference.NormalizeDOI(doi)

	if err := e.library.TrashDocument(ctx, doi); err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return reference.StatusUnknown, fmt.Errorf("trashing %s: %w", doi, ErrDocumentNotFound)
		}
		return reference.StatusUnknown, e.report("engine.Trash", "trashing document", err, doi, 0, "")
	}

	status := reference.StatusNotInLibrary
	if e.store != nil {
		if err := e.store.SetStatus(doi, status); err != nil {
			e.report("engine.Trash", "persisting status", err, doi, 0, "")
		}
	}

	// Reflect the transition in whatever session state names this DOI.
	for _, rec := range e.records {
		if reference.NormalizeDOI(rec.DOI) == doi {
			rec.Status = status
		}
	}
	if e.citing != nil && e.citing.DOI == doi {
		e.citing.Doc = nil
		e.citing.Status = status
	}
	return status, nil
}
