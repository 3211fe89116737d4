package engine

import (
	"context"
	"strings"

	"github.com/scholartools/shrew/internal/reference"
)

// BackfillDOI tries to recover a missing DOI from the record's citation
// text. Best-effort: the caller never sees an error, only whether the
// record now carries an identifier. A record that already has a DOI is
// left untouched (the operation is idempotent).
//
// The resolver's answer is accepted only when it carries the "10."
// registrant prefix; anything else is treated as inconclusive and the
// record's DOI stays empty. On acceptance the discovered DOI (and title,
// when the record had none) is folded into the record and the cached row
// in the local store is updated, keyed by (authors, year) when authors
// are present and by title otherwise.
func (e *Engine) BackfillDOI(ctx context.Context, rec *reference.Record, citingDOI string) bool {
	if rec.DOI != "" {
		return true
	}

	lookup := strings.ReplaceAll(rec.ExpandedText, "\n", " ")
	doi, title, err := e.resolver.DOIAndTitleFromCitation(ctx, lookup)
	if err != nil {
		e.report("engine.BackfillDOI", "citation lookup", err, "", 0, citingDOI)
		return false
	}
	if doi == "" || !reference.LooksLikeDOI(doi) {
		return false
	}

	// Title first: the expanded rendering reads title, then identifier.
	if rec.Title == "" && title != "" {
		rec.SetTitle(title)
	}
	rec.SetDOI(doi)

	if e.store != nil {
		m := Match{
			CitingDOI: citingDOI,
			Authors:   rec.Authors,
			Year:      rec.Year,
			Title:     rec.Title,
		}
		if err := e.store.UpdateReference(m, rec.DOI, rec.Title); err != nil {
			e.report("engine.BackfillDOI", "updating cached reference", err, rec.DOI, 0, citingDOI)
		}
	}
	return true
}

// BackfillAll runs BackfillDOI over every DOI-less session record, then
// reclassifies each newly identified record without an interleaved sync,
// and finishes with a single library sync. Returns how many records
// gained a DOI.
func (e *Engine) BackfillAll(ctx context.Context, citingDOI string) (int, error) {
	found := 0
	for _, rec := range e.records {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		if rec.DOI != "" {
			continue
		}
		if e.BackfillDOI(ctx, rec, citingDOI) {
			found++
			e.classifyRecord(ctx, rec)
		}
	}
	if err := e.library.Sync(ctx); err != nil {
		return found, e.report("engine.BackfillAll", "post-backfill sync", err, "", 0, citingDOI)
	}
	return found, nil
}
