package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/scholartools/shrew/internal/engine"
	"github.com/scholartools/shrew/internal/reference"
)

// HasDOI reports whether the cache believes the DOI is already in the
// library, judged by the last persisted status of any row carrying it.
// Rows cached with an absent or unknown status do not count: resolving a
// paper caches its whole reference list, and those rows must not make a
// later batch add treat everything as a duplicate.
func (d *DB) HasDOI(doi string) (bool, error) {
	doi = reference.NormalizeDOI(doi)
	noFile := reference.StatusInLibraryNoFile.String()
	withFile := reference.StatusInLibraryWithFile.String()
	var one int
	err := d.db.QueryRow(`
		SELECT 1 FROM refs WHERE doi = ? AND status IN (?, ?)
		UNION SELECT 1 FROM papers WHERE doi = ? AND status IN (?, ?)
		LIMIT 1`,
		doi, noFile, withFile, doi, noFile, withFile).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking for DOI %s: %w", doi, err)
	}
	return true, nil
}

// InsertReference caches one reference row under its citing paper. A row
// describing the same reference (same DOI, or same title and year when no
// DOI is known) is replaced rather than duplicated, so re-resolving a
// paper does not grow the table.
func (d *DB) InsertReference(raw reference.Raw, citingDOI string) error {
	citingDOI = reference.NormalizeDOI(citingDOI)
	doi := reference.NormalizeDOI(raw.DOI)

	if doi != "" {
		if _, err := d.db.Exec(`DELETE FROM refs WHERE citing_doi = ? AND doi = ?`, citingDOI, doi); err != nil {
			return fmt.Errorf("replacing cached reference: %w", err)
		}
	} else if raw.Title != "" {
		if _, err := d.db.Exec(`DELETE FROM refs WHERE citing_doi = ? AND title = ? AND year IS ?`,
			citingDOI, raw.Title, nullable(raw.DisplayYear())); err != nil {
			return fmt.Errorf("replacing cached reference: %w", err)
		}
	}

	_, err := d.db.Exec(`
		INSERT INTO refs (citing_doi, ref_label, title, authors, year, publication,
			doi, volume, issue, pages, series, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		citingDOI,
		nullable(string(raw.RefID)),
		nullable(raw.Title),
		nullable(strings.Join(raw.Authors, "; ")),
		nullable(raw.DisplayYear()),
		nullable(raw.Publication),
		nullable(doi),
		nullable(raw.Volume),
		nullable(raw.Issue),
		nullable(raw.Pages),
		nullable(raw.Series),
		statusOrUnknown(raw.Status),
	)
	if err != nil {
		return fmt.Errorf("inserting reference: %w", err)
	}
	return nil
}

// DeleteReference removes a cached reference row, matched by DOI when one
// is known and by title otherwise.
func (d *DB) DeleteReference(raw reference.Raw, citingDOI string) error {
	citingDOI = reference.NormalizeDOI(citingDOI)
	var err error
	if doi := reference.NormalizeDOI(raw.DOI); doi != "" {
		_, err = d.db.Exec(`DELETE FROM refs WHERE citing_doi = ? AND doi = ?`, citingDOI, doi)
	} else {
		_, err = d.db.Exec(`DELETE FROM refs WHERE citing_doi = ? AND title = ?`, citingDOI, raw.Title)
	}
	if err != nil {
		return fmt.Errorf("deleting reference: %w", err)
	}
	return nil
}

// UpdateReference back-fills doi and title on the row selected by m.
// The (authors, year) tuple is the preferred key; title is the fallback.
func (d *DB) UpdateReference(m engine.Match, doi, title string) error {
	doi = reference.NormalizeDOI(doi)

	var res sql.Result
	var err error
	if m.ByAuthors() {
		res, err = d.db.Exec(`
			UPDATE refs SET doi = ?, title = ?
			WHERE citing_doi = ? AND authors = ? AND year IS ?`,
			doi, nullable(title),
			reference.NormalizeDOI(m.CitingDOI), strings.Join(m.Authors, "; "), nullable(m.Year))
	} else {
		res, err = d.db.Exec(`UPDATE refs SET doi = ?, title = ? WHERE title = ?`,
			doi, nullable(title), m.Title)
	}
	if err != nil {
		return fmt.Errorf("updating reference: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no cached reference matched for DOI back-fill")
	}
	return nil
}

// SetStatus persists a reclassified status for every row carrying the DOI,
// and for the paper record when one exists.
func (d *DB) SetStatus(doi string, status reference.Status) error {
	doi = reference.NormalizeDOI(doi)
	if _, err := d.db.Exec(`UPDATE refs SET status = ? WHERE doi = ?`, status.String(), doi); err != nil {
		return fmt.Errorf("updating reference status: %w", err)
	}
	if _, err := d.db.Exec(`UPDATE papers SET status = ?, updated_at = ? WHERE doi = ?`,
		status.String(), time.Now().UTC().Format(time.RFC3339), doi); err != nil {
		return fmt.Errorf("updating paper status: %w", err)
	}
	return nil
}

// SavePaper records a citing paper and its last known library status.
func (d *DB) SavePaper(doi string, status reference.Status) error {
	doi = reference.NormalizeDOI(doi)
	_, err := d.db.Exec(`
		INSERT INTO papers (doi, status, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(doi) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		doi, status.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving paper %s: %w", doi, err)
	}
	return nil
}

// ForwardCitations returns the locally recorded papers that cite doi.
// Each citing paper comes back as a raw reference mapping carrying its
// last persisted status; when the citing paper itself appears as a cached
// reference elsewhere, its metadata enriches the row. The list reflects
// only what this cache has seen and may not be exhaustive.
func (d *DB) ForwardCitations(doi string) ([]reference.Raw, error) {
	doi = reference.NormalizeDOI(doi)
	rows, err := d.db.Query(`
		SELECT DISTINCT r.citing_doi, COALESCE(p.status, 'unknown')
		FROM refs r
		LEFT JOIN papers p ON p.doi = r.citing_doi
		WHERE r.doi = ? AND r.citing_doi <> ''
		ORDER BY r.citing_doi`, doi)
	if err != nil {
		return nil, fmt.Errorf("querying forward citations: %w", err)
	}
	defer rows.Close()

	var results []reference.Raw
	for rows.Next() {
		var citing, status string
		if err := rows.Scan(&citing, &status); err != nil {
			return nil, fmt.Errorf("scanning forward citation: %w", err)
		}
		results = append(results, reference.Raw{DOI: citing, Status: status})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading forward citations: %w", err)
	}

	// The pool holds a single connection, so the cursor above must be
	// fully drained and closed before any enrichment query runs.
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("closing forward citations: %w", err)
	}
	for i := range results {
		d.enrichFromCache(&results[i])
	}
	return results, nil
}

// enrichFromCache fills title/authors/year/publication from any cached
// reference row that shares the raw's DOI. Best-effort.
func (d *DB) enrichFromCache(raw *reference.Raw) {
	var title, authors, year, publication sql.NullString
	err := d.db.QueryRow(`
		SELECT title, authors, year, publication FROM refs
		WHERE doi = ? AND title IS NOT NULL
		LIMIT 1`, raw.DOI).Scan(&title, &authors, &year, &publication)
	if err != nil {
		return
	}
	raw.Title = stringOrEmpty(title)
	raw.Authors = reference.AuthorList(reference.SplitAuthors(stringOrEmpty(authors)))
	raw.Year = stringOrEmpty(year)
	raw.Publication = stringOrEmpty(publication)
}

func statusOrUnknown(s string) string {
	if s == "" {
		return reference.StatusUnknown.String()
	}
	return reference.ParseStatus(s).String()
}
