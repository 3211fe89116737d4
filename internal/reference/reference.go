// Package reference defines the domain types for bibliographic references:
// the raw entries handed back by the citation resolver, the canonical
// in-memory record the engine reconciles, and the library status model.
package reference

import "strings"

// Record is the canonical in-memory representation of one bibliographic
// reference plus its resolution and library status. The display strings
// are pure projections of the structured fields; mutate the fields first
// and rebuild, never edit the projections alone.
type Record struct {
	RefID       string
	Title       string
	Authors     []string // citation order
	Year        string   // year preferred, date fallback; one value only
	Publication string
	DOI         string
	Volume      string
	Issue       string
	Pages       string
	Series      string

	Status Status

	// ShortText is the abbreviated one-line preview; ExpandedText carries
	// the full multi-line rendering including DOI.
	ShortText    string
	ExpandedText string

	raw Raw
}

// NewRecord builds a Record from a raw reference entry. Author strings are
// normalized, year falls back to date, and both display projections are
// rendered. Status starts at StatusUnknown; classification is the
// engine's job.
func NewRecord(raw Raw) *Record {
	rec := &Record{
		RefID:       string(raw.RefID),
		Title:       raw.Title,
		Authors:     raw.Authors,
		Year:        raw.DisplayYear(),
		Publication: raw.Publication,
		DOI:         strings.TrimSpace(raw.DOI),
		Volume:      raw.Volume,
		Issue:       raw.Issue,
		Pages:       raw.Pages,
		Series:      raw.Series,
		Status:      ParseStatus(raw.Status),
		raw:         raw,
	}
	rec.Rebuild()
	return rec
}

// Raw returns the entry the record was built from, with identity fields
// refreshed from the current record state. The store persists this shape.
func (r *Record) Raw() Raw {
	raw := r.raw
	raw.RefID = Label(r.RefID)
	raw.Title = r.Title
	raw.Authors = AuthorList(r.Authors)
	raw.DOI = r.DOI
	raw.Status = r.Status.String()
	return raw
}

// FirstAuthors renders the abbreviated author list: three or more authors
// collapse to the first two plus "et al.".
func (r *Record) FirstAuthors() string {
	if len(r.Authors) == 0 {
		return ""
	}
	if len(r.Authors) > 2 {
		return r.Authors[0] + ", " + r.Authors[1] + ", et al."
	}
	return strings.Join(r.Authors, "; ")
}

// FullAuthors renders the complete "; "-joined author list.
func (r *Record) FullAuthors() string {
	return strings.Join(r.Authors, "; ")
}

// Rebuild recomputes ShortText and ExpandedText from the structured
// fields. Call after any field mutation.
func (r *Record) Rebuild() {
	var short, expanded strings.Builder

	if r.RefID != "" {
		short.WriteString(r.RefID + ". ")
		expanded.WriteString(r.RefID + ". ")
	}
	if len(r.Authors) > 0 {
		short.WriteString(r.FirstAuthors())
		expanded.WriteString(r.FullAuthors())
	}
	if r.Publication != "" {
		expanded.WriteString("\n" + r.Publication)
	}
	if r.Year != "" {
		short.WriteString(", " + r.Year)
		expanded.WriteString(", " + r.Year)
	}
	if r.Title != "" {
		short.WriteString(", " + r.Title)
		expanded.WriteString("\n" + r.Title)
	}
	if r.DOI != "" {
		expanded.WriteString("\n" + r.DOI)
	}

	r.ShortText = Truncate(short.String(), DisplayLimit)
	r.ExpandedText = expanded.String()
}

// SetDOI back-fills a discovered DOI and re-renders the expanded text to
// append it, mirroring how a resolved identifier surfaces in the UI.
func (r *Record) SetDOI(doi string) {
	r.DOI = strings.TrimSpace(doi)
	r.raw.DOI = r.DOI
	r.ExpandedText = r.ExpandedText + "\n" + r.DOI
}

// SetTitle fills a previously missing title, extending both projections
// the way the discovered value would have rendered at build time.
func (r *Record) SetTitle(title string) {
	r.Title = title
	r.raw.Title = title
	if title == "" {
		return
	}
	short := title
	if len([]rune(short)) > 60 {
		short = string([]rune(short)[:60])
	}
	r.ShortText = r.ShortText + short
	r.ExpandedText = r.ExpandedText + "\n" + title
}
