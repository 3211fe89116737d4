package engine

import (
	"context"

	"github.com/scholartools/shrew/internal/reference"
)

// IDKind names the identifier type a lookup starts from.
type IDKind string

const (
	KindDOI      IDKind = "doi"
	KindPMID     IDKind = "pmid"
	KindURL      IDKind = "url"
	KindFullText IDKind = "fulltext"
)

// Resolver recovers reference lists and identifiers from the external
// citation-resolution service. Implementations report failures with the
// sentinel errors in this package (ErrUnsupportedPublisher,
// ErrParseFailure, ErrTransport); anything else is treated as unknown.
type Resolver interface {
	// ResolveReferences returns the ordered reference list of the document
	// named by id. Order is citation order and must be preserved.
	ResolveReferences(ctx context.Context, id string, kind IDKind) ([]reference.Raw, error)

	// DOIAndTitleFromCitation attempts to recover a DOI and title from a
	// free-text citation. Either value may come back empty.
	DOIAndTitleFromCitation(ctx context.Context, text string) (doi, title string, err error)
}

// Document is the library backend's record of one stored paper.
type Document struct {
	ID           string   `json:"id"`
	DOI          string   `json:"doi,omitempty"`
	Title        string   `json:"title,omitempty"`
	Year         string   `json:"year,omitempty"`
	Authors      []string `json:"authors,omitempty"`
	Abstract     string   `json:"abstract,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	FileAttached bool     `json:"file_attached"`
}

// Library is the remote library-sync backend. Absence is reported with
// ErrDocumentNotFound; add failures use the closed taxonomy in errors.go.
type Library interface {
	Sync(ctx context.Context) error
	DocumentExists(ctx context.Context, doi string) (bool, error)
	GetDocument(ctx context.Context, doi string) (*Document, error)
	AddDocument(ctx context.Context, doi string) error
	TrashDocument(ctx context.Context, doi string) error
	UpdateNotes(ctx context.Context, docID, notes string) error
}

// Match selects a stored reference row for a field update when no DOI is
// available yet. The (authors, year) tuple is preferred when authors are
// present; title alone is the fallback, since free-text titles carry more
// OCR and formatting noise than structured author+year pairs.
type Match struct {
	CitingDOI string
	Authors   []string
	Year      string
	Title     string
}

// ByAuthors reports whether the author+year strategy applies.
func (m Match) ByAuthors() bool { return len(m.Authors) > 0 }

// Store is the local persistent reference cache.
type Store interface {
	// HasDOI reports whether the cache believes the DOI's document is
	// already in the library. Cached rows with an absent or unknown
	// status do not count.
	HasDOI(doi string) (bool, error)

	// InsertReference caches one raw reference under its citing document.
	InsertReference(raw reference.Raw, citingDOI string) error

	// DeleteReference removes a cached reference row.
	DeleteReference(raw reference.Raw, citingDOI string) error

	// UpdateReference back-fills doi and title on the row selected by m.
	UpdateReference(m Match, doi, title string) error

	// SetStatus persists a reclassified library status for the DOI.
	SetStatus(doi string, status reference.Status) error

	// ForwardCitations returns locally recorded documents that cite doi.
	ForwardCitations(doi string) ([]reference.Raw, error)

	// SavePaper records a citing document and its last known status.
	SavePaper(doi string, status reference.Status) error
}

// Report is one diagnostic event for the error sink.
type Report struct {
	Method    string // originating operation, e.g. "engine.AddToLibrary"
	Message   string
	Err       string
	DOI       string
	RefIndex  int    // 1-based position within the citing paper, 0 when n/a
	CitingDOI string // the paper whose reference list was being worked
}

// Sink receives diagnostic reports. Fire-and-forget: the engine never
// blocks on or inspects the outcome.
type Sink interface {
	Record(r Report)
}

// Prompter surfaces the one decision the engine cannot make alone: a
// document landed in the library without a file attached, and the user
// may trash it to retry the add. Returning true trashes the document.
type Prompter interface {
	ConfirmTrash(doc *Document) bool
}
