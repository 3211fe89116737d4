// Package engine reconciles reference identity across three collaborators
// with partially overlapping keys: the remote library backend, the
// citation-resolution service, and the local reference cache. It owns the
// in-memory reference list for one browsing session and is the only code
// allowed to move records between library statuses.
package engine

import "github.com/scholartools/shrew/internal/reference"

// CitingDocument is the paper currently under inspection. Exactly one is
// active per session; every new lookup replaces it wholesale.
type CitingDocument struct {
	DOI    string
	Status reference.Status

	// Doc is the last library payload for the paper, nil when the paper
	// is absent or the last lookup failed.
	Doc *Document
}

// Engine drives reference resolution, classification, and library
// synchronization for one session. Operations run synchronously on the
// calling goroutine; the engine is not safe for concurrent use. The
// absence of shared mutable state across operations is the concurrency
// strategy: a new Resolve simply replaces the whole session.
type Engine struct {
	resolver Resolver
	library  Library
	store    Store
	sink     Sink
	prompt   Prompter

	citing  *CitingDocument
	records []*reference.Record
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink installs a diagnostic sink.
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithPrompter installs the trash-and-retry decision callback. Without
// one, the engine always declines, leaving files-missing documents in
// place.
func WithPrompter(p Prompter) Option {
	return func(e *Engine) { e.prompt = p }
}

// New creates an Engine over the three collaborators.
func New(resolver Resolver, library Library, store Store, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		library:  library,
		store:    store,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Records returns the session's reference list in citation order. The
// slice is a read-only projection: callers must not mutate record status
// directly.
func (e *Engine) Records() []*reference.Record {
	return e.records
}

// Citing returns the active citing document, nil before the first lookup.
func (e *Engine) Citing() *CitingDocument {
	return e.citing
}

// beginSession discards the previous reference list and citing document.
// Old records are dropped, never merged: the last lookup wins.
func (e *Engine) beginSession(doi string, records []*reference.Record) {
	e.citing = &CitingDocument{DOI: doi}
	e.records = records
}
