package engine

import (
	"context"
	"fmt"

	"github.com/scholartools/shrew/internal/reference"
)

// fakeResolver serves canned reference lists and citation lookups.
type fakeResolver struct {
	refs       []reference.Raw
	resolveErr error

	citationDOI   string
	citationTitle string
	citationErr   error

	resolveCalls  int
	citationCalls int
}

func (f *fakeResolver) ResolveReferences(ctx context.Context, id string, kind IDKind) ([]reference.Raw, error) {
	f.resolveCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.refs, nil
}

func (f *fakeResolver) DOIAndTitleFromCitation(ctx context.Context, text string) (string, string, error) {
	f.citationCalls++
	if f.citationErr != nil {
		return "", "", f.citationErr
	}
	return f.citationDOI, f.citationTitle, nil
}

// fakeLibrary is an in-memory library backend keyed by DOI.
type fakeLibrary struct {
	docs   map[string]*Document
	getErr map[string]error // per-DOI lookup override
	addErr map[string]error // per-DOI add override

	// addedFileAttached controls whether documents created through
	// AddDocument come back with a file.
	addedFileAttached bool

	syncErr error

	syncCalls   int
	existsCalls int
	addCalls    []string
	trashCalls  []string
	notesByID   map[string]string
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		docs:              map[string]*Document{},
		getErr:            map[string]error{},
		addErr:            map[string]error{},
		addedFileAttached: true,
		notesByID:         map[string]string{},
	}
}

func (f *fakeLibrary) Sync(ctx context.Context) error {
	f.syncCalls++
	return f.syncErr
}

func (f *fakeLibrary) GetDocument(ctx context.Context, doi string) (*Document, error) {
	if err := f.getErr[doi]; err != nil {
		return nil, err
	}
	doc, ok := f.docs[doi]
	if !ok {
		return nil, fmt.Errorf("%s: %w", doi, ErrDocumentNotFound)
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeLibrary) DocumentExists(ctx context.Context, doi string) (bool, error) {
	f.existsCalls++
	if err := f.getErr[doi]; err != nil {
		return false, err
	}
	_, ok := f.docs[doi]
	return ok, nil
}

func (f *fakeLibrary) AddDocument(ctx context.Context, doi string) error {
	f.addCalls = append(f.addCalls, doi)
	if err := f.addErr[doi]; err != nil {
		return err
	}
	f.docs[doi] = &Document{ID: "doc-" + doi, DOI: doi, FileAttached: f.addedFileAttached}
	return nil
}

func (f *fakeLibrary) TrashDocument(ctx context.Context, doi string) error {
	f.trashCalls = append(f.trashCalls, doi)
	if _, ok := f.docs[doi]; !ok {
		return fmt.Errorf("%s: %w", doi, ErrDocumentNotFound)
	}
	delete(f.docs, doi)
	return nil
}

func (f *fakeLibrary) UpdateNotes(ctx context.Context, docID, notes string) error {
	f.notesByID[docID] = notes
	return nil
}

type insertedRef struct {
	raw       reference.Raw
	citingDOI string
}

type updateCall struct {
	match Match
	doi   string
	title string
}

// fakeStore records every mutation for assertion.
type fakeStore struct {
	dois    map[string]bool
	forward []reference.Raw

	hasErr     error
	insertErr  error
	updateErr  error
	forwardErr error

	inserted []insertedRef
	deleted  []insertedRef
	updates  []updateCall
	statuses map[string]reference.Status
	papers   map[string]reference.Status
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		dois:     map[string]bool{},
		statuses: map[string]reference.Status{},
		papers:   map[string]reference.Status{},
	}
}

func (f *fakeStore) HasDOI(doi string) (bool, error) {
	if f.hasErr != nil {
		return false, f.hasErr
	}
	return f.dois[doi], nil
}

func (f *fakeStore) InsertReference(raw reference.Raw, citingDOI string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, insertedRef{raw: raw, citingDOI: citingDOI})
	if raw.DOI != "" && reference.ParseStatus(raw.Status).InLibrary() {
		f.dois[reference.NormalizeDOI(raw.DOI)] = true
	}
	return nil
}

func (f *fakeStore) DeleteReference(raw reference.Raw, citingDOI string) error {
	f.deleted = append(f.deleted, insertedRef{raw: raw, citingDOI: citingDOI})
	return nil
}

func (f *fakeStore) UpdateReference(m Match, doi, title string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, updateCall{match: m, doi: doi, title: title})
	return nil
}

func (f *fakeStore) SetStatus(doi string, status reference.Status) error {
	f.statuses[doi] = status
	return nil
}

func (f *fakeStore) ForwardCitations(doi string) ([]reference.Raw, error) {
	if f.forwardErr != nil {
		return nil, f.forwardErr
	}
	return f.forward, nil
}

func (f *fakeStore) SavePaper(doi string, status reference.Status) error {
	f.papers[doi] = status
	return nil
}

// fakeSink collects reports.
type fakeSink struct {
	reports []Report
}

func (f *fakeSink) Record(r Report) { f.reports = append(f.reports, r) }

// fakePrompter answers every trash offer the same way.
type fakePrompter struct {
	answer bool
	asked  int
}

func (f *fakePrompter) ConfirmTrash(doc *Document) bool {
	f.asked++
	return f.answer
}
