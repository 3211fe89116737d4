package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/scholartools/shrew/internal/reference"
)

func TestClassifyCitingDocumentAbsent(t *testing.T) {
	st := newFakeStore()
	e := New(&fakeResolver{}, newFakeLibrary(), st)

	cd, err := e.ClassifyCitingDocument(context.Background(), "10.1/absent")
	if err != nil {
		t.Fatalf("absence is a classification, not a failure: %v", err)
	}
	if cd.Status != reference.StatusNotInLibrary {
		t.Errorf("status = %v, want not_in_library", cd.Status)
	}
	if cd.Doc != nil {
		t.Error("absent document must leave Doc nil")
	}
	if st.papers["10.1/absent"] != reference.StatusNotInLibrary {
		t.Error("classification outcome should be persisted")
	}
}

func TestClassifyCitingDocumentTransportError(t *testing.T) {
	lib := newFakeLibrary()
	lib.getErr["10.1/flaky"] = ErrTransport
	st := newFakeStore()
	e := New(&fakeResolver{}, lib, st)

	cd, err := e.ClassifyCitingDocument(context.Background(), "10.1/flaky")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
	if cd.Status != reference.StatusUnknown {
		t.Errorf("status = %v, want unknown on transport failure", cd.Status)
	}
	if _, saved := st.papers["10.1/flaky"]; saved {
		t.Error("a failed lookup must not persist a status")
	}
}

func TestClassifyCitingDocumentWithFile(t *testing.T) {
	lib := newFakeLibrary()
	lib.docs["10.1/present"] = &Document{ID: "d1", DOI: "10.1/present", FileAttached: true}
	e := New(&fakeResolver{}, lib, newFakeStore())

	cd, err := e.ClassifyCitingDocument(context.Background(), "10.1/present")
	if err != nil {
		t.Fatalf("ClassifyCitingDocument: %v", err)
	}
	if cd.Status != reference.StatusInLibraryWithFile {
		t.Errorf("status = %v, want in_library_with_file", cd.Status)
	}
	if cd.Doc == nil || cd.Doc.ID != "d1" {
		t.Error("library payload should be attached to the citing document")
	}
}

func TestClassifyCitingDocumentNoFileDeclined(t *testing.T) {
	lib := newFakeLibrary()
	lib.docs["10.1/nofile"] = &Document{ID: "d1", DOI: "10.1/nofile"}
	p := &fakePrompter{answer: false}
	e := New(&fakeResolver{}, lib, newFakeStore(), WithPrompter(p))

	cd, err := e.ClassifyCitingDocument(context.Background(), "10.1/nofile")
	if err != nil {
		t.Fatalf("ClassifyCitingDocument: %v", err)
	}
	if p.asked != 1 {
		t.Fatalf("prompter asked %d times, want 1", p.asked)
	}
	if cd.Status != reference.StatusInLibraryNoFile {
		t.Errorf("declining the trash offer must keep status, got %v", cd.Status)
	}
	if len(lib.trashCalls) != 0 {
		t.Error("declining must not trash the document")
	}
}

func TestClassifyCitingDocumentNoFileTrashed(t *testing.T) {
	lib := newFakeLibrary()
	lib.docs["10.1/nofile"] = &Document{ID: "d1", DOI: "10.1/nofile"}
	st := newFakeStore()
	e := New(&fakeResolver{}, lib, st, WithPrompter(&fakePrompter{answer: true}))

	cd, err := e.ClassifyCitingDocument(context.Background(), "10.1/nofile")
	if err != nil {
		t.Fatalf("ClassifyCitingDocument: %v", err)
	}
	if cd.Status != reference.StatusNotInLibrary {
		t.Errorf("status = %v, want not_in_library after trash", cd.Status)
	}
	if cd.Doc != nil {
		t.Error("trashed document must drop the cached payload")
	}
	if len(lib.trashCalls) != 1 || lib.trashCalls[0] != "10.1/nofile" {
		t.Errorf("trash calls = %v", lib.trashCalls)
	}
	if st.papers["10.1/nofile"] != reference.StatusNotInLibrary {
		t.Error("post-trash status should be persisted")
	}
}

func TestClassifyCitingDocumentNoPrompterDeclines(t *testing.T) {
	lib := newFakeLibrary()
	lib.docs["10.1/nofile"] = &Document{ID: "d1", DOI: "10.1/nofile"}
	e := New(&fakeResolver{}, lib, newFakeStore())

	cd, err := e.ClassifyCitingDocument(context.Background(), "10.1/nofile")
	if err != nil {
		t.Fatalf("ClassifyCitingDocument: %v", err)
	}
	if cd.Status != reference.StatusInLibraryNoFile {
		t.Errorf("without a prompter the document stays put, got %v", cd.Status)
	}
	if len(lib.trashCalls) != 0 {
		t.Error("no prompter means no trashing")
	}
}

func TestTrash(t *testing.T) {
	res := &fakeResolver{refs: []reference.Raw{
		{RefID: "1", Title: "Target", Authors: reference.AuthorList{"Smith J"}, DOI: "10.1/target"},
	}}
	lib := newFakeLibrary()
	lib.docs["10.1/target"] = &Document{ID: "d1", DOI: "10.1/target", FileAttached: true}
	st := newFakeStore()
	e := New(res, lib, st)

	if _, err := e.Resolve(context.Background(), "10.9/citing", KindDOI); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	status, err := e.Trash(context.Background(), "10.1/target")
	if err != nil {
		t.Fatalf("Trash: %v", err)
	}
	if status != reference.StatusNotInLibrary {
		t.Errorf("status = %v, want not_in_library", status)
	}
	if st.statuses["10.1/target"] != reference.StatusNotInLibrary {
		t.Error("transition should be persisted to the store")
	}
	if e.Records()[0].Status != reference.StatusNotInLibrary {
		t.Error("session record naming the DOI should follow the transition")
	}
}

func TestTrashAbsentDocument(t *testing.T) {
	sink := &fakeSink{}
	e := New(&fakeResolver{}, newFakeLibrary(), newFakeStore(), WithSink(sink))

	_, err := e.Trash(context.Background(), "10.1/absent")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("err = %v, want ErrDocumentNotFound", err)
	}
	if len(sink.reports) != 0 {
		t.Error("absence is expected control flow and must not hit the sink")
	}
}

func TestResyncReclassifiesSession(t *testing.T) {
	res := &fakeResolver{refs: []reference.Raw{
		{RefID: "1", Title: "Pending", Authors: reference.AuthorList{"Smith J"}, DOI: "10.1/pending"},
	}}
	lib := newFakeLibrary()
	e := New(res, lib, newFakeStore())

	if _, err := e.Resolve(context.Background(), "10.9/citing", KindDOI); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Records()[0].Status != reference.StatusNotInLibrary {
		t.Fatalf("precondition: record should start absent")
	}

	// The document shows up out of band; a resync must pick it up.
	lib.docs["10.1/pending"] = &Document{ID: "d1", DOI: "10.1/pending", FileAttached: true}
	lib.docs["10.9/citing"] = &Document{ID: "d2", DOI: "10.9/citing"}

	if err := e.Resync(context.Background()); err != nil {
		t.Fatalf("Resync: %v", err)
	}
	if lib.syncCalls != 1 {
		t.Errorf("sync calls = %d, want 1", lib.syncCalls)
	}
	if e.Records()[0].Status != reference.StatusInLibraryWithFile {
		t.Errorf("record status = %v, want in_library_with_file", e.Records()[0].Status)
	}
	if e.Citing().Status != reference.StatusInLibraryNoFile {
		t.Errorf("citing status = %v, want in_library_no_file", e.Citing().Status)
	}
}

func TestResyncSyncFailure(t *testing.T) {
	lib := newFakeLibrary()
	lib.syncErr = ErrTransport
	e := New(&fakeResolver{}, lib, newFakeStore())

	if err := e.Resync(context.Background()); !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}
