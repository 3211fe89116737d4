package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/scholartools/shrew/internal/reference"
)

func TestResolveClassifiesRecords(t *testing.T) {
	res := &fakeResolver{refs: []reference.Raw{
		{RefID: "1", Title: "Has File", Authors: reference.AuthorList{"Smith J"}, Year: "2020", DOI: "10.1/withfile"},
		{RefID: "2", Title: "No File", Authors: reference.AuthorList{"Jones K"}, Year: "2021", DOI: "10.1/nofile"},
		{RefID: "3", Title: "Absent", Authors: reference.AuthorList{"Brown L"}, Year: "2022", DOI: "10.1/absent"},
		{RefID: "4", Title: "Unidentified", Authors: reference.AuthorList{"Green M"}, Year: "2023"},
	}}
	lib := newFakeLibrary()
	lib.docs["10.1/withfile"] = &Document{ID: "d1", DOI: "10.1/withfile", FileAttached: true}
	lib.docs["10.1/nofile"] = &Document{ID: "d2", DOI: "10.1/nofile"}
	st := newFakeStore()

	e := New(res, lib, st)
	records, err := e.Resolve(context.Background(), "10.9/citing", KindDOI)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	want := []reference.Status{
		reference.StatusInLibraryWithFile,
		reference.StatusInLibraryNoFile,
		reference.StatusNotInLibrary,
		reference.StatusUnknown,
	}
	for i, rec := range records {
		if rec.Status != want[i] {
			t.Errorf("record %d status = %v, want %v", i+1, rec.Status, want[i])
		}
	}

	if len(st.inserted) != 4 {
		t.Errorf("store cached %d references, want 4", len(st.inserted))
	}
	for _, ins := range st.inserted {
		if ins.citingDOI != "10.9/citing" {
			t.Errorf("cached under citing DOI %q, want 10.9/citing", ins.citingDOI)
		}
	}

	if e.Citing() == nil || e.Citing().DOI != "10.9/citing" {
		t.Error("session citing document not installed")
	}
	if len(e.Records()) != 4 {
		t.Error("session record list not installed")
	}
}

func TestResolveEmptyIdentifier(t *testing.T) {
	res := &fakeResolver{}
	e := New(res, newFakeLibrary(), newFakeStore())

	_, err := e.Resolve(context.Background(), "", KindDOI)
	if !errors.Is(err, ErrMissingIdentifier) {
		t.Fatalf("err = %v, want ErrMissingIdentifier", err)
	}
	if res.resolveCalls != 0 {
		t.Error("resolver must not be called without an identifier")
	}
}

func TestResolveEmptyResult(t *testing.T) {
	e := New(&fakeResolver{}, newFakeLibrary(), newFakeStore())

	_, err := e.Resolve(context.Background(), "10.9/citing", KindDOI)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
}

func TestResolveUnsupportedPublisher(t *testing.T) {
	sink := &fakeSink{}
	res := &fakeResolver{resolveErr: ErrUnsupportedPublisher}
	e := New(res, newFakeLibrary(), newFakeStore(), WithSink(sink))

	_, err := e.Resolve(context.Background(), "https://example.com/paper", KindURL)
	if !errors.Is(err, ErrUnsupportedPublisher) {
		t.Fatalf("err = %v, want ErrUnsupportedPublisher", err)
	}
	if len(sink.reports) != 1 {
		t.Fatalf("sink got %d reports, want 1", len(sink.reports))
	}
	if sink.reports[0].Method != "engine.Resolve" {
		t.Errorf("report method = %q", sink.reports[0].Method)
	}
}

func TestResolveTransportFailureLeavesRecordUnknown(t *testing.T) {
	// A failed library lookup is not evidence of absence: the record must
	// land in unknown, not not-in-library.
	sink := &fakeSink{}
	res := &fakeResolver{refs: []reference.Raw{
		{RefID: "1", Title: "Flaky", Authors: reference.AuthorList{"Smith J"}, DOI: "10.1/flaky"},
	}}
	lib := newFakeLibrary()
	lib.getErr["10.1/flaky"] = ErrTransport

	e := New(res, lib, newFakeStore(), WithSink(sink))
	records, err := e.Resolve(context.Background(), "10.9/citing", KindDOI)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if records[0].Status != reference.StatusUnknown {
		t.Errorf("status = %v, want unknown after transport failure", records[0].Status)
	}
	if len(sink.reports) == 0 {
		t.Error("transport failure should be reported to the sink")
	}
}

func TestResolveReplacesSession(t *testing.T) {
	res := &fakeResolver{refs: []reference.Raw{{RefID: "1", Title: "First"}}}
	e := New(res, newFakeLibrary(), newFakeStore())

	if _, err := e.Resolve(context.Background(), "10.9/one", KindDOI); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	res.refs = []reference.Raw{{RefID: "1", Title: "Second A"}, {RefID: "2", Title: "Second B"}}
	if _, err := e.Resolve(context.Background(), "10.9/two", KindDOI); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}

	if e.Citing().DOI != "10.9/two" {
		t.Errorf("citing DOI = %q, want the later lookup", e.Citing().DOI)
	}
	if len(e.Records()) != 2 || e.Records()[0].Title != "Second A" {
		t.Error("old session records should be dropped wholesale")
	}
}
