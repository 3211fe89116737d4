package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scholartools/shrew/internal/engine"
)

func TestResolveReferences(t *testing.T) {
	var gotPath, gotID, gotKind, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotID = r.URL.Query().Get("id")
		gotKind = r.URL.Query().Get("type")
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"references": [
			{"ref_id": 1, "title": "First", "authors": "Smith J; Jones K", "year": "2020", "doi": "10.1/a"},
			{"ref_id": "2", "title": "Second", "authors": ["Brown L"], "date": "2021-05"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithAPIKey("test-key"))
	refs, err := c.ResolveReferences(context.Background(), "10.9/citing", engine.KindDOI)
	if err != nil {
		t.Fatalf("ResolveReferences: %v", err)
	}

	if gotPath != "/references" || gotID != "10.9/citing" || gotKind != "doi" {
		t.Errorf("request = %s?id=%s&type=%s", gotPath, gotID, gotKind)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d references, want 2", len(refs))
	}
	if refs[0].RefID != "1" || len(refs[0].Authors) != 2 {
		t.Errorf("first reference = %+v", refs[0])
	}
	if refs[1].RefID != "2" || refs[1].DisplayYear() != "2021-05" {
		t.Errorf("second reference = %+v", refs[1])
	}
}

func TestResolveReferencesDefaultsKind(t *testing.T) {
	var gotKind string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKind = r.URL.Query().Get("type")
		w.Write([]byte(`{"references": []}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.ResolveReferences(context.Background(), "10.9/x", ""); err != nil {
		t.Fatalf("ResolveReferences: %v", err)
	}
	if gotKind != "doi" {
		t.Errorf("type = %q, want doi default", gotKind)
	}
}

func TestDOIAndTitleFromCitation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/citation" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "Smith J, 2020, Some Paper" {
			t.Errorf("q = %q", q)
		}
		w.Write([]byte(`{"doi": "10.1/found", "title": "Some Paper"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	doi, title, err := c.DOIAndTitleFromCitation(context.Background(), "Smith J, 2020, Some Paper")
	if err != nil {
		t.Fatalf("DOIAndTitleFromCitation: %v", err)
	}
	if doi != "10.1/found" || title != "Some Paper" {
		t.Errorf("got (%q, %q)", doi, title)
	}
}

func TestErrorCodeMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			"unsupported publisher",
			http.StatusUnprocessableEntity,
			`{"error": {"code": "unsupported_publisher", "message": "no scraper for this site"}}`,
			engine.ErrUnsupportedPublisher,
		},
		{
			"parse failure",
			http.StatusUnprocessableEntity,
			`{"error": {"code": "parse_failure", "message": "malformed reference section"}}`,
			engine.ErrParseFailure,
		},
		{
			"scrape failure",
			http.StatusBadGateway,
			`{"error": {"code": "scrape_failure", "message": "publisher page unreachable"}}`,
			engine.ErrParseFailure,
		},
		{
			"not found",
			http.StatusNotFound,
			`{"error": {"code": "not_found", "message": "unknown document"}}`,
			engine.ErrEmptyResult,
		},
		{
			"bare 5xx",
			http.StatusInternalServerError,
			`oops`,
			engine.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(WithBaseURL(srv.URL))
			_, err := c.ResolveReferences(context.Background(), "10.9/x", engine.KindDOI)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Errorf("err = %v, want an *APIError in the chain", err)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.ResolveReferences(context.Background(), "10.9/x", engine.KindDOI)
	if !errors.Is(err, engine.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}

func TestMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"references": "not a list"`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.ResolveReferences(context.Background(), "10.9/x", engine.KindDOI)
	if !errors.Is(err, engine.ErrParseFailure) {
		t.Fatalf("err = %v, want ErrParseFailure", err)
	}
}
