package emoji

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSymbols(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":"dog face","htmlCode":["&#128054;"]},
			{"name":"cat face","htmlCode":["&#128049;","&#65039;"]},
			{"name":"","htmlCode":["&#128000;"]},
			{"name":"no code","htmlCode":[]}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/all/", srv.Client())
	syms, err := c.Symbols(context.Background(), "animals-and-nature")
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	if gotPath != "/api/all/category/animals-and-nature" {
		t.Errorf("path = %q", gotPath)
	}
	if len(syms) != 2 {
		t.Fatalf("got %d symbols, want 2: %+v", len(syms), syms)
	}
	if syms[0].Name != "dog face" || syms[0].Glyph != "\U0001F436" {
		t.Errorf("first symbol = %+v", syms[0])
	}
	if syms[1].Glyph != "\U0001F431" {
		t.Errorf("second glyph = %q, want only the first entity", syms[1].Glyph)
	}
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"nope"}`, http.StatusNotFound)
		}, http.StatusNotFound},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, http.StatusBadGateway},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"`))
		}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			_, err := NewClient(srv.URL, srv.Client()).Symbols(context.Background(), "flags")
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v, want *FetchError", err)
			}
			if fe.StatusCode != tc.wantStatus || fe.Category != "flags" {
				t.Errorf("got %+v", fe)
			}
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).Symbols(context.Background(), "flags")
	var fe *FetchError
	if !errors.As(err, &fe) || fe.StatusCode != 0 || fe.Err == nil {
		t.Fatalf("err = %v, want transport FetchError", err)
	}
}

func TestEmbeddedCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	cats := c.Categories()
	if len(cats) == 0 {
		t.Fatal("no categories")
	}
	for _, cat := range cats {
		syms, err := c.Symbols(context.Background(), cat)
		if err != nil {
			t.Fatalf("%s: %v", cat, err)
		}
		if len(syms) < 10 {
			t.Errorf("%s has %d symbols, need at least 10 for a deck", cat, len(syms))
		}
		for _, s := range syms {
			if s.Glyph == "" || s.Glyph[0] == '&' {
				t.Errorf("%s: undecoded glyph %q", cat, s.Glyph)
			}
		}
	}

	_, err = c.Symbols(context.Background(), "no-such-category")
	var fe *FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusNotFound {
		t.Errorf("unknown category: err = %v", err)
	}
}

func TestParseCatalogRejectsEmpty(t *testing.T) {
	if _, err := ParseCatalog([]byte(`{}`)); err == nil {
		t.Error("expected error for empty catalog")
	}
	if _, err := ParseCatalog([]byte(`[`)); err == nil {
		t.Error("expected error for malformed catalog")
	}
}
