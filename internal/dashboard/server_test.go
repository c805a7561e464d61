// Copyright the finance-papers authors, 2025. All rights reserved.

package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/anbrog/finance-papers/internal/store"
	"github.com/anbrog/finance-papers/pkg/types"
)

func testServer(t *testing.T, fetch FetchFunc) (*Server, string) {
	t.Helper()
	dataDir := t.TempDir()

	st, err := store.Open(store.ArticleDBPath(dataDir, "jf", 2023))
	if err != nil {
		t.Fatal(err)
	}
	_, err = st.SaveArticles(context.Background(), []types.Article{
		{
			OpenAlexID:      "W1111111111",
			Title:           "A Theory of Dividend Smoothing",
			PublicationDate: "2023-03-15",
			CitedByCount:    42,
			Authors:         []types.Author{{Name: "Jane Doe"}},
		},
	})
	st.Close()
	if err != nil {
		t.Fatal(err)
	}

	wp, err := store.Open(store.WorkingPaperDBPath(dataDir, 0))
	if err != nil {
		t.Fatal(err)
	}
	_, err = wp.SaveWorkingPapers(context.Background(), []types.WorkingPaper{
		{OpenAlexID: "W9", Title: "WP", AuthorName: "Jane Doe", PublicationDate: "2024-01-01"},
	})
	wp.Close()
	if err != nil {
		t.Fatal(err)
	}

	cfg := types.DashboardConfig{Addr: "127.0.0.1:0", DataDir: dataDir}
	return NewServer(cfg, fetch, zerolog.Nop()), dataDir
}

func TestHandleRankings(t *testing.T) {
	s, _ := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rankings?journal=jf&year=2023", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Journal string               `json:"journal"`
		Authors []types.RankingEntry `json:"authors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(resp.Authors) != 1 || resp.Authors[0].Author != "Jane Doe" {
		t.Errorf("authors = %+v", resp.Authors)
	}
	if resp.Authors[0].Citations != 42 {
		t.Errorf("citations = %d, want 42", resp.Authors[0].Citations)
	}
}

func TestHandleRankingsUnknownJournal(t *testing.T) {
	s, _ := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rankings?journal=nope", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleWorkingPapers(t *testing.T) {
	s, _ := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/working-papers", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Count  int                  `json:"count"`
		Papers []types.WorkingPaper `json:"papers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Papers[0].AuthorName != "Jane Doe" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleIndexRendersTable(t *testing.T) {
	s, _ := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Jane Doe") || !strings.Contains(body, "<table>") {
		t.Errorf("index missing ranking table:\n%s", body)
	}
}

func TestHandleUpdate(t *testing.T) {
	var gotJournal string
	var gotYear int
	fetch := func(ctx context.Context, journal string, year int) (store.SaveSummary, error) {
		gotJournal, gotYear = journal, year
		return store.SaveSummary{New: 7, Duplicates: 2}, nil
	}
	s, _ := testServer(t, fetch)

	req := httptest.NewRequest(http.MethodPost, "/api/update/rfs/2024", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotJournal != "rfs" || gotYear != 2024 {
		t.Errorf("fetch called with %s/%d", gotJournal, gotYear)
	}
	if !strings.Contains(rec.Body.String(), `"new":7`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleUpdateErrors(t *testing.T) {
	// No fetch wired: endpoint disabled.
	s, _ := testServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/update/jf/2024", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	// Failing fetch surfaces as 502.
	s, _ = testServer(t, func(ctx context.Context, journal string, year int) (store.SaveSummary, error) {
		return store.SaveSummary{}, fmt.Errorf("upstream unavailable")
	})
	req = httptest.NewRequest(http.MethodPost, "/api/update/jf/2024", nil)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}

	// Unknown journal rejected before fetch.
	req = httptest.NewRequest(http.MethodPost, "/api/update/nope/2024", nil)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
