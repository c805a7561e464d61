// Copyright the finance-papers authors, 2025. All rights reserved.

package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anbrog/finance-papers/internal/rank"
	"github.com/anbrog/finance-papers/internal/store"
	"github.com/anbrog/finance-papers/pkg/types"
)

//go:embed templates
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := s.loadRankings(r.Context(), "", 0, 25)
	if err != nil {
		s.logger.Error().Err(err).Msg("loading rankings for index")
		http.Error(w, "failed to load rankings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, map[string]any{"Entries": entries}); err != nil {
		s.logger.Error().Err(err).Msg("rendering index")
	}
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	journal := r.URL.Query().Get("journal")
	if journal != "" {
		if _, ok := types.Journals[journal]; !ok {
			writeError(w, http.StatusBadRequest, "unknown journal "+journal)
			return
		}
	}
	year := queryInt(r, "year", 0)
	top := queryInt(r, "top", 40)

	entries, err := s.loadRankings(r.Context(), journal, year, top)
	if err != nil {
		s.logger.Error().Err(err).Msg("loading rankings")
		writeError(w, http.StatusInternalServerError, "failed to load rankings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"journal": journal,
		"year":    year,
		"authors": entries,
	})
}

func (s *Server) handleWorkingPapers(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", 0)

	paths, err := store.FindWorkingPaperDBs(s.dataDir, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to locate databases")
		return
	}

	var papers []types.WorkingPaper
	for _, path := range paths {
		st, err := store.Open(path)
		if err != nil {
			s.logger.Error().Err(err).Str("db", path).Msg("opening working papers")
			continue
		}
		batch, err := st.AllWorkingPapers(r.Context())
		st.Close()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read working papers")
			return
		}
		papers = append(papers, batch...)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(papers),
		"papers": papers,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.fetch == nil {
		writeError(w, http.StatusServiceUnavailable, "updates are not enabled")
		return
	}

	journal := chi.URLParam(r, "journal")
	if _, ok := types.Journals[journal]; !ok {
		writeError(w, http.StatusBadRequest, "unknown journal "+journal)
		return
	}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year must be numeric")
		return
	}

	summary, err := s.fetch(r.Context(), journal, year)
	if err != nil {
		s.logger.Error().Err(err).Str("journal", journal).Int("year", year).Msg("update failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.logger.Info().Str("journal", journal).Int("year", year).
		Int("new", summary.New).Int("duplicates", summary.Duplicates).Msg("update complete")
	writeJSON(w, http.StatusOK, map[string]any{
		"journal":    journal,
		"year":       year,
		"new":        summary.New,
		"duplicates": summary.Duplicates,
	})
}

// loadRankings aggregates articles across the matching databases and ranks
// their authors.
func (s *Server) loadRankings(ctx context.Context, journal string, year, top int) ([]types.RankingEntry, error) {
	paths, err := store.FindArticleDBs(s.dataDir, journal, year)
	if err != nil {
		return nil, err
	}

	var articles []types.Article
	for _, path := range paths {
		st, err := store.Open(path)
		if err != nil {
			s.logger.Error().Err(err).Str("db", path).Msg("opening article database")
			continue
		}
		batch, err := st.AllArticles(ctx)
		st.Close()
		if err != nil {
			return nil, err
		}
		articles = append(articles, batch...)
	}

	return rank.Authors(articles, top), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
