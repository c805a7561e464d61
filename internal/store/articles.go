// Copyright the finance-papers authors, 2025. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anbrog/finance-papers/pkg/types"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("not found")

const articleColumns = `id, openalex_id, title, publication_date, doi,
	cited_by_count, abstract, authors_json, scraped_at`

// SaveArticles inserts articles that are not already present, keyed by
// OpenAlex ID. Re-saving the same batch reports everything as a duplicate
// and changes nothing.
func (s *Store) SaveArticles(ctx context.Context, articles []types.Article) (SaveSummary, error) {
	var summary SaveSummary
	now := types.Timestamp(time.Now())

	for _, a := range articles {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM openalex_articles WHERE openalex_id = ?`, a.OpenAlexID,
		).Scan(&exists)
		switch {
		case err == nil:
			summary.Duplicates++
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return summary, fmt.Errorf("checking for duplicate %s: %w", a.OpenAlexID, err)
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO openalex_articles
				(openalex_id, title, publication_date, doi, cited_by_count, abstract, authors_json, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.OpenAlexID, a.Title, a.PublicationDate, a.DOI, a.CitedByCount, a.Abstract, a.AuthorsJSON(), now)
		if err != nil {
			return summary, fmt.Errorf("inserting %s: %w", a.OpenAlexID, err)
		}
		summary.New++
	}
	return summary, nil
}

// AllArticles returns every stored article ordered by publication date,
// newest first.
func (s *Store) AllArticles(ctx context.Context) ([]types.Article, error) {
	return s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM openalex_articles ORDER BY publication_date DESC`)
}

// ListArticles returns up to limit articles ordered by publication date,
// newest first. A limit of zero or less returns everything.
func (s *Store) ListArticles(ctx context.Context, limit int) ([]types.Article, error) {
	if limit <= 0 {
		return s.AllArticles(ctx)
	}
	return s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM openalex_articles ORDER BY publication_date DESC LIMIT ?`, limit)
}

// GetArticle returns the article with the given OpenAlex ID, or ErrNotFound.
func (s *Store) GetArticle(ctx context.Context, openalexID string) (*types.Article, error) {
	articles, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM openalex_articles WHERE openalex_id = ?`, openalexID)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("article %s: %w", openalexID, ErrNotFound)
	}
	return &articles[0], nil
}

// SearchArticles returns articles whose title or abstract contains term,
// case-insensitively.
func (s *Store) SearchArticles(ctx context.Context, term string) ([]types.Article, error) {
	pattern := "%" + term + "%"
	return s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM openalex_articles
		 WHERE title LIKE ? OR abstract LIKE ?
		 ORDER BY publication_date DESC`, pattern, pattern)
}

// ArticlesByAuthor returns articles whose author list contains name.
func (s *Store) ArticlesByAuthor(ctx context.Context, name string) ([]types.Article, error) {
	return s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM openalex_articles
		 WHERE authors_json LIKE ?
		 ORDER BY publication_date DESC`, "%"+name+"%")
}

// CountArticles returns the number of stored articles.
func (s *Store) CountArticles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM openalex_articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return n, nil
}

func (s *Store) queryArticles(ctx context.Context, query string, args ...any) ([]types.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func scanArticle(rows *sql.Rows) (types.Article, error) {
	var (
		a           types.Article
		title       sql.NullString
		pubDate     sql.NullString
		doi         sql.NullString
		abstract    sql.NullString
		authorsJSON sql.NullString
		scrapedAt   sql.NullString
	)
	err := rows.Scan(&a.RowID, &a.OpenAlexID, &title, &pubDate, &doi,
		&a.CitedByCount, &abstract, &authorsJSON, &scrapedAt)
	if err != nil {
		return a, fmt.Errorf("scanning article row: %w", err)
	}
	a.Title = title.String
	a.PublicationDate = pubDate.String
	a.DOI = doi.String
	a.Abstract = abstract.String
	a.ScrapedAt = scrapedAt.String
	if authorsJSON.String != "" {
		a.Authors = types.ParseAuthors(authorsJSON.String)
	}
	return a, nil
}
