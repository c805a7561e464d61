// Copyright the finance-papers authors, 2025. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/anbrog/finance-papers/pkg/types"
)

// ScrapedStore persists publisher-page scrape results. Scraped rows carry
// positional page text rather than OpenAlex fields, so they live in their
// own database file (e.g. articles_jf.db).
type ScrapedStore struct {
	db   *sql.DB
	path string
}

// ScrapedDBPath returns the scrape database path for a journal, e.g.
// out/data/articles_jf.db.
func ScrapedDBPath(dataDir, journal string) string {
	return filepath.Join(dataDir, fmt.Sprintf("articles_%s.db", journal))
}

// OpenScraped opens or creates a scrape database at path.
func OpenScraped(path string) (*ScrapedStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		date TEXT,
		authors TEXT,
		abstract TEXT,
		volume TEXT,
		issue TEXT,
		link TEXT,
		scraped_at TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_scraped_link ON articles(link)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &ScrapedStore{db: db, path: path}, nil
}

// Close releases the database connection.
func (s *ScrapedStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *ScrapedStore) Path() string {
	return s.path
}

// Save inserts scraped articles that are not already present. Rows are
// keyed by link; rows without a link fall back to the title.
func (s *ScrapedStore) Save(ctx context.Context, articles []types.ScrapedArticle) (SaveSummary, error) {
	var summary SaveSummary
	now := types.Timestamp(time.Now())

	for _, a := range articles {
		var (
			exists int
			err    error
		)
		if a.Link != "" {
			err = s.db.QueryRowContext(ctx,
				`SELECT 1 FROM articles WHERE link = ?`, a.Link).Scan(&exists)
		} else {
			err = s.db.QueryRowContext(ctx,
				`SELECT 1 FROM articles WHERE title = ?`, a.Title).Scan(&exists)
		}
		switch {
		case err == nil:
			summary.Duplicates++
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return summary, fmt.Errorf("checking for duplicate %q: %w", a.Title, err)
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO articles (title, date, authors, abstract, volume, issue, link, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.Title, a.Date, a.Authors, a.Abstract, a.Volume, a.Issue, a.Link, now)
		if err != nil {
			return summary, fmt.Errorf("inserting %q: %w", a.Title, err)
		}
		summary.New++
	}
	return summary, nil
}

// All returns every scraped article in insertion order.
func (s *ScrapedStore) All(ctx context.Context) ([]types.ScrapedArticle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, date, authors, abstract, volume, issue, link FROM articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying scraped articles: %w", err)
	}
	defer rows.Close()

	var articles []types.ScrapedArticle
	for rows.Next() {
		var (
			a       types.ScrapedArticle
			title   sql.NullString
			date    sql.NullString
			authors sql.NullString
			abs     sql.NullString
			volume  sql.NullString
			issue   sql.NullString
			link    sql.NullString
		)
		if err := rows.Scan(&title, &date, &authors, &abs, &volume, &issue, &link); err != nil {
			return nil, fmt.Errorf("scanning scraped row: %w", err)
		}
		a.Title = title.String
		a.Date = date.String
		a.Authors = authors.String
		a.Abstract = abs.String
		a.Volume = volume.String
		a.Issue = issue.String
		a.Link = link.String
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
