// Copyright the finance-papers authors, 2025. All rights reserved.

// Package store persists journal articles and working papers in per-journal
// SQLite database files.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages one SQLite database file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS openalex_articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			openalex_id TEXT UNIQUE NOT NULL,
			title TEXT,
			publication_date TEXT,
			doi TEXT,
			cited_by_count INTEGER DEFAULT 0,
			abstract TEXT,
			authors_json TEXT,
			scraped_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_openalex_id ON openalex_articles(openalex_id)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_doi ON openalex_articles(doi)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_publication_date ON openalex_articles(publication_date)`,
		`CREATE TABLE IF NOT EXISTS working_papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			openalex_id TEXT UNIQUE NOT NULL,
			title TEXT,
			publication_date TEXT,
			doi TEXT,
			author_name TEXT,
			author_affiliation TEXT,
			type TEXT,
			primary_location TEXT,
			cited_by_count INTEGER DEFAULT 0,
			scraped_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wp_openalex_id ON working_papers(openalex_id)`,
		`CREATE INDEX IF NOT EXISTS idx_wp_author_name ON working_papers(author_name)`,
		`CREATE INDEX IF NOT EXISTS idx_wp_publication_date ON working_papers(publication_date)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveSummary holds counts from a save run.
type SaveSummary struct {
	New        int
	Duplicates int
}

// Total returns the number of records processed.
func (s SaveSummary) Total() int {
	return s.New + s.Duplicates
}
