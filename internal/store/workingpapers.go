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

const wpColumns = `id, openalex_id, title, publication_date, doi, author_name,
	author_affiliation, type, primary_location, cited_by_count, scraped_at`

// SaveWorkingPapers inserts working papers that are not already present,
// keyed by OpenAlex ID.
func (s *Store) SaveWorkingPapers(ctx context.Context, papers []types.WorkingPaper) (SaveSummary, error) {
	var summary SaveSummary
	now := types.Timestamp(time.Now())

	for _, p := range papers {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM working_papers WHERE openalex_id = ?`, p.OpenAlexID,
		).Scan(&exists)
		switch {
		case err == nil:
			summary.Duplicates++
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return summary, fmt.Errorf("checking for duplicate %s: %w", p.OpenAlexID, err)
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO working_papers
				(openalex_id, title, publication_date, doi, author_name, author_affiliation,
				 type, primary_location, cited_by_count, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.OpenAlexID, p.Title, p.PublicationDate, p.DOI, p.AuthorName, p.AuthorAffiliation,
			p.Type, p.PrimaryLocation, p.CitedByCount, now)
		if err != nil {
			return summary, fmt.Errorf("inserting %s: %w", p.OpenAlexID, err)
		}
		summary.New++
	}
	return summary, nil
}

// AllWorkingPapers returns every stored working paper, newest first.
func (s *Store) AllWorkingPapers(ctx context.Context) ([]types.WorkingPaper, error) {
	return s.queryWorkingPapers(ctx,
		`SELECT `+wpColumns+` FROM working_papers ORDER BY publication_date DESC`)
}

// WorkingPapersByAuthor returns working papers fetched for the named author,
// newest first.
func (s *Store) WorkingPapersByAuthor(ctx context.Context, author string) ([]types.WorkingPaper, error) {
	return s.queryWorkingPapers(ctx,
		`SELECT `+wpColumns+` FROM working_papers
		 WHERE author_name = ?
		 ORDER BY publication_date DESC`, author)
}

// CountWorkingPapers returns the number of stored working papers.
func (s *Store) CountWorkingPapers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM working_papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting working papers: %w", err)
	}
	return n, nil
}

func (s *Store) queryWorkingPapers(ctx context.Context, query string, args ...any) ([]types.WorkingPaper, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying working papers: %w", err)
	}
	defer rows.Close()

	var papers []types.WorkingPaper
	for rows.Next() {
		var (
			p           types.WorkingPaper
			title       sql.NullString
			pubDate     sql.NullString
			doi         sql.NullString
			author      sql.NullString
			affiliation sql.NullString
			wpType      sql.NullString
			location    sql.NullString
			scrapedAt   sql.NullString
		)
		err := rows.Scan(&p.RowID, &p.OpenAlexID, &title, &pubDate, &doi, &author,
			&affiliation, &wpType, &location, &p.CitedByCount, &scrapedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning working paper row: %w", err)
		}
		p.Title = title.String
		p.PublicationDate = pubDate.String
		p.DOI = doi.String
		p.AuthorName = author.String
		p.AuthorAffiliation = affiliation.String
		p.Type = wpType.String
		p.PrimaryLocation = location.String
		p.ScrapedAt = scrapedAt.String
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
