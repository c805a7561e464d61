// Copyright the finance-papers authors, 2025. All rights reserved.

package openalex

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/anbrog/finance-papers/pkg/types"
)

// work mirrors the subset of an OpenAlex work record the pipeline keeps.
type work struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	PublicationDate       string           `json:"publication_date"`
	DOI                   string           `json:"doi"`
	CitedByCount          int              `json:"cited_by_count"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	Authorships           []authorship     `json:"authorships"`
	Type                  string           `json:"type"`
	PrimaryLocation       *struct {
		Source *struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
}

type authorship struct {
	Author struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		ORCID       string `json:"orcid"`
	} `json:"author"`
	Institutions []struct {
		DisplayName string `json:"display_name"`
	} `json:"institutions"`
}

type worksResponse struct {
	Meta struct {
		Count      int    `json:"count"`
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
	Results []work `json:"results"`
}

// FetchJournalYear retrieves every work published in the journal during the
// given year, following cursor pagination until the API reports no next
// cursor. Progress lines are written to w as each page arrives.
func (c *Client) FetchJournalYear(ctx context.Context, journal types.Journal, year int, w io.Writer) ([]types.Article, error) {
	filter := fmt.Sprintf("primary_location.source.id:%s,publication_year:%d", journal.SourceID, year)

	var articles []types.Article
	cursor := "*"
	for cursor != "" {
		params := url.Values{}
		params.Set("filter", filter)
		params.Set("per-page", fmt.Sprintf("%d", c.perPage()))
		params.Set("cursor", cursor)

		var page worksResponse
		if err := c.get(ctx, WorksBase, params, &page); err != nil {
			return nil, fmt.Errorf("fetching %s works for %d: %w", journal.Code, year, err)
		}

		for _, wk := range page.Results {
			articles = append(articles, articleFromWork(wk))
		}
		if w != nil {
			fmt.Fprintf(w, "  retrieved %d works (%d/%d)\n", len(page.Results), len(articles), page.Meta.Count)
		}

		cursor = page.Meta.NextCursor
	}
	return articles, nil
}

func articleFromWork(wk work) types.Article {
	authors := make([]types.Author, 0, len(wk.Authorships))
	for _, as := range wk.Authorships {
		a := types.Author{
			Name:  as.Author.DisplayName,
			ORCID: as.Author.ORCID,
		}
		for _, inst := range as.Institutions {
			a.Institutions = append(a.Institutions, inst.DisplayName)
		}
		authors = append(authors, a)
	}

	return types.Article{
		OpenAlexID:      shortID(wk.ID),
		Title:           wk.Title,
		PublicationDate: wk.PublicationDate,
		DOI:             wk.DOI,
		CitedByCount:    wk.CitedByCount,
		Abstract:        reconstructAbstract(wk.AbstractInvertedIndex),
		Authors:         authors,
	}
}

// shortID strips the https://openalex.org/ prefix the API puts on entity IDs.
func shortID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
