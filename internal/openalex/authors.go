// Copyright the finance-papers authors, 2025. All rights reserved.

package openalex

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/anbrog/finance-papers/pkg/types"
)

// ErrAuthorNotFound is returned when an author name search yields no results.
var ErrAuthorNotFound = errors.New("author not found")

type authorsResponse struct {
	Results []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"results"`
}

// ParseAuthorSpec splits a "Name|A123456" author specification into its
// parts. A spec without a pipe carries only the name; the ID must then be
// resolved through ResolveAuthorID.
func ParseAuthorSpec(spec string) (name, id string) {
	if i := strings.IndexByte(spec, '|'); i >= 0 {
		return strings.TrimSpace(spec[:i]), strings.TrimSpace(spec[i+1:])
	}
	return strings.TrimSpace(spec), ""
}

// ResolveAuthorID searches OpenAlex for the author with the given display
// name and returns the best match's short ID (e.g. "A5017898742").
func (c *Client) ResolveAuthorID(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("filter", "display_name.search:"+name)
	params.Set("per-page", "1")

	var resp authorsResponse
	if err := c.get(ctx, AuthorsBase, params, &resp); err != nil {
		return "", fmt.Errorf("searching author %q: %w", name, err)
	}
	if len(resp.Results) == 0 {
		return "", fmt.Errorf("author %q: %w", name, ErrAuthorNotFound)
	}
	return shortID(resp.Results[0].ID), nil
}

// WorkingPapers retrieves non-article works by the author, which on OpenAlex
// covers preprints and other working-paper types. When year is nonzero the
// results are limited to works published since January of the prior year.
func (c *Client) WorkingPapers(ctx context.Context, authorID, authorName string, year int) ([]types.WorkingPaper, error) {
	filter := fmt.Sprintf("authorships.author.id:%s,type:!article", authorID)
	if year > 0 {
		filter += fmt.Sprintf(",from_publication_date:%d-01-01", year-1)
	}

	params := url.Values{}
	params.Set("filter", filter)
	params.Set("per-page", fmt.Sprintf("%d", c.perPage()))

	var page worksResponse
	if err := c.get(ctx, WorksBase, params, &page); err != nil {
		return nil, fmt.Errorf("fetching working papers for %s: %w", authorName, err)
	}

	papers := make([]types.WorkingPaper, 0, len(page.Results))
	for _, wk := range page.Results {
		wp := types.WorkingPaper{
			OpenAlexID:      shortID(wk.ID),
			Title:           wk.Title,
			PublicationDate: wk.PublicationDate,
			DOI:             wk.DOI,
			AuthorName:      authorName,
			Type:            wk.Type,
			CitedByCount:    wk.CitedByCount,
		}
		if wk.PrimaryLocation != nil && wk.PrimaryLocation.Source != nil {
			wp.PrimaryLocation = wk.PrimaryLocation.Source.DisplayName
		}
		for _, as := range wk.Authorships {
			if shortID(as.Author.ID) == authorID && len(as.Institutions) > 0 {
				wp.AuthorAffiliation = as.Institutions[0].DisplayName
				break
			}
		}
		papers = append(papers, wp)
	}
	return papers, nil
}
