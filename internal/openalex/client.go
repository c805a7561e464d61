// Copyright the finance-papers authors, 2025. All rights reserved.

// Package openalex queries the OpenAlex REST API for journal articles,
// author records, and working papers.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/anbrog/finance-papers/internal/httputil"
)

// API endpoints. Declared as vars so tests can substitute an httptest server.
var (
	WorksBase   = "https://api.openalex.org/works"
	AuthorsBase = "https://api.openalex.org/authors"
)

// Client issues OpenAlex API requests. The zero value is not usable; set
// HTTP at minimum.
type Client struct {
	HTTP *http.Client

	// UserAgent is sent with every request.
	UserAgent string

	// Mailto is sent as the mailto parameter for polite pool access when set.
	Mailto string

	// PerPage is the page size for paginated calls (default 200, the API maximum).
	PerPage int
}

func (c *Client) perPage() int {
	if c.PerPage <= 0 || c.PerPage > 200 {
		return 200
	}
	return c.PerPage
}

// get issues a GET to base with params, retrying on 429, and decodes the
// JSON response into v. Non-200 responses are turned into errors carrying
// the API's own error message when one can be decoded.
func (c *Client) get(ctx context.Context, base string, params url.Values, v any) error {
	if c.Mailto != "" {
		params.Set("mailto", c.Mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return nil
}

// apiError builds an error from a non-200 response, preferring the decoded
// API message so bad filters are diagnosable.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var detail struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Error != "" {
		if detail.Message != "" {
			return fmt.Errorf("OpenAlex API error %d: %s: %s", resp.StatusCode, detail.Error, detail.Message)
		}
		return fmt.Errorf("OpenAlex API error %d: %s", resp.StatusCode, detail.Error)
	}
	return fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	out := make([]byte, 0, len(pairs)*6)
	for i, p := range pairs {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, p.word...)
	}
	return string(out)
}
