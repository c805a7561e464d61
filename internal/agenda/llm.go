// Copyright the finance-papers authors, 2025. All rights reserved.

package agenda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anbrog/finance-papers/pkg/types"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultModel         = "gpt-4o-mini"
	defaultMaxTokens     = 300
	llmRetryDelay        = 2 * time.Second
)

// Summarizer writes research agenda descriptions with the OpenAI Chat
// Completions API.
type Summarizer struct {
	HTTP       *http.Client
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Summarize asks the model for a short prose description of the author's
// research agenda. Callers fall back to KeywordSummary on any error.
func (s *Summarizer) Summarize(ctx context.Context, result types.AgendaResult) (string, error) {
	if s.APIKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	req := chatRequest{
		Model: s.model(),
		Messages: []chatMessage{
			{Role: "system", Content: "You summarize the research agenda of finance academics in two or three sentences of plain prose."},
			{Role: "user", Content: buildPrompt(result)},
		},
		Temperature: 0.3,
		MaxTokens:   defaultMaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(llmRetryDelay * time.Duration(attempt)):
			}
		}

		text, retryable, err := s.doRequest(ctx, req)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("exhausted %d retries: %w", s.MaxRetries, lastErr)
}

func (s *Summarizer) doRequest(ctx context.Context, chatReq chatRequest) (text string, retryable bool, err error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", false, fmt.Errorf("encoding chat request: %w", err)
	}

	base := s.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	client := s.HTTP
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, fmt.Errorf("reading chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, fmt.Errorf("parsing chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if parsed.Error != nil {
			return "", retryable, fmt.Errorf("chat API error %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", retryable, fmt.Errorf("chat API returned HTTP %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("chat response has no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), false, nil
}

func (s *Summarizer) model() string {
	if s.Model != "" {
		return s.Model
	}
	return defaultModel
}

func buildPrompt(result types.AgendaResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Author: %s\n", result.Author)
	fmt.Fprintf(&b, "Papers in sample: %d (total citations %d)\n", result.PaperCount, result.TotalCitations)
	if len(result.Themes) > 0 {
		fmt.Fprintf(&b, "Inferred themes: %s\n", strings.Join(result.Themes, "; "))
	}
	if len(result.Keywords) > 0 {
		kws := result.Keywords
		if len(kws) > 15 {
			kws = kws[:15]
		}
		fmt.Fprintf(&b, "Top keywords: %s\n", strings.Join(kws, ", "))
	}
	if len(result.RecentPapers) > 0 {
		b.WriteString("Recent papers:\n")
		for _, p := range result.RecentPapers {
			fmt.Fprintf(&b, "- %s (%s)\n", p.Title, p.Date)
		}
	}
	b.WriteString("\nDescribe this author's research agenda.")
	return b.String()
}
