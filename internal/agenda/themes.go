// Copyright the finance-papers authors, 2025. All rights reserved.

package agenda

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"
)

//go:embed themes.yaml
var themesFile []byte

// Theme maps a research theme name to the keyword patterns that vote for it.
type Theme struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// LoadThemes returns the theme dictionary, reading path when given and
// falling back to the embedded table otherwise.
func LoadThemes(path string) ([]Theme, error) {
	data := themesFile
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading themes file: %w", err)
		}
	}

	var themes []Theme
	if err := yaml.Unmarshal(data, &themes); err != nil {
		return nil, fmt.Errorf("parsing themes file: %w", err)
	}
	if len(themes) == 0 {
		return nil, fmt.Errorf("themes file defines no themes")
	}
	return themes, nil
}

// InferThemes scores each theme by how many keywords contain one of its
// patterns and returns matching theme names, best first. Ties keep
// dictionary order. When nothing matches, a generic theme is synthesized
// from the top keywords so the result is never empty.
func InferThemes(keywords []string, themes []Theme) []string {
	lower := make([]string, len(keywords))
	for i, kw := range keywords {
		lower[i] = strings.ToLower(kw)
	}

	type scored struct {
		name  string
		score int
	}
	var hits []scored
	for _, theme := range themes {
		score := 0
		for _, kw := range lower {
			for _, pattern := range theme.Patterns {
				if strings.Contains(kw, pattern) {
					score++
					break
				}
			}
		}
		if score > 0 {
			hits = append(hits, scored{name: theme.Name, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if len(hits) == 0 {
		if len(keywords) == 0 {
			return []string{"General Finance Research"}
		}
		top := keywords
		if len(top) > 2 {
			top = top[:2]
		}
		return []string{titleCase(strings.Join(top, " & ")) + " Research"}
	}

	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return names
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
