// Copyright the finance-papers authors, 2025. All rights reserved.

// Package agenda classifies an author's research agenda from paper titles
// and abstracts: TF-IDF keyword extraction, theme inference from a keyword
// dictionary, and an optional LLM-written summary.
package agenda

import (
	_ "embed"
	"regexp"
	"strings"
)

//go:embed stopwords.txt
var stopwordsFile string

var stopwords = func() map[string]bool {
	set := make(map[string]bool)
	for _, line := range strings.Split(stopwordsFile, "\n") {
		if word := strings.TrimSpace(line); word != "" {
			set[word] = true
		}
	}
	return set
}()

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s-]`)

// tokenize lowercases text, strips punctuation, and drops stopwords and
// single-character tokens.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	text = strings.ToLower(text)
	text = nonAlnum.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "-", " ")

	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) > 1 && !stopwords[word] {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// ngrams expands tokens into uni-, bi-, and tri-grams. Multi-word grams
// join adjacent surviving tokens with a space.
func ngrams(tokens []string, maxN int) []string {
	var grams []string
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}
