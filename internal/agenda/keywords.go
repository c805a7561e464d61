// Copyright the finance-papers authors, 2025. All rights reserved.

package agenda

import (
	"math"
	"sort"

	"github.com/anbrog/finance-papers/pkg/types"
)

const maxNgram = 3

// document is one paper's text prepared for keyword extraction.
type document struct {
	counts map[string]int
}

// buildDocuments turns articles into term-count documents. Abstract terms
// count double so that abstract vocabulary outweighs title vocabulary.
func buildDocuments(articles []types.Article) []document {
	docs := make([]document, 0, len(articles))
	for _, a := range articles {
		counts := make(map[string]int)
		for _, gram := range ngrams(tokenize(a.Title), maxNgram) {
			counts[gram]++
		}
		for _, gram := range ngrams(tokenize(a.Abstract), maxNgram) {
			counts[gram] += 2
		}
		if len(counts) > 0 {
			docs = append(docs, document{counts: counts})
		}
	}
	return docs
}

// ExtractKeywords returns the topN corpus keywords ranked by summed TF-IDF
// score. Ties break alphabetically, so the output is deterministic for a
// fixed input.
func ExtractKeywords(articles []types.Article, topN int) []string {
	docs := buildDocuments(articles)
	if len(docs) == 0 {
		return nil
	}

	df := make(map[string]int)
	for _, d := range docs {
		for term := range d.counts {
			df[term]++
		}
	}

	// Smoothed IDF keeps single-document corpora from zeroing every score.
	n := float64(len(docs))
	scores := make(map[string]float64, len(df))
	for _, d := range docs {
		for term, tf := range d.counts {
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			scores[term] += (1 + math.Log(float64(tf))) * idf
		}
	}

	terms := make([]string, 0, len(scores))
	for term := range scores {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if scores[terms[i]] != scores[terms[j]] {
			return scores[terms[i]] > scores[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if topN > 0 && len(terms) > topN {
		terms = terms[:topN]
	}
	return terms
}
