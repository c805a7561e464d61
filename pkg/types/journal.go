// Copyright the finance-papers authors, 2025. All rights reserved.

package types

import (
	"fmt"
	"sort"
	"strings"
)

// Journal describes a tracked journal: its short code, display name, and
// OpenAlex source ID.
type Journal struct {
	Code     string
	Name     string
	SourceID string
}

// Journals is the registry of tracked journals keyed by short code.
var Journals = map[string]Journal{
	"jf":  {Code: "jf", Name: "The Journal of Finance", SourceID: "S5353659"},
	"rfs": {Code: "rfs", Name: "Review of Financial Studies", SourceID: "S170137484"},
	"jfe": {Code: "jfe", Name: "Journal of Financial Economics", SourceID: "S149240962"},
}

// Top3 is the pseudo-code that expands to all registry journals.
const Top3 = "top3"

// ExpandJournals resolves a journal argument to a sorted list of codes.
// "top3" expands to every registry journal; an empty string returns nil,
// meaning "all databases regardless of journal".
func ExpandJournals(arg string) ([]string, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return nil, nil
	}
	if arg == Top3 {
		codes := make([]string, 0, len(Journals))
		for code := range Journals {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		return codes, nil
	}
	if _, ok := Journals[arg]; !ok {
		return nil, fmt.Errorf("unknown journal %q: available: %s, %s", arg, JournalCodes(), Top3)
	}
	return []string{arg}, nil
}

// JournalCodes returns the registry codes as a comma-separated string for
// usage messages.
func JournalCodes() string {
	codes := make([]string, 0, len(Journals))
	for code := range Journals {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ", ")
}
