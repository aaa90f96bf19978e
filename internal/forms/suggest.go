package forms

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MaxSuggestions caps the list returned by Suggest.
const MaxSuggestions = 3

// Known reports whether input names one of candidates, ignoring case.
func Known(input string, candidates []string) bool {
	for _, c := range candidates {
		if strings.EqualFold(input, c) {
			return true
		}
	}
	return false
}

// Suggest returns the candidates closest to input, best first. An exact
// match yields no suggestions.
func Suggest(input string, candidates []string) []string {
	input = strings.TrimSpace(input)
	if input == "" || Known(input, candidates) {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(input, candidates)
	sort.Sort(ranks)

	result := make([]string, 0, min(len(ranks), MaxSuggestions))
	for _, rank := range ranks {
		if len(result) == MaxSuggestions {
			break
		}
		result = append(result, rank.Target)
	}
	return result
}
