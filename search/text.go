package search

import "strings"

// tokenize splits text into lower-cased whitespace-delimited terms, trimming
// surrounding punctuation. Duplicate terms are collapsed; term order is not
// significant to matching.
func tokenize(text string) []string {
	words := strings.Fields(text)
	terms := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		terms = append(terms, cleaned)
	}

	return terms
}
