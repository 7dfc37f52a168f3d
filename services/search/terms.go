package search

import "strings"

// escapedCharacters are regex metacharacters neutralized in raw query
// tokens. The escape character itself must come first, otherwise the
// backslashes added for the other characters would be escaped again.
var escapedCharacters = []string{`\`, `*`, `?`, `(`, `)`, `[`, `]`}

// sanitizeTerms escapes regex metacharacters in each raw token and drops
// empty tokens. Order is preserved; sanitization is total.
func sanitizeTerms(rawTerms []string) []string {
	sanitized := make([]string, 0, len(rawTerms))
	for _, term := range rawTerms {
		for _, character := range escapedCharacters {
			term = strings.ReplaceAll(term, character, `\`+character)
		}
		if term == "" {
			continue
		}
		sanitized = append(sanitized, term)
	}

	return sanitized
}

// mergeTerms joins sanitized terms into the merged query string used for
// exact-match ranking, substring matching and edit-distance comparison.
func mergeTerms(terms []string) string {
	return strings.Join(terms, " ")
}
