package retrieval

import (
	"strings"
	"unicode"
)

// Question words and filler that carry no retrieval signal. Tokens shorter
// than three characters are dropped regardless.
var stopWords = map[string]struct{}{
	"what":  {},
	"where": {},
	"when":  {},
	"which": {},
	"this":  {},
	"that":  {},
	"these": {},
	"those": {},
	"the":   {},
	"is":    {},
	"are":   {},
	"was":   {},
	"were":  {},
}

// ExtractKeywords tokenizes a question on whitespace, lower-cases the
// tokens, trims surrounding punctuation and drops stop words and tokens
// shorter than three characters. Order follows first appearance; duplicates
// are removed.
func ExtractKeywords(question string) []string {
	fields := strings.Fields(strings.ToLower(question))
	keywords := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, token := range fields {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len(token) < 3 {
			continue
		}
		if _, ok := stopWords[token]; ok {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}
	return keywords
}
