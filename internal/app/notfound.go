package app

import "strings"

// stopWords are skipped during keyword extraction from questions.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "is": {}, "are": {}, "in": {}, "on": {}, "of": {},
	"and": {}, "or": {}, "to": {}, "for": {}, "with": {}, "about": {},
	"what": {}, "how": {}, "why": {}, "when": {}, "where": {}, "who": {},
	"which": {},
}

// notFoundPhrases mark a model answer as a refusal rather than an answer.
// Matching is substring-based on the lowercased answer, so "does not
// contain" is covered by "not contain".
var notFoundPhrases = []string{
	"i don't have enough information",
	"i cannot find",
	"not contain",
	"doesn't contain",
	"not in the provided",
	"not mentioned",
	"not included",
	"no information about",
	"cannot answer",
}

// extractKeywords lowercases the question and keeps every word longer
// than two characters that is not a stop word.
func extractKeywords(question string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(question)) {
		if _, skip := stopWords[word]; skip {
			continue
		}
		if len(word) <= 2 {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// answerIndicatesNotFound reports whether the model declined to answer
// from the supplied context, which triggers the next retrieval stage.
func answerIndicatesNotFound(answer string) bool {
	lower := strings.ToLower(answer)
	for _, phrase := range notFoundPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
