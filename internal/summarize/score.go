package summarize

import "strings"

// Keyword buckets signalling engineering effort in generated summary text.
var (
	structuralWords = []string{"replace", "migrate", "refactor", "architect", "integration"}
	scopeWords      = []string{"multiple", "packages", "months", "complex", "major"}
	reworkWords     = []string{"revamp", "overhaul", "redesign"}
)

// ComplexityScore ranks summary text by coarse effort signals: structural
// work weighs 10, broad scope 8, rework 8. Text matching nothing scores
// zero. Deliberately simple so the ranking stays inspectable.
func ComplexityScore(text string) int {
	t := strings.ToLower(text)
	score := 0
	if containsAny(t, structuralWords) { score += 10 }
	if containsAny(t, scopeWords) { score += 8 }
	if containsAny(t, reworkWords) { score += 8 }
	return score
}

func containsAny(t string, words []string) bool {
	for _, w := range words {
		if strings.Contains(t, w) { return true }
	}
	return false
}
