package text

import "strings"

// Normalize trims text and collapses every whitespace run to a single space.
// It is used to compare captures, never to produce speech.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitSentences splits text after '.', '!' or '?' when followed by one or
// more spaces. The terminator stays with its sentence; order is preserved
// and empty pieces are dropped.
func SplitSentences(s string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		for j < len(s) && s[j] == ' ' {
			j++
		}
		if j == i+1 {
			continue
		}
		if piece := strings.TrimSpace(s[start : i+1]); piece != "" {
			sentences = append(sentences, piece)
		}
		start = j
		i = j - 1
	}
	if piece := strings.TrimSpace(s[start:]); piece != "" {
		sentences = append(sentences, piece)
	}
	return sentences
}
