// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     text
// Description: Cleanup of OCR and clipboard text before synthesis
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Ren'Py speaker prefixes: a leading quoted name or a short "Name:" label
	quotedSpeakerRe = regexp.MustCompile(`^\s*"[^"]*"\s*`)
	labelSpeakerRe  = regexp.MustCompile(`^\s*[^\s:"][^:"]{0,31}:\s+`)

	terminalPunctRe = regexp.MustCompile(`[.!?]$`)
	asciiAlnumRe    = regexp.MustCompile(`[a-zA-Z0-9]`)

	elongatedOhRe = regexp.MustCompile(`(?i)\bo{2,}h+\b`)

	ouncesAfterNumRe = regexp.MustCompile(`(?i)(\d)\s*oz\b`)
	ouncesRe         = regexp.MustCompile(`(?i)\boz\b`)
	poundsAfterNumRe = regexp.MustCompile(`(?i)(\d)\s*lbs?\b`)
	poundsRe         = regexp.MustCompile(`(?i)\blbs?\b`)
	titleRe          = regexp.MustCompile(`\b(Mrs|Mr|Dr)\.`)

	stutterRe      = regexp.MustCompile(`\b[A-Za-z]-`)
	isolatedCapRe  = regexp.MustCompile(`\b[A-Z]\b`)
	hummingRe      = regexp.MustCompile(`(^|[^\w'’])[mM]{1,3}\b`)
	periodRunRe    = regexp.MustCompile(`\.{2,}`)
	punctOnlyToken = regexp.MustCompile(`^[.,!?;:]+$`)
)

var renpyGlyphs = strings.NewReplacer("|", "I", "$", "s", "¢", "c")

var decorations = strings.NewReplacer("~", "", "*", "", "♪", "", "♫", "")

var fractions = strings.NewReplacer(
	"¼", " a quarter ",
	"½", " a half ",
	"¾", " three quarters ",
)

var titles = map[string]string{
	"Mr":  "Mister",
	"Mrs": "Missus",
	"Dr":  "Doctor",
}

var vocalizations = map[string]string{
	"A": "Ah",
	"O": "Oh",
	"H": "Hhh",
	"E": "Ehh",
	"U": "Uhh",
}

// Preprocess turns raw screen or clipboard text into text suitable for
// synthesis. It is pure: the same input and mode always give the same output.
// The result has no leading, trailing or doubled spaces; an empty result
// means there is nothing to speak.
func Preprocess(raw string, renpyMode bool) string {
	s := raw
	if renpyMode {
		s = stripRenpy(s)
	}

	s = resegmentLines(s)

	s = decorations.Replace(s)
	s = elongatedOhRe.ReplaceAllString(s, "Oh")
	s = fractions.Replace(s)
	s = expandAbbreviations(s)
	s = collapseLeadingRepeats(s)
	s = stutterRe.ReplaceAllString(s, "")
	s = vocalize(s)
	s = hummingRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "…", ".")
	s = periodRunRe.ReplaceAllString(s, ".")

	return dropIsolatedPunctuation(s)
}

// stripRenpy flattens line breaks, removes the speaker prefix and fixes
// glyphs the voice engine mispronounces.
func stripRenpy(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	s = quotedSpeakerRe.ReplaceAllString(s, "")
	s = labelSpeakerRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	return renpyGlyphs.Replace(s)
}

// resegmentLines turns each line break into a sentence boundary.
func resegmentLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !terminalPunctRe.MatchString(line) && asciiAlnumRe.MatchString(line) {
			line += "."
		}
		out = append(out, line)
	}
	return strings.Join(out, " ")
}

func expandAbbreviations(s string) string {
	s = ouncesAfterNumRe.ReplaceAllString(s, "$1 ounces")
	s = ouncesRe.ReplaceAllString(s, "ounces")
	s = poundsAfterNumRe.ReplaceAllString(s, "$1 pounds")
	s = poundsRe.ReplaceAllString(s, "pounds")
	return titleRe.ReplaceAllStringFunc(s, func(m string) string {
		return titles[strings.TrimSuffix(m, ".")]
	})
}

// collapseLeadingRepeats shortens a run of three or more identical letters
// at the start of a word to its first letter, so "Sssstop" reads "Stop".
func collapseLeadingRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsLetter(r) || prevLetter {
			prevLetter = unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
			b.WriteString(s[i : i+size])
			i += size
			continue
		}

		// word start: measure the run of the same letter
		j := i + size
		run := 1
		for j < len(s) {
			next, n := utf8.DecodeRuneInString(s[j:])
			if unicode.ToLower(next) != unicode.ToLower(r) {
				break
			}
			run++
			j += n
		}
		if run >= 3 {
			b.WriteRune(r)
		} else {
			b.WriteString(s[i:j])
		}
		prevLetter = true
		i = j
	}
	return b.String()
}

// vocalize expands isolated capitals the engine would spell out. A capital
// followed by an apostrophe (O'Brien) is left alone.
func vocalize(s string) string {
	matches := isolatedCapRe.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		word := s[m[0]:m[1]]
		repl, ok := vocalizations[word]
		if !ok || strings.HasPrefix(s[m[1]:], "'") || strings.HasPrefix(s[m[1]:], "’") {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(repl)
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// dropIsolatedPunctuation removes whitespace-delimited tokens made only of
// punctuation and collapses whitespace in the same pass.
func dropIsolatedPunctuation(s string) string {
	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if punctOnlyToken.MatchString(f) {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
