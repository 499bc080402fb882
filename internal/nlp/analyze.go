// Package nlp provides deterministic, offline text analysis for ingested
// social content: lexicon-based sentiment, RAKE keyword extraction, and
// hashtag scanning. Everything here operates on strings alone — no network,
// no persistence — so it stays unit-testable and locale-invariant (English
// lexicon only).
package nlp

import (
	"regexp"
	"strings"
)

// MaxKeywords caps how many ranked phrases Analyze returns.
const MaxKeywords = 5

var hashtagRe = regexp.MustCompile(`#\w+`)

// Result bundles the three analysis signals for a piece of text.
type Result struct {
	// Sentiment is a comparative score: summed word polarities divided by
	// the token count. Zero for empty or no-match text.
	Sentiment float64

	// Keywords are the top-ranked phrases, at most MaxKeywords, ordered by
	// score with ties broken by first occurrence.
	Keywords []string

	// Hashtags are lowercased, deduplicated, in first-occurrence order.
	Hashtags []string
}

// Analyze runs sentiment, keyword, and hashtag extraction over text.
func Analyze(text string) Result {
	return Result{
		Sentiment: Sentiment(text),
		Keywords:  ExtractKeywords(text, MaxKeywords),
		Hashtags:  ExtractHashtags(text),
	}
}

// ExtractHashtags scans for #-prefixed word sequences and returns them
// lowercased, preserving first-occurrence order, without duplicates.
func ExtractHashtags(text string) []string {
	matches := hashtagRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{}
	}

	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
