package nlp

import (
	"sort"
	"strings"
)

// stopwords is a compact standard English stopword list. Candidate phrases
// are the runs of tokens between stopwords and punctuation.
var stopwords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true,
	"against": true, "all": true, "am": true, "an": true, "and": true,
	"any": true, "are": true, "as": true, "at": true, "be": true,
	"because": true, "been": true, "before": true, "being": true,
	"below": true, "between": true, "both": true, "but": true, "by": true,
	"can": true, "could": true, "did": true, "do": true, "does": true,
	"doing": true, "down": true, "during": true, "each": true, "few": true,
	"for": true, "from": true, "further": true, "had": true, "has": true,
	"have": true, "having": true, "he": true, "her": true, "here": true,
	"hers": true, "him": true, "his": true, "how": true, "i": true,
	"if": true, "in": true, "into": true, "is": true, "it": true,
	"its": true, "just": true, "me": true, "more": true, "most": true,
	"my": true, "no": true, "nor": true, "not": true, "now": true,
	"of": true, "off": true, "on": true, "once": true, "only": true,
	"or": true, "other": true, "our": true, "out": true, "over": true,
	"own": true, "same": true, "she": true, "should": true, "so": true,
	"some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "those": true,
	"through": true, "to": true, "too": true, "under": true, "until": true,
	"up": true, "very": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "where": true, "which": true,
	"while": true, "who": true, "whom": true, "why": true, "will": true,
	"with": true, "would": true, "you": true, "your": true,
}

var phraseBoundaries = ".,!?;:()[]{}\"\n\r\t"

// ExtractKeywords ranks candidate phrases RAKE-style and returns the top max
// of them, lowercased. Word score is degree/frequency over all candidate
// phrases; a phrase scores the sum of its word scores. Ties keep first
// occurrence order, and duplicate phrases keep their first position.
func ExtractKeywords(text string, max int) []string {
	phrases := candidatePhrases(text)
	if len(phrases) == 0 {
		return []string{}
	}

	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, phrase := range phrases {
		words := strings.Fields(phrase)
		for _, w := range words {
			freq[w]++
			degree[w] += len(words) - 1
		}
	}
	for w := range degree {
		degree[w] += freq[w]
	}

	type ranked struct {
		phrase string
		score  float64
		pos    int
	}

	seen := make(map[string]bool, len(phrases))
	scored := make([]ranked, 0, len(phrases))
	for i, phrase := range phrases {
		if seen[phrase] {
			continue
		}
		seen[phrase] = true

		var score float64
		for _, w := range strings.Fields(phrase) {
			score += float64(degree[w]) / float64(freq[w])
		}
		scored = append(scored, ranked{phrase: phrase, score: score, pos: i})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].pos < scored[j].pos
	})

	if max > len(scored) {
		max = len(scored)
	}
	keywords := make([]string, 0, max)
	for _, r := range scored[:max] {
		keywords = append(keywords, r.phrase)
	}
	return keywords
}

// candidatePhrases lowercases text, cuts it at punctuation, and splits each
// fragment at stopwords, yielding phrases in document order.
func candidatePhrases(text string) []string {
	var phrases []string

	for _, fragment := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return strings.ContainsRune(phraseBoundaries, r)
	}) {
		var current []string
		flush := func() {
			if len(current) > 0 {
				phrases = append(phrases, strings.Join(current, " "))
				current = nil
			}
		}
		for _, tok := range tokenize(fragment) {
			if stopwords[tok] {
				flush()
				continue
			}
			current = append(current, tok)
		}
		flush()
	}
	return phrases
}
