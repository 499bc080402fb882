package nlp

import "strings"

// polarity is an AFINN-style English valence lexicon, trimmed to terms that
// actually show up in hazard and disaster chatter plus common evaluative
// words. Scores range -5..+5.
var polarity = map[string]int{
	// positive
	"calm": 2, "clear": 1, "good": 3, "great": 3, "safe": 1, "safely": 1,
	"saved": 2, "rescue": 2, "rescued": 2, "recover": 2, "recovered": 2,
	"relief": 2, "improved": 2, "improving": 2, "hope": 2, "hopeful": 2,
	"help": 2, "helpful": 2, "helping": 2, "support": 2, "strong": 2,
	"survived": 2, "survivor": 2, "thankful": 2, "thanks": 2, "welcome": 2,
	"protect": 1, "protected": 1, "ready": 1, "stable": 1, "secure": 2,

	// negative
	"alarm": -2, "alarming": -2, "alert": -1, "afraid": -2, "anxious": -2,
	"bad": -3, "catastrophe": -3, "catastrophic": -4, "chaos": -2,
	"collapse": -2, "collapsed": -2, "crisis": -3, "cyclone": -2,
	"damage": -3, "damaged": -3, "danger": -2, "dangerous": -2, "dead": -3,
	"death": -2, "deaths": -2, "destroyed": -3, "destruction": -3,
	"devastated": -2, "devastating": -2, "died": -3, "disaster": -2,
	"disastrous": -3, "drown": -2, "drowned": -2, "drowning": -2,
	"emergency": -2, "evacuate": -2, "evacuated": -2, "evacuation": -2,
	"fear": -2, "feared": -2, "flood": -2, "flooded": -2, "flooding": -2,
	"fled": -2, "gone": -1, "grim": -2, "havoc": -2, "horrible": -3,
	"horrific": -3, "injured": -2, "injuries": -2, "killed": -3,
	"lost": -3, "missing": -2, "panic": -3, "scared": -2, "severe": -2,
	"stranded": -2, "stuck": -2, "submerged": -2, "terrible": -3,
	"terrifying": -3, "threat": -2, "threatening": -2, "tragedy": -2,
	"tragic": -2, "trapped": -2, "victim": -1, "victims": -1,
	"violent": -3, "warning": -3, "worse": -3, "worst": -3, "wrecked": -2,
}

// Sentiment computes the comparative polarity of text: the sum of matched
// word valences divided by the total token count. Empty or unmatched text
// scores zero. Longer neutral text dilutes the magnitude by design.
func Sentiment(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	sum := 0
	for _, tok := range tokens {
		sum += polarity[tok]
	}
	if sum == 0 {
		return 0
	}
	return float64(sum) / float64(len(tokens))
}

// tokenize lowercases text and splits it into alphanumeric word tokens,
// keeping internal apostrophes ("don't") as part of a token.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, strings.Trim(b.String(), "'"))
			b.Reset()
		}
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	// Trimming apostrophes can leave empty tokens for inputs like "'''".
	out := tokens[:0]
	for _, tok := range tokens {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
