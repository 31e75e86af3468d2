package nav

import "strings"

// Match scores each destination against the utterance and returns the best
// one. Score is the number of the destination's keywords found as
// substrings of the lower-cased utterance, plus 3 when the display name
// appears verbatim. Ties break to the earliest destination in the input
// slice; a best score of zero means no match.
//
// Pure and deterministic. This is the fallback when the oracle is
// unavailable or inconclusive, so it must never fail.
func Match(utterance string, dests []Destination) (Destination, bool) {
	text := strings.ToLower(utterance)

	best := -1
	bestScore := 0
	for i, d := range dests {
		score := 0
		for _, kw := range d.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				score++
			}
		}
		if d.Name != "" && strings.Contains(text, strings.ToLower(d.Name)) {
			score += 3
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return Destination{}, false
	}
	return dests[best], true
}
