package picker

import "unicode"

// Scoring weights for the list filter. The filter accepts any text that
// contains the query runes in order and ranks candidates by where and how
// tightly the runes land.
const (
	scoreMatch       = 8
	scoreConsecutive = 12
	scoreBoundary    = 10
	scoreCaseExact   = 2
	penaltyGap       = 1
	penaltyGapMax    = 6
)

// Score reports whether text contains every rune of query in order and how
// good the match is. Matching is case-insensitive unless the query contains
// an uppercase rune, in which case uppercase query runes must match exactly.
func Score(query, text string) (int, bool) {
	if query == "" {
		return 0, true
	}

	pattern := []rune(query)
	runes := []rune(text)
	caseSensitive := hasUpper(pattern)

	score := 0
	pi := 0
	lastHit := -2
	for ti, r := range runes {
		if pi >= len(pattern) {
			break
		}
		if !runeMatches(pattern[pi], r, caseSensitive) {
			continue
		}
		score += scoreMatch
		if ti == lastHit+1 {
			score += scoreConsecutive
		} else if lastHit >= 0 {
			gap := (ti - lastHit - 1) * penaltyGap
			if gap > penaltyGapMax {
				gap = penaltyGapMax
			}
			score -= gap
		}
		if boundaryAt(runes, ti) {
			score += scoreBoundary
		}
		if pattern[pi] == r {
			score += scoreCaseExact
		}
		lastHit = ti
		pi++
	}
	if pi < len(pattern) {
		return 0, false
	}
	// Short targets with the same hits rank higher.
	score -= len(runes) / 16
	return score, true
}

// Positions returns the rune indexes in text hit by the same greedy walk
// Score uses, or nil when text does not match. Only called for rows being
// drawn, so the per-call allocation stays off the filter path.
func Positions(query, text string) []int {
	if query == "" {
		return nil
	}
	pattern := []rune(query)
	caseSensitive := hasUpper(pattern)
	hits := make([]int, 0, len(pattern))
	pi := 0
	for ti, r := range []rune(text) {
		if pi >= len(pattern) {
			break
		}
		if !runeMatches(pattern[pi], r, caseSensitive) {
			continue
		}
		hits = append(hits, ti)
		pi++
	}
	if pi < len(pattern) {
		return nil
	}
	return hits
}

func runeMatches(pat, r rune, caseSensitive bool) bool {
	if pat == r {
		return true
	}
	if caseSensitive && unicode.IsUpper(pat) {
		return false
	}
	return unicode.ToLower(pat) == unicode.ToLower(r)
}

func hasUpper(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// boundaryAt reports whether the rune at idx starts a word: the first rune,
// a rune after a path or word separator, or an uppercase rune after a
// lowercase one.
func boundaryAt(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev := runes[idx-1]
	curr := runes[idx]
	switch prev {
	case '/', '\\', '-', '_', ' ', '.', ':':
		return true
	}
	if !unicode.IsLetter(prev) && unicode.IsLetter(curr) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(curr)
}
