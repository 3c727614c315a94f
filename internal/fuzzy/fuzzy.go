// Package fuzzy ranks template field names by similarity to a mistyped name.
// Used by haggis diagnostics for did-you-mean suggestions.
package fuzzy

import (
	"sort"
	"strings"
)

// Matcher scores candidates within a maximum edit distance
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a new fuzzy matcher with the given max edit distance
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // Single letters are short flags, never typos
	}
}

// Match represents a fuzzy match result
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest returns the best candidate, or "" when none is close enough
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns candidates within the max distance, best first.
// Comparison is case-insensitive and exact matches are skipped. Ties keep
// candidate order.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if len([]rune(input)) < m.minLength {
		return nil
	}

	var matches []Match
	in := []rune(strings.ToLower(input))

	for _, candidate := range candidates {
		cand := []rune(strings.ToLower(candidate))
		if string(in) == string(cand) {
			continue
		}

		distance := m.distance(in, cand)
		if distance > m.maxDistance {
			continue
		}
		matches = append(matches, Match{
			Value:    candidate,
			Distance: distance,
			Score:    m.score(in, cand, distance),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// score combines edit distance, shared prefix, length similarity and
// shared characters into 0.0..1.0
func (m *Matcher) score(a, b []rune, distance int) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}

	score := 1.0 - float64(distance)/float64(longest)

	if prefix := commonPrefix(a, b); prefix > 0 {
		score += float64(prefix) / float64(min(len(a), len(b))) * 0.3
	}

	score += (1.0 - float64(abs(len(a)-len(b)))/float64(longest)) * 0.2
	score += float64(commonChars(a, b)) / float64(longest) * 0.1

	return min(score, 1.0)
}

// distance is the Levenshtein distance between a and b, cut short with
// maxDistance+1 once it cannot stay within the limit
func (m *Matcher) distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}

	// Keep the rows as short as possible
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		rowMin := i

		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}

		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func commonChars(a, b []rune) int {
	counts := make(map[rune]int, len(a))
	for _, r := range a {
		counts[r]++
	}

	common := 0
	for _, r := range b {
		if counts[r] > 0 {
			common++
			counts[r]--
		}
	}
	return common
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FindBestField returns the field name closest to a mistyped one
func FindBestField(input string, fields []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, fields)
}

// FindSuggestions returns up to maxSuggestions candidates, best first
func FindSuggestions(input string, candidates []string, maxDistance, maxSuggestions int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, candidates)

	suggestions := make([]string, 0, min(len(matches), maxSuggestions))
	for _, match := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, match.Value)
	}
	return suggestions
}
