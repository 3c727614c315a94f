//nolint:testpackage // using package name 'fuzzy' to access unexported fields for testing
package fuzzy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatcher_FindBest(t *testing.T) {
	matcher := NewMatcher(2)

	tests := []struct {
		name       string
		input      string
		candidates []string
		expected   string
	}{
		{
			name:       "missing letter",
			input:      "exlude",
			candidates: []string{"count", "exclude", "source", "destination"},
			expected:   "exclude",
		},
		{
			name:       "exact match excluded",
			input:      "count",
			candidates: []string{"count", "exclude"},
			expected:   "",
		},
		{
			name:       "simple typo",
			input:      "hep",
			candidates: []string{"help", "version", "verbose"},
			expected:   "help",
		},
		{
			name:       "no good match",
			input:      "xyz",
			candidates: []string{"help", "version", "verbose"},
			expected:   "",
		},
		{
			name:       "single letter is too short",
			input:      "x",
			candidates: []string{"xy", "x1"},
			expected:   "",
		},
		{
			name:       "case insensitive",
			input:      "HEP",
			candidates: []string{"help", "version"},
			expected:   "help",
		},
		{
			name:       "no candidates",
			input:      "source",
			candidates: nil,
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.FindBest(tt.input, tt.candidates)
			if result != tt.expected {
				t.Errorf("FindBest(%q, %v) = %q, want %q", tt.input, tt.candidates, result, tt.expected)
			}
		})
	}
}

func TestMatcher_FindMatchesSorted(t *testing.T) {
	matcher := NewMatcher(2)
	matches := matcher.FindMatches("hep", []string{"help", "heap", "deep", "version"})

	if len(matches) < 2 {
		t.Fatalf("expected at least help and heap, got %v", matches)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Errorf("matches not sorted by score: %f < %f", matches[i-1].Score, matches[i].Score)
		}
	}
	for _, match := range matches {
		if match.Distance > matcher.maxDistance {
			t.Errorf("match %q distance %d exceeds max %d", match.Value, match.Distance, matcher.maxDistance)
		}
		if match.Score <= 0 || match.Score > 1 {
			t.Errorf("match %q score %f out of range", match.Value, match.Score)
		}
	}
}

func TestMatcher_Distance(t *testing.T) {
	matcher := NewMatcher(10)

	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "ab", 1},
		{"abc", "axc", 1},
		{"help", "hep", 1},
		{"version", "ver", 4},
		{"kitten", "sitting", 3},
		{"naïve", "naive", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := matcher.distance([]rune(tt.a), []rune(tt.b))
			if result != tt.expected {
				t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestMatcher_EarlyTermination(t *testing.T) {
	matcher := NewMatcher(2)

	result := matcher.distance([]rune("short"), []rune("verylongstring"))
	if result != matcher.maxDistance+1 {
		t.Errorf("expected early termination at %d, got %d", matcher.maxDistance+1, result)
	}
}

func TestFindSuggestions(t *testing.T) {
	got := FindSuggestions("hep", []string{"help", "heap", "deep", "version"}, 2, 2)
	if diff := cmp.Diff([]string{"help", "heap"}, got); diff != "" {
		t.Errorf("FindSuggestions mismatch (-want +got):\n%s", diff)
	}

	if got := FindSuggestions("zzz", []string{"help"}, 2, 3); len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}

func TestFindBestField(t *testing.T) {
	fields := []string{"count", "exclude", "source", "destination"}

	if got := FindBestField("sorce", fields, 2); got != "source" {
		t.Errorf("FindBestField(sorce) = %q, want source", got)
	}
	if got := FindBestField("destnation", fields, 2); got != "destination" {
		t.Errorf("FindBestField(destnation) = %q, want destination", got)
	}
}
