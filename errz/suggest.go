package errz

import (
	"cmp"
	"slices"
	"strings"
)

// maxSuggestions bounds how many names DidYouMean offers.
const maxSuggestions = 3

type suggestion struct {
	name     string
	distance int
}

// Suggest returns up to three candidates close to target, closest first.
// The allowed edit distance grows with the length of target.
func Suggest(target string, candidates []string) []string {
	if target == "" {
		return nil
	}
	target = strings.ToLower(target)
	limit := 3
	switch n := len([]rune(target)); {
	case n <= 3:
		limit = 1
	case n <= 5:
		limit = 2
	}
	var found []suggestion
	seen := map[string]bool{}
	for _, c := range candidates {
		lower := strings.ToLower(c)
		if c == "" || lower == target || seen[c] {
			continue
		}
		seen[c] = true
		if d := editDistance(target, lower); d <= limit {
			found = append(found, suggestion{name: c, distance: d})
		}
	}
	slices.SortFunc(found, func(a, b suggestion) int {
		return cmp.Or(cmp.Compare(a.distance, b.distance), strings.Compare(a.name, b.name))
	})
	names := make([]string, 0, min(len(found), maxSuggestions))
	for _, s := range found[:min(len(found), maxSuggestions)] {
		names = append(names, s.name)
	}
	return names
}

// DidYouMean formats the suggestions for target as a hint, or returns "" if
// no candidate is close.
func DidYouMean(target string, candidates []string) string {
	names := Suggest(target, candidates)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return "did you mean '" + names[0] + "'?"
	default:
		return "did you mean one of '" + strings.Join(names, "', '") + "'?"
	}
}

// editDistance is the Levenshtein distance between a and b, computed over
// runes with two rows.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}
