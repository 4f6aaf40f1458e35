package errz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"helper", "helpr", 1},
		{"yaml", "ymal", 2},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, editDistance(tt.a, tt.b), "%q %q", tt.a, tt.b)
		require.Equal(t, tt.want, editDistance(tt.b, tt.a), "%q %q", tt.b, tt.a)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"helper", "help", "main", "handler", "Helper2", "helper"}
	require.Equal(t, []string{"help", "helper", "Helper2"}, Suggest("helpr", candidates))
	require.Equal(t, []string{"main"}, Suggest("man", candidates))
	require.Empty(t, Suggest("zzz", candidates))
	require.Empty(t, Suggest("", candidates))
	require.Empty(t, Suggest("main", []string{"main"}))
}

func TestSuggestLimit(t *testing.T) {
	got := Suggest("abcdef", []string{"abcdeg", "abcdeh", "abcdei", "abcdej"})
	require.Equal(t, []string{"abcdeg", "abcdeh", "abcdei"}, got)
}

func TestDidYouMean(t *testing.T) {
	require.Equal(t, "did you mean 'yaml'?", DidYouMean("yml2", []string{"json", "yaml"}))
	require.Equal(t, "did you mean one of 'abc', 'abd'?", DidYouMean("abx", []string{"abc", "abd", "xyz"}))
	require.Equal(t, "", DidYouMean("xml", []string{"json", "yaml"}))
}
