// Package grapheme wraps uniseg cluster segmentation for rune-addressed text.
package grapheme

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Cluster is one grapheme cluster covering runes [Start, End).
type Cluster struct {
	Start int
	End   int
	Text  string
}

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, utf8.RuneCountInString(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Clusters segments text and reports each cluster's rune range.
func Clusters(text []rune) []Cluster {
	if len(text) == 0 {
		return nil
	}
	out := make([]Cluster, 0, len(text))
	pos := 0
	g := uniseg.NewGraphemes(string(text))
	for g.Next() {
		n := len(g.Runes())
		out = append(out, Cluster{Start: pos, End: pos + n, Text: g.Str()})
		pos += n
	}
	return out
}

// Snap moves i back to the start of the cluster containing it.
func Snap(text []rune, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(text) {
		return len(text)
	}
	for _, c := range Clusters(text) {
		if i < c.End {
			return c.Start
		}
	}
	return len(text)
}
