// Package sniff guesses a delimited-text file's field separator from a short
// sample. It is a counting heuristic: quoted-field false positives are
// accepted as a known limitation.
package sniff

import "strings"

// Candidates, in tie-break priority order. Comma wins ties because it is
// by far the most common separator in the wild.
var candidates = []rune{',', ';', '\t', '|'}

// Delimiter returns the candidate separator occurring most often in sample.
// The sample is typically the first few lines of the file, or just the first
// line on the streaming path. An empty sample yields a comma.
func Delimiter(sample string) rune {
	best := candidates[0]
	bestCount := strings.Count(sample, string(candidates[0]))
	for _, c := range candidates[1:] {
		if n := strings.Count(sample, string(c)); n > bestCount {
			best = c
			bestCount = n
		}
	}
	return best
}
