// Package title turns free-text movie names into canonical search queries:
// case-folded, punctuation-stripped, whitespace-collapsed, with a trailing
// release year extracted when present. Normalization is pure and
// deterministic so the ranker can compare keys byte for byte.
package title
