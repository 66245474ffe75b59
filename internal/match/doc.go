// Package match ranks library search candidates against a normalized query.
//
// Scoring combines cosine similarity over title token fingerprints with a
// word-containment bonus, demoted by release-year mismatch. The ranker
// deduplicates colliding (title, year) pairs and classifies the field into
// NoMatch, SingleMatch, or Ambiguous under configurable thresholds. The whole
// package is pure computation; no I/O happens here.
package match
