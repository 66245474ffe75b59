package match

import (
	"math"
	"strings"
)

// fingerprint is a term-frequency vector over normalized title tokens.
type fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// newFingerprint builds a fingerprint from a normalized title key. Returns nil
// when the key produces no tokens.
func newFingerprint(key string) *fingerprint {
	raw := strings.Fields(key)
	if len(raw) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(raw))
	for _, token := range raw {
		counts[token]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &fingerprint{
		tokens: counts,
		norm:   math.Sqrt(norm),
	}
}

// cosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func cosineSimilarity(a, b *fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}
