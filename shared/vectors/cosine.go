package vectors

import (
	"errors"
	"math"
)

// ErrDimensionMismatch signals that two vectors cannot be compared because
// their lengths disagree (or are zero). Embeddings from different models are
// not comparable, so this is a hard error rather than a zero score.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Cosine computes the cosine similarity between two equal-length vectors.
// An all-zero vector yields 0 rather than NaN: an empty text embeds to the
// zero vector and should rank as maximally dissimilar, not break the sort.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0, nil
	}

	return dot / denom, nil
}
