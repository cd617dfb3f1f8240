package knowledge

import (
	"errors"
	"math"
)

// ErrInvalidVector is returned when two vectors cannot be compared: length
// mismatch, zero length, or zero norm.
var ErrInvalidVector = errors.New("knowledge: invalid vector")

// Cosine returns the cosine similarity of a and b. Both vectors must have
// the same positive dimensionality and a non-zero norm.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, ErrInvalidVector
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, ErrInvalidVector
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
