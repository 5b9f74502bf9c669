package search

import (
	"math"
	"time"

	"recall/backend/internal/constants"
)

// CosineSimilarity computes the cosine similarity between two float32 vectors.
// Returns a value between -1 and 1 where 1 means identical direction. Zero
// magnitude on either side yields 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dotProduct += ai * bi
		normA += ai * ai
		normB += bi * bi
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dotProduct / denom
}

// RecencyScore decays linearly from 1 at age zero to 0 at one week
func RecencyScore(t, now time.Time) float64 {
	hours := now.Sub(t).Hours()
	if hours < 0 {
		hours = 0
	}
	score := 1 - hours/constants.RecencyHorizonHours
	if score < 0 {
		return 0
	}
	return score
}
