package feed

import (
	"fmt"
	"math"
	"sort"
	"time"

	"promptfeed/internal/models"
	"promptfeed/shared/vectors"
)

const hoursPerDay = 24

// RankOptions carries the scoring policy for one ranking pass. Weights need
// not sum to 1; the 0.7/0.3 defaults keep the final score in the embedding
// similarity's native range.
type RankOptions struct {
	SemanticWeight float64
	RecencyWeight  float64
	DecayDays      float64
	TopK           int
}

// Rank deduplicates candidates by video id (first-seen wins), blends
// semantic similarity with exponential recency decay into one score, and
// returns the full ranked set alongside its topK prefix.
//
// candidateVectors[i] corresponds positionally to candidates[i]. A nil
// vector means the embedding provider returned fewer vectors than
// requested; such candidates are excluded from the result rather than
// scored as zero. Any non-nil vector whose length disagrees with
// userVector is a hard error.
//
// The sort is stable: candidates with equal final scores keep their
// relative order from the deduplicated input, so identical inputs always
// produce identical output.
func Rank(
	userVector []float32,
	candidates []models.EnrichedVideo,
	candidateVectors [][]float32,
	now time.Time,
	opts RankOptions,
) (feed, topFeed []models.ScoredVideo, err error) {
	if len(candidates) != len(candidateVectors) {
		return nil, nil, fmt.Errorf("candidates and vectors misaligned: %d candidates, %d vectors",
			len(candidates), len(candidateVectors))
	}

	seen := make(map[string]struct{}, len(candidates))
	scored := make([]models.ScoredVideo, 0, len(candidates))

	for i, candidate := range candidates {
		if _, duplicate := seen[candidate.ID]; duplicate {
			continue
		}
		seen[candidate.ID] = struct{}{}

		vector := candidateVectors[i]
		if vector == nil {
			continue
		}

		semantic, err := vectors.Cosine(userVector, vector)
		if err != nil {
			return nil, nil, fmt.Errorf("scoring %s: %w", candidate.ID, err)
		}

		ageDays := now.Sub(candidate.PublishedAt).Hours() / hoursPerDay
		if ageDays < 0 {
			ageDays = 0 // scheduled premieres count as brand new
		}
		recency := math.Exp(-ageDays / opts.DecayDays)

		scored = append(scored, models.ScoredVideo{
			EnrichedVideo: candidate,
			Embedding:     vector,
			SemanticScore: semantic,
			RecencyScore:  recency,
			FinalScore:    opts.SemanticWeight*semantic + opts.RecencyWeight*recency,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})

	topK := opts.TopK
	if topK < 0 {
		topK = 0
	}
	if topK > len(scored) {
		topK = len(scored)
	}

	return scored, scored[:topK], nil
}
