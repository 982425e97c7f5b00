package feed

import (
	"errors"
	"math"
	"testing"
	"time"

	"promptfeed/internal/models"
	"promptfeed/shared/vectors"
)

var rankNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func defaultRankOptions() RankOptions {
	return RankOptions{
		SemanticWeight: 0.7,
		RecencyWeight:  0.3,
		DecayDays:      30,
		TopK:           35,
	}
}

func enrichedVideo(id string, publishedAt time.Time) models.EnrichedVideo {
	return models.EnrichedVideo{
		Video: models.Video{
			ID:          id,
			Title:       "title " + id,
			PublishedAt: publishedAt,
		},
		Views:           "1000",
		DurationSeconds: 600,
		Duration:        "10:00",
	}
}

func TestRankDeduplicatesFirstSeen(t *testing.T) {
	first := enrichedVideo("A", rankNow.AddDate(0, 0, -1))
	first.Title = "first occurrence"
	duplicate := enrichedVideo("A", rankNow.AddDate(0, 0, -1))
	duplicate.Title = "later occurrence"

	candidates := []models.EnrichedVideo{
		first,
		enrichedVideo("B", rankNow.AddDate(0, 0, -1)),
		duplicate,
	}
	candidateVectors := [][]float32{
		{1, 0},
		{1, 0},
		{0, 1},
	}

	feed, _, err := Rank([]float32{1, 0}, candidates, candidateVectors, rankNow, defaultRankOptions())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(feed) != 2 {
		t.Fatalf("feed has %d entries, want 2", len(feed))
	}
	for _, video := range feed {
		if video.ID == "A" && video.Title != "first occurrence" {
			t.Errorf("duplicate id A kept %q, want the first occurrence", video.Title)
		}
	}
}

func TestRankSortsDescendingByFinalScore(t *testing.T) {
	candidates := []models.EnrichedVideo{
		enrichedVideo("far", rankNow.AddDate(0, 0, -2)),
		enrichedVideo("close", rankNow.AddDate(0, 0, -2)),
	}
	candidateVectors := [][]float32{
		{0, 1}, // orthogonal to the prompt
		{1, 0}, // identical to the prompt
	}

	feed, _, err := Rank([]float32{1, 0}, candidates, candidateVectors, rankNow, defaultRankOptions())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if feed[0].ID != "close" || feed[1].ID != "far" {
		t.Errorf("order = [%s %s], want [close far]", feed[0].ID, feed[1].ID)
	}
	if feed[0].FinalScore < feed[1].FinalScore {
		t.Errorf("feed not descending: %v < %v", feed[0].FinalScore, feed[1].FinalScore)
	}
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	publishedAt := rankNow.AddDate(0, 0, -5)
	candidates := []models.EnrichedVideo{
		enrichedVideo("first", publishedAt),
		enrichedVideo("second", publishedAt),
		enrichedVideo("third", publishedAt),
	}
	// Identical vectors and timestamps produce identical final scores.
	candidateVectors := [][]float32{{1, 2}, {1, 2}, {1, 2}}

	feed, _, err := Rank([]float32{3, 4}, candidates, candidateVectors, rankNow, defaultRankOptions())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if feed[i].ID != id {
			t.Errorf("feed[%d] = %s, want %s", i, feed[i].ID, id)
		}
	}
}

func TestRankMissingVectorExcludesCandidate(t *testing.T) {
	candidates := []models.EnrichedVideo{
		enrichedVideo("kept", rankNow.AddDate(0, 0, -1)),
		enrichedVideo("hole", rankNow.AddDate(0, 0, -1)),
		enrichedVideo("also-kept", rankNow.AddDate(0, 0, -1)),
	}
	candidateVectors := [][]float32{
		{1, 0},
		nil, // provider returned fewer vectors than requested
		{0, 1},
	}

	feed, _, err := Rank([]float32{1, 0}, candidates, candidateVectors, rankNow, defaultRankOptions())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(feed) != 2 {
		t.Fatalf("feed has %d entries, want 2", len(feed))
	}
	for _, video := range feed {
		if video.ID == "hole" {
			t.Error("candidate without a vector must be excluded, not zero-scored")
		}
	}
}

func TestRankDimensionMismatch(t *testing.T) {
	candidates := []models.EnrichedVideo{enrichedVideo("A", rankNow)}
	candidateVectors := [][]float32{{1, 2, 3}}

	_, _, err := Rank([]float32{1, 2}, candidates, candidateVectors, rankNow, defaultRankOptions())
	if !errors.Is(err, vectors.ErrDimensionMismatch) {
		t.Errorf("Rank() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestRankMisalignedInputs(t *testing.T) {
	candidates := []models.EnrichedVideo{enrichedVideo("A", rankNow)}

	if _, _, err := Rank([]float32{1}, candidates, nil, rankNow, defaultRankOptions()); err == nil {
		t.Error("Rank() expected error for misaligned candidates and vectors")
	}
}

func TestRankTopKPrefix(t *testing.T) {
	tests := []struct {
		name       string
		topK       int
		candidates int
		wantTop    int
	}{
		{name: "TopK below candidate count", topK: 2, candidates: 5, wantTop: 2},
		{name: "TopK above candidate count", topK: 35, candidates: 5, wantTop: 5},
		{name: "TopK zero", topK: 0, candidates: 5, wantTop: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := make([]models.EnrichedVideo, tt.candidates)
			candidateVectors := make([][]float32, tt.candidates)
			for i := range candidates {
				candidates[i] = enrichedVideo(string(rune('a'+i)), rankNow.AddDate(0, 0, -i))
				candidateVectors[i] = []float32{1, float32(i)}
			}

			opts := defaultRankOptions()
			opts.TopK = tt.topK

			feed, topFeed, err := Rank([]float32{1, 1}, candidates, candidateVectors, rankNow, opts)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}

			if len(topFeed) != tt.wantTop {
				t.Fatalf("topFeed has %d entries, want %d", len(topFeed), tt.wantTop)
			}
			for i := range topFeed {
				if topFeed[i].ID != feed[i].ID {
					t.Errorf("topFeed[%d] = %s, want prefix of feed (%s)", i, topFeed[i].ID, feed[i].ID)
				}
			}
		})
	}
}

func TestRankScoreRangesAndRecency(t *testing.T) {
	candidates := []models.EnrichedVideo{
		enrichedVideo("new", rankNow.Add(-time.Hour)),
		enrichedVideo("month-old", rankNow.AddDate(0, 0, -30)),
		enrichedVideo("future-premiere", rankNow.Add(48*time.Hour)),
	}
	candidateVectors := [][]float32{{1, 1}, {1, 1}, {1, 1}}

	feed, _, err := Rank([]float32{1, 1}, candidates, candidateVectors, rankNow, defaultRankOptions())
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	byID := make(map[string]models.ScoredVideo, len(feed))
	for _, video := range feed {
		byID[video.ID] = video

		if video.SemanticScore < -1 || video.SemanticScore > 1 {
			t.Errorf("%s semantic score %v out of [-1,1]", video.ID, video.SemanticScore)
		}
		if video.RecencyScore <= 0 || video.RecencyScore > 1 {
			t.Errorf("%s recency score %v out of (0,1]", video.ID, video.RecencyScore)
		}
	}

	if byID["new"].RecencyScore <= byID["month-old"].RecencyScore {
		t.Error("newer video should have the higher recency score")
	}

	// exp(-30/30) for a 30-day-old video.
	wantMonthOld := math.Exp(-1)
	if math.Abs(byID["month-old"].RecencyScore-wantMonthOld) > 0.01 {
		t.Errorf("month-old recency = %v, want about %v", byID["month-old"].RecencyScore, wantMonthOld)
	}

	// Future publish dates clamp to age zero.
	if math.Abs(byID["future-premiere"].RecencyScore-1) > 1e-9 {
		t.Errorf("future premiere recency = %v, want 1", byID["future-premiere"].RecencyScore)
	}
}

func TestRankWeightsAreConfigurable(t *testing.T) {
	candidates := []models.EnrichedVideo{
		enrichedVideo("relevant-but-old", rankNow.AddDate(-2, 0, 0)),
		enrichedVideo("irrelevant-but-new", rankNow.Add(-time.Hour)),
	}
	candidateVectors := [][]float32{
		{1, 0}, // matches the prompt exactly
		{0, 1}, // orthogonal
	}

	semanticOnly := RankOptions{SemanticWeight: 1, RecencyWeight: 0, DecayDays: 30, TopK: 10}
	feed, _, err := Rank([]float32{1, 0}, candidates, candidateVectors, rankNow, semanticOnly)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if feed[0].ID != "relevant-but-old" {
		t.Errorf("semantic-only ranking put %s first, want relevant-but-old", feed[0].ID)
	}

	recencyOnly := RankOptions{SemanticWeight: 0, RecencyWeight: 1, DecayDays: 30, TopK: 10}
	feed, _, err = Rank([]float32{1, 0}, candidates, candidateVectors, rankNow, recencyOnly)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if feed[0].ID != "irrelevant-but-new" {
		t.Errorf("recency-only ranking put %s first, want irrelevant-but-new", feed[0].ID)
	}
}
