package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"promptfeed/internal/models"
	"promptfeed/internal/youtube"
	"promptfeed/shared/ai"
	"promptfeed/shared/config"
	"promptfeed/shared/vectors"

	"github.com/rs/zerolog"
)

var (
	// ErrInvalidInput marks a request missing its prompt or YouTube
	// credential. The router maps it to a client error.
	ErrInvalidInput = errors.New("prompt and YouTube API key are required")

	// ErrEmbeddingUnavailable marks a missing reference vector. The
	// pipeline cannot rank without it, so this is terminal.
	ErrEmbeddingUnavailable = errors.New("reference embedding unavailable")
)

// AI is the slice of the Gemini client the pipeline consumes.
type AI interface {
	ExpandQueries(ctx context.Context, userPrompt string) ([]string, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SearchProvider returns enriched long-form candidates for a query set.
type SearchProvider interface {
	Search(ctx context.Context, queries []string) []models.EnrichedVideo
}

// Result is the pipeline's success artifact: the full scored set plus its
// bounded topK prefix.
type Result struct {
	Feed    []models.ScoredVideo
	TopFeed []models.ScoredVideo
}

// Service composes query expansion, search aggregation, embedding, and
// ranking into the end-to-end feed pipeline. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	ai          AI
	cfg         *config.Config
	logger      zerolog.Logger
	newSearcher func(ctx context.Context, apiKey string) (SearchProvider, error)
}

func NewService(aiClient AI, cfg *config.Config, logger zerolog.Logger) *Service {
	componentLogger := logger.With().Str("component", "feed").Logger()
	return &Service{
		ai:     aiClient,
		cfg:    cfg,
		logger: componentLogger,
		newSearcher: func(ctx context.Context, apiKey string) (SearchProvider, error) {
			return youtube.NewClient(ctx, apiKey, &cfg.YouTube, componentLogger)
		},
	}
}

// BuildFeed runs the pipeline for one request:
// validate -> expand -> search -> embed -> rank.
//
// A rejected prompt (the model's sentinel expansion) is still searched
// literally; it typically yields nothing relevant and that is a valid,
// mostly-empty result. Zero search candidates short-circuit to an empty
// success without calling the embedding provider.
func (s *Service) BuildFeed(ctx context.Context, userPrompt, apiKey string) (*Result, error) {
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return nil, fmt.Errorf("%w: missing prompt", ErrInvalidInput)
	}

	if apiKey == "" {
		apiKey = s.cfg.YouTube.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing YouTube API key", ErrInvalidInput)
	}

	queries, err := s.expandQueries(ctx, userPrompt)
	if err != nil {
		return nil, err
	}
	if ai.IsRejection(queries) {
		s.logger.Info().Str("prompt", userPrompt).Msg("prompt rejected by model, searching sentinel literally")
	}

	searcher, err := s.newSearcher(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("search provider unavailable: %w", err)
	}

	candidates := searcher.Search(ctx, queries)
	if len(candidates) == 0 {
		s.logger.Info().Str("prompt", userPrompt).Msg("no candidates found")
		return &Result{Feed: []models.ScoredVideo{}, TopFeed: []models.ScoredVideo{}}, nil
	}

	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, userPrompt)
	for _, candidate := range candidates {
		texts = append(texts, candidate.Title+" "+candidate.Description)
	}

	embeddings, err := s.embedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) == 0 || embeddings[0] == nil {
		return nil, ErrEmbeddingUnavailable
	}

	feed, topFeed, err := Rank(embeddings[0], candidates, embeddings[1:], time.Now(), RankOptions{
		SemanticWeight: s.cfg.Ranking.SemanticWeight,
		RecencyWeight:  s.cfg.Ranking.RecencyWeight,
		DecayDays:      s.cfg.Ranking.DecayDays,
		TopK:           s.cfg.Ranking.TopK,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("prompt", userPrompt).
		Int("candidates", len(candidates)).
		Int("feed", len(feed)).
		Int("topFeed", len(topFeed)).
		Msg("feed built")

	return &Result{Feed: feed, TopFeed: topFeed}, nil
}

// EmbedTexts exposes the embedding call for the embedding endpoint.
func (s *Service) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return s.embedTexts(ctx, texts)
}

// SimilarityScore embeds two texts and returns their cosine similarity.
func (s *Service) SimilarityScore(ctx context.Context, first, second string) (float64, error) {
	embeddings, err := s.embedTexts(ctx, []string{first, second})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) < 2 || embeddings[0] == nil || embeddings[1] == nil {
		return 0, ErrEmbeddingUnavailable
	}
	return vectors.Cosine(embeddings[0], embeddings[1])
}

func (s *Service) expandQueries(ctx context.Context, userPrompt string) ([]string, error) {
	ctx, cancel := s.aiContext(ctx)
	defer cancel()
	return s.ai.ExpandQueries(ctx, userPrompt)
}

func (s *Service) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := s.aiContext(ctx)
	defer cancel()
	return s.ai.EmbedTexts(ctx, texts)
}

func (s *Service) aiContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(s.cfg.AI.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
