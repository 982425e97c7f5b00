package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"promptfeed/internal/feed"
	"promptfeed/internal/models"
	"promptfeed/shared/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Pipeline is the slice of the feed service the handlers consume.
type Pipeline interface {
	BuildFeed(ctx context.Context, userPrompt, apiKey string) (*feed.Result, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	SimilarityScore(ctx context.Context, first, second string) (float64, error)
}

// FeedEnvelope is the uniform response shape of the feed endpoint. Failures
// carry empty arrays and an intentionally generic message: the caller
// cannot distinguish failure causes from the response alone.
type FeedEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Feed    []models.ScoredVideo `json:"feed"`
	TopFeed []models.ScoredVideo `json:"topFeed"`
}

type EmbeddingRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type EmbeddingEnvelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Embeddings [][]float32 `json:"embeddings"`
}

type ScoreEnvelope struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Score   float64 `json:"score"`
}

type Handler struct {
	pipeline Pipeline
	monitor  *monitoring.Monitor
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewHandler(pipeline Pipeline, monitor *monitoring.Monitor, logger zerolog.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		monitor:  monitor,
		validate: validator.New(),
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// GetFeed runs the full pipeline for ?prompt=&apiKey=.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userPrompt := r.URL.Query().Get("prompt")
	apiKey := r.URL.Query().Get("apiKey")

	result, err := h.pipeline.BuildFeed(r.Context(), userPrompt, apiKey)
	if err != nil {
		h.monitor.RecordFailure(time.Since(start))
		h.writeFeedFailure(w, r, err)
		return
	}

	h.monitor.RecordSuccess(time.Since(start))
	writeJSON(w, http.StatusOK, FeedEnvelope{
		Success: true,
		Message: "feed built",
		Feed:    result.Feed,
		TopFeed: result.TopFeed,
	})
}

// writeFeedFailure converts any pipeline error into the uniform failure
// envelope. The underlying cause is logged here and never leaks to the
// caller.
func (h *Handler) writeFeedFailure(w http.ResponseWriter, r *http.Request, err error) {
	// Every server-side stage failure maps to the same status and
	// message; only the client error is distinguishable.
	status := http.StatusInternalServerError
	message := "failed to build feed"
	if errors.Is(err, feed.ErrInvalidInput) {
		status = http.StatusBadRequest
		message = "prompt and apiKey are required"
	}

	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("feed request failed")

	writeJSON(w, status, FeedEnvelope{
		Success: false,
		Message: message,
		Feed:    []models.ScoredVideo{},
		TopFeed: []models.ScoredVideo{},
	})
}

// PostEmbedding embeds a title/description pair.
func (h *Handler) PostEmbedding(w http.ResponseWriter, r *http.Request) {
	var request EmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, EmbeddingEnvelope{
			Success:    false,
			Message:    "title and description are required",
			Embeddings: [][]float32{},
		})
		return
	}
	if err := h.validate.Struct(request); err != nil {
		writeJSON(w, http.StatusBadRequest, EmbeddingEnvelope{
			Success:    false,
			Message:    "title and description are required",
			Embeddings: [][]float32{},
		})
		return
	}

	embeddings, err := h.pipeline.EmbedTexts(r.Context(), []string{request.Title + " " + request.Description})
	if err != nil {
		h.logger.Error().Err(err).Msg("embedding request failed")
		writeJSON(w, http.StatusInternalServerError, EmbeddingEnvelope{
			Success:    false,
			Message:    "failed to compute embeddings",
			Embeddings: [][]float32{},
		})
		return
	}

	writeJSON(w, http.StatusOK, EmbeddingEnvelope{
		Success:    true,
		Message:    "embeddings computed",
		Embeddings: embeddings,
	})
}

// GetScore returns the cosine similarity between two texts' embeddings.
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	search := chi.URLParam(r, "search")
	userPrompt := chi.URLParam(r, "prompt")

	score, err := h.pipeline.SimilarityScore(r.Context(), search, userPrompt)
	if err != nil {
		h.logger.Error().Err(err).Msg("score request failed")
		writeJSON(w, http.StatusInternalServerError, ScoreEnvelope{
			Success: false,
			Message: "failed to compute score",
		})
		return
	}

	writeJSON(w, http.StatusOK, ScoreEnvelope{
		Success: true,
		Message: "score computed",
		Score:   score,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
