package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"promptfeed/shared/config"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// ErrModelContract signals that the generative model's reply could not be
// parsed as the expected array of query strings. Callers must treat this as
// a pipeline failure, not retry the call or attempt semantic repair.
var ErrModelContract = errors.New("model output violates the query array contract")

// Client wraps the Gemini API for the two calls the pipeline needs: query
// expansion and text embeddings. It is constructed once at startup and is
// safe to share across requests.
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
	logger         zerolog.Logger
}

func NewClient(ctx context.Context, cfg *config.AIConfig, logger zerolog.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:         client,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		logger:         logger.With().Str("component", "ai").Logger(),
	}, nil
}

// ExpandQueries sends the user prompt through the query template and parses
// the reply into search-query strings. A refused prompt comes back as the
// one-element rejection sentinel, which is a valid expansion.
func (c *Client) ExpandQueries(ctx context.Context, userPrompt string) ([]string, error) {
	prompt := fmt.Sprintf(queryPromptTemplate, userPrompt)

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("query expansion failed: %w", err)
	}

	queries, err := parseQueryArray(result.Text())
	if err != nil {
		c.logger.Warn().Str("response", result.Text()).Msg("unparseable query expansion")
		return nil, err
	}

	c.logger.Debug().Strs("queries", queries).Msg("expanded prompt")
	return queries, nil
}

// parseQueryArray extracts a JSON array of strings from a model reply. The
// model is told to answer with the bare array, but replies may still carry
// markdown fences or prose, so the array is located by bracket scan first.
func parseQueryArray(response string) ([]string, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON array in response", ErrModelContract)
	}

	var queries []string
	if err := json.Unmarshal([]byte(response[start:end+1]), &queries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelContract, err)
	}

	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrModelContract)
	}
	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("%w: blank query string", ErrModelContract)
		}
	}

	return queries, nil
}

// IsRejection reports whether an expansion is the model's rejection
// sentinel rather than usable search queries.
func IsRejection(queries []string) bool {
	return len(queries) == 1 && strings.EqualFold(strings.TrimSpace(queries[0]), rejectionSentinel)
}

// EmbedTexts returns one vector per input text, positionally aligned. The
// provider may return fewer vectors than requested; missing positions are
// nil and callers must tolerate the holes.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		parts := []*genai.Part{
			genai.NewPartFromText(text),
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	result, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("embedding call failed: %w", err)
	}

	vectors := make([][]float32, len(texts))
	for i, embedding := range result.Embeddings {
		if i >= len(vectors) {
			break
		}
		if embedding == nil || len(embedding.Values) == 0 {
			continue
		}
		vectors[i] = embedding.Values
	}

	if got := len(result.Embeddings); got < len(texts) {
		c.logger.Warn().Int("requested", len(texts)).Int("returned", got).
			Msg("embedding provider returned fewer vectors than requested")
	}

	return vectors, nil
}
