package youtube

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"promptfeed/internal/models"
	"promptfeed/shared/config"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type Client struct {
	service *youtube.Service
	cfg     *config.YouTubeConfig
	logger  zerolog.Logger
}

// NewClient builds a Data API client authenticated with an API key. The
// feed endpoint lets every request carry its own key, so clients are cheap
// request-scoped values rather than process state.
func NewClient(ctx context.Context, apiKey string, cfg *config.YouTubeConfig, logger zerolog.Logger) (*Client, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service: service,
		cfg:     cfg,
		logger:  logger.With().Str("component", "youtube").Logger(),
	}, nil
}

// Search runs one search call per query concurrently, resolves stats and
// channel metadata for the merged candidates in batches, and returns the
// enriched long-form candidates. Individual call failures are absorbed:
// one bad query or metadata batch must not blank the whole feed. Empty
// input or total provider failure yields an empty slice, never an error.
func (c *Client) Search(ctx context.Context, queries []string) []models.EnrichedVideo {
	if len(queries) == 0 {
		return []models.EnrichedVideo{}
	}

	perQuery := make([][]models.Video, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()

			videos, err := c.searchOne(ctx, query)
			if err != nil {
				c.logger.Warn().Err(err).Str("query", query).Msg("search call failed")
				return
			}
			perQuery[i] = videos
		}(i, query)
	}
	wg.Wait()

	var candidates []models.Video
	for _, videos := range perQuery {
		candidates = append(candidates, videos...)
	}
	if len(candidates) == 0 {
		return []models.EnrichedVideo{}
	}

	videoIDs := make([]string, 0, len(candidates))
	channelIDs := make([]string, 0, len(candidates))
	for _, video := range candidates {
		videoIDs = append(videoIDs, video.ID)
		channelIDs = append(channelIDs, video.ChannelID)
	}

	stats := fetchInBatches(ctx, c.logger, uniqueStrings(videoIDs), c.cfg.BatchSize, c.fetchVideoStats)
	channels := fetchInBatches(ctx, c.logger, uniqueStrings(channelIDs), c.cfg.BatchSize, c.fetchChannelMeta)

	enriched := enrich(candidates, stats, channels, c.cfg.MinDurationSeconds)

	c.logger.Info().
		Int("queries", len(queries)).
		Int("candidates", len(candidates)).
		Int("enriched", len(enriched)).
		Msg("search aggregation complete")

	return enriched
}

func (c *Client) searchOne(ctx context.Context, query string) ([]models.Video, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		MaxResults(c.cfg.MaxSearchResults).
		Type("video").
		RelevanceLanguage("en").
		VideoEmbeddable("true").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}

		video := models.Video{
			ID:           item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.ChannelTitle,
			Thumbnails:   thumbnailsFromDetails(item.Snippet.Thumbnails),
			URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id.VideoId),
		}
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = publishedAt
		}

		videos = append(videos, video)
	}

	return videos, nil
}

func (c *Client) fetchVideoStats(ctx context.Context, ids []string) (map[string]models.VideoStats, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.service.Videos.List([]string{"statistics", "contentDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("video stats lookup: %w", err)
	}

	stats := make(map[string]models.VideoStats, len(response.Items))
	for _, item := range response.Items {
		entry := models.VideoStats{ViewCount: "0", ISODuration: "PT0S"}
		if item.Statistics != nil {
			entry.ViewCount = strconv.FormatUint(item.Statistics.ViewCount, 10)
		}
		if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
			entry.ISODuration = item.ContentDetails.Duration
		}
		stats[item.Id] = entry
	}

	return stats, nil
}

func (c *Client) fetchChannelMeta(ctx context.Context, ids []string) (map[string]models.ChannelMeta, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.service.Channels.List([]string{"snippet"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channel metadata lookup: %w", err)
	}

	channels := make(map[string]models.ChannelMeta, len(response.Items))
	for _, item := range response.Items {
		var avatarURL string
		if item.Snippet != nil && item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			avatarURL = item.Snippet.Thumbnails.Default.Url
		}
		channels[item.Id] = models.ChannelMeta{AvatarURL: avatarURL}
	}

	return channels, nil
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(c.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// enrich attaches stats and channel metadata to each candidate and drops
// short-form content. Candidates with no resolved stats parse to zero
// seconds and fall below the floor, which matches treating missing
// metadata as unavailable rather than an error.
func enrich(
	candidates []models.Video,
	stats map[string]models.VideoStats,
	channels map[string]models.ChannelMeta,
	minSeconds int,
) []models.EnrichedVideo {
	enriched := make([]models.EnrichedVideo, 0, len(candidates))

	for _, video := range candidates {
		entry, ok := stats[video.ID]
		if !ok {
			entry = models.VideoStats{ViewCount: "0", ISODuration: "PT0S"}
		}

		seconds := durationSeconds(entry.ISODuration)
		if seconds <= minSeconds {
			continue
		}

		enriched = append(enriched, models.EnrichedVideo{
			Video:            video,
			Views:            entry.ViewCount,
			DurationSeconds:  seconds,
			Duration:         durationLabel(entry.ISODuration),
			ChannelAvatarURL: channels[video.ChannelID].AvatarURL,
		})
	}

	return enriched
}

func thumbnailsFromDetails(details *youtube.ThumbnailDetails) models.Thumbnails {
	var thumbnails models.Thumbnails
	if details == nil {
		return thumbnails
	}
	thumbnails.Default = thumbnailFrom(details.Default)
	thumbnails.Medium = thumbnailFrom(details.Medium)
	thumbnails.High = thumbnailFrom(details.High)
	return thumbnails
}

func thumbnailFrom(thumbnail *youtube.Thumbnail) *models.Thumbnail {
	if thumbnail == nil {
		return nil
	}
	return &models.Thumbnail{
		URL:    thumbnail.Url,
		Width:  thumbnail.Width,
		Height: thumbnail.Height,
	}
}
