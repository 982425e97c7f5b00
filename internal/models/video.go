package models

import "time"

// Thumbnail is a single rendition from the search provider's thumbnail set.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int64  `json:"width,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// Thumbnails mirrors the default/medium/high set the Data API returns on
// search snippets and channel snippets. Any rendition may be absent.
type Thumbnails struct {
	Default *Thumbnail `json:"default,omitempty"`
	Medium  *Thumbnail `json:"medium,omitempty"`
	High    *Thumbnail `json:"high,omitempty"`
}

// Video is a raw search candidate as returned by one search call. The same
// video ID may appear under several expanded queries; deduplication happens
// in the ranking stage.
type Video struct {
	ID           string     `json:"videoId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PublishedAt  time.Time  `json:"publishedAt"`
	ChannelID    string     `json:"channelId"`
	ChannelTitle string     `json:"channelTitle"`
	Thumbnails   Thumbnails `json:"thumbnails"`
	URL          string     `json:"url"`
}

// VideoStats holds the per-video statistics resolved in a batched lookup.
// ViewCount stays a string, matching the wire format of the Data API.
type VideoStats struct {
	ViewCount   string
	ISODuration string
}

// ChannelMeta holds the per-channel metadata resolved in a batched lookup.
type ChannelMeta struct {
	AvatarURL string
}

// EnrichedVideo is a search candidate with its stats and channel metadata
// attached. Every EnrichedVideo that leaves the aggregator has
// DurationSeconds above the short-form floor.
type EnrichedVideo struct {
	Video
	Views            string `json:"views"`
	DurationSeconds  int    `json:"durationSeconds"`
	Duration         string `json:"duration"`
	ChannelAvatarURL string `json:"channelAvatarUrl"`
}

// ScoredVideo is an enriched candidate with its embedding and ranking
// scores. Collections of ScoredVideo are the response artifact; they live
// for a single request.
type ScoredVideo struct {
	EnrichedVideo
	Embedding     []float32 `json:"embedding,omitempty"`
	SemanticScore float64   `json:"semanticScore"`
	RecencyScore  float64   `json:"recencyScore"`
	FinalScore    float64   `json:"finalScore"`
}
