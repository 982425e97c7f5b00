package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	AI         AIConfig         `yaml:"ai"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type ServerConfig struct {
	Port              int `yaml:"port"`
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type AIConfig struct {
	GeminiAPIKey   string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type YouTubeConfig struct {
	// APIKey is the fallback Data API key used when a request does not
	// carry its own apiKey parameter.
	APIKey             string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	MaxSearchResults   int64  `yaml:"max_search_results"`
	BatchSize          int    `yaml:"batch_size"`
	MinDurationSeconds int    `yaml:"min_duration_seconds"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`
}

// RankingConfig carries the scoring policy. The weight split and decay
// window materially change ordering, so they are configuration rather than
// constants.
type RankingConfig struct {
	SemanticWeight float64 `yaml:"semantic_weight"`
	RecencyWeight  float64 `yaml:"recency_weight"`
	DecayDays      float64 `yaml:"decay_days"`
	TopK           int     `yaml:"top_k"`
}

type MonitoringConfig struct {
	ReportSchedule string `yaml:"report_schedule"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RequestsPerMinute == 0 {
		c.Server.RequestsPerMinute = 60
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.EmbeddingModel == "" {
		c.AI.EmbeddingModel = "gemini-embedding-001"
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 30
	}
	if c.YouTube.MaxSearchResults == 0 {
		c.YouTube.MaxSearchResults = 25
	}
	if c.YouTube.BatchSize == 0 {
		c.YouTube.BatchSize = 50 // Data API ceiling for id= lists
	}
	if c.YouTube.MinDurationSeconds == 0 {
		c.YouTube.MinDurationSeconds = 60
	}
	if c.YouTube.TimeoutSeconds == 0 {
		c.YouTube.TimeoutSeconds = 10
	}
	if c.Ranking.SemanticWeight == 0 && c.Ranking.RecencyWeight == 0 {
		c.Ranking.SemanticWeight = 0.7
		c.Ranking.RecencyWeight = 0.3
	}
	if c.Ranking.DecayDays == 0 {
		c.Ranking.DecayDays = 30
	}
	if c.Ranking.TopK == 0 {
		c.Ranking.TopK = 35
	}
	if c.Monitoring.ReportSchedule == "" {
		c.Monitoring.ReportSchedule = "0 * * * *" // Hourly
	}
}

func (c *Config) validate() error {
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	if c.Ranking.SemanticWeight < 0 || c.Ranking.RecencyWeight < 0 {
		return fmt.Errorf("ranking weights must be non-negative")
	}
	if c.Ranking.DecayDays <= 0 {
		return fmt.Errorf("ranking decay_days must be positive")
	}
	if c.Ranking.TopK < 0 {
		return fmt.Errorf("ranking top_k must be non-negative")
	}
	if c.YouTube.BatchSize < 1 || c.YouTube.BatchSize > 50 {
		return fmt.Errorf("youtube batch_size must be between 1 and 50")
	}
	return nil
}
