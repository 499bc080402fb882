package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Postgres persistence. Empty DatabaseURL selects the in-memory store.
	DatabaseURL string

	// Redis caching for the social feed. Empty RedisAddr disables caching.
	RedisAddr      string
	SocialCacheTTL time.Duration

	// Kafka publishing of scored-report events. Empty KafkaBrokers disables it.
	KafkaBrokers    []string
	KafkaScoreTopic string

	// Hugging Face zero-shot image classification (feature-flagged via
	// HF_ENABLED / HF_API_TOKEN, mirroring how geocoding was flagged).
	HFToken    string
	HFEnabled  bool
	HFModelURL string
	HFTimeout  time.Duration

	// Verification scoring knobs.
	RegionMinLon         float64
	RegionMinLat         float64
	RegionMaxLon         float64
	RegionMaxLat         float64
	GeoGatePoints        int
	ClassificationWeight int
	LabelThreshold       float64
	VerifyThreshold      int
	CandidateLabels      []string
	HotspotPrecision     int

	// Social ingestion.
	GNewsAPIKey      string
	RedditSubreddits []string
	ScrapeDelay      time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("SOCIAL_CACHE_TTL", "60s")
	if err != nil {
		return nil, err
	}
	hfTimeout, err := parseDuration("HF_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	scrapeDelay, err := parseDuration("SCRAPE_DELAY", "2s")
	if err != nil {
		return nil, err
	}

	minLon, err := parseFloat("REGION_MIN_LON", 68)
	if err != nil {
		return nil, err
	}
	minLat, err := parseFloat("REGION_MIN_LAT", 6)
	if err != nil {
		return nil, err
	}
	maxLon, err := parseFloat("REGION_MAX_LON", 98)
	if err != nil {
		return nil, err
	}
	maxLat, err := parseFloat("REGION_MAX_LAT", 24)
	if err != nil {
		return nil, err
	}
	labelThreshold, err := parseFloat("LABEL_THRESHOLD", 0.70)
	if err != nil {
		return nil, err
	}

	geoGate, err := parseInt("GEO_GATE_POINTS", 30)
	if err != nil {
		return nil, err
	}
	classWeight, err := parseInt("CLASSIFICATION_WEIGHT", 70)
	if err != nil {
		return nil, err
	}
	verifyThreshold, err := parseInt("VERIFY_THRESHOLD", 85)
	if err != nil {
		return nil, err
	}
	hotspotPrecision, err := parseInt("HOTSPOT_PRECISION", 2)
	if err != nil {
		return nil, err
	}

	hfToken := os.Getenv("HF_API_TOKEN")
	hfEnabled := hfToken != ""
	if v := os.Getenv("HF_ENABLED"); v != "" {
		hfEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		SocialCacheTTL: cacheTTL,

		KafkaBrokers:    parseList(os.Getenv("KAFKA_BROKERS")),
		KafkaScoreTopic: envOrDefault("KAFKA_SCORE_TOPIC", "hazard-report-scored"),

		HFToken:    hfToken,
		HFEnabled:  hfEnabled,
		HFModelURL: envOrDefault("HF_MODEL_URL", "https://api-inference.huggingface.co/models/openai/clip-vit-base-patch32"),
		HFTimeout:  hfTimeout,

		RegionMinLon:         minLon,
		RegionMinLat:         minLat,
		RegionMaxLon:         maxLon,
		RegionMaxLat:         maxLat,
		GeoGatePoints:        geoGate,
		ClassificationWeight: classWeight,
		LabelThreshold:       labelThreshold,
		VerifyThreshold:      verifyThreshold,
		CandidateLabels:      parseList(envOrDefault("CANDIDATE_LABELS", strings.Join(domain.DefaultCandidateLabels, ","))),
		HotspotPrecision:     hotspotPrecision,

		GNewsAPIKey:      os.Getenv("GNEWS_API_KEY"),
		RedditSubreddits: parseList(envOrDefault("REDDIT_SUBREDDITS", "IndianOcean,chennai,mumbai")),
		ScrapeDelay:      scrapeDelay,
	}

	if cfg.HFEnabled && cfg.HFToken == "" {
		return nil, errors.New("HF_ENABLED is true but HF_API_TOKEN is not set")
	}
	if cfg.HFEnabled && cfg.HFModelURL == "" {
		return nil, errors.New("HF_MODEL_URL is required when classification is enabled")
	}
	if cfg.HotspotPrecision < 0 || cfg.HotspotPrecision > 6 {
		return nil, errors.New("HOTSPOT_PRECISION must be between 0 and 6")
	}
	if err := cfg.Scoring().Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring configuration: %w", err)
	}

	return cfg, nil
}

// Scoring assembles the domain scoring configuration from the loaded settings.
func (c *Config) Scoring() domain.ScoringConfig {
	return domain.ScoringConfig{
		Bounds: domain.BoundingBox{
			MinLon: c.RegionMinLon,
			MinLat: c.RegionMinLat,
			MaxLon: c.RegionMaxLon,
			MaxLat: c.RegionMaxLat,
		},
		GeoGatePoints:        c.GeoGatePoints,
		ClassificationWeight: c.ClassificationWeight,
		LabelThreshold:       c.LabelThreshold,
		VerifyThreshold:      c.VerifyThreshold,
		CandidateLabels:      c.CandidateLabels,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseList splits a comma-separated value, trimming whitespace and
// dropping empty entries. Returns nil for an empty input.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}
