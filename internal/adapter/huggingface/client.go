// Package huggingface implements domain.Classifier against the Hugging Face
// inference API, using a zero-shot image classification model. The media file
// is fetched first and posted to the model as raw bytes.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

// maxMediaBytes caps how much of a media file we download for classification.
const maxMediaBytes = 10 << 20

// Client calls the Hugging Face inference API.
type Client struct {
	token      string
	modelURL   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Hugging Face classification client.
func NewClient(token, modelURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token:    token,
		modelURL: modelURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Classify downloads the media at mediaURL and asks the model to score it
// against candidateLabels. It makes a single attempt; every failure wraps
// domain.ErrClassificationFailed so callers can degrade uniformly.
func (c *Client) Classify(ctx context.Context, mediaURL string, candidateLabels []string) (domain.ClassificationResult, error) {
	media, err := c.fetchMedia(ctx, mediaURL)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: fetch media: %w", domain.ErrClassificationFailed, err)
	}

	params := url.Values{
		"candidate_labels": {strings.Join(candidateLabels, ",")},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL+"?"+params.Encode(), bytes.NewReader(media))
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: create request: %w", domain.ErrClassificationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: inference request: %w", domain.ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.ClassificationResult{}, fmt.Errorf("%w: inference API status %d: %s", domain.ErrClassificationFailed, resp.StatusCode, body)
	}

	// The API returns label scores sorted highest first.
	var scores []labelScore
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: decode response: %w", domain.ErrClassificationFailed, err)
	}
	if len(scores) == 0 {
		return domain.ClassificationResult{}, fmt.Errorf("%w: empty response", domain.ErrClassificationFailed)
	}

	top := scores[0]
	for _, s := range scores[1:] {
		if s.Score > top.Score {
			top = s
		}
	}

	c.logger.Debug("classification result", "label", top.Label, "score", top.Score)
	return domain.ClassificationResult{Label: top.Label, Score: top.Score}, nil
}

func (c *Client) fetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty media body")
	}
	return data, nil
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
