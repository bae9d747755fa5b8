package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"radagast/internal/config"
)

// Client produces a free-text replenishment recommendation for a
// prompt. Implementations must always return usable text: transport
// failures are recovered internally, never surfaced to callers.
type Client interface {
	Advise(ctx context.Context, prompt string) string
}

// HTTPClient calls a Gemini-style text-generation endpoint. Any
// failure, including a missing API key, falls back to a deterministic
// recommendation derived from the prompt alone.
type HTTPClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPClient(cfg config.AdvisoryConfig, logger *zap.Logger) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *HTTPClient) Advise(ctx context.Context, prompt string) string {
	if c.apiKey == "" {
		return FallbackRecommendation(prompt)
	}

	text, err := c.call(ctx, prompt)
	if err != nil {
		c.logger.Warn("advisory call failed, using fallback", zap.Error(err))
		return FallbackRecommendation(prompt)
	}

	return text
}

func (c *HTTPClient) call(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling advisory request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building advisory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling advisory endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisory endpoint returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading advisory response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing advisory response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("advisory response contained no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// FallbackRecommendation is the deterministic recommendation used when
// the external generator is unavailable. It keys off stock-pressure
// phrases the prompt builder emits.
func FallbackRecommendation(prompt string) string {
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "low stock") || strings.Contains(lower, "urgent"):
		return "FALLBACK: High urgency detected. Recommended quantity: 50 units. Reason: Critical stock level requires immediate replenishment."
	case strings.Contains(lower, "medium") || strings.Contains(lower, "moderate"):
		return "FALLBACK: Medium urgency. Recommended quantity: 30 units. Reason: Standard replenishment based on sales patterns."
	default:
		return "FALLBACK: Low urgency. Recommended quantity: 20 units. Reason: Preventive replenishment to maintain optimal stock levels."
	}
}
