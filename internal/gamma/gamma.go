// Package gamma talks to the Gamma.app public API (v1.0) to turn proposal
// slide text into a hosted presentation. Generation is asynchronous: a
// create call returns a generation id which is polled until completion.
package gamma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"accountintel/internal/config"
)

const (
	defaultTone     = "KDDI経営層向けプロフェッショナル"
	defaultAudience = "KDDI CTO/CDO/事業部長クラスのエグゼクティブ"
)

// Generation is the state of one slide-generation job.
type Generation struct {
	GenerationID     string `json:"generation_id"`
	Status           string `json:"status"` // "pending", "completed", "failed", "timeout"
	GammaURL         string `json:"gamma_url"`
	Error            string `json:"error,omitempty"`
	CreditsDeducted  int    `json:"credits_deducted"`
	CreditsRemaining int    `json:"credits_remaining"`
}

// Client calls the Gamma API.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	maxPollTime  time.Duration
}

// NewClient builds a Gamma client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		apiKey:       cfg.Gamma.APIKey,
		baseURL:      cfg.Gamma.BaseURL,
		pollInterval: cfg.GammaPollInterval(),
		maxPollTime:  cfg.GammaMaxPollTime(),
	}
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

type createRequest struct {
	InputText    string       `json:"inputText"`
	TextMode     string       `json:"textMode"`
	Format       string       `json:"format"`
	NumCards     int          `json:"numCards"`
	Language     string       `json:"language"`
	TextOptions  textOptions  `json:"textOptions"`
	ImageOptions imageOptions `json:"imageOptions"`
}

type textOptions struct {
	Amount   string `json:"amount"`
	Tone     string `json:"tone"`
	Audience string `json:"audience"`
}

type imageOptions struct {
	Source string `json:"source"`
}

// CreatePresentation starts an asynchronous slide-generation job.
func (c *Client) CreatePresentation(ctx context.Context, inputText string, numCards int) (*Generation, error) {
	if !c.Available() {
		return nil, fmt.Errorf("GAMMA_API_KEY is not configured")
	}

	payload := createRequest{
		InputText: inputText,
		TextMode:  "generate",
		Format:    "presentation",
		NumCards:  numCards,
		Language:  "ja",
		TextOptions: textOptions{
			Amount:   "medium",
			Tone:     defaultTone,
			Audience: defaultAudience,
		},
		ImageOptions: imageOptions{Source: "pictographic"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gamma request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gamma response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gamma API error: %s", apiErrorMessage(data, resp.StatusCode))
	}

	var parsed struct {
		GenerationID string `json:"generationId"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse gamma response: %w", err)
	}
	if parsed.GenerationID == "" {
		return nil, fmt.Errorf("no generationId returned")
	}
	return &Generation{GenerationID: parsed.GenerationID, Status: "pending"}, nil
}

// Poll fetches the current status of a generation job.
func (c *Client) Poll(ctx context.Context, generationID string) (*Generation, error) {
	if !c.Available() {
		return nil, fmt.Errorf("GAMMA_API_KEY is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/generations/"+generationID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read poll response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gamma API error: %s", apiErrorMessage(data, resp.StatusCode))
	}

	var parsed struct {
		Status   string `json:"status"`
		GammaURL string `json:"gammaUrl"`
		Error    string `json:"error"`
		Credits  struct {
			Deducted  int `json:"deducted"`
			Remaining int `json:"remaining"`
		} `json:"credits"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse poll response: %w", err)
	}

	return &Generation{
		GenerationID:     generationID,
		Status:           parsed.Status,
		GammaURL:         parsed.GammaURL,
		Error:            parsed.Error,
		CreditsDeducted:  parsed.Credits.Deducted,
		CreditsRemaining: parsed.Credits.Remaining,
	}, nil
}

// GenerateAndWait starts a job and polls until it completes, fails, or times
// out. The callback receives progress text for UI display.
func (c *Client) GenerateAndWait(ctx context.Context, inputText string, numCards int, callback func(string)) (*Generation, error) {
	notify := func(msg string) {
		if callback != nil {
			callback(msg)
		}
	}

	notify("Gamma APIへ送信中...")
	gen, err := c.CreatePresentation(ctx, inputText, numCards)
	if err != nil {
		return nil, err
	}
	notify("スライド生成中...")

	elapsed := time.Duration(0)
	for elapsed < c.maxPollTime {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		elapsed += c.pollInterval

		result, err := c.Poll(ctx, gen.GenerationID)
		if err != nil {
			return nil, err
		}
		notify(fmt.Sprintf("スライド生成中... (%ds)", int(elapsed.Seconds())))

		switch result.Status {
		case "completed":
			return result, nil
		case "failed":
			msg := result.Error
			if msg == "" {
				msg = "Generation failed"
			}
			return nil, fmt.Errorf("gamma generation failed: %s", msg)
		}
	}

	return nil, fmt.Errorf("generation timed out after %ds", int(c.maxPollTime.Seconds()))
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

func apiErrorMessage(body []byte, status int) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return fmt.Sprintf("status %d", status)
}
