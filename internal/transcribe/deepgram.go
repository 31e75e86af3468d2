// Package transcribe is the speech-to-text boundary. The service proxies
// audio bytes to the provider and returns plain utterance text or an
// explicit failure; nothing here retries, the UI surfaces failures as
// "try again".
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DeepgramClient transcribes recorded audio through the Deepgram
// prerecorded endpoint.
type DeepgramClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// DeepgramConfig holds configuration for the Deepgram client.
type DeepgramConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultDeepgramConfig returns sensible defaults.
func DefaultDeepgramConfig(apiKey string) DeepgramConfig {
	return DeepgramConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.deepgram.com",
		Model:   "nova-2",
		Timeout: 30 * time.Second,
	}
}

// NewDeepgramClient creates a client with default config.
func NewDeepgramClient(apiKey string) *DeepgramClient {
	return NewDeepgramClientWithConfig(DefaultDeepgramConfig(apiKey))
}

// NewDeepgramClientWithConfig creates a client with custom config.
func NewDeepgramClientWithConfig(config DeepgramConfig) *DeepgramClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.deepgram.com"
	}
	if config.Model == "" {
		config.Model = "nova-2"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &DeepgramClient{
		apiKey:  config.APIKey,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends audio bytes and returns the transcript. An empty
// transcript is an explicit error, not a silent empty string.
func (c *DeepgramClient) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("API key not configured")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("no audio provided")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	url := fmt.Sprintf("%s/v1/listen?model=%s&smart_format=true", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed deepgramResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("no transcript returned")
	}

	transcript := strings.TrimSpace(parsed.Results.Channels[0].Alternatives[0].Transcript)
	if transcript == "" {
		return "", fmt.Errorf("empty transcript")
	}
	return transcript, nil
}
