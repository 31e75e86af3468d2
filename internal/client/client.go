// Package client talks to the classification service from the
// orchestrator side of the wire.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxnav/internal/intent"
	"voxnav/internal/nav"
)

// Client is an HTTP client for the classification service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Text                 string            `json:"text"`
	Destinations         []nav.Destination `json:"destinations"`
	CurrentDestinationID string            `json:"currentDestinationId"`
}

type analyzeResponse struct {
	Success            bool                 `json:"success"`
	HasMatch           bool                 `json:"hasMatch"`
	IntentType         string               `json:"intentType"`
	MatchedDestination *nav.Destination     `json:"matchedDestination"`
	ListMutation       *intent.ListMutation `json:"listMutation"`
	FormMutation       *intent.FormMutation `json:"formMutation"`
}

// AnalyzeIntent classifies one utterance remotely and decodes the wire
// shape back into a typed action.
func (c *Client) AnalyzeIntent(ctx context.Context, text string, dests []nav.Destination, currentID string) (intent.Action, error) {
	reqBody, err := json.Marshal(analyzeRequest{
		Text:                 text,
		Destinations:         dests,
		CurrentDestinationID: currentID,
	})
	if err != nil {
		return intent.Action{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/intent/analyze", bytes.NewReader(reqBody))
	if err != nil {
		return intent.Action{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return intent.Action{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return intent.Action{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return intent.Action{}, fmt.Errorf("analyze request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return intent.Action{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if !parsed.Success {
		return intent.Action{}, fmt.Errorf("service reported failure")
	}

	switch parsed.IntentType {
	case string(intent.KindNavigation):
		if parsed.MatchedDestination == nil {
			return intent.Action{}, fmt.Errorf("navigation intent without destination")
		}
		return intent.Navigate(text, *parsed.MatchedDestination), nil
	case string(intent.KindListMutation):
		if parsed.ListMutation == nil {
			return intent.Action{}, fmt.Errorf("list-mutation intent without payload")
		}
		return intent.NewListMutation(text, *parsed.ListMutation), nil
	case string(intent.KindFormMutation):
		if parsed.FormMutation == nil {
			return intent.Action{}, fmt.Errorf("form-mutation intent without payload")
		}
		return intent.NewFormMutation(text, *parsed.FormMutation), nil
	default:
		return intent.NoMatch(text), nil
	}
}

type transcribeResponse struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript"`
	Error      string `json:"error"`
}

// Transcribe sends recorded audio to the service and returns the
// utterance text. Failures are explicit; the caller surfaces them as a
// retry prompt rather than retrying here.
func (c *Client) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/speech/transcribe", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed transcribeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("transcribe request failed with status %d", resp.StatusCode)
	}
	if !parsed.Success {
		if parsed.Error != "" {
			return "", fmt.Errorf("transcription failed: %s", parsed.Error)
		}
		return "", fmt.Errorf("transcribe request failed with status %d", resp.StatusCode)
	}
	return parsed.Transcript, nil
}
