// Package tts is a client for the desk pet's speech synthesis service.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrTextRequired is returned for empty or whitespace-only text.
var ErrTextRequired = errors.New("text is required")

// Client calls POST <baseURL>/api/tts and returns WAV audio.
type Client struct {
	baseURL          string
	defaultCharacter string
	httpClient       *http.Client
}

func NewClient(baseURL, defaultCharacter string) *Client {
	return &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		defaultCharacter: defaultCharacter,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

type synthesizeRequest struct {
	Text      string `json:"text"`
	Character string `json:"character,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Synthesize renders text with the given character voice. An empty
// character uses the client's default.
func (c *Client) Synthesize(ctx context.Context, text, character string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}
	if character == "" {
		character = c.defaultCharacter
	}

	payload, err := json.Marshal(synthesizeRequest{Text: text, Character: character})
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("tts error %d: %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("tts error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
