// Package inference provides the HTTP client for a hosted audio-classification
// backend. Each of the four ensemble models is one backend.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"audioshield/internal/audio"
)

// Config identifies one classification backend.
type Config struct {
	Name    string        // short model name, reported in votes
	ID      string        // hub identifier the backend serves
	URL     string        // full endpoint URL
	Token   string        // optional bearer token
	Timeout time.Duration // HTTP timeout, 0 means no client timeout
}

// Client calls one classification backend.
type Client struct {
	config Config
	client *http.Client
}

// ClassifyRequest is the JSON body sent to a backend.
type ClassifyRequest struct {
	Model      string `json:"model,omitempty"` // hub identifier, informational for shared backends
	SampleRate int    `json:"sampleRate"`      // waveform rate, Hz
	AudioPCM16 string `json:"audioPcm16"`      // base64 little-endian 16-bit mono PCM
}

// Prediction is one label/score pair returned by a backend. Backends return
// the full label distribution, scores summing to ~1.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewClient creates a client for one backend.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Name returns the backend's short model name.
func (c *Client) Name() string {
	return c.config.Name
}

// Classify sends the waveform to the backend and returns its label
// distribution.
func (c *Client) Classify(ctx context.Context, w audio.Waveform) ([]Prediction, error) {
	reqBody := ClassifyRequest{
		Model:      c.config.ID,
		SampleRate: w.SampleRate,
		AudioPCM16: base64.StdEncoding.EncodeToString(w.PCM16()),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", c.config.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s returned %d: %s", c.config.Name, resp.StatusCode, string(body))
	}

	var predictions []Prediction
	if err := json.NewDecoder(resp.Body).Decode(&predictions); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", c.config.Name, err)
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("%s returned no predictions", c.config.Name)
	}

	return predictions, nil
}
