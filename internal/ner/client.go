package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mailharvest-engine/internal/extract"
)

// Client talks to the entity-tagging sidecar over HTTP. The sidecar takes
// raw text and returns labeled entities; anything beyond that is its
// business.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type tagRequest struct {
	Text string `json:"text"`
}

type tagResponse struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

func (c *Client) Entities(ctx context.Context, text string) ([]extract.Entity, error) {
	body, err := json.Marshal(tagRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/entities", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner service: status %d", resp.StatusCode)
	}

	var tr tagResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("ner decode: %w", err)
	}

	out := make([]extract.Entity, 0, len(tr.Entities))
	for _, e := range tr.Entities {
		out = append(out, extract.Entity{Text: e.Text, Label: e.Label})
	}
	return out, nil
}
