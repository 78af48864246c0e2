package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"mailharvest-engine/internal/domain"
	"mailharvest-engine/internal/store"
)

// Client pushes extracted contacts to the contact API and pulls keyword
// configuration from it. Calls are rate limited so batch runs cannot
// hammer the endpoint.
type Client struct {
	BaseURL string
	Token   string

	http    *http.Client
	limiter *rate.Limiter
}

func New(baseURL, token string, reqPerSec float64) *Client {
	if reqPerSec <= 0 {
		reqPerSec = 2
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(reqPerSec), 1),
	}
}

// SaveResult is the API's answer to a bulk save.
type SaveResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// SaveContacts sends the whole batch in one call. The API dedups on its
// side too, so Skipped covers contacts it already had.
func (c *Client) SaveContacts(ctx context.Context, contacts []domain.ExtractedContact) (SaveResult, error) {
	var res SaveResult
	if len(contacts) == 0 {
		return res, nil
	}
	payload := struct {
		Contacts []domain.ExtractedContact `json:"contacts"`
	}{Contacts: contacts}

	if err := c.do(ctx, http.MethodPost, "/api/contacts/bulk", payload, &res); err != nil {
		return res, fmt.Errorf("save contacts: %w", err)
	}
	return res, nil
}

// FetchKeywords pulls the current keyword configuration for the local
// mirror in sqlite.
func (c *Client) FetchKeywords(ctx context.Context) ([]store.KeywordRow, error) {
	var out struct {
		Keywords []store.KeywordRow `json:"keywords"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/keywords", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch keywords: %w", err)
	}
	return out.Keywords, nil
}

// LogRun reports a finished run's counters. Best effort; callers log and
// move on when it fails.
func (c *Client) LogRun(ctx context.Context, summary domain.RunSummary) error {
	if err := c.do(ctx, http.MethodPost, "/api/runs", summary, nil); err != nil {
		return fmt.Errorf("log run: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
