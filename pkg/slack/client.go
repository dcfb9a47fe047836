// Package slack posts messages through the Slack Web API.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://slack.com/api"

// Client posts chat messages.
type Client interface {
	// PostMessage sends a message via chat.postMessage and returns the
	// message timestamp assigned by Slack.
	PostMessage(ctx context.Context, msg Message) (string, error)
}

// Message is the chat.postMessage request body.
type Message struct {
	Channel   string `json:"channel"`
	Text      string `json:"text"`
	Username  string `json:"username,omitempty"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a Slack client authenticated with a bot token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	TS    string `json:"ts"`
}

func (c *httpClient) PostMessage(ctx context.Context, msg Message) (string, error) {
	if msg.Channel == "" {
		return "", eris.New("slack: channel is required")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", eris.Wrap(err, "slack: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "slack: create request")
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "slack: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "slack: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("slack: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var out postMessageResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", eris.Wrap(err, "slack: unmarshal response")
	}
	if !out.OK {
		return "", eris.Errorf("slack: chat.postMessage failed: %s", out.Error)
	}
	return out.TS, nil
}
