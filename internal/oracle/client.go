package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the OpenAI-compatible API root used when none is configured.
const DefaultBaseURL = "https://api.openai.com/v1"

const systemMessage = "You match spreadsheet column headers. Respond with a single JSON object and nothing else."

// Request is one completion request.
type Request struct {
	Model       string
	Prompt      string
	Temperature float64
	// JSON asks the service to return a JSON object.
	JSON bool
}

// Client sends a single prompt and returns the text reply.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// HTTPClient talks to an OpenAI-compatible chat completions endpoint.
type HTTPClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// NewHTTPClient creates a client. A zero timeout leaves the transport default in place.
func NewHTTPClient(apiKey, baseURL string, timeout time.Duration) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	// No omitempty: a zero temperature must be sent, not dropped.
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// Complete posts the prompt and returns the first choice's message content.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", newError(MissingCredentials, nil, "no API key configured")
	}
	if strings.TrimSpace(req.Model) == "" {
		return "", newError(Misconfigured, nil, "no model configured")
	}

	body := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", newError(InvalidResponse, err, "marshal request")
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", newError(Transport, err, "build request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", newError(Transport, err, "POST %s", url)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(Transport, err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newError(Transport, nil, "http %d: %s", resp.StatusCode, truncate(string(respRaw), 200))
	}

	if !gjson.ValidBytes(respRaw) {
		return "", newError(InvalidResponse, nil, "response envelope is not JSON")
	}
	content := gjson.GetBytes(respRaw, "choices.0.message.content")
	if !content.Exists() || content.Type != gjson.String {
		return "", newError(InvalidResponse, nil, "response has no message content")
	}
	return content.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
