package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// request types mirror the chat-completions API structure.
type request struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string for system, []Part for user
}

type responseFormat struct {
	Type string `json:"type"`
}

// Part is one element of a user message: either text or an image
// reference.  The scanner attaches the uploaded photo's public URL.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

// TextPart builds a text content part.
func TextPart(text string) Part { return Part{Type: "text", Text: text} }

// ImagePart builds an image content part referencing a retrievable URL.
func ImagePart(url string) Part {
	return Part{Type: "image_url", ImageURL: &imageRef{URL: url}}
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client calls a hosted chat-completions endpoint and returns the raw
// completion text.  The service guarantees at most best-effort JSON
// compliance, so callers always run replies through the strict
// decoders in this package before trusting them.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewClient builds a Client for the given endpoint.  An empty baseURL
// selects the default hosted endpoint.  The timeout bounds each call
// end to end; AI completions are far slower than ordinary requests.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// CompleteJSON sends a system instruction plus user content parts and
// returns the model's completion text.  The request constrains the
// reply to a JSON object; the constraint is best effort only.
func (c *Client) CompleteJSON(ctx context.Context, system string, user []Part, maxTokens int) (string, error) {
	body := request{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		MaxTokens:      maxTokens,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call model: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if respBody.Error != nil {
		return "", fmt.Errorf("model error: %s", respBody.Error.Message)
	}
	if len(respBody.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return respBody.Choices[0].Message.Content, nil
}
