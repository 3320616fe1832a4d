package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
)

const anthropicVersion = "2023-06-01"

type AnthropicOption func(*AnthropicClient)

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	base   url.URL
	apiKey string
	model  string
	http   *http.Client
}

func NewAnthropicClient(baseURL, apiKey, model string, opts ...AnthropicOption) (*AnthropicClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse anthropic base url: %w", err)
	}

	client := &AnthropicClient{
		base:   *base,
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func WithHttpClient(httpClient *http.Client) AnthropicOption {
	return func(c *AnthropicClient) {
		c.http = httpClient
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.Prompt == "" {
		return "", apperr.NewValidation("missing prompt")
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = AnalysisMaxTokens
	}

	var blocks []contentBlock
	if req.Image != nil {
		blocks = append(blocks, contentBlock{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: req.Image.MediaType,
				Data:      base64.StdEncoding.EncodeToString(req.Image.Data),
			},
		})
	}
	blocks = append(blocks, contentBlock{Type: "text", Text: req.Prompt})

	body := messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: blocks}},
	}

	var resp messagesResponse
	if err := c.do(ctx, "/v1/messages", body, &resp); err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("claude response has no text content")
}

func (c *AnthropicClient) do(ctx context.Context, path string, reqData, respData any) error {
	payload, err := json.Marshal(reqData)
	if err != nil {
		return err
	}

	reqURL := c.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-api-key", c.apiKey)
	request.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("claude request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read claude response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("claude API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal claude response: %w", err)
	}
	return nil
}
