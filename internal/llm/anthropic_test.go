package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicClient_Complete(t *testing.T) {
	var (
		gotPath    string
		gotKey     string
		gotVersion string
		gotBody    messagesRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"ok\":true}"}]}`))
	}))
	defer srv.Close()

	client, err := NewAnthropicClient(srv.URL, "key-1", "test-model")
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), Request{Prompt: "hello", MaxTokens: 512})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, anthropicVersion, gotVersion)
	assert.Equal(t, "test-model", gotBody.Model)
	assert.Equal(t, 512, gotBody.MaxTokens)
	require.Len(t, gotBody.Messages, 1)
	require.Len(t, gotBody.Messages[0].Content, 1)
	assert.Equal(t, "text", gotBody.Messages[0].Content[0].Type)
	assert.Equal(t, "hello", gotBody.Messages[0].Content[0].Text)
}

func TestAnthropicClient_CompleteWithImage(t *testing.T) {
	var gotBody messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{}"}]}`))
	}))
	defer srv.Close()

	client, err := NewAnthropicClient(srv.URL, "k", "m")
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), Request{
		Prompt: "describe",
		Image:  &Image{MediaType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)

	blocks := gotBody.Messages[0].Content
	require.Len(t, blocks, 2)
	assert.Equal(t, "image", blocks[0].Type)
	require.NotNil(t, blocks[0].Source)
	assert.Equal(t, "base64", blocks[0].Source.Type)
	assert.Equal(t, "image/png", blocks[0].Source.MediaType)
	assert.Equal(t, "cG5n", blocks[0].Source.Data)
	assert.Equal(t, "text", blocks[1].Type)
	assert.Equal(t, AnalysisMaxTokens, gotBody.MaxTokens)
}

func TestAnthropicClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusTooManyRequests, `{"error":{"type":"rate_limit_error"}}`},
		{"no text block", http.StatusOK, `{"content":[]}`},
		{"bad json", http.StatusOK, `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewAnthropicClient(srv.URL, "k", "m")
			require.NoError(t, err)

			_, err = client.Complete(context.Background(), Request{Prompt: "p"})
			assert.Error(t, err)
		})
	}
}

func TestAnthropicClient_RequiresPrompt(t *testing.T) {
	client, err := NewAnthropicClient("http://localhost", "k", "m")
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), Request{})
	assert.Error(t, err)
}
