package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJinaClient_Extract(t *testing.T) {
	var gotPath, gotAccept, gotImages, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotImages = r.Header.Get("X-With-Images-Summary")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"data":{
			"title":" Go 1.26 released ",
			"description":"Release notes",
			"content":"Body text",
			"author":"gopher",
			"siteName":"go.dev",
			"images":[{"src":"https://go.dev/a.png","alt":"A"},{"src":""},{"src":"https://go.dev/b.png"}]
		}}`))
	}))
	defer srv.Close()

	client, err := NewJinaClient(srv.URL+"/", WithAPIKey("secret"))
	require.NoError(t, err)

	got, err := client.Extract(context.Background(), "https://go.dev/blog/go1.26")
	require.NoError(t, err)

	assert.Equal(t, "/https://go.dev/blog/go1.26", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "true", gotImages)
	assert.Equal(t, "Bearer secret", gotAuth)

	assert.Equal(t, "Go 1.26 released", got.Title)
	assert.Equal(t, "Release notes", got.Description)
	assert.Equal(t, "Body text", got.Content)
	assert.Equal(t, "gopher", got.Author)
	assert.Equal(t, "go.dev", got.SiteName)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "https://go.dev/a.png", got.LeadImage())
	assert.Equal(t, "A", got.Images[0].Alt)
}

func TestJinaClient_NoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":{"title":"t","content":"c"}}`))
	}))
	defer srv.Close()

	client, err := NewJinaClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestJinaClient_ImageSummaryObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"title":"t","content":"c","images":{
			"Image 10: last":"https://x.test/10.png",
			"Image 2: second":"https://x.test/2.png",
			"Image 1: first":"https://x.test/1.png"
		}}}`))
	}))
	defer srv.Close()

	client, err := NewJinaClient(srv.URL)
	require.NoError(t, err)

	got, err := client.Extract(context.Background(), "https://x.test/post")
	require.NoError(t, err)

	require.Len(t, got.Images, 3)
	assert.Equal(t, "https://x.test/1.png", got.Images[0].URL)
	assert.Equal(t, "first", got.Images[0].Alt)
	assert.Equal(t, "https://x.test/2.png", got.Images[1].URL)
	assert.Equal(t, "https://x.test/10.png", got.Images[2].URL)
}

func TestJinaClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non 2xx", http.StatusBadGateway, `upstream down`},
		{"malformed payload", http.StatusOK, `<html>not json</html>`},
		{"missing data", http.StatusOK, `{"code":200}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewJinaClient(srv.URL)
			require.NoError(t, err)

			_, err = client.Extract(context.Background(), "https://example.com")
			assert.Error(t, err)
		})
	}
}

func TestNewJinaClient_RequiresBaseURL(t *testing.T) {
	_, err := NewJinaClient("")
	assert.Error(t, err)
}
