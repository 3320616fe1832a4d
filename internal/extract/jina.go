package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
)

type JinaOption func(*JinaClient)

// JinaClient extracts articles through the Jina Reader API.
type JinaClient struct {
	base   string
	apiKey string
	http   *http.Client
}

func NewJinaClient(baseURL string, opts ...JinaOption) (*JinaClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("jina base url is required")
	}
	c := &JinaClient{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func WithAPIKey(key string) JinaOption {
	return func(c *JinaClient) {
		c.apiKey = key
	}
}

func WithJinaHttpClient(httpClient *http.Client) JinaOption {
	return func(c *JinaClient) {
		c.http = httpClient
	}
}

type jinaResponse struct {
	Data *jinaData `json:"data"`
}

type jinaData struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
	URL         string          `json:"url"`
	Author      string          `json:"author"`
	SiteName    string          `json:"siteName"`
	Images      json.RawMessage `json:"images"`
}

type jinaImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

func (c *JinaClient) Extract(ctx context.Context, articleURL string) (*domain.Extraction, error) {
	// The reader takes the target url verbatim after the base path.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create jina request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-With-Images-Summary", "true")
	req.Header.Set("X-With-Links-Summary", "true")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jina request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read jina response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("jina extraction failed: status %d: %s", resp.StatusCode, truncateBody(body))
	}

	var parsed jinaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode jina response: %w", err)
	}
	if parsed.Data == nil {
		return nil, fmt.Errorf("decode jina response: missing data object")
	}

	images, err := decodeJinaImages(parsed.Data.Images)
	if err != nil {
		return nil, fmt.Errorf("decode jina images: %w", err)
	}

	d := parsed.Data
	return &domain.Extraction{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Content:     d.Content,
		Author:      d.Author,
		SiteName:    d.SiteName,
		Images:      images,
	}, nil
}

// decodeJinaImages accepts both the list form [{src, alt}] and the summary
// form {"Image 1: alt": "src"} the reader returns with images summary on.
func decodeJinaImages(raw json.RawMessage) ([]domain.Image, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []jinaImage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		images := make([]domain.Image, 0, len(list))
		for _, img := range list {
			if img.Src == "" {
				continue
			}
			images = append(images, domain.Image{URL: img.Src, Alt: img.Alt})
		}
		return images, nil
	}

	var summary map[string]string
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return imageOrdinal(keys[i]) < imageOrdinal(keys[j])
	})

	images := make([]domain.Image, 0, len(keys))
	for _, k := range keys {
		if summary[k] == "" {
			continue
		}
		alt := k
		if _, after, ok := strings.Cut(k, ":"); ok {
			alt = strings.TrimSpace(after)
		}
		images = append(images, domain.Image{URL: summary[k], Alt: alt})
	}
	return images, nil
}

// imageOrdinal reads n from a key like "Image n: alt".
func imageOrdinal(key string) int {
	var n int
	if _, err := fmt.Sscanf(key, "Image %d", &n); err != nil {
		return 1 << 30
	}
	return n
}

func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
