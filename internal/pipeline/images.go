package pipeline

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/news-digest/internal/llm"
)

// ImageFetcher downloads an image for the vision pass.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) (*llm.Image, error)
}

type HTTPImageFetcher struct {
	http     *http.Client
	maxBytes int64
}

func NewHTTPImageFetcher(cfg ImageConfig) *HTTPImageFetcher {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultImageMaxBytes
	}
	return &HTTPImageFetcher{
		http:     &http.Client{Timeout: cfg.Timeout},
		maxBytes: cfg.MaxBytes,
	}
}

func (f *HTTPImageFetcher) Fetch(ctx context.Context, imageURL string) (*llm.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create image request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}

	mediaType := "image/jpeg"
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			mediaType = mt
		}
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}

	return &llm.Image{MediaType: mediaType, Data: data}, nil
}
