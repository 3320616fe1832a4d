package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

type ReadabilityOption func(*ReadabilityExtractor)

// ReadabilityExtractor fetches the page itself and extracts the main
// content locally. It needs no external service.
type ReadabilityExtractor struct {
	http      *http.Client
	userAgent string
}

func NewReadabilityExtractor(opts ...ReadabilityOption) *ReadabilityExtractor {
	r := &ReadabilityExtractor{
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithReadabilityHttpClient(httpClient *http.Client) ReadabilityOption {
	return func(r *ReadabilityExtractor) {
		r.http = httpClient
	}
}

func WithUserAgent(ua string) ReadabilityOption {
	return func(r *ReadabilityExtractor) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

func (r *ReadabilityExtractor) Extract(ctx context.Context, articleURL string) (*domain.Extraction, error) {
	pageURL, err := url.Parse(articleURL)
	if err != nil || pageURL.Scheme == "" || pageURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", articleURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	content := strings.TrimSpace(article.TextContent)
	if content == "" {
		return nil, ErrEmptyContent
	}

	images := collectImages(article.Content, pageURL)
	if article.Image != "" {
		images = prependUnique(images, domain.Image{URL: resolve(pageURL, article.Image)})
	}

	return &domain.Extraction{
		Title:       strings.TrimSpace(article.Title),
		Description: strings.TrimSpace(article.Excerpt),
		Content:     content,
		Author:      article.Byline,
		SiteName:    article.SiteName,
		Images:      images,
	}, nil
}

// collectImages lists <img> sources of the cleaned article html in document
// order, resolved against the page url.
func collectImages(html string, pageURL *url.URL) []domain.Image {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var images []domain.Image
	seen := make(map[string]bool)
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		abs := resolve(pageURL, src)
		if seen[abs] {
			return
		}
		seen[abs] = true
		alt, _ := s.Attr("alt")
		images = append(images, domain.Image{URL: abs, Alt: strings.TrimSpace(alt)})
	})
	return images
}

func prependUnique(images []domain.Image, lead domain.Image) []domain.Image {
	for i, img := range images {
		if img.URL == lead.URL {
			if i == 0 {
				return images
			}
			lead = img
			images = append(images[:i], images[i+1:]...)
			break
		}
	}
	return append([]domain.Image{lead}, images...)
}

func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
