package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

const maxComments = 50

// CommentStrategy pulls a discussion thread for a page. Results are
// best-effort and may be empty.
type CommentStrategy interface {
	Comments(ctx context.Context, pageURL string, e *domain.Extraction) ([]domain.Comment, error)
}

const (
	StrategyNone       = "none"
	StrategyLines      = "lines"
	StrategyHackerNews = "hackernews"
)

// CommentRegistry maps discussion hosts to the strategy that reads them.
// Hosts match exactly or as a parent domain (old.reddit.com -> reddit.com).
type CommentRegistry struct {
	strategies map[string]CommentStrategy
}

func NewCommentRegistry() *CommentRegistry {
	return &CommentRegistry{strategies: make(map[string]CommentStrategy)}
}

// DefaultCommentRegistry registers the known discussion sites.
func DefaultCommentRegistry(httpClient *http.Client) *CommentRegistry {
	r := NewCommentRegistry()
	r.Register("reddit.com", LineStrategy{})
	r.Register("twitter.com", LineStrategy{})
	r.Register("x.com", LineStrategy{})
	r.Register("news.ycombinator.com", NewHackerNewsStrategy(httpClient))
	return r
}

func (r *CommentRegistry) Register(host string, s CommentStrategy) {
	r.strategies[strings.ToLower(host)] = s
}

func (r *CommentRegistry) Lookup(rawURL string) (CommentStrategy, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	for host != "" {
		if s, ok := r.strategies[host]; ok {
			return s, true
		}
		_, parent, found := strings.Cut(host, ".")
		if !found {
			break
		}
		host = parent
	}
	return nil, false
}

func (r *CommentRegistry) IsDiscussion(rawURL string) bool {
	_, ok := r.Lookup(rawURL)
	return ok
}

// Extract returns the comments of a discussion page. Strategy errors are
// logged and yield no comments.
func (r *CommentRegistry) Extract(ctx context.Context, rawURL string, e *domain.Extraction) []domain.Comment {
	s, ok := r.Lookup(rawURL)
	if !ok {
		return nil
	}
	comments, err := s.Comments(ctx, rawURL, e)
	if err != nil {
		slog.Warn("comment extraction failed", "url", rawURL, "error", err)
		return nil
	}
	if len(comments) > maxComments {
		comments = comments[:maxComments]
	}
	return comments
}

type strategyFile struct {
	Discussion []struct {
		Host     string `yaml:"host"`
		Strategy string `yaml:"strategy"`
	} `yaml:"discussion"`
}

// LoadCommentRegistry reads host to strategy bindings from YAML:
//
//	discussion:
//	  - host: reddit.com
//	    strategy: lines
func LoadCommentRegistry(reader io.Reader, httpClient *http.Client) (*CommentRegistry, error) {
	var file strategyFile
	if err := yaml.NewDecoder(reader).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode discussion config: %w", err)
	}

	r := NewCommentRegistry()
	for i, d := range file.Discussion {
		if d.Host == "" {
			return nil, fmt.Errorf("discussion[%d]: host is required", i)
		}
		switch d.Strategy {
		case StrategyNone, "":
			r.Register(d.Host, NoComments{})
		case StrategyLines:
			r.Register(d.Host, LineStrategy{})
		case StrategyHackerNews:
			r.Register(d.Host, NewHackerNewsStrategy(httpClient))
		default:
			return nil, fmt.Errorf("discussion[%d]: unknown strategy %q", i, d.Strategy)
		}
	}
	return r, nil
}

type NoComments struct{}

func (NoComments) Comments(context.Context, string, *domain.Extraction) ([]domain.Comment, error) {
	return nil, nil
}

var commentLine = regexp.MustCompile(`^(?:[-•>]|\d+\.)\s+(.+)$`)

// LineStrategy treats bulleted, quoted or numbered lines of the extracted
// content as comments.
type LineStrategy struct{}

func (LineStrategy) Comments(_ context.Context, _ string, e *domain.Extraction) ([]domain.Comment, error) {
	if e == nil {
		return nil, nil
	}
	var out []domain.Comment
	for _, line := range strings.Split(e.Content, "\n") {
		m := commentLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[1])
		if len(text) < 20 {
			continue
		}
		out = append(out, domain.Comment{Text: text})
	}
	return out, nil
}

// HackerNewsStrategy reads the comment tree of a news.ycombinator.com item page.
type HackerNewsStrategy struct {
	http *http.Client
}

func NewHackerNewsStrategy(httpClient *http.Client) *HackerNewsStrategy {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HackerNewsStrategy{http: httpClient}
}

func (h *HackerNewsStrategy) Comments(ctx context.Context, pageURL string, _ *domain.Extraction) ([]domain.Comment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := h.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch discussion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch discussion: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse discussion: %w", err)
	}

	var out []domain.Comment
	doc.Find("tr.comtr").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Find(".commtext").First().Text())
		if text == "" {
			return true
		}
		out = append(out, domain.Comment{
			Author: strings.TrimSpace(s.Find(".hnuser").First().Text()),
			Text:   text,
		})
		return len(out) < maxComments
	})
	return out, nil
}
