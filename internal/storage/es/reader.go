package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

const maxSearchSize = 100

type SearchQuery struct {
	UserID uuid.UUID
	Text   string
	Size   int
}

type SearchHit struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Summary  string    `json:"summary"`
	Topics   []string  `json:"topics"`
	ImageURL string    `json:"image_url,omitempty"`
	Score    float64   `json:"score"`
}

// Reader runs full text queries over the article mirror of one user.
type Reader struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewReader(config ClientConfig) (*Reader, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Reader{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

func (r *Reader) Search(ctx context.Context, q SearchQuery) ([]SearchHit, error) {
	size := q.Size
	if size <= 0 || size > maxSearchSize {
		size = maxSearchSize
	}
	slog.Info("Executing es article search", "query", q.Text, "user_id", q.UserID, "size", size)

	res, err := r.client.Search().
		Index(r.indexName).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Filter: []types.Query{
					{Term: map[string]types.TermQuery{"user_id": {Value: q.UserID.String()}}},
				},
				Must: []types.Query{
					{MultiMatch: &types.MultiMatchQuery{
						Query:  q.Text,
						Fields: []string{"title^2", "summary", "key_points", "description", "content"},
					}},
				},
			},
		}).
		Size(size).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "query", q.Text)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	return mapHits(res.Hits.Hits)
}

func mapHits(hits []types.Hit) ([]SearchHit, error) {
	out := make([]SearchHit, 0, len(hits))
	for _, hit := range hits {
		var doc ArticleDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("document %q has an invalid id: %w", doc.ID, err)
		}

		var score float64
		if hit.Score_ != nil {
			score = float64(*hit.Score_)
		}
		out = append(out, SearchHit{
			ID:       id,
			Title:    doc.Title,
			URL:      doc.URL,
			Summary:  doc.Summary,
			Topics:   doc.Topics,
			ImageURL: doc.ImageURL,
			Score:    score,
		})
	}
	return out, nil
}
