package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/akore648/videotube/internal/models"
)

func NewClient(l *slog.Logger, url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	l.Info("connected to elasticsearch", "url", url)
	return client, nil
}

// Indexer pushes video metadata into the search index on publish.
type Indexer struct {
	ES        *elasticsearch.Client
	IndexName string
}

func (ix *Indexer) Index(ctx context.Context, video models.Video) error {
	doc, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("index video: %w", err)
	}

	res, err := ix.ES.Index(
		ix.IndexName,
		bytes.NewReader(doc),
		ix.ES.Index.WithDocumentID(video.ID.String()),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index video: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index video: %s", res.Status())
	}
	return nil
}

// Videos runs a fuzzy multi_match over title and description.
func Videos(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Video, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search videos: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search videos: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search videos: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.Video `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	videos := make([]models.Video, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		videos[i] = hit.Source
	}
	return r.Hits.Total.Value, videos, nil
}
