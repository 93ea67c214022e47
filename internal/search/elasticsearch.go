package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"partyplan/internal/logger"
	"partyplan/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type Config struct {
	URL        string
	Index      string
	Username   string
	Password   string
	MaxRetries int
}

// ElasticsearchClient indexes reminder run reports for operators
type ElasticsearchClient struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticsearchClient returns nil, nil when no URL is configured
func NewElasticsearchClient(ctx context.Context, cfg Config) (*ElasticsearchClient, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		index:  cfg.Index,
	}

	if err := client.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

var runReportMapping = map[string]any{
	"settings": map[string]any{
		"number_of_shards":   1,
		"number_of_replicas": 0,
	},
	"mappings": map[string]any{
		"properties": map[string]any{
			"run_id":      map[string]any{"type": "keyword"},
			"trigger":     map[string]any{"type": "keyword"},
			"started_at":  map[string]any{"type": "date"},
			"finished_at": map[string]any{"type": "date"},
			"duration_ms": map[string]any{"type": "long"},
			"processed":   map[string]any{"type": "integer"},
			"errors":      map[string]any{"type": "integer"},
			"results": map[string]any{
				"type": "nested",
				"properties": map[string]any{
					"milestone":        map[string]any{"type": "integer"},
					"processed":        map[string]any{"type": "integer"},
					"errors":           map[string]any{"type": "integer"},
					"failedBookingIds": map[string]any{"type": "keyword"},
				},
			},
		},
	},
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	mappingJSON, err := json.Marshal(runReportMapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.index,
		Body:  bytes.NewReader(mappingJSON),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	logger.WithContext(ctx).Info().Str("index", c.index).Msg("Created Elasticsearch index")
	return nil
}

// IndexRunReport stores a run report keyed by its run id
func (c *ElasticsearchClient) IndexRunReport(ctx context.Context, report *models.RunReport) error {
	if c == nil {
		return nil
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: report.RunID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index run report: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}
