// Package search keeps car listings in an Elasticsearch index for full-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/anycompany/carmarket/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type CarIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewCarIndex(es *elasticsearch.Client, index string) *CarIndex {
	return &CarIndex{es: es, index: index}
}

type carDoc struct {
	ID          string  `json:"id"`
	SellerID    string  `json:"seller_id"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Region      string  `json:"region"`
	Description string  `json:"description"`
	Active      bool    `json:"active"`
	UpdatedAt   string  `json:"updated_at"`
}

var indexMapping = `{
  "mappings": {
    "properties": {
      "make":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "model":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "description": {"type": "text"},
      "region":      {"type": "keyword"},
      "currency":    {"type": "keyword"},
      "seller_id":   {"type": "keyword"},
      "year":        {"type": "integer"},
      "price":       {"type": "double"},
      "active":      {"type": "boolean"},
      "updated_at":  {"type": "date"}
    }
  }
}`

func responseError(op string, res *esapi.Response) error {
	return fmt.Errorf("elasticsearch %s: %s", op, res.Status())
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (i *CarIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := i.es.Indices.Exists([]string{i.index}, i.es.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = i.es.Indices.Create(i.index, i.es.Indices.Create.WithBody(strings.NewReader(indexMapping)), i.es.Indices.Create.WithContext(c))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (i *CarIndex) Index(ctx context.Context, car *entity.Car) error {
	price, _ := car.Price.Float64()
	doc := carDoc{
		ID:          car.ID,
		SellerID:    car.SellerID,
		Make:        car.Make,
		Model:       car.Model,
		Year:        car.Year,
		Price:       price,
		Currency:    string(car.Currency),
		Region:      car.Region,
		Description: car.Description,
		Active:      car.Active,
		UpdatedAt:   car.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.index, DocumentID: car.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// Delete ignores documents that are already gone.
func (i *CarIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: i.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res)
	}
	return nil
}

// Search runs a multi_match over active listings and returns matching ids in score order.
func (i *CarIndex) Search(ctx context.Context, q string, limit, offset int) ([]string, int64, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"make^3", "model^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []any{map[string]any{"term": map[string]any{"active": true}}},
			},
		},
		"from":    offset,
		"size":    limit,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, 0, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, 0, responseError("search", res)
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, parsed.Hits.Total.Value, nil
}
