package es

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ProductDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category,omitempty"`
}

// ProductIndex keeps a searchable copy of the catalog.
type ProductIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func docFor(p *models.Product) ProductDoc {
	doc := ProductDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
	}
	if p.Category != nil {
		doc.Category = p.Category.Name
	}
	return doc
}

func (ix *ProductIndex) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(docFor(p))
	if err != nil {
		return err
	}

	res, err := ix.Client.Index(
		ix.Index,
		bytes.NewReader(body),
		ix.Client.Index.WithDocumentID(p.ID.String()),
		ix.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: index product: %w", err)
	}
	return checkResponse(res, "index product")
}

func (ix *ProductIndex) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := ix.Client.Delete(ix.Index, id.String(), ix.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: delete product: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete product")
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns matching product ids ordered by relevance.
func (ix *ProductIndex) Search(ctx context.Context, q string, from, size int) ([]uuid.UUID, int64, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, 0, err
	}

	res, err := ix.Client.Search(
		ix.Client.Search.WithContext(ctx),
		ix.Client.Search.WithIndex(ix.Index),
		ix.Client.Search.WithBody(&buf),
		ix.Client.Search.WithFrom(from),
		ix.Client.Search.WithSize(size),
		ix.Client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, 0, fmt.Errorf("es: search: %s: %s", res.Status(), body)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, 0, fmt.Errorf("es: decode search: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, sr.Hits.Total.Value, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: %s: %s: %s", op, res.Status(), body)
	}
	return nil
}
