package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"donpollo_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const searchSize = 100

// ProductIndex indexe le catalogue dans Elasticsearch ; l'id du document est l'id produit
type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{es: es, index: index}
}

type indexedProduct struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
}

// mapping explicite : les sous-champs wildcard n'ont pas de limite ignore_above
var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"name":        searchableText(),
			"description": searchableText(),
			"price":       map[string]any{"type": "keyword"},
			"stock":       map[string]any{"type": "integer"},
		},
	},
}

func searchableText() map[string]any {
	return map[string]any{
		"type":   "text",
		"fields": map[string]any{"keyword": map[string]any{"type": "wildcard"}},
	}
}

// EnsureIndex crée l'index avec son mapping s'il n'existe pas encore
func (p *ProductIndex) EnsureIndex(ctx context.Context) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{p.index}}.Do(ctx, p.es)
	if err != nil {
		return fmt.Errorf("erreur envoi Elastic: %w", err)
	}
	exists.Body.Close()

	switch {
	case exists.StatusCode == 200:
		return nil
	case exists.StatusCode != 404:
		return fmt.Errorf("vérification index %s: %s", p.index, exists.Status())
	}

	data, err := json.Marshal(indexMapping)
	if err != nil {
		return err
	}
	res, err := esapi.IndicesCreateRequest{Index: p.index, Body: bytes.NewReader(data)}.Do(ctx, p.es)
	if err != nil {
		return fmt.Errorf("erreur envoi Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		// une autre instance l'a créé entre-temps
		if strings.Contains(string(body), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("création index %s: %s", p.index, res.Status())
	}
	return nil
}

func (p *ProductIndex) Index(ctx context.Context, product models.Product) error {
	data, err := json.Marshal(indexedProduct{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.String(),
		Stock:       product.Stock,
	})
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      p.index,
		DocumentID: strconv.FormatInt(product.ID, 10),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, p.es)
	if err != nil {
		return fmt.Errorf("erreur envoi Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexation produit %d: %s", product.ID, res.Status())
	}
	return nil
}

func (p *ProductIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{
		Index:      p.index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, p.es)
	if err != nil {
		return fmt.Errorf("erreur envoi Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("suppression produit %d: %s", id, res.Status())
	}
	return nil
}

// Search : sous-chaîne insensible à la casse sur nom et description (sous-champs wildcard, voir indexMapping)
func (p *ProductIndex) Search(ctx context.Context, term string) ([]int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchQuery(term)); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{p.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, p.es)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("recherche Elastic: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %w", err)
	}

	ids := make([]int64, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			return nil, errors.New("réponse Elastic invalide (id non numérique)")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func searchQuery(term string) map[string]any {
	pattern := "*" + wildcardEscaper.Replace(term) + "*"
	clause := func(field string) map[string]any {
		return map[string]any{
			"wildcard": map[string]any{
				field: map[string]any{"value": pattern, "case_insensitive": true},
			},
		}
	}
	return map[string]any{
		"size":    searchSize,
		"_source": false,
		"query": map[string]any{
			"bool": map[string]any{
				"should":               []any{clause("name.keyword"), clause("description.keyword")},
				"minimum_should_match": 1,
			},
		},
	}
}
