package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"donpollo_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type esCall struct {
	method string
	path   string
	body   string
}

func fakeElastic(t *testing.T, status int, response string) (*elasticsearch.Client, *[]esCall) {
	t.Helper()
	var calls []esCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, esCall{method: r.Method, path: r.URL.Path, body: string(body)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &calls
}

func TestProductIndexSearch(t *testing.T) {
	es, calls := fakeElastic(t, 200, `{"hits":{"hits":[{"_id":"1"},{"_id":"6"}]}}`)
	idx := NewProductIndex(es, "products")

	ids, err := idx.Search(context.Background(), "Pech*uga")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 6}, ids)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/products/_search", call.path)

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.body), &q))
	assert.Contains(t, call.body, `"case_insensitive":true`)
	assert.Contains(t, call.body, `*Pech\\*uga*`)
}

func TestProductIndexSearchErrorStatus(t *testing.T) {
	es, _ := fakeElastic(t, 404, `{"error":"index_not_found_exception"}`)
	idx := NewProductIndex(es, "products")

	_, err := idx.Search(context.Background(), "pollo")
	assert.Error(t, err)
}

func TestProductIndexIndexAndRemove(t *testing.T) {
	es, calls := fakeElastic(t, 200, `{"result":"created"}`)
	idx := NewProductIndex(es, "products")
	ctx := context.Background()

	err := idx.Index(ctx, models.Product{ID: 3, Name: "Piernas de Pollo", Price: decimal.NewFromInt(13000), Stock: 40})
	require.NoError(t, err)
	require.NoError(t, idx.Remove(ctx, 3))

	require.Len(t, *calls, 2)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.True(t, strings.HasPrefix((*calls)[0].path, "/products/_doc/3"))
	assert.Contains(t, (*calls)[0].body, `"name":"Piernas de Pollo"`)
	assert.Equal(t, http.MethodDelete, (*calls)[1].method)
}

func TestProductIndexRemoveMissingDocIsFine(t *testing.T) {
	es, _ := fakeElastic(t, 404, `{"result":"not_found"}`)

	assert.NoError(t, NewProductIndex(es, "products").Remove(context.Background(), 99))
}

func TestEnsureIndexCreatesWildcardMapping(t *testing.T) {
	var calls []esCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, esCall{method: r.Method, path: r.URL.Path, body: string(body)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	require.NoError(t, NewProductIndex(es, "products").EnsureIndex(context.Background()))

	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Equal(t, "/products", calls[1].path)

	var body struct {
		Mappings struct {
			Properties map[string]struct {
				Type   string `json:"type"`
				Fields map[string]struct {
					Type string `json:"type"`
				} `json:"fields"`
			} `json:"properties"`
		} `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal([]byte(calls[1].body), &body))
	for _, field := range []string{"name", "description"} {
		prop := body.Mappings.Properties[field]
		assert.Equal(t, "text", prop.Type, field)
		assert.Equal(t, "wildcard", prop.Fields["keyword"].Type, field)
	}
}

func TestEnsureIndexKeepsExistingIndex(t *testing.T) {
	es, calls := fakeElastic(t, 200, `{}`)

	require.NoError(t, NewProductIndex(es, "products").EnsureIndex(context.Background()))

	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodHead, (*calls)[0].method)
}
