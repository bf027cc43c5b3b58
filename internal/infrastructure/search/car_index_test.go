package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anycompany/carmarket/internal/domain/entity"
)

type recorded struct {
	method, path string
	body         map[string]any
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*CarIndex, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewCarIndex(es, "cars"), &calls
}

func TestCarIndex_Index(t *testing.T) {
	idx, calls := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	car := &entity.Car{ID: "c1", Make: "BMW", Model: "X5", Year: 2018, Price: decimal.NewFromInt(30000), Currency: entity.CurrencyUSD, Active: true, UpdatedAt: time.Now()}
	require.NoError(t, idx.Index(context.Background(), car))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/cars/_doc/c1", call.path)
	assert.Equal(t, "BMW", call.body["make"])
	assert.Equal(t, float64(30000), call.body["price"])
}

func TestCarIndex_Search(t *testing.T) {
	idx, calls := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[{"_id":"c2"},{"_id":"c1"}]}}`))
	})

	ids, total, err := idx.Search(context.Background(), "bmw", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c1"}, ids)
	assert.Equal(t, int64(2), total)
	require.Len(t, *calls, 1)
	assert.True(t, strings.HasSuffix((*calls)[0].path, "/cars/_search"))
	assert.EqualValues(t, 10, (*calls)[0].body["size"])
}

func TestCarIndex_SearchError(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, _, err := idx.Search(context.Background(), "bmw", 10, 0)
	assert.Error(t, err)
}

func TestCarIndex_DeleteMissingIsFine(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	assert.NoError(t, idx.Delete(context.Background(), "c1"))
}
