package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"research-agent/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_MissingCredentials(t *testing.T) {
	a := NewAdapter(Config{Endpoint: "http://unused"})
	_, err := a.Search(context.Background(), "battery", 5)
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
}

func TestSearch_ParsesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "key", q.Get("key"))
		assert.Equal(t, "cx", q.Get("cx"))
		assert.Equal(t, "grid storage", q.Get("q"))
		assert.Equal(t, "2", q.Get("num"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"Grid storage","link":"https://www.energy.gov/storage","snippet":"DOE overview"},
			{"title":"Not a page","link":"ftp://files.example.com/x","snippet":""},
			{"title":"Batteries","link":"https://example.org/batteries","snippet":"s"},
			{"title":"Extra","link":"https://example.net/extra","snippet":"s"}
		]}`))
	}))
	defer srv.Close()

	a := NewAdapter(Config{APIKey: "key", EngineID: "cx", Endpoint: srv.URL})
	results, err := a.Search(context.Background(), "grid storage", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "https://www.energy.gov/storage", results[0].URL)
	assert.Equal(t, "energy.gov", results[0].Domain)
	assert.Equal(t, 0, results[0].Rank)
	assert.Equal(t, "https://example.org/batteries", results[1].URL)
	assert.Equal(t, 1, results[1].Rank)
	assert.False(t, results[1].Simulated)
}

func TestSearch_HTTPErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewAdapter(Config{APIKey: "key", EngineID: "cx", Endpoint: srv.URL})
	_, err := a.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
}

func TestSearch_BadJSONIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [`))
	}))
	defer srv.Close()

	a := NewAdapter(Config{APIKey: "key", EngineID: "cx", Endpoint: srv.URL})
	_, err := a.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, errs.ErrMalformedResponse)
}

func TestSearch_TimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	a := NewAdapter(Config{APIKey: "key", EngineID: "cx", Endpoint: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := a.Search(ctx, "q", 5)
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
}
