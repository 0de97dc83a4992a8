package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"tarkovapi/app_error"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *TarkovClient {
	return NewTarkovClient(url, time.Second, 0, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Hour})
}

func TestFetchPostsTheCollectionQuery(t *testing.T) {
	var received graphQLRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.Write([]byte(`{"data":{"items":[{"id":"a"}]}}`))
	}))
	defer server.Close()

	payload, err := newTestClient(server.URL).Fetch(context.Background(), ItemsCollection)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"items":[{"id":"a"}]}}`, string(payload))
	assert.Contains(t, received.Query, "sellFor")
}

func TestFetchMapsFailuresToUpstreamUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"graphql error": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
		},
		"client error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			_, err := newTestClient(server.URL).Fetch(context.Background(), TasksCollection)
			require.Error(t, err)
			assert.ErrorIs(t, err, app_error.ErrUpstreamUnavailable)
		})
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()
	c := newTestClient(server.URL)
	ctx := context.Background()

	for range 4 {
		_, err := c.Fetch(ctx, ItemsCollection)
		assert.ErrorIs(t, err, app_error.ErrUpstreamUnavailable)
	}
	assert.Equal(t, int32(2), hits.Load(), "open breaker must not reach the provider")

	_, err := c.Fetch(ctx, TasksCollection)
	assert.ErrorIs(t, err, app_error.ErrUpstreamUnavailable)
	assert.Equal(t, int32(3), hits.Load(), "breakers are per collection")
}

func TestFetchRejectsUnknownCollection(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:0").Fetch(context.Background(), "ammo")
	assert.ErrorIs(t, err, app_error.ErrUnknownCollection)
}
