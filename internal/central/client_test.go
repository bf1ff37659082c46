package central_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/central"
)

type asset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newServer(t *testing.T) *httptest.Server {
	r := chi.NewRouter()
	r.Get("/v1/api/assets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(central.RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":  1,
			"result": []asset{{ID: "a1", Name: r.URL.Query().Get("Search")}},
		})
	})
	r.Get("/v1/api/assets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(central.StatusObjectDoesNotExist)
		_, _ = w.Write([]byte(`{"message":"Asset does not exist"}`))
	})
	r.Get("/v1/api/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	r.Get("/v1/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func newClient(t *testing.T, url string) *central.APIClient {
	c, err := central.NewAPIClient(&central.ClientConfig{
		Tenant:  "test",
		BaseURL: url,
		Token:   "secret",
		Timeout: 2 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	return c
}

func TestClientGet(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv.URL)

	var out struct {
		Count  int     `json:"count"`
		Result []asset `json:"result"`
	}
	require.NoError(t, c.Get(context.Background(), "/v1/api/assets", map[string]string{"Search": "meter"}, &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, []asset{{ID: "a1", Name: "meter"}}, out.Result)
	assert.True(t, c.ConnectionOK())
	assert.True(t, c.CheckConnectivity(context.Background()))
}

func TestClientHTTPError(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv.URL)

	err := c.Get(context.Background(), "/v1/api/assets/nope", nil, nil)
	require.Error(t, err)

	var he *central.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, central.StatusObjectDoesNotExist, he.Status)
	assert.Equal(t, "Asset does not exist", he.Message)
	assert.Equal(t, central.KindNotFound, central.Classify(err))
}

func TestClientCanceled(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	err := c.Get(ctx, "/v1/api/slow", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, c.ConnectionOK())
}

func TestClientNoConnection(t *testing.T) {
	srv := newServer(t)
	url := srv.URL
	srv.Close()

	c := newClient(t, url)
	err := c.Get(context.Background(), "/v1/api/assets", nil, nil)
	assert.ErrorIs(t, err, central.ErrNoConnection)
	assert.False(t, c.ConnectionOK())
}

func TestClientConfigValidate(t *testing.T) {
	uu := map[string]struct {
		cfg central.ClientConfig
		e   error
	}{
		"ok":        {cfg: central.ClientConfig{Tenant: "t", BaseURL: "https://api.example.com"}},
		"no-tenant": {cfg: central.ClientConfig{BaseURL: "https://api.example.com"}, e: central.ErrNoTenant},
		"bad-url":   {cfg: central.ClientConfig{Tenant: "t", BaseURL: "api"}, e: central.ErrInvalidURL},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			err := u.cfg.Validate()
			if u.e == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, u.e)
		})
	}
}
