package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenseflow/invoice-processor/config"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

func newTestClient(endpoint string, timeout time.Duration) *Client {
	return NewClient(&config.FXConfig{
		Endpoint:     endpoint,
		APIKey:       "test-key",
		BaseCurrency: "TWD",
		Timeout:      timeout,
	}, logger.NewTestLogger())
}

func TestRateToBaseSelectsBaseEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"date":"2024-01-01","rates":{"TWD":31.5,"JPY":148.2}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)

	rate, asOf, ok := c.RateToBase(context.Background(), "USD")

	require.True(t, ok)
	assert.Equal(t, 31.5, rate)
	assert.Equal(t, "2024-01-01", asOf)
}

func TestRateToBaseMissingBaseEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"date":"2024-01-01","rates":{"JPY":148.2}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)

	_, _, ok := c.RateToBase(context.Background(), "USD")
	assert.False(t, ok)
}

func TestRateToBaseNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)

	_, _, ok := c.RateToBase(context.Background(), "USD")
	assert.False(t, ok)
}

func TestRateToBaseMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)

	_, _, ok := c.RateToBase(context.Background(), "USD")
	assert.False(t, ok)
}

func TestRateToBaseTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 50*time.Millisecond)

	_, _, ok := c.RateToBase(context.Background(), "USD")
	assert.False(t, ok)
}

func TestRateToBaseUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(srv.URL, time.Second)

	_, _, ok := c.RateToBase(context.Background(), "USD")
	assert.False(t, ok)
}
