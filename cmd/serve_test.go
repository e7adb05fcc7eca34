package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversehq/merchant-cli/internal/cluster"
	"github.com/conversehq/merchant-cli/internal/config"
	"github.com/conversehq/merchant-cli/internal/platform"
	"github.com/conversehq/merchant-cli/internal/resilience"
	"github.com/conversehq/merchant-cli/internal/session"
)

// newServeEnv points a console environment at a stub platform cluster.
func newServeEnv(t *testing.T, platformURL string) *consoleEnv {
	t.Helper()

	cfg = &config.Config{}
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}

	resolver, err := cluster.New(map[string]string{"test": platformURL}, "test")
	require.NoError(t, err)
	sess := session.New("test-token")

	return &consoleEnv{
		Resolver: resolver,
		Session:  sess,
		Client: platform.New(resolver, sess,
			platform.WithRateLimit(0),
			platform.WithRetry(resilience.Config{Attempts: 1}),
		),
	}
}

func TestServeHealth(t *testing.T) {
	env := newServeEnv(t, "http://unused.invalid")
	router := newRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "valid", body["session"])
}

func TestServeMerchantsList(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"id":"m1","merchantName":"Acme","active":true}],"totalElements":1,"totalPages":1}`))
	}))
	defer upstream.Close()

	env := newServeEnv(t, upstream.URL)
	router := newRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/merchants?cluster=test", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Content       []map[string]any `json:"content"`
		TotalElements int              `json:"totalElements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Acme", page.Content[0]["name"])
	assert.Equal(t, 1, page.TotalElements)
}

func TestServeMerchantNotFound(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	env := newServeEnv(t, upstream.URL)
	router := newRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/merchants/ghost", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeDegradedUpstreamStillServesEnvelope(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	env := newServeEnv(t, upstream.URL)
	router := newRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/knowledge-bases", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Content       []any `json:"content"`
		TotalElements int   `json:"totalElements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Content)
	assert.NotNil(t, page.Content)
	assert.Zero(t, page.TotalElements)
}

func TestAwaitShutdown_DrainsInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			time.Sleep(150 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}),
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ln) //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		awaitShutdown(ctx, srv, 5*time.Second)
		close(done)
	}()

	status := make(chan int, 1)
	fail := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			fail <- err
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()

	// Cancel while the request is mid-flight; the drain window must let it
	// finish instead of cutting the connection.
	<-started
	cancel()

	select {
	case code := <-status:
		assert.Equal(t, http.StatusOK, code)
	case err := <-fail:
		t.Fatalf("in-flight request dropped during shutdown: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request never completed")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown never completed")
	}
}
