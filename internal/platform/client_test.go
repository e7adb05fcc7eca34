package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversehq/merchant-cli/internal/cluster"
	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/resilience"
	"github.com/conversehq/merchant-cli/internal/session"
)

func newTestClient(t *testing.T, srvURL string) (*Client, *session.Store) {
	t.Helper()
	resolver, err := cluster.New(map[string]string{"test": srvURL}, "test")
	require.NoError(t, err)
	sess := session.New("test-token")
	c := New(resolver, sess,
		WithRateLimit(0),
		WithRetry(resilience.Config{Attempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}),
	)
	return c, sess
}

func TestListMerchants_WrapperShapes(t *testing.T) {
	t.Parallel()

	shapes := []string{
		`[{"id":"m1","merchantName":"Acme","active":true}]`,
		`{"content":[{"id":"m1","merchantName":"Acme","active":true}]}`,
		`{"data":{"content":[{"id":"m1","merchantName":"Acme","active":true}]}}`,
		`{"merchants":[{"id":"m1","merchantName":"Acme","active":true}]}`,
	}
	for _, shape := range shapes {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(shape))
		}))
		c, _ := newTestClient(t, srv.URL)

		page := c.ListMerchants(context.Background(), "test", PageRequest{Page: 0, Size: 10})

		require.Len(t, page.Content, 1, "shape %s", shape)
		assert.Equal(t, "m1", page.Content[0].ID)
		assert.Equal(t, "Acme", page.Content[0].Name)
		assert.Equal(t, model.MerchantActive, page.Content[0].Status)
		assert.Equal(t, "test", page.Content[0].Cluster)
		srv.Close()
	}
}

func TestListMerchants_CredentialInQueryString(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	c.ListMerchants(context.Background(), "test", PageRequest{Page: 0, Size: 10})
}

func TestListPrompts_PostBodyAndBearerHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "m1", body["merchantId"])
		assert.Equal(t, float64(2), body["pageIndex"])
		assert.Equal(t, float64(25), body["pageCount"])

		w.Write([]byte(`{"prompts":[{"id":"p1","title":"Greeting"}]}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	page := c.ListPrompts(context.Background(), "test", "m1", PageRequest{Page: 2, Size: 25})

	require.Len(t, page.Content, 1)
	assert.Equal(t, "Greeting", page.Content[0].Title)
}

func TestFetchPage_ServerErrorDegradesToEmptyEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	page := c.ListMerchants(context.Background(), "test", PageRequest{Page: 0, Size: 10})

	assert.Empty(t, page.Content)
	assert.NotNil(t, page.Content)
	assert.Equal(t, 0, page.TotalElements)
	assert.True(t, page.First)
	assert.True(t, page.Last)
}

func TestFetchPage_UnparseableBodyDegradesToEmptyEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{truncated`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	page := c.ListMerchants(context.Background(), "test", PageRequest{Page: 0, Size: 10})
	assert.Empty(t, page.Content)
}

func TestFetchPage_TotalPagesDerivedWhenUpstreamOmitsIt(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"id":"m1"}],"pageNumber":1,"pageSize":10,"totalElements":25}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	page := c.ListMerchants(context.Background(), "test", PageRequest{Page: 1, Size: 10})

	assert.Equal(t, 25, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.PageNumber)
	assert.False(t, page.First)
	assert.False(t, page.Last)
}

func TestFetchPage_UpstreamTotalPagesTrusted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"id":"m1"}],"totalElements":25,"totalPages":99}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	page := c.ListMerchants(context.Background(), "test", PageRequest{Page: 0, Size: 10})

	assert.Equal(t, 99, page.TotalPages)
}

func TestFetchPage_MetadataFromNestedWrapper(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"content":[{"id":"m1"}],"totalElements":7,"pageSize":5}}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	page := c.ListMerchants(context.Background(), "test", PageRequest{Page: 0, Size: 5})

	assert.Equal(t, 7, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
}

func TestUnauthorized_InvalidatesSessionAndFailsFast(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, sess := newTestClient(t, srv.URL)

	page := c.ListMerchants(context.Background(), "test", PageRequest{Page: 0, Size: 10})
	assert.Empty(t, page.Content)
	assert.Equal(t, session.StateExpired, sess.State())
	assert.Equal(t, int64(1), hits.Load(), "401 must not be retried")

	select {
	case <-sess.Expired():
	default:
		t.Fatal("expiry watchers not notified")
	}

	// The next call short-circuits without touching the network.
	page = c.ListMerchants(context.Background(), "test", PageRequest{Page: 0, Size: 10})
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(1), hits.Load(), "expired session must fail fast")

	// Writes observe the same state.
	err := c.DeleteMerchant(context.Background(), "test", "m1")
	require.Error(t, err)
	assert.Equal(t, int64(1), hits.Load())
}

func TestTransientFailureRetriedThenRecovers(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"id":"m1"}]`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	page := c.ListMerchants(context.Background(), "test", PageRequest{Page: 0, Size: 10})

	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(2), hits.Load())
}

func TestGetMerchant_FallbackToSearchWhenPrimaryEmpty(t *testing.T) {
	t.Parallel()

	var searchHit atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Path == "/api/v1/merchants/search":
			searchHit.Store(true)
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "m42", body["merchantId"])
			w.Write([]byte(`{"data":{"id":"m42","merchantName":"Found Later"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	m := c.GetMerchant(context.Background(), "test", "m42")

	require.NotNil(t, m)
	assert.Equal(t, "Found Later", m.Name)
	assert.True(t, searchHit.Load())
}

func TestGetMerchant_MissingEverywhereIsNil(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	assert.Nil(t, c.GetMerchant(context.Background(), "test", "ghost"))
}

func TestFindMerchantByName_FoldedMatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[
			{"id":"m1","merchantName":"Café del Mar"},
			{"id":"m2","merchantName":"Other"}
		],"totalElements":2,"totalPages":1}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	m := c.FindMerchantByName(context.Background(), "test", "cafe DEL mar")

	require.NotNil(t, m)
	assert.Equal(t, "m1", m.ID)

	assert.Nil(t, c.FindMerchantByName(context.Background(), "test", "nobody"))
}

func TestWriteFailurePropagates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"duplicate merchant"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	_, err := c.CreateMerchant(context.Background(), "test", model.Merchant{Name: "Dup"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "duplicate merchant")
}

func TestCreateMerchant_EchoedRecordNormalized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Acme", body["merchantName"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"m-new","merchantName":"Acme","status":"Active"}}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	created, err := c.CreateMerchant(context.Background(), "test", model.Merchant{
		Name:   "Acme",
		Status: model.MerchantActive,
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "m-new", created.ID)
	assert.Equal(t, model.MerchantActive, created.Status)
}

func TestUnknownClusterFallsBackToDefault(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"m1"}]`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	page := c.ListMerchants(context.Background(), "no-such-cluster", PageRequest{Page: 0, Size: 10})

	require.Len(t, page.Content, 1)
	assert.Equal(t, "test", page.Content[0].Cluster)
}

func TestVerifyCredential(t *testing.T) {
	t.Parallel()

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"content":[]}`))
		}))
		defer srv.Close()
		c, _ := newTestClient(t, srv.URL)

		assert.NoError(t, c.VerifyCredential(context.Background(), "test"))
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		c, sess := newTestClient(t, srv.URL)

		err := c.VerifyCredential(context.Background(), "test")
		require.Error(t, err)
		assert.Equal(t, session.StateExpired, sess.State())
	})

	t.Run("unreachable cluster is an error, not a pass", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		c, sess := newTestClient(t, srv.URL)

		err := c.VerifyCredential(context.Background(), "test")
		require.Error(t, err)
		assert.Equal(t, session.StateValid, sess.State())
	})

	t.Run("server error surfaces", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"cluster disabled"}`))
		}))
		defer srv.Close()
		c, _ := newTestClient(t, srv.URL)

		err := c.VerifyCredential(context.Background(), "test")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
	})
}
