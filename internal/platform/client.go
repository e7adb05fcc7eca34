// Package platform is the cluster-routed client for the merchant platform.
// It issues HTTP calls against the resolved cluster, unwraps the
// inconsistent response envelopes, normalizes every record, and assembles
// canonical pagination envelopes.
//
// Reads never fail: transport and shape failures degrade to an empty
// envelope (lists) or nil (single records) and are logged. Writes always
// fail loudly. An authorization failure invalidates the session once, after
// which every call short-circuits before touching the network.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/conversehq/merchant-cli/internal/cluster"
	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/normalize"
	"github.com/conversehq/merchant-cli/internal/resilience"
	"github.com/conversehq/merchant-cli/internal/session"
)

// authMode selects how the credential is attached to a request. Endpoint
// conventions differ across the clusters' API generations.
type authMode int

const (
	// authHeader sends the credential as a bearer Authorization header.
	authHeader authMode = iota
	// authQuery sends the credential as a "token" query parameter.
	authQuery
)

// endpoint describes one upstream call. Endpoint-specific knowledge
// (paths, body shapes, auth convention) lives with the entity operations,
// never in the normalization layer.
type endpoint struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   authMode
}

// PageRequest selects a page of a list operation.
type PageRequest struct {
	Page int
	Size int
}

func (r PageRequest) size() int {
	if r.Size <= 0 {
		return 20
	}
	return r.Size
}

// Client is the cluster-routed platform client. Safe for concurrent use.
type Client struct {
	http     *http.Client
	resolver *cluster.Resolver
	sess     *session.Store
	retry    resilience.Config
	rps      float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry overrides the retry configuration for read operations.
func WithRetry(cfg resilience.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithRateLimit sets a per-cluster request rate limit. Zero disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.rps = rps }
}

// New creates a platform Client.
func New(resolver *cluster.Resolver, sess *session.Store, opts ...Option) *Client {
	c := &Client{
		resolver: resolver,
		sess:     sess,
		retry:    resilience.DefaultConfig(),
		rps:      10,
		limiters: make(map[string]*rate.Limiter),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// limiter returns the rate limiter for a cluster, creating it on first use.
func (c *Client) limiter(clusterKey string) *rate.Limiter {
	if c.rps <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[clusterKey]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(c.rps), max(int(c.rps), 1))
		c.limiters[clusterKey] = lim
	}
	return lim
}

// errUnauthorized marks a 401-class rejection. Never retried.
var errUnauthorized = eris.New("platform: credential rejected")

// do executes one endpoint call against the resolved cluster, with bounded
// retry on transient failures. Returns the response status and body; any
// non-401 HTTP status is a valid result, not an error.
func (c *Client) do(ctx context.Context, clusterKey string, ep endpoint) (int, []byte, error) {
	token, ok := c.sess.Token()
	if !ok {
		// Fail fast: after an authorization failure nothing reaches the
		// network until a fresh credential is installed.
		return 0, nil, session.ErrExpired
	}

	effectiveKey, base := c.resolver.Resolve(clusterKey)

	reqURL := *base
	reqURL.Path = path.Join(base.Path, ep.path)
	query := url.Values{}
	for k, vs := range ep.query {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	if ep.auth == authQuery {
		query.Set("token", token)
	}
	reqURL.RawQuery = query.Encode()

	var payload []byte
	if ep.body != nil {
		var err error
		payload, err = json.Marshal(ep.body)
		if err != nil {
			return 0, nil, eris.Wrap(err, "platform: marshal request body")
		}
	}

	if lim := c.limiter(effectiveKey); lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return 0, nil, eris.Wrap(err, "platform: rate limit")
		}
	}

	requestID := uuid.NewString()

	type result struct {
		status int
		body   []byte
	}
	res, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (result, error) {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, ep.method, reqURL.String(), bodyReader)
		if err != nil {
			return result{}, eris.Wrap(err, "platform: create request")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if ep.auth == authHeader {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return result{}, eris.Wrap(err, "platform: request failed")
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return result{}, eris.Wrap(readErr, "platform: read response body")
		}

		if resp.StatusCode == http.StatusUnauthorized {
			c.sess.Invalidate()
			zap.L().Warn("platform credential rejected, session invalidated",
				zap.String("cluster", effectiveKey),
				zap.String("request_id", requestID),
			)
			return result{}, errUnauthorized
		}
		if resilience.RetryableStatus(resp.StatusCode) {
			return result{}, resilience.MarkTransient(
				eris.Errorf("platform: status %d: %s", resp.StatusCode, excerpt(body)),
				resp.StatusCode,
			)
		}
		return result{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		return 0, nil, err
	}
	return res.status, res.body, nil
}

// fetchPage runs a list endpoint through the full unwrap+normalize path and
// assembles the canonical envelope. Never returns an error: failures of any
// kind degrade to a well-formed empty envelope and a log line.
func fetchPage[T any](ctx context.Context, c *Client, clusterKey string, ep endpoint, hints []string, req PageRequest, mapFn func(map[string]any) T) model.Page[T] {
	status, body, err := c.do(ctx, clusterKey, ep)
	if err != nil {
		zap.L().Error("list fetch failed, returning empty page",
			zap.String("cluster", clusterKey),
			zap.String("path", ep.path),
			zap.Error(err),
		)
		return model.EmptyPage[T](req.Page, req.size())
	}
	if status < 200 || status >= 300 {
		zap.L().Error("list fetch returned non-success status, returning empty page",
			zap.String("cluster", clusterKey),
			zap.String("path", ep.path),
			zap.Int("status", status),
		)
		return model.EmptyPage[T](req.Page, req.size())
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		zap.L().Error("list fetch returned unparseable body, returning empty page",
			zap.String("cluster", clusterKey),
			zap.String("path", ep.path),
			zap.Error(err),
		)
		return model.EmptyPage[T](req.Page, req.size())
	}

	items := normalize.Unwrap(raw, hints)
	content := make([]T, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		content = append(content, mapFn(rec))
	}

	meta := extractMeta(raw)
	pageNumber := meta.pick(req.Page, "pageNumber", "page", "pageIndex", "number")
	pageSize := meta.pick(req.size(), "pageSize", "size", "pageCount")
	totalElements := meta.pick(-1, "totalElements", "total", "totalCount", "totalItems")
	totalPages := meta.pick(-1, "totalPages", "pages")
	return model.NewPage(content, pageNumber, pageSize, totalElements, totalPages)
}

// fetchOne reduces a single-record endpoint through the same unwrap and
// normalize path. A missing record is nil, not an error.
func fetchOne[T any](ctx context.Context, c *Client, clusterKey string, ep endpoint, hints []string, mapFn func(map[string]any) T) *T {
	status, body, err := c.do(ctx, clusterKey, ep)
	if err != nil {
		zap.L().Error("single fetch failed",
			zap.String("cluster", clusterKey),
			zap.String("path", ep.path),
			zap.Error(err),
		)
		return nil
	}
	if status == http.StatusNotFound {
		return nil
	}
	if status < 200 || status >= 300 {
		zap.L().Error("single fetch returned non-success status",
			zap.String("cluster", clusterKey),
			zap.String("path", ep.path),
			zap.Int("status", status),
		)
		return nil
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	rec := normalize.UnwrapOne(raw, hints)
	if rec == nil {
		return nil
	}
	out := mapFn(rec)
	return &out
}

// doWrite executes a write endpoint. Unlike reads, every failure is
// surfaced: masking a failed write is worse than a failed read returning
// empty. The unwrapped response record is returned when the upstream
// echoes one.
func (c *Client) doWrite(ctx context.Context, clusterKey string, ep endpoint, hints []string) (map[string]any, error) {
	status, body, err := c.do(ctx, clusterKey, ep)
	if err != nil {
		return nil, eris.Wrapf(err, "platform: %s %s", ep.method, ep.path)
	}
	if status < 200 || status >= 300 {
		return nil, eris.Errorf("platform: %s %s: status %d: %s", ep.method, ep.path, status, excerpt(body))
	}
	if len(body) == 0 {
		return nil, nil
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		// A write that succeeded but echoed garbage is still a success.
		return nil, nil
	}
	return normalize.UnwrapOne(raw, hints), nil
}

// meta holds the raw wrapper object(s) pagination fields are probed from.
type meta struct {
	objects []map[string]any
}

// extractMeta collects the envelope objects that can carry pagination
// metadata: the top-level object and, for nested wrappers, the object under
// "data".
func extractMeta(raw any) meta {
	var m meta
	if root := normalize.AsObject(raw); root != nil {
		m.objects = append(m.objects, root)
		if nested, ok := root["data"].(map[string]any); ok {
			m.objects = append(m.objects, nested)
		}
	}
	return m
}

// pick resolves an integer metadata field from candidate keys, outer
// wrapper first. Upstream-supplied values win over the fallback.
func (m meta) pick(fallback int, keys ...string) int {
	for _, obj := range m.objects {
		for _, key := range keys {
			if v, ok := obj[key]; ok {
				if f, isNum := v.(float64); isNum {
					return int(f)
				}
			}
		}
	}
	return fallback
}

// excerpt truncates a response body for error messages.
func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
