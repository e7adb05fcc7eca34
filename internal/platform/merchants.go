package platform

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/normalize"
)

// merchantHints are the entity-specific plural keys probed by the envelope
// unwrapper, in priority order.
var merchantHints = []string{"merchants", "merchantList", "items", "results"}

// The merchant endpoints are the oldest API generation: GET with the
// credential in the query string.

// ListMerchants fetches one page of merchants from a cluster.
func (c *Client) ListMerchants(ctx context.Context, clusterKey string, req PageRequest) model.Page[model.Merchant] {
	effectiveKey, _ := c.resolver.Resolve(clusterKey)
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v1/merchants",
		query: url.Values{
			"page": {strconv.Itoa(req.Page)},
			"size": {strconv.Itoa(req.size())},
		},
		auth: authQuery,
	}
	return fetchPage(ctx, c, clusterKey, ep, merchantHints, req, func(raw map[string]any) model.Merchant {
		return normalize.Merchant(raw, effectiveKey)
	})
}

// VerifyCredential issues a minimal merchant list call and reports whether
// the cluster accepted the token. Unlike the read operations, transport
// failures surface as errors here: a token cannot be declared good when the
// cluster was never reached.
func (c *Client) VerifyCredential(ctx context.Context, clusterKey string) error {
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v1/merchants",
		query: url.Values{
			"page": {"0"},
			"size": {"1"},
		},
		auth: authQuery,
	}
	status, body, err := c.do(ctx, clusterKey, ep)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return eris.Errorf("platform: credential check: status %d: %s", status, excerpt(body))
	}
	return nil
}

// GetMerchant fetches a single merchant by ID. The direct lookup is tried
// first; when it yields nothing, the search endpoint is consulted, since
// some clusters only index merchants there. A missing merchant is nil, not
// an error.
func (c *Client) GetMerchant(ctx context.Context, clusterKey, id string) *model.Merchant {
	effectiveKey, _ := c.resolver.Resolve(clusterKey)
	mapFn := func(raw map[string]any) model.Merchant {
		return normalize.Merchant(raw, effectiveKey)
	}

	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v1/merchants/" + url.PathEscape(id),
		auth:   authQuery,
	}
	if m := fetchOne(ctx, c, clusterKey, ep, merchantHints, mapFn); m != nil {
		return m
	}

	fallback := endpoint{
		method: http.MethodPost,
		path:   "/api/v1/merchants/search",
		body:   map[string]any{"merchantId": id},
		auth:   authHeader,
	}
	return fetchOne(ctx, c, clusterKey, fallback, merchantHints, mapFn)
}

// FindMerchantByName scans the merchant list for a name match, comparing
// accent-folded names so spelling variations across clusters still match.
// Returns the first match or nil.
func (c *Client) FindMerchantByName(ctx context.Context, clusterKey, name string) *model.Merchant {
	want := normalize.FoldName(name)
	if want == "" {
		return nil
	}
	// Bounded scan: a directory larger than this is a misconfigured query,
	// not a lookup.
	const maxPages = 50
	req := PageRequest{Page: 0, Size: 100}
	for req.Page < maxPages {
		page := c.ListMerchants(ctx, clusterKey, req)
		for i := range page.Content {
			if normalize.FoldName(page.Content[i].Name) == want {
				return &page.Content[i]
			}
		}
		if page.Last || len(page.Content) == 0 {
			return nil
		}
		req.Page++
	}
	return nil
}

// CreateMerchant creates a merchant and returns the normalized record the
// upstream echoes, when it echoes one.
func (c *Client) CreateMerchant(ctx context.Context, clusterKey string, m model.Merchant) (*model.Merchant, error) {
	effectiveKey, _ := c.resolver.Resolve(clusterKey)
	ep := endpoint{
		method: http.MethodPost,
		path:   "/api/v1/merchants",
		body:   merchantPayload(m),
		auth:   authHeader,
	}
	rec, err := c.doWrite(ctx, clusterKey, ep, merchantHints)
	if err != nil {
		return nil, eris.Wrap(err, "create merchant")
	}
	if rec == nil {
		return nil, nil
	}
	created := normalize.Merchant(rec, effectiveKey)
	return &created, nil
}

// UpdateMerchant updates a merchant by ID.
func (c *Client) UpdateMerchant(ctx context.Context, clusterKey string, m model.Merchant) error {
	if m.ID == "" {
		return eris.New("update merchant: missing id")
	}
	ep := endpoint{
		method: http.MethodPut,
		path:   "/api/v1/merchants/" + url.PathEscape(m.ID),
		body:   merchantPayload(m),
		auth:   authHeader,
	}
	_, err := c.doWrite(ctx, clusterKey, ep, merchantHints)
	return eris.Wrapf(err, "update merchant %s", m.ID)
}

// UpdateMerchantStatus flips just the status field.
func (c *Client) UpdateMerchantStatus(ctx context.Context, clusterKey, id string, status model.MerchantStatus) error {
	ep := endpoint{
		method: http.MethodPut,
		path:   "/api/v1/merchants/" + url.PathEscape(id) + "/status",
		body: map[string]any{
			"status": string(status),
			"active": status == model.MerchantActive,
		},
		auth: authHeader,
	}
	_, err := c.doWrite(ctx, clusterKey, ep, merchantHints)
	return eris.Wrapf(err, "update merchant %s status", id)
}

// DeleteMerchant deletes a merchant by ID.
func (c *Client) DeleteMerchant(ctx context.Context, clusterKey, id string) error {
	ep := endpoint{
		method: http.MethodDelete,
		path:   "/api/v1/merchants/" + url.PathEscape(id),
		auth:   authHeader,
	}
	_, err := c.doWrite(ctx, clusterKey, ep, merchantHints)
	return eris.Wrapf(err, "delete merchant %s", id)
}

// merchantPayload maps a canonical merchant back to the raw write shape the
// platform accepts. Extras ride along untouched so unknown upstream fields
// survive a read-modify-write cycle.
func merchantPayload(m model.Merchant) map[string]any {
	payload := make(map[string]any, len(m.Extra)+12)
	for k, v := range m.Extra {
		payload[k] = v
	}
	payload["merchantName"] = m.Name
	payload["email"] = m.Email
	payload["phone"] = m.Phone
	payload["address"] = m.Address
	payload["city"] = m.City
	payload["state"] = m.State
	payload["postalCode"] = m.PostalCode
	payload["country"] = m.Country
	payload["status"] = string(m.Status)
	payload["active"] = m.Status == model.MerchantActive
	if m.ID != "" {
		payload["id"] = m.ID
	}
	return payload
}
