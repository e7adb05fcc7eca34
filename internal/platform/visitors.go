package platform

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/normalize"
)

var (
	visitorHints    = []string{"visitors", "visitorList", "items", "results"}
	engagementHints = []string{"engagements", "conversations", "items", "results"}
	userHints       = []string{"users", "merchantUsers", "items", "results"}
	attributeHints  = []string{"attributes", "merchantAttributes", "items", "results"}
)

// visitorListBody is the POST list shape shared by the visitor-side
// endpoints.
func visitorListBody(merchantID string, req PageRequest) map[string]any {
	return map[string]any{
		"merchantId": merchantID,
		"pageIndex":  req.Page,
		"pageCount":  req.size(),
	}
}

// ListVisitors fetches one page of a merchant's visitors.
func (c *Client) ListVisitors(ctx context.Context, clusterKey, merchantID string, req PageRequest) model.Page[model.Visitor] {
	ep := endpoint{
		method: http.MethodPost,
		path:   "/api/v2/visitors/list",
		body:   visitorListBody(merchantID, req),
		auth:   authHeader,
	}
	return fetchPage(ctx, c, clusterKey, ep, visitorHints, req, normalize.Visitor)
}

// GetVisitor fetches a single visitor by ID, nil when missing.
func (c *Client) GetVisitor(ctx context.Context, clusterKey, id string) *model.Visitor {
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v2/visitors/" + url.PathEscape(id),
		auth:   authHeader,
	}
	return fetchOne(ctx, c, clusterKey, ep, visitorHints, normalize.Visitor)
}

// ListEngagements fetches one page of a merchant's engagements.
func (c *Client) ListEngagements(ctx context.Context, clusterKey, merchantID string, req PageRequest) model.Page[model.Engagement] {
	ep := endpoint{
		method: http.MethodPost,
		path:   "/api/v2/engagements/list",
		body:   visitorListBody(merchantID, req),
		auth:   authHeader,
	}
	return fetchPage(ctx, c, clusterKey, ep, engagementHints, req, normalize.Engagement)
}

// ListMerchantUsers fetches one page of a merchant's platform users.
func (c *Client) ListMerchantUsers(ctx context.Context, clusterKey, merchantID string, req PageRequest) model.Page[model.MerchantUser] {
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v1/merchants/" + url.PathEscape(merchantID) + "/users",
		query: url.Values{
			"page": {strconv.Itoa(req.Page)},
			"size": {strconv.Itoa(req.size())},
		},
		auth: authQuery,
	}
	return fetchPage(ctx, c, clusterKey, ep, userHints, req, normalize.MerchantUser)
}

// ListMerchantAttributes fetches one page of a merchant's attributes.
func (c *Client) ListMerchantAttributes(ctx context.Context, clusterKey, merchantID string, req PageRequest) model.Page[model.MerchantAttribute] {
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v1/merchants/" + url.PathEscape(merchantID) + "/attributes",
		query: url.Values{
			"page": {strconv.Itoa(req.Page)},
			"size": {strconv.Itoa(req.size())},
		},
		auth: authQuery,
	}
	return fetchPage(ctx, c, clusterKey, ep, attributeHints, req, normalize.MerchantAttribute)
}
