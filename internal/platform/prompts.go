package platform

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/normalize"
)

var promptHints = []string{"prompts", "promptList", "items", "results"}

// The prompt endpoints follow the newer API generation: POST bodies
// carrying {merchantId, pageIndex, pageCount} with a bearer header.

// ListPrompts fetches one page of a merchant's prompts.
func (c *Client) ListPrompts(ctx context.Context, clusterKey, merchantID string, req PageRequest) model.Page[model.Prompt] {
	ep := endpoint{
		method: http.MethodPost,
		path:   "/api/v2/prompts/list",
		body: map[string]any{
			"merchantId": merchantID,
			"pageIndex":  req.Page,
			"pageCount":  req.size(),
		},
		auth: authHeader,
	}
	return fetchPage(ctx, c, clusterKey, ep, promptHints, req, normalize.Prompt)
}

// GetPrompt fetches a single prompt by ID, nil when missing.
func (c *Client) GetPrompt(ctx context.Context, clusterKey, id string) *model.Prompt {
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v2/prompts/" + url.PathEscape(id),
		auth:   authHeader,
	}
	return fetchOne(ctx, c, clusterKey, ep, promptHints, normalize.Prompt)
}

// CreatePrompt creates a prompt.
func (c *Client) CreatePrompt(ctx context.Context, clusterKey string, p model.Prompt) (*model.Prompt, error) {
	ep := endpoint{
		method: http.MethodPost,
		path:   "/api/v2/prompts",
		body:   promptPayload(p),
		auth:   authHeader,
	}
	rec, err := c.doWrite(ctx, clusterKey, ep, promptHints)
	if err != nil {
		return nil, eris.Wrap(err, "create prompt")
	}
	if rec == nil {
		return nil, nil
	}
	created := normalize.Prompt(rec)
	return &created, nil
}

// UpdatePrompt updates a prompt by ID.
func (c *Client) UpdatePrompt(ctx context.Context, clusterKey string, p model.Prompt) error {
	if p.ID == "" {
		return eris.New("update prompt: missing id")
	}
	ep := endpoint{
		method: http.MethodPut,
		path:   "/api/v2/prompts/" + url.PathEscape(p.ID),
		body:   promptPayload(p),
		auth:   authHeader,
	}
	_, err := c.doWrite(ctx, clusterKey, ep, promptHints)
	return eris.Wrapf(err, "update prompt %s", p.ID)
}

// DeletePrompt soft-deletes a prompt; the upstream keeps the record and
// flips its deleted flag.
func (c *Client) DeletePrompt(ctx context.Context, clusterKey, id string) error {
	ep := endpoint{
		method: http.MethodDelete,
		path:   "/api/v2/prompts/" + url.PathEscape(id),
		auth:   authHeader,
	}
	_, err := c.doWrite(ctx, clusterKey, ep, promptHints)
	return eris.Wrapf(err, "delete prompt %s", id)
}

func promptPayload(p model.Prompt) map[string]any {
	return map[string]any{
		"merchantId":    p.MerchantID,
		"title":         p.Title,
		"promptText":    p.PromptText,
		"type":          p.Type,
		"modelId":       p.ModelID,
		"requestParams": p.RequestParams,
		"deleted":       p.Deleted,
	}
}
