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

var kbHints = []string{"knowledgeBases", "knowledgebases", "kbs", "items", "results"}

// ListKnowledgeBases fetches one page of knowledge bases.
func (c *Client) ListKnowledgeBases(ctx context.Context, clusterKey string, req PageRequest) model.Page[model.KnowledgeBase] {
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v1/knowledge-bases",
		query: url.Values{
			"page": {strconv.Itoa(req.Page)},
			"size": {strconv.Itoa(req.size())},
		},
		auth: authHeader,
	}
	return fetchPage(ctx, c, clusterKey, ep, kbHints, req, normalize.KnowledgeBase)
}

// GetKnowledgeBase fetches a single knowledge base by ID, nil when missing.
func (c *Client) GetKnowledgeBase(ctx context.Context, clusterKey, id string) *model.KnowledgeBase {
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v1/knowledge-bases/" + url.PathEscape(id),
		auth:   authHeader,
	}
	return fetchOne(ctx, c, clusterKey, ep, kbHints, normalize.KnowledgeBase)
}

// CreateKnowledgeBase creates a knowledge base.
func (c *Client) CreateKnowledgeBase(ctx context.Context, clusterKey string, kb model.KnowledgeBase) (*model.KnowledgeBase, error) {
	ep := endpoint{
		method: http.MethodPost,
		path:   "/api/v1/knowledge-bases",
		body:   kbPayload(kb),
		auth:   authHeader,
	}
	rec, err := c.doWrite(ctx, clusterKey, ep, kbHints)
	if err != nil {
		return nil, eris.Wrap(err, "create knowledge base")
	}
	if rec == nil {
		return nil, nil
	}
	created := normalize.KnowledgeBase(rec)
	return &created, nil
}

// UpdateKnowledgeBase updates a knowledge base by ID.
func (c *Client) UpdateKnowledgeBase(ctx context.Context, clusterKey string, kb model.KnowledgeBase) error {
	if kb.ID == "" {
		return eris.New("update knowledge base: missing id")
	}
	ep := endpoint{
		method: http.MethodPut,
		path:   "/api/v1/knowledge-bases/" + url.PathEscape(kb.ID),
		body:   kbPayload(kb),
		auth:   authHeader,
	}
	_, err := c.doWrite(ctx, clusterKey, ep, kbHints)
	return eris.Wrapf(err, "update knowledge base %s", kb.ID)
}

// DeleteKnowledgeBase deletes a knowledge base by ID.
func (c *Client) DeleteKnowledgeBase(ctx context.Context, clusterKey, id string) error {
	ep := endpoint{
		method: http.MethodDelete,
		path:   "/api/v1/knowledge-bases/" + url.PathEscape(id),
		auth:   authHeader,
	}
	_, err := c.doWrite(ctx, clusterKey, ep, kbHints)
	return eris.Wrapf(err, "delete knowledge base %s", id)
}

func kbPayload(kb model.KnowledgeBase) map[string]any {
	return map[string]any{
		"name":        kb.Name,
		"description": kb.Description,
		"modelId":     kb.ModelID,
		"status":      kb.Status,
	}
}
