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

var artifactHints = []string{"artifacts", "aiArtifacts", "items", "results"}

// ListArtifacts fetches one page of AI artifacts.
func (c *Client) ListArtifacts(ctx context.Context, clusterKey string, req PageRequest) model.Page[model.AIArtifact] {
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v1/ai-artifacts",
		query: url.Values{
			"page": {strconv.Itoa(req.Page)},
			"size": {strconv.Itoa(req.size())},
		},
		auth: authHeader,
	}
	return fetchPage(ctx, c, clusterKey, ep, artifactHints, req, normalize.Artifact)
}

// GetArtifact fetches a single artifact by ID, nil when missing.
func (c *Client) GetArtifact(ctx context.Context, clusterKey, id string) *model.AIArtifact {
	ep := endpoint{
		method: http.MethodGet,
		path:   "/api/v1/ai-artifacts/" + url.PathEscape(id),
		auth:   authHeader,
	}
	return fetchOne(ctx, c, clusterKey, ep, artifactHints, normalize.Artifact)
}

// CreateArtifact creates an AI artifact.
func (c *Client) CreateArtifact(ctx context.Context, clusterKey string, a model.AIArtifact) (*model.AIArtifact, error) {
	ep := endpoint{
		method: http.MethodPost,
		path:   "/api/v1/ai-artifacts",
		body:   artifactPayload(a),
		auth:   authHeader,
	}
	rec, err := c.doWrite(ctx, clusterKey, ep, artifactHints)
	if err != nil {
		return nil, eris.Wrap(err, "create artifact")
	}
	if rec == nil {
		return nil, nil
	}
	created := normalize.Artifact(rec)
	return &created, nil
}

// UpdateArtifact updates an artifact by ID. Attribute keys are effectively
// immutable upstream: the payload carries the full ordered list and the
// platform rejects key renames.
func (c *Client) UpdateArtifact(ctx context.Context, clusterKey string, a model.AIArtifact) error {
	if a.ID == "" {
		return eris.New("update artifact: missing id")
	}
	ep := endpoint{
		method: http.MethodPut,
		path:   "/api/v1/ai-artifacts/" + url.PathEscape(a.ID),
		body:   artifactPayload(a),
		auth:   authHeader,
	}
	_, err := c.doWrite(ctx, clusterKey, ep, artifactHints)
	return eris.Wrapf(err, "update artifact %s", a.ID)
}

// DeleteArtifact deletes an artifact by ID.
func (c *Client) DeleteArtifact(ctx context.Context, clusterKey, id string) error {
	ep := endpoint{
		method: http.MethodDelete,
		path:   "/api/v1/ai-artifacts/" + url.PathEscape(id),
		auth:   authHeader,
	}
	_, err := c.doWrite(ctx, clusterKey, ep, artifactHints)
	return eris.Wrapf(err, "delete artifact %s", id)
}

func artifactPayload(a model.AIArtifact) map[string]any {
	attrs := make([]map[string]any, 0, len(a.OtherAttributes))
	for _, attr := range a.OtherAttributes {
		attrs = append(attrs, map[string]any{"key": attr.Key, "value": attr.Value})
	}
	return map[string]any{
		"name":     a.Name,
		"provider": a.Provider,
		"authentication": map[string]any{
			"type":   a.Authentication.Type,
			"secret": a.Authentication.Secret,
		},
		"otherAttributes": attrs,
		"access":          string(normalize.ArtifactAccess(string(a.Access))),
	}
}
