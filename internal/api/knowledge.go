package api

import (
	"context"
	"net/http"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

// ListVersions returns the ingested versions of a novel's knowledge base.
func (c *Client) ListVersions(ctx context.Context, novel string) ([]string, error) {
	var versions []string
	if err := c.getJSON(ctx, "/knowledge/"+escape(novel)+"/versions", &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// ListScenes returns every scene stored for a novel.
func (c *Client) ListScenes(ctx context.Context, novel string) ([]rag.Scene, error) {
	var scenes []rag.Scene
	if err := c.getJSON(ctx, "/knowledge/"+escape(novel)+"/scenes", &scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

// DeleteKnowledgeBase removes a novel's knowledge base, all versions included.
func (c *Client) DeleteKnowledgeBase(ctx context.Context, novel string) error {
	return c.do(ctx, http.MethodDelete, "/knowledge/"+escape(novel), nil, "", nil)
}

// DeleteVersion removes one version of a novel's knowledge base.
func (c *Client) DeleteVersion(ctx context.Context, novel, version string) error {
	path := "/knowledge/" + escape(novel) + "/versions/" + escape(version)
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}
