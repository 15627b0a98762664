package api

import (
	"context"
	"net/http"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

// VectorStats reports the size and kind of the backend vector store.
func (c *Client) VectorStats(ctx context.Context) (*rag.VectorStats, error) {
	var stats rag.VectorStats
	if err := c.getJSON(ctx, "/admin/vector/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// VectorSearch runs a raw similarity search.
func (c *Client) VectorSearch(ctx context.Context, req rag.VectorSearchRequest) ([]rag.VectorRecord, error) {
	var records []rag.VectorRecord
	if err := c.sendJSON(ctx, http.MethodPost, "/admin/vector/search", req, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// VectorDelete removes every vector matching filter.
func (c *Client) VectorDelete(ctx context.Context, filter map[string]any) error {
	if filter == nil {
		filter = map[string]any{}
	}
	return c.sendJSON(ctx, http.MethodDelete, "/admin/vector/", filter, nil)
}

// VectorReset drops all vectors.
func (c *Client) VectorReset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/vector/reset", nil, "", nil)
}
