package api

import (
	"context"
	"net/http"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

// Debug runs the backend's retrieval and prompt assembly without generation
// and returns every intermediate stage. An empty or null body yields a nil result.
func (c *Client) Debug(ctx context.Context, req rag.QueryRequest) (*rag.DebugResult, error) {
	var result *rag.DebugResult
	if err := c.sendJSON(ctx, http.MethodPost, c.ragPrefix+"/rag/debug", req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ask runs the full RAG flow through the versioned rag endpoint.
func (c *Client) Ask(ctx context.Context, req rag.QueryRequest) (*rag.Answer, error) {
	var answer rag.Answer
	if err := c.sendJSON(ctx, http.MethodPost, c.ragPrefix+"/rag", req, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

// Chat asks a question against a knowledge base and returns a cited answer.
func (c *Client) Chat(ctx context.Context, req rag.QueryRequest) (*rag.Answer, error) {
	var answer rag.Answer
	if err := c.sendJSON(ctx, http.MethodPost, "/chat", req, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}
