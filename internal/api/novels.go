package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

// ListNovels returns the file names of uploaded novels.
func (c *Client) ListNovels(ctx context.Context) ([]string, error) {
	var novels []string
	if err := c.getJSON(ctx, "/novels", &novels); err != nil {
		return nil, err
	}
	return novels, nil
}

// UploadNovel sends r as a multipart "file" field named fileName.
func (c *Client) UploadNovel(ctx context.Context, fileName string, r io.Reader) (*rag.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return nil, fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	var result rag.UploadResult
	if err := c.do(ctx, http.MethodPost, "/novels/upload", &buf, mw.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadNovelFile uploads the file at path.
func (c *Client) UploadNovelFile(ctx context.Context, path string) (*rag.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open novel: %w", err)
	}
	defer f.Close()

	return c.UploadNovel(ctx, path, f)
}

// IngestNovel starts splitting and embedding an uploaded novel. The backend
// runs ingestion asynchronously and returns its acknowledgement message.
func (c *Client) IngestNovel(ctx context.Context, req rag.IngestRequest) (string, error) {
	var ack struct {
		Message string `json:"message"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/novels/ingest", req, &ack); err != nil {
		return "", err
	}
	return ack.Message, nil
}
