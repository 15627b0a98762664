package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

// mockIngestClient implements IngestClient for testing
type mockIngestClient struct {
	uploadResult *rag.UploadResult
	uploadErr    error
	ingestErr    error

	uploads []string
	ingests []rag.IngestRequest
}

func (m *mockIngestClient) UploadNovelFile(ctx context.Context, path string) (*rag.UploadResult, error) {
	m.uploads = append(m.uploads, path)
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return m.uploadResult, nil
}

func (m *mockIngestClient) IngestNovel(ctx context.Context, req rag.IngestRequest) (string, error) {
	m.ingests = append(m.ingests, req)
	if m.ingestErr != nil {
		return "", m.ingestErr
	}
	return "Ingestion started successfully", nil
}

func TestUploadAndIngest_Success(t *testing.T) {
	client := &mockIngestClient{uploadResult: &rag.UploadResult{
		Message:  "File uploaded successfully: 剑来_20260211_101500.txt",
		FileName: "剑来_20260211_101500.txt",
	}}

	outcome, err := UploadAndIngest(context.Background(), client, "books/剑来.txt", IngestOptions{Version: "v2", MaxScenes: 100}, nil)
	require.NoError(t, err)

	assert.Equal(t, "剑来_20260211_101500.txt", outcome.FileName)
	assert.Equal(t, "Ingestion started successfully", outcome.IngestMessage)
	assert.Equal(t, []string{"books/剑来.txt"}, client.uploads)
	assert.Equal(t, []rag.IngestRequest{{FileName: "剑来_20260211_101500.txt", Version: "v2", MaxScenes: 100}}, client.ingests)
}

func TestUploadAndIngest_Validation(t *testing.T) {
	client := &mockIngestClient{}

	_, err := UploadAndIngest(context.Background(), client, "", IngestOptions{}, nil)
	assert.ErrorIs(t, err, ErrNoFileSelected)

	_, err = UploadAndIngest(context.Background(), client, "a.txt", IngestOptions{MaxScenes: -1}, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxScenes)

	assert.Empty(t, client.uploads, "validation must not reach the network")
}

func TestUploadAndIngest_NoFileNameBlocksIngest(t *testing.T) {
	client := &mockIngestClient{uploadResult: &rag.UploadResult{Message: "ok"}}

	_, err := UploadAndIngest(context.Background(), client, "a.txt", IngestOptions{}, nil)
	assert.ErrorIs(t, err, ErrNoUpload)
	assert.Empty(t, client.ingests)
}

func TestUploadAndIngest_UploadError(t *testing.T) {
	uploadErr := errors.New("File is empty")
	client := &mockIngestClient{uploadErr: uploadErr}

	_, err := UploadAndIngest(context.Background(), client, "a.txt", IngestOptions{}, nil)
	assert.ErrorIs(t, err, uploadErr)
	assert.Empty(t, client.ingests)
}

func TestUploadAndIngest_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &mockIngestClient{}
	_, err := UploadAndIngest(ctx, client, "a.txt", IngestOptions{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.uploads)
}

func TestIngest(t *testing.T) {
	client := &mockIngestClient{}

	_, err := Ingest(context.Background(), client, " ", IngestOptions{}, nil)
	assert.ErrorIs(t, err, ErrNoUpload)

	msg, err := Ingest(context.Background(), client, "a.txt", IngestOptions{Version: "v1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ingestion started successfully", msg)

	client.ingestErr = errors.New("File not found: b.txt")
	_, err = Ingest(context.Background(), client, "b.txt", IngestOptions{}, nil)
	assert.ErrorContains(t, err, "ingest failed: File not found: b.txt")
}

// mockKnowledgeClient implements KnowledgeClient for testing
type mockKnowledgeClient struct {
	novels      []string
	versions    map[string][]string
	failNovel   string
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	mu          sync.Mutex
	seen        []string
}

func (m *mockKnowledgeClient) ListNovels(ctx context.Context) ([]string, error) {
	return m.novels, nil
}

func (m *mockKnowledgeClient) ListVersions(ctx context.Context, novel string) ([]string, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	m.mu.Lock()
	m.seen = append(m.seen, novel)
	m.mu.Unlock()

	if novel == m.failNovel {
		return nil, fmt.Errorf("boom")
	}
	return m.versions[novel], nil
}

func TestOverview(t *testing.T) {
	client := &mockKnowledgeClient{
		novels: []string{"剑来.txt", "雪中悍刀行.txt", "notes"},
		versions: map[string][]string{
			"剑来.txt":    {"v1", "v2"},
			"雪中悍刀行.txt": {"v1"},
		},
	}

	bases, err := Overview(context.Background(), client, 2)
	require.NoError(t, err)
	require.Len(t, bases, 3)

	assert.Equal(t, KnowledgeBase{File: "剑来.txt", Name: "剑来", Versions: []string{"v1", "v2"}}, bases[0])
	assert.Equal(t, "雪中悍刀行", bases[1].Name)
	assert.Equal(t, "notes", bases[2].Name)
	assert.Empty(t, bases[2].Versions)
	assert.LessOrEqual(t, client.maxInFlight.Load(), int32(2))
	assert.Len(t, client.seen, 3)
}

func TestOverview_PropagatesErrors(t *testing.T) {
	client := &mockKnowledgeClient{novels: []string{"a.txt", "b.txt"}, failNovel: "b.txt"}

	_, err := Overview(context.Background(), client, 0)
	assert.ErrorContains(t, err, "failed to list versions of b.txt")
}
