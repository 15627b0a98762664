package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

// defaultOverviewConcurrency bounds parallel version lookups
const defaultOverviewConcurrency = 4

// IngestClient is the subset of the API client used for ingestion.
type IngestClient interface {
	UploadNovelFile(ctx context.Context, path string) (*rag.UploadResult, error)
	IngestNovel(ctx context.Context, req rag.IngestRequest) (string, error)
}

// KnowledgeClient is the subset of the API client used to browse knowledge bases.
type KnowledgeClient interface {
	ListNovels(ctx context.Context) ([]string, error)
	ListVersions(ctx context.Context, novel string) ([]string, error)
}

// IngestOptions configures an ingestion run.
type IngestOptions struct {
	Version string

	// MaxScenes caps ingested scenes (0 = all)
	MaxScenes int
}

// IngestOutcome reports both stages of an upload-then-ingest run.
type IngestOutcome struct {
	Upload        *rag.UploadResult
	FileName      string
	IngestMessage string
}

// UploadAndIngest uploads the novel at path, then starts ingestion of the
// file name the backend assigned to it.
func UploadAndIngest(ctx context.Context, client IngestClient, path string, opts IngestOptions, logger *zap.Logger) (*IngestOutcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoFileSelected
	}
	if opts.MaxScenes < 0 {
		return nil, ErrInvalidMaxScenes
	}

	// Check for context cancellation
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled before upload: %w", err)
	}

	// Stage 1: Upload
	logger.Info("uploading novel", zap.String("path", path))
	upload, err := client.UploadNovelFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	if upload == nil || upload.FileName == "" {
		return nil, ErrNoUpload
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled after upload: %w", err)
	}

	// Stage 2: Ingest
	msg, err := Ingest(ctx, client, upload.FileName, opts, logger)
	if err != nil {
		return nil, err
	}

	return &IngestOutcome{
		Upload:        upload,
		FileName:      upload.FileName,
		IngestMessage: msg,
	}, nil
}

// Ingest starts ingestion of an already uploaded file.
func Ingest(ctx context.Context, client IngestClient, fileName string, opts IngestOptions, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(fileName) == "" {
		return "", ErrNoUpload
	}
	if opts.MaxScenes < 0 {
		return "", ErrInvalidMaxScenes
	}

	logger.Info("starting ingestion",
		zap.String("file", fileName),
		zap.String("version", opts.Version),
		zap.Int("max_scenes", opts.MaxScenes),
	)
	msg, err := client.IngestNovel(ctx, rag.IngestRequest{
		FileName:  fileName,
		Version:   opts.Version,
		MaxScenes: opts.MaxScenes,
	})
	if err != nil {
		return "", fmt.Errorf("ingest failed: %w", err)
	}
	return msg, nil
}

// KnowledgeBase summarizes one novel and its ingested versions.
type KnowledgeBase struct {
	// File is the uploaded file name as listed by the backend
	File string

	// Name is the knowledge base name derived from File
	Name     string
	Versions []string
}

// Overview lists every novel with its versions. Version lookups run in
// parallel with at most concurrency requests in flight; the result keeps the
// backend's novel order.
func Overview(ctx context.Context, client KnowledgeClient, concurrency int) ([]KnowledgeBase, error) {
	novels, err := client.ListNovels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list novels: %w", err)
	}

	if concurrency <= 0 {
		concurrency = defaultOverviewConcurrency
	}

	bases := make([]KnowledgeBase, len(novels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range novels {
		bases[i] = KnowledgeBase{File: file, Name: NovelName(file)}
		g.Go(func() error {
			versions, err := client.ListVersions(gctx, file)
			if err != nil {
				return fmt.Errorf("failed to list versions of %s: %w", file, err)
			}
			bases[i].Versions = versions
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bases, nil
}
