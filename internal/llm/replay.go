package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/rag"
)

var ErrReplayFailed = errors.New("prompt replay failed")

// Replay is the outcome of sending a debug prompt straight to a model.
type Replay struct {
	View orchestrator.DebugView `json:"-"`

	Prompt          string    `json:"prompt"`
	EstimatedTokens int       `json:"estimated_tokens"`
	BackendTokens   int       `json:"backend_tokens"`
	Completion      string    `json:"completion"`
	Model           string    `json:"model"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Replayer fetches the backend's assembled prompt for a question and invokes
// an LLM on it directly. It performs no retrieval or prompt construction of
// its own.
type Replayer struct {
	session *orchestrator.DebugSession
	llm     LLM
	config  Config
}

// NewReplayer creates a replayer driving the given debug session.
func NewReplayer(session *orchestrator.DebugSession, model LLM, config Config) *Replayer {
	return &Replayer{
		session: session,
		llm:     model,
		config:  config,
	}
}

// Replay runs one debug request for q and sends the assembled prompt to the LLM.
func (r *Replayer) Replay(ctx context.Context, q orchestrator.Query) (*Replay, error) {
	if r.llm == nil {
		return nil, fmt.Errorf("%w: LLM is required", ErrReplayFailed)
	}
	if r.session == nil {
		return nil, fmt.Errorf("%w: debug session is required", ErrReplayFailed)
	}

	if _, err := r.session.Run(ctx, q); err != nil {
		return nil, err
	}
	view, ok := r.session.View()
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrReplayFailed, orchestrator.ErrEmptyResult)
	}

	return r.replayView(ctx, view)
}

// ReplayResult sends the prompt of an already fetched debug result to the LLM.
func (r *Replayer) ReplayResult(ctx context.Context, result *rag.DebugResult) (*Replay, error) {
	if r.llm == nil {
		return nil, fmt.Errorf("%w: LLM is required", ErrReplayFailed)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %w", ErrReplayFailed, orchestrator.ErrEmptyResult)
	}
	return r.replayView(ctx, orchestrator.BuildView(result))
}

func (r *Replayer) replayView(ctx context.Context, view orchestrator.DebugView) (*Replay, error) {
	text, err := r.llm.Generate(ctx, view.FullPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: LLM invocation failed: %w", ErrReplayFailed, err)
	}

	return &Replay{
		View:            view,
		Prompt:          view.FullPrompt,
		EstimatedTokens: view.EstimatedTokens,
		BackendTokens:   view.BackendTokens,
		Completion:      text,
		Model:           r.config.Model,
		GeneratedAt:     time.Now(),
	}, nil
}
