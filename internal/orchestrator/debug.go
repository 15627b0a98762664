package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Yates-Labs/novelrag/internal/prompt"
	"github.com/Yates-Labs/novelrag/internal/rag"
	"github.com/Yates-Labs/novelrag/internal/tokens"
)

const (
	DefaultTopK = 5
	MinTopK     = 1
	MaxTopK     = 50

	// fallbackFailure is shown when a failed request carries no message
	fallbackFailure = "Failed to execute debug request"
)

var (
	ErrRequestInFlight = errors.New("a debug request is already in flight")
	ErrNotLoading      = errors.New("no debug request is in flight")
	ErrEmptyResult     = errors.New("debug endpoint returned no result")
)

// DebugClient performs the single debug round trip.
type DebugClient interface {
	Debug(ctx context.Context, req rag.QueryRequest) (*rag.DebugResult, error)
}

// Query specifies one debug invocation.
type Query struct {
	Question string
	Novel    string
	Version  string

	// TopK is the number of retrieval hits requested (0 = DefaultTopK)
	TopK int
}

// Request validates q and converts it to the wire request. The question is
// sent verbatim; it only has to contain something other than whitespace.
func (q Query) Request() (rag.QueryRequest, error) {
	if strings.TrimSpace(q.Question) == "" {
		return rag.QueryRequest{}, ErrEmptyQuestion
	}

	topK := q.TopK
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < MinTopK || topK > MaxTopK {
		return rag.QueryRequest{}, fmt.Errorf("%w: got %d", ErrTopKOutOfRange, topK)
	}

	return rag.QueryRequest{
		Question: q.Question,
		Novel:    q.Novel,
		Version:  q.Version,
		TopK:     topK,
	}, nil
}

// State is the lifecycle position of a DebugSession.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DebugSession owns the page-local debug result slot.
//
// Lifecycle: Idle -> Loading -> Succeeded | Failed, and a new Begin is
// accepted from any state but Loading. A session is not safe for concurrent
// use; it belongs to whichever loop drives it (a command or the TUI update loop).
type DebugSession struct {
	client DebugClient
	logger *zap.Logger

	state  State
	query  Query
	result *rag.DebugResult
	err    error
}

// NewDebugSession creates an idle session.
func NewDebugSession(client DebugClient, logger *zap.Logger) *DebugSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebugSession{client: client, logger: logger}
}

func (s *DebugSession) State() State             { return s.state }
func (s *DebugSession) Loading() bool            { return s.state == StateLoading }
func (s *DebugSession) Result() *rag.DebugResult { return s.result }
func (s *DebugSession) Err() error               { return s.err }
func (s *DebugSession) Query() Query             { return s.query }

// ErrorMessage is the text surfaced for a failed request, or "" when not failed.
func (s *DebugSession) ErrorMessage() string {
	if s.state != StateFailed {
		return ""
	}
	if s.err == nil || s.err.Error() == "" {
		return fallbackFailure
	}
	return s.err.Error()
}

// Begin validates q and moves the session to Loading, clearing any previous
// result and error. Validation failures leave the session untouched and never
// reach the network.
func (s *DebugSession) Begin(q Query) (rag.QueryRequest, error) {
	if s.state == StateLoading {
		return rag.QueryRequest{}, ErrRequestInFlight
	}

	req, err := q.Request()
	if err != nil {
		return rag.QueryRequest{}, err
	}

	s.query = q
	s.result = nil
	s.err = nil
	s.transition(StateLoading)
	return req, nil
}

// Finish records the outcome of the in-flight request. Exactly one of result
// and err is kept; a failure leaves the result slot empty.
func (s *DebugSession) Finish(result *rag.DebugResult, err error) error {
	if s.state != StateLoading {
		return ErrNotLoading
	}

	if err == nil && result == nil {
		err = ErrEmptyResult
	}

	if err != nil {
		s.result = nil
		s.err = err
		s.transition(StateFailed)
		s.logger.Warn("debug request failed", zap.Error(err))
		return nil
	}

	s.result = result
	s.err = nil
	s.transition(StateSucceeded)
	s.logger.Debug("debug request succeeded",
		zap.Int("retrieved_scenes", len(result.RetrievedScenes)),
		zap.Int("context_blocks", len(result.ContextBlocks)),
	)
	return nil
}

// Run performs one full request cycle. There is no retry: a failure is
// reported once and a new Run is required.
func (s *DebugSession) Run(ctx context.Context, q Query) (*rag.DebugResult, error) {
	req, err := s.Begin(q)
	if err != nil {
		return nil, err
	}

	result, callErr := s.client.Debug(ctx, req)
	if err := s.Finish(result, callErr); err != nil {
		return nil, err
	}
	if s.state == StateFailed {
		return nil, s.err
	}
	return s.result, nil
}

// Reset discards the result and returns to Idle. It is a no-op while Loading.
func (s *DebugSession) Reset() {
	if s.state == StateLoading {
		return
	}
	s.result = nil
	s.err = nil
	s.query = Query{}
	s.transition(StateIdle)
}

// DebugView is everything the debug display derives from the current result.
type DebugView struct {
	Result *rag.DebugResult

	// FullPrompt is the assembled prompt text
	FullPrompt string

	// EstimatedTokens is the client-side estimate of FullPrompt
	EstimatedTokens int
	Breakdown       tokens.Counts

	// BackendTokens is the sum of backend-reported block token counts,
	// kept separate from the estimate
	BackendTokens int
}

// View derives the display data from the current result. It is recomputed on
// every call and reports false when there is no result.
func (s *DebugSession) View() (DebugView, bool) {
	if s.result == nil {
		return DebugView{}, false
	}
	return BuildView(s.result), true
}

// BuildView assembles the prompt and estimates its tokens.
func BuildView(result *rag.DebugResult) DebugView {
	full := prompt.Assemble(result.FinalPrompt)
	counts := tokens.Breakdown(full)
	return DebugView{
		Result:          result,
		FullPrompt:      full,
		EstimatedTokens: counts.Tokens,
		Breakdown:       counts,
		BackendTokens:   result.BackendTokenCount(),
	}
}

func (s *DebugSession) transition(to State) {
	if s.state == to {
		return
	}
	s.logger.Debug("debug session state",
		zap.Stringer("from", s.state),
		zap.Stringer("to", to),
	)
	s.state = to
}
