package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/rag"
)

type fakeClient struct {
	result *rag.DebugResult
	err    error
	reqs   []rag.QueryRequest
}

func (f *fakeClient) Debug(ctx context.Context, req rag.QueryRequest) (*rag.DebugResult, error) {
	f.reqs = append(f.reqs, req)
	return f.result, f.err
}

func sampleResult() *rag.DebugResult {
	blocks := []rag.ContextBlock{{ChunkID: "chunk-1", Content: "片段内容", TokenCount: 10}}
	return &rag.DebugResult{
		Stats:           map[string]any{"retrievedCount": 1},
		RetrievedScenes: []rag.Scene{{ID: "scene-1", Content: "片段内容"}},
		ContextBlocks:   blocks,
		FinalPrompt:     rag.FinalPrompt{ContextBlocks: blocks, UserQuestion: "测试"},
	}
}

func newTestModel(client *fakeClient) (Model, *orchestrator.DebugSession) {
	session := orchestrator.NewDebugSession(client, nil)
	m := New(context.Background(), client, session, Options{Novel: "剑来", Version: "v1", TopK: 5})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), session
}

func press(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(key)
	return updated.(Model), cmd
}

func TestEnterRunsDebugRequest(t *testing.T) {
	client := &fakeClient{result: sampleResult()}
	m, session := newTestModel(client)
	m.input.SetValue("测试")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, session.Loading())
	assert.Empty(t, client.reqs, "the request runs inside the command")

	msg := cmd()
	require.IsType(t, debugDoneMsg{}, msg)
	assert.Equal(t, []rag.QueryRequest{{Question: "测试", Novel: "剑来", Version: "v1", TopK: 5}}, client.reqs)

	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, orchestrator.StateSucceeded, session.State())
	assert.True(t, m.statusOK)
	assert.Contains(t, m.status, "1 context blocks")
	assert.Contains(t, m.View(), "retrievedCount")
}

func TestEnterIgnoredWhileLoading(t *testing.T) {
	client := &fakeClient{result: sampleResult()}
	m, session := newTestModel(client)
	m.input.SetValue("测试")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, second := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, second)
	assert.True(t, session.Loading())
}

func TestEmptyQuestionShowsValidationError(t *testing.T) {
	client := &fakeClient{}
	m, session := newTestModel(client)
	m.input.SetValue("   ")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.statusOK)
	assert.Contains(t, m.status, "Error:")
	assert.Equal(t, orchestrator.StateIdle, session.State())
	assert.Empty(t, client.reqs)
}

func TestFailureSurfacesMessage(t *testing.T) {
	client := &fakeClient{err: errors.New("Failed to execute debug request")}
	m, session := newTestModel(client)
	m.input.SetValue("测试")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, orchestrator.StateFailed, session.State())
	assert.False(t, m.statusOK)
	assert.Contains(t, m.status, "Failed to execute debug request")
	assert.Nil(t, session.Result())
}

func TestTabCyclesPanes(t *testing.T) {
	m, _ := newTestModel(&fakeClient{})

	var seen []Pane
	for i := 0; i < int(paneCount)+1; i++ {
		seen = append(seen, m.pane)
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	assert.Equal(t, []Pane{PaneStats, PaneRetrieval, PaneContext, PanePrompt, PaneStats}, seen)

	// Five presses end on Retrieval; shift+tab steps back to Stats
	assert.Equal(t, PaneRetrieval, m.pane)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, PaneStats, m.pane)

	// shift+tab wraps from the first pane to the last
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, PanePrompt, m.pane)
}

func TestPromptPaneShowsAssembledPrompt(t *testing.T) {
	client := &fakeClient{result: sampleResult()}
	m, _ := newTestModel(client)
	m.input.SetValue("测试")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	m.pane = PanePrompt
	content := m.paneContent()
	assert.Contains(t, content, "=== User Question ===")
	assert.Contains(t, content, "[Block 1 - chunk-1]")
	assert.Contains(t, content, "estimated")
}

func TestCopyPrompt(t *testing.T) {
	var copied string
	oldClipboard := clipboardWriteAll
	clipboardWriteAll = func(s string) error { copied = s; return nil }
	defer func() { clipboardWriteAll = oldClipboard }()

	client := &fakeClient{result: sampleResult()}
	m, session := newTestModel(client)

	// Nothing to copy before a result exists
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Nil(t, cmd)
	assert.False(t, m.statusOK)

	m.input.SetValue("测试")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	view, _ := session.View()
	assert.Equal(t, view.FullPrompt, copied)
	assert.True(t, m.statusOK)
	assert.Contains(t, m.status, "Copied")
	assert.Equal(t, orchestrator.StateSucceeded, session.State(), "copying does not touch the request lifecycle")
}

func TestCopyPromptFailure(t *testing.T) {
	oldClipboard := clipboardWriteAll
	clipboardWriteAll = func(string) error { return errors.New("no clipboard utility") }
	defer func() { clipboardWriteAll = oldClipboard }()

	m, _ := newTestModel(&fakeClient{result: sampleResult()})
	m.input.SetValue("测试")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.False(t, m.statusOK)
	assert.Contains(t, m.status, "no clipboard utility")
}

func TestResetClearsSession(t *testing.T) {
	client := &fakeClient{result: sampleResult()}
	m, session := newTestModel(client)
	m.input.SetValue("测试")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	// Reset is ignored while loading
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.True(t, session.Loading())

	updated, _ := m.Update(cmd())
	m = updated.(Model)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, orchestrator.StateIdle, session.State())
	assert.Nil(t, session.Result())
	assert.Empty(t, m.input.Value())
	assert.Equal(t, "No result yet.", m.paneContent())
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(&fakeClient{})
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewBeforeResize(t *testing.T) {
	client := &fakeClient{}
	m := New(context.Background(), client, orchestrator.NewDebugSession(client, nil), Options{})
	assert.Equal(t, "Loading...", m.View())
	assert.True(t, strings.HasPrefix(PanePrompt.String(), "Prompt"))
}
