package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/rag"
	"github.com/Yates-Labs/novelrag/internal/tokens"
)

func sampleView() orchestrator.DebugView {
	score := 0.88
	blocks := []rag.ContextBlock{{ChunkID: "chunk-1", Content: "片段内容", TokenCount: 10, Score: 0.88}}
	return orchestrator.BuildView(&rag.DebugResult{
		Stats:           map[string]any{"totalTimeMs": 42, "retrievedCount": 1},
		RetrievedScenes: []rag.Scene{{ID: "scene-1", Text: "片段内容", Score: &score}},
		ContextBlocks:   blocks,
		FinalPrompt: rag.FinalPrompt{
			SystemInstruction: "Answer from context.",
			ContextBlocks:     blocks,
			UserQuestion:      "测试",
		},
	})
}

func TestDebugReport(t *testing.T) {
	view := sampleView()
	out := DebugReport(view)

	for _, want := range []string{
		"Stats:", "retrievedCount", "totalTimeMs",
		"Retrieved Scenes (1):", "scene-1", "score=0.8800",
		"Context Blocks (1):", "[Block 1 - chunk-1]", "tokens=10",
		"Assembled Context:", "Full Prompt:",
		"=== User Question ===", "测试", "片段内容",
		tokens.Label,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// Stats keys are sorted
	if strings.Index(out, "retrievedCount") > strings.Index(out, "totalTimeMs") {
		t.Error("expected stats in key order")
	}
}

func TestTokenSummary_KeepsNumbersSeparate(t *testing.T) {
	view := sampleView()
	out := TokenSummary(view)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", out)
	}
	if !strings.Contains(lines[0], tokens.Label) {
		t.Errorf("estimate must be labeled as approximate: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Backend context tokens: 10") {
		t.Errorf("unexpected backend line: %q", lines[1])
	}
	if view.EstimatedTokens != tokens.Estimate(view.FullPrompt) {
		t.Errorf("estimate %d does not match assembled prompt", view.EstimatedTokens)
	}
}

func TestDebugReport_Empty(t *testing.T) {
	if out := DebugReport(orchestrator.DebugView{}); !strings.Contains(out, "no debug result") {
		t.Errorf("unexpected empty report: %q", out)
	}

	out := DebugReport(orchestrator.BuildView(&rag.DebugResult{}))
	for _, want := range []string{"no stats reported", "no scenes retrieved", "no context blocks"} {
		if !strings.Contains(out, want) {
			t.Errorf("empty result report missing %q", want)
		}
	}
}

func TestAnswer_Plain(t *testing.T) {
	score := 0.5
	confidence := 0.9
	out := Answer("谁离开了小镇？", &rag.Answer{
		Answer:     "陈平安",
		Confidence: &confidence,
		Citations:  []rag.Citation{{ChunkID: "c7", Reason: "mentions leaving", Content: "陈平安走出小镇", Score: &score}},
	}, AnswerOptions{})

	for _, want := range []string{"Question:", "谁离开了小镇？", "Answer:", "陈平安", "confidence: 0.90", "Citations (1):", "[1] c7", "mentions leaving"} {
		if !strings.Contains(out, want) {
			t.Errorf("answer missing %q:\n%s", want, out)
		}
	}
}

func TestAnswer_Markdown(t *testing.T) {
	out := Answer("", &rag.Answer{Answer: "Chen leaves town."}, AnswerOptions{Markdown: true, Width: 60})
	if !strings.Contains(out, "Chen") {
		t.Errorf("markdown answer lost its text: %q", out)
	}
	if strings.Contains(out, "Question:") {
		t.Error("question header should be omitted when empty")
	}
}

func TestAnswer_Nil(t *testing.T) {
	if out := Answer("q", nil, AnswerOptions{}); !strings.Contains(out, "no answer") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestTables(t *testing.T) {
	kb := KnowledgeBases([]orchestrator.KnowledgeBase{
		{File: "剑来.txt", Name: "剑来", Versions: []string{"v1", "v2"}},
		{File: "empty.txt", Name: "empty"},
	})
	for _, want := range []string{"Knowledge base", "剑来.txt", "v1, v2", "empty"} {
		if !strings.Contains(kb, want) {
			t.Errorf("knowledge table missing %q:\n%s", want, kb)
		}
	}

	records := VectorRecords([]rag.VectorRecord{{ChunkID: "c1", Score: 0.25, Metadata: map[string]any{"novel": "剑来", "chapter": 3}}})
	for _, want := range []string{"c1", "0.2500", "chapter=3 novel=剑来"} {
		if !strings.Contains(records, want) {
			t.Errorf("vector table missing %q:\n%s", want, records)
		}
	}

	if out := List("Versions", nil); !strings.Contains(out, "no versions") {
		t.Errorf("unexpected empty list: %q", out)
	}
	if out := List("Novels", []string{"a.txt"}); !strings.Contains(out, "a.txt") {
		t.Errorf("list missing item: %q", out)
	}
	if out := VectorStats(&rag.VectorStats{Count: 120, Type: "chroma"}); !strings.Contains(out, "120") || !strings.Contains(out, "chroma") {
		t.Errorf("unexpected stats: %q", out)
	}
	if out := Scenes([]rag.Scene{{ID: "s1", Content: "陈平安走出小镇"}}); !strings.Contains(out, "s1") {
		t.Errorf("scene table missing id: %q", out)
	}
}

func TestStatusLines(t *testing.T) {
	if out := Error(errors.New("Question is required")); !strings.Contains(out, "Error:") || !strings.Contains(out, "Question is required") {
		t.Errorf("unexpected error line: %q", out)
	}
	if out := Success("done"); !strings.Contains(out, "done") {
		t.Errorf("unexpected success line: %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  abc  ", 5); got != "abc" {
		t.Errorf("expected trimmed text, got %q", got)
	}
	if got := truncate("陈平安走出小镇", 3); got != "陈平安…" {
		t.Errorf("expected rune-safe truncation, got %q", got)
	}
}
