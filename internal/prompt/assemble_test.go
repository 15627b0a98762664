package prompt

import (
	"strings"
	"testing"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

func fullPrompt() rag.FinalPrompt {
	return rag.FinalPrompt{
		SystemInstruction: "You are a careful reader of novels.",
		ContextBlocks: []rag.ContextBlock{
			{ChunkID: "a", Content: "X", TokenCount: 3, Score: 0.4},
			{ChunkID: "b", Content: "Y", TokenCount: 5, Score: 0.9},
		},
		UserQuestion:     "Who is X?",
		OutputConstraint: "Answer in JSON.",
	}
}

func TestAssemble_Smoke(t *testing.T) {
	out := Assemble(fullPrompt())

	// Minimal key checks (avoid brittle formatting tests)
	if !strings.Contains(out, "=== System Instruction ===\nYou are a careful reader of novels.") {
		t.Fatal("missing system instruction section")
	}
	if !strings.Contains(out, "[Block 1 - a]\nX") || !strings.Contains(out, "[Block 2 - b]\nY") {
		t.Fatal("missing numbered context blocks")
	}
	if !strings.Contains(out, "=== User Question ===\nWho is X?") {
		t.Fatal("missing user question")
	}
	if !strings.Contains(out, "=== Output Constraint ===\nAnswer in JSON.") {
		t.Fatal("missing output constraint")
	}
}

func TestAssemble_ExactLayout(t *testing.T) {
	want := "=== System Instruction ===\nYou are a careful reader of novels." +
		"\n\n=== Context ===\n[Block 1 - a]\nX\n\n---\n\n[Block 2 - b]\nY" +
		"\n\n=== User Question ===\nWho is X?" +
		"\n\n=== Output Constraint ===\nAnswer in JSON."

	if got := Assemble(fullPrompt()); got != want {
		t.Fatalf("unexpected layout:\n got: %q\nwant: %q", got, want)
	}
}

func TestAssemble_PreservesBlockOrder(t *testing.T) {
	// Lower score first: assembly must not re-rank
	out := Assemble(fullPrompt())
	first := strings.Index(out, "[Block 1 - a]\nX")
	second := strings.Index(out, "[Block 2 - b]\nY")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("context blocks reordered: %q", out)
	}
}

func TestAssemble_KeepsUnsortedScores(t *testing.T) {
	p := rag.FinalPrompt{
		ContextBlocks: []rag.ContextBlock{
			{ChunkID: "mid", Content: "block-mid", Score: 0.5},
			{ChunkID: "low", Content: "block-low", Score: 0.1},
			{ChunkID: "high", Content: "block-high", Score: 0.9},
		},
		UserQuestion: "q",
	}

	want := "=== Context ===\n[Block 1 - mid]\nblock-mid" +
		"\n\n---\n\n[Block 2 - low]\nblock-low" +
		"\n\n---\n\n[Block 3 - high]\nblock-high" +
		"\n\n=== User Question ===\nq"
	if got := Assemble(p); got != want {
		t.Fatalf("blocks must keep their given order:\n got: %q\nwant: %q", got, want)
	}
}

func TestAssemble_DoesNotDeduplicate(t *testing.T) {
	p := rag.FinalPrompt{
		ContextBlocks: []rag.ContextBlock{
			{ChunkID: "same", Content: "dup"},
			{ChunkID: "same", Content: "dup"},
		},
		UserQuestion: "q",
	}
	out := Assemble(p)
	if strings.Count(out, "dup") != 2 {
		t.Fatalf("expected both duplicate blocks, got %q", out)
	}
}

func TestAssemble_OptionalSections(t *testing.T) {
	out := Assemble(rag.FinalPrompt{UserQuestion: "only the question"})

	if out != "=== User Question ===\nonly the question" {
		t.Fatalf("unexpected minimal prompt: %q", out)
	}
	for _, label := range []string{LabelSystemInstruction, LabelContext, LabelOutputConstraint} {
		if strings.Contains(out, label) {
			t.Errorf("prompt should not include %q section", label)
		}
	}
}

func TestAssemble_EmptyQuestionStillEmitted(t *testing.T) {
	out := Assemble(rag.FinalPrompt{SystemInstruction: "sys"})
	if !strings.HasSuffix(out, "=== User Question ===\n") {
		t.Fatalf("user question section must always be present, got %q", out)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	p := fullPrompt()
	first := Assemble(p)
	second := Assemble(p)
	if first != second {
		t.Fatal("assembly is not deterministic")
	}
	if p.ContextBlocks[0].ChunkID != "a" {
		t.Fatal("assembly mutated its input")
	}
}

func TestAssemble_VerbatimQuestion(t *testing.T) {
	question := "  spaced\n\tand 中文 %s %d  "
	out := Assemble(rag.FinalPrompt{UserQuestion: question})
	if !strings.Contains(out, question) {
		t.Fatal("question not included verbatim")
	}
}

func TestSections(t *testing.T) {
	sections := Sections(fullPrompt())
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}

	labels := []string{LabelSystemInstruction, LabelContext, LabelUserQuestion, LabelOutputConstraint}
	for i, s := range sections {
		if s.Label != labels[i] {
			t.Errorf("section %d: expected %q, got %q", i, labels[i], s.Label)
		}
	}
}

func TestContextText(t *testing.T) {
	if got := ContextText(fullPrompt()); got != "X\n\nY" {
		t.Fatalf("unexpected context text: %q", got)
	}
	if got := ContextText(rag.FinalPrompt{}); got != "" {
		t.Fatalf("expected empty context text, got %q", got)
	}
}
