package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/prompt"
	"github.com/Yates-Labs/novelrag/internal/rag"
	"github.com/Yates-Labs/novelrag/internal/tokens"
)

// previewRunes bounds scene previews in the retrieval section
const previewRunes = 160

// Stats renders the backend pipeline stats in key order.
func Stats(stats map[string]any) string {
	if len(stats) == 0 {
		return ContextStyle.Render("(no stats reported)")
	}

	keys := make([]string, 0, len(stats))
	width := 0
	for k := range stats {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%-*s  %v\n", width, k, stats[k])
	}
	return strings.TrimRight(b.String(), "\n")
}

// Retrieval renders the raw retrieval hits in rank order.
func Retrieval(scenes []rag.Scene) string {
	if len(scenes) == 0 {
		return ContextStyle.Render("(no scenes retrieved)")
	}

	var b strings.Builder
	for i, s := range scenes {
		label := fmt.Sprintf("#%d", i+1)
		if s.ID != "" {
			label += " " + s.ID
		}
		if s.Score != nil {
			label += fmt.Sprintf("  score=%.4f", *s.Score)
		}
		b.WriteString(QuestionStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(blockStyle.Render(truncate(s.Body(), previewRunes)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ContextBlocks renders the assembled context blocks with their backend token counts.
func ContextBlocks(blocks []rag.ContextBlock) string {
	if len(blocks) == 0 {
		return ContextStyle.Render("(no context blocks)")
	}

	var b strings.Builder
	for i, block := range blocks {
		fmt.Fprintf(&b, "%s\n", QuestionStyle.Render(fmt.Sprintf(
			"[Block %d - %s]  score=%.4f  tokens=%d", i+1, block.ChunkID, block.Score, block.TokenCount)))
		b.WriteString(blockStyle.Render(block.Content))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// TokenSummary states the client estimate and the backend total as two
// separately labeled numbers.
func TokenSummary(view orchestrator.DebugView) string {
	return strings.Join([]string{
		fmt.Sprintf("Prompt tokens: ~%d (%s; %d CJK, %d other)",
			view.EstimatedTokens, tokens.Label, view.Breakdown.CJK, view.Breakdown.Other),
		fmt.Sprintf("Backend context tokens: %d (sum of per-block tokenCount)", view.BackendTokens),
	}, "\n")
}

// Prompt renders the full assembled prompt followed by its token summary.
func Prompt(view orchestrator.DebugView) string {
	return view.FullPrompt + "\n\n" + ContextStyle.Render(TokenSummary(view))
}

// DebugReport renders every section of a debug result for the terminal.
func DebugReport(view orchestrator.DebugView) string {
	if view.Result == nil {
		return ContextStyle.Render("(no debug result)")
	}

	sections := []struct {
		title string
		body  string
	}{
		{"Stats", Stats(view.Result.Stats)},
		{fmt.Sprintf("Retrieved Scenes (%d)", len(view.Result.RetrievedScenes)), Retrieval(view.Result.RetrievedScenes)},
		{fmt.Sprintf("Context Blocks (%d)", len(view.Result.ContextBlocks)), ContextBlocks(view.Result.ContextBlocks)},
		{"Assembled Context", nonEmpty(prompt.ContextText(view.Result.FinalPrompt))},
		{"Full Prompt", Prompt(view)},
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(HeaderStyle.Render(s.title + ":"))
		b.WriteString("\n")
		b.WriteString(s.body)
	}
	return b.String()
}

func nonEmpty(text string) string {
	if text == "" {
		return ContextStyle.Render("(empty)")
	}
	return text
}

func truncate(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "…"
}
