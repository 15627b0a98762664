package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

const defaultWrap = 80

// AnswerOptions controls answer rendering.
type AnswerOptions struct {
	// Markdown renders the answer through glamour; plain text otherwise
	Markdown bool

	// Width is the wrap width (0 = 80)
	Width int
}

// Answer renders a chat or ask response with its citations. Markdown
// rendering falls back to plain text when glamour cannot render.
func Answer(question string, ans *rag.Answer, opts AnswerOptions) string {
	var b strings.Builder

	if question != "" {
		b.WriteString(HeaderStyle.Render("Question:"))
		b.WriteString("\n")
		b.WriteString(QuestionStyle.Render(question))
		b.WriteString("\n\n")
	}

	b.WriteString(HeaderStyle.Render("Answer:"))
	b.WriteString("\n")
	if ans == nil {
		b.WriteString(ContextStyle.Render("(no answer)"))
		return b.String()
	}

	text := strings.TrimSpace(ans.Answer)
	if opts.Markdown {
		b.WriteString(markdown(text, opts.Width))
	} else {
		b.WriteString(AnswerStyle.Render(text))
	}
	b.WriteString("\n")

	if ans.Confidence != nil {
		fmt.Fprintf(&b, "\n%s\n", ContextStyle.Render(fmt.Sprintf("confidence: %.2f", *ans.Confidence)))
	}

	if len(ans.Citations) > 0 {
		b.WriteString("\n")
		b.WriteString(HeaderStyle.Render(fmt.Sprintf("Citations (%d):", len(ans.Citations))))
		b.WriteString("\n")
		for i, c := range ans.Citations {
			b.WriteString(citation(i+1, c))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func citation(n int, c rag.Citation) string {
	label := fmt.Sprintf("[%d]", n)
	if c.ChunkID != "" {
		label += " " + c.ChunkID
	}
	if c.Score != nil {
		label += fmt.Sprintf("  score=%.4f", *c.Score)
	}

	lines := []string{QuestionStyle.Render(label)}
	if c.Reason != "" {
		lines = append(lines, ContextStyle.Render(c.Reason))
	}
	if c.Content != "" {
		lines = append(lines, blockStyle.Render(truncate(c.Content, previewRunes)))
	}
	return strings.Join(lines, "\n")
}

func markdown(text string, width int) string {
	if width <= 0 {
		width = defaultWrap
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return AnswerStyle.Render(text)
	}
	out, err := renderer.Render(text)
	if err != nil {
		return AnswerStyle.Render(text)
	}
	return strings.Trim(out, "\n")
}
