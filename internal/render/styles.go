// Package render turns debug results, answers and admin listings into
// terminal output.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerColor   = lipgloss.Color("#F780FF") // Bright pink
	questionColor = lipgloss.Color("#8BE9FD") // Cyan
	answerColor   = lipgloss.Color("#E9E9F4") // Light purple/white
	contextColor  = lipgloss.Color("#6272A4") // Muted purple
	errorColor    = lipgloss.Color("#FF5555") // Red
	successColor  = lipgloss.Color("#50FA7B") // Green
	warnColor     = lipgloss.Color("#F1FA8C") // Yellow
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(headerColor).
			Bold(true)

	QuestionStyle = lipgloss.NewStyle().
			Foreground(questionColor).
			Italic(true)

	AnswerStyle = lipgloss.NewStyle().
			Foreground(answerColor)

	ContextStyle = lipgloss.NewStyle().
			Foreground(contextColor).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	WarnStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	blockStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(contextColor).
			PaddingLeft(1)
)

// Error formats a failure as the single inline status line the CLI prints.
func Error(err error) string {
	return fmt.Sprintf("%s %v", ErrorStyle.Render("Error:"), err)
}

// Success formats a completed action.
func Success(msg string) string {
	return SuccessStyle.Render("✓ " + msg)
}

// Progress formats a step that is about to run.
func Progress(msg string) string {
	return ContextStyle.Render("→ " + msg)
}
