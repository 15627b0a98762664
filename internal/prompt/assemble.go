// Package prompt flattens a structured FinalPrompt into the single string a
// language model would conceptually receive. Assembly is pure: the same input
// always yields byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

const (
	LabelSystemInstruction = "System Instruction"
	LabelContext           = "Context"
	LabelUserQuestion      = "User Question"
	LabelOutputConstraint  = "Output Constraint"

	sectionSeparator = "\n\n"
	blockDelimiter   = "\n\n---\n\n"
)

// Section is one labeled part of an assembled prompt.
type Section struct {
	Label string
	Body  string
}

// String renders the section with its header line.
func (s Section) String() string {
	return fmt.Sprintf("=== %s ===\n%s", s.Label, s.Body)
}

// Assemble reconstructs the full prompt text from p.
func Assemble(p rag.FinalPrompt) string {
	sections := Sections(p)

	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.String()
	}
	return strings.Join(parts, sectionSeparator)
}

// Sections returns the labeled sections present in p, in prompt order.
// The user question is always present; the others only when non-empty.
func Sections(p rag.FinalPrompt) []Section {
	sections := make([]Section, 0, 4)

	if p.SystemInstruction != "" {
		sections = append(sections, Section{Label: LabelSystemInstruction, Body: p.SystemInstruction})
	}

	if len(p.ContextBlocks) > 0 {
		sections = append(sections, Section{Label: LabelContext, Body: assembleContext(p.ContextBlocks)})
	}

	sections = append(sections, Section{Label: LabelUserQuestion, Body: p.UserQuestion})

	if p.OutputConstraint != "" {
		sections = append(sections, Section{Label: LabelOutputConstraint, Body: p.OutputConstraint})
	}

	return sections
}

// ContextText joins the raw block contents with a blank line, without block headers.
func ContextText(p rag.FinalPrompt) string {
	contents := make([]string, len(p.ContextBlocks))
	for i, b := range p.ContextBlocks {
		contents[i] = b.Content
	}
	return strings.Join(contents, "\n\n")
}

func assembleContext(blocks []rag.ContextBlock) string {
	var b strings.Builder

	for i, block := range blocks {
		if i > 0 {
			b.WriteString(blockDelimiter)
		}
		b.WriteString(fmt.Sprintf("[Block %d - %s]\n", i+1, block.ChunkID))
		b.WriteString(block.Content)
	}

	return b.String()
}
