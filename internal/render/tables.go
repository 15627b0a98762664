package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/rag"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(ContextStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// KnowledgeBases lists novels with their ingested versions.
func KnowledgeBases(bases []orchestrator.KnowledgeBase) string {
	if len(bases) == 0 {
		return ContextStyle.Render("(no knowledge bases)")
	}

	t := newTable("Knowledge base", "File", "Versions")
	for _, kb := range bases {
		versions := strings.Join(kb.Versions, ", ")
		if versions == "" {
			versions = "-"
		}
		t.Row(kb.Name, kb.File, versions)
	}
	return t.String()
}

// List renders a single-column listing such as novel files or versions.
func List(title string, items []string) string {
	if len(items) == 0 {
		return ContextStyle.Render(fmt.Sprintf("(no %s)", strings.ToLower(title)))
	}

	t := newTable("#", title)
	for i, item := range items {
		t.Row(fmt.Sprint(i+1), item)
	}
	return t.String()
}

// VectorRecords renders similarity hits with their metadata.
func VectorRecords(records []rag.VectorRecord) string {
	if len(records) == 0 {
		return ContextStyle.Render("(no matches)")
	}

	t := newTable("#", "Chunk", "Score", "Metadata")
	for i, r := range records {
		t.Row(fmt.Sprint(i+1), r.ChunkID, fmt.Sprintf("%.4f", r.Score), metadata(r.Metadata))
	}
	return t.String()
}

// VectorStats renders the vector store summary.
func VectorStats(stats *rag.VectorStats) string {
	if stats == nil {
		return ContextStyle.Render("(no stats)")
	}
	return fmt.Sprintf("%s %s\n%s %d",
		HeaderStyle.Render("Store:"), stats.Type,
		HeaderStyle.Render("Vectors:"), stats.Count)
}

// Scenes renders the scenes stored for a knowledge base.
func Scenes(scenes []rag.Scene) string {
	if len(scenes) == 0 {
		return ContextStyle.Render("(no scenes)")
	}

	t := newTable("#", "ID", "Content")
	for i, s := range scenes {
		t.Row(fmt.Sprint(i+1), s.ID, truncate(s.Body(), 60))
	}
	return t.String()
}

func metadata(m map[string]any) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}
