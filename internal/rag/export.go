package rag

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	FormatJSON   ExportFormat = "json"
	FormatYAML   ExportFormat = "yaml"
	FormatPrompt ExportFormat = "prompt"
)

// PromptRenderer flattens a FinalPrompt. Export takes it as a parameter so this
// package stays free of the prompt package.
type PromptRenderer func(FinalPrompt) string

// ExportDebugResult writes a debug result in the requested format.
// The prompt format writes only the assembled prompt text.
func ExportDebugResult(result *DebugResult, format string, render PromptRenderer, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("nothing to export: no debug result")
	}

	switch ExportFormat(strings.ToLower(format)) {
	case FormatJSON:
		return exportJSON(result, writer)
	case FormatYAML:
		return exportYAML(result, writer)
	case FormatPrompt:
		if render == nil {
			return fmt.Errorf("prompt export requires a renderer")
		}
		_, err := io.WriteString(writer, render(result.FinalPrompt)+"\n")
		return err
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, yaml, prompt)", format)
	}
}

// FormatFromPath picks an export format from a file extension.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return string(FormatYAML)
	case strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".md"):
		return string(FormatPrompt)
	default:
		return string(FormatJSON)
	}
}

func exportJSON(result *DebugResult, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}

func exportYAML(result *DebugResult, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return err
	}
	return encoder.Close()
}
