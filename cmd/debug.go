package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/prompt"
	"github.com/Yates-Labs/novelrag/internal/rag"
	"github.com/Yates-Labs/novelrag/internal/render"
	"github.com/Yates-Labs/novelrag/internal/tui"
)

var (
	debugFlags       queryFlags
	debugCopy        bool
	debugExport      string
	debugFormat      string
	debugJSON        bool
	debugInteractive bool
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

var debugCmd = &cobra.Command{
	Use:   "debug [question]",
	Short: "Show retrieval, context assembly and the final prompt for a question",
	Long: `Run a question through the backend's RAG debug endpoint and show every
intermediate stage: pipeline stats, retrieved scenes, assembled context blocks
and the full prompt that would be sent to the language model.

The prompt token count is a client-side estimate (not a real tokenizer). The
backend's per-block token counts are summed and shown separately.

Examples:
  novelrag debug "陈平安为什么离开小镇？" --novel 剑来 --version v1
  novelrag debug "Who is Ning Yao?" --topk 8 --copy
  novelrag debug "测试" --export debug.yaml
  novelrag debug --interactive --novel 剑来`,
	RunE: runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugFlags.bind(debugCmd)
	debugCmd.Flags().BoolVar(&debugCopy, "copy", false, "Copy the full assembled prompt to the clipboard")
	debugCmd.Flags().StringVar(&debugExport, "export", "", "Write the debug result to a file (.json, .yaml, .txt/.md for the prompt only)")
	debugCmd.Flags().StringVar(&debugFormat, "format", "", "Export format: json, yaml or prompt (default: from --export extension)")
	debugCmd.Flags().BoolVar(&debugJSON, "json", false, "Print the raw debug result as JSON instead of the report")
	debugCmd.Flags().BoolVarP(&debugInteractive, "interactive", "i", false, "Open the interactive debug console")
}

func runDebug(cmd *cobra.Command, args []string) error {
	if debugInteractive {
		// Log lines on stderr would tear the alternate screen
		logger = zap.NewNop()
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	session := orchestrator.NewDebugSession(client, logger)

	if debugInteractive {
		q := debugFlags.query(nil)
		model := tui.New(ctx, client, session, tui.Options{Novel: q.Novel, Version: q.Version, TopK: q.TopK})
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}

	if len(args) == 0 {
		return orchestrator.ErrEmptyQuestion
	}

	if verbose {
		fmt.Fprintln(cmd.ErrOrStderr(), render.Progress("Running debug request..."))
	}
	if _, err := session.Run(ctx, debugFlags.query(args)); err != nil {
		return err
	}
	view, _ := session.View()

	out := cmd.OutOrStdout()
	if debugJSON {
		if err := rag.ExportDebugResult(view.Result, string(rag.FormatJSON), prompt.Assemble, out); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, render.DebugReport(view))
	}

	if debugExport != "" {
		if err := exportDebug(view.Result, debugExport, debugFormat); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), render.Success("Exported debug result to "+debugExport))
	}

	// Copying has its own outcome and never fails the command
	if debugCopy {
		if err := clipboardWriteAll(view.FullPrompt); err != nil {
			logger.Warn("clipboard copy failed", zap.Error(err))
			fmt.Fprintln(cmd.ErrOrStderr(), render.WarnStyle.Render("Failed to copy full prompt: "+err.Error()))
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), render.Success("Copied full prompt to clipboard"))
		}
	}

	return nil
}

func exportDebug(result *rag.DebugResult, path, format string) error {
	if format == "" {
		format = rag.FormatFromPath(path)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := rag.ExportDebugResult(result, format, prompt.Assemble, file); err != nil {
		return fmt.Errorf("failed to export debug result: %w", err)
	}
	return nil
}
