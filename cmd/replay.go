package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/novelrag/internal/llm"
	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/render"
)

var (
	replayFlags      queryFlags
	replayModel      string
	replayLLMURL     string
	replayShowPrompt bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [question]",
	Short: "Send the backend's assembled prompt straight to an LLM",
	Long: `Fetch the assembled prompt for a question from the debug endpoint and send it
directly to an OpenAI-compatible model, bypassing the backend's answer policy.
Useful for checking how a prompt behaves against a different model.

Required environment variables:
  OPENAI_API_KEY  - API key (the variable name is configurable via llm.api_key_env)

Examples:
  novelrag replay "宁姚是谁？" --novel 剑来
  novelrag replay "测试" --model deepseek-chat --llm-url https://api.deepseek.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayFlags.bind(replayCmd)
	replayCmd.Flags().StringVar(&replayModel, "model", "", "Model name (default: llm.model from config)")
	replayCmd.Flags().StringVar(&replayLLMURL, "llm-url", "", "OpenAI-compatible base URL (default: llm.base_url from config)")
	replayCmd.Flags().BoolVar(&replayShowPrompt, "show-prompt", false, "Print the full assembled prompt before the completion")
}

func runReplay(cmd *cobra.Command, args []string) error {
	q := replayFlags.query(args)
	if _, err := q.Request(); err != nil {
		return err
	}

	llmConfig := llm.Config{
		BaseURL:     appConfig.LLM.BaseURL,
		Model:       appConfig.LLM.Model,
		Temperature: appConfig.LLM.Temperature,
		MaxTokens:   appConfig.LLM.MaxTokens,
		APIKeyEnv:   appConfig.LLM.APIKeyEnv,
	}
	if replayModel != "" {
		llmConfig.Model = replayModel
	}
	if replayLLMURL != "" {
		llmConfig.BaseURL = replayLLMURL
	}

	model, err := llm.NewOpenAILLM(llmConfig)
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if verbose {
		fmt.Fprintln(cmd.ErrOrStderr(), render.Progress("Fetching assembled prompt and calling "+llmConfig.Model+"..."))
	}
	replayer := llm.NewReplayer(orchestrator.NewDebugSession(client, logger), model, llmConfig)
	replay, err := replayer.Replay(ctx, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, render.HeaderStyle.Render("Question:"))
	fmt.Fprintln(out, render.QuestionStyle.Render(q.Question))
	fmt.Fprintln(out)

	if replayShowPrompt {
		fmt.Fprintln(out, render.HeaderStyle.Render("Prompt:"))
		fmt.Fprintln(out, replay.Prompt)
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, render.ContextStyle.Render(render.TokenSummary(replay.View)))
	fmt.Fprintln(out)

	fmt.Fprintln(out, render.HeaderStyle.Render(fmt.Sprintf("Completion (%s):", replay.Model)))
	fmt.Fprintln(out, render.AnswerStyle.Render(strings.TrimSpace(replay.Completion)))
	return nil
}
