package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/novelrag/internal/rag"
	"github.com/Yates-Labs/novelrag/internal/render"
)

var (
	chatFlags queryFlags
	chatPlain bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Chat against a knowledge base and show the answer with citations",
	Long: `Send a question to the backend chat endpoint. The answer is rendered as
markdown followed by the citations the backend used.

Examples:
  novelrag chat "宁姚是谁？" --novel 剑来 --version v1
  novelrag chat "Summarize chapter one" --topk 3 --plain`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnswer(cmd, args, chatFlags, chatPlain, func(ctx context.Context, req rag.QueryRequest) (*rag.Answer, error) {
			client, err := newClient()
			if err != nil {
				return nil, err
			}
			return client.Chat(ctx, req)
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatFlags.bind(chatCmd)
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "Print the answer as plain text instead of rendered markdown")
}

type answerFunc func(ctx context.Context, req rag.QueryRequest) (*rag.Answer, error)

// runAnswer validates the question, calls the endpoint and prints the answer.
func runAnswer(cmd *cobra.Command, args []string, flags queryFlags, plain bool, call answerFunc) error {
	q := flags.query(args)
	req, err := q.Request()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if verbose {
		fmt.Fprintln(cmd.ErrOrStderr(), render.Progress("Retrieving context and generating answer..."))
	}
	answer, err := call(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), render.Answer(q.Question, answer, render.AnswerOptions{Markdown: !plain}))
	return nil
}
