package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/novelrag/internal/rag"
)

var (
	askFlags queryFlags
	askPlain bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question through the RAG answer endpoint",
	Long: `Ask a natural language question about a novel using RAG (Retrieval-Augmented Generation).

This command:
1. Retrieves the most relevant scenes from the knowledge base
2. Assembles them into a prompt on the backend
3. Returns the model's answer with citations

Examples:
  novelrag ask "陈平安的师父是谁？" --novel 剑来
  novelrag ask "What happens at the city wall?" --topk 8 --verbose`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnswer(cmd, args, askFlags, askPlain, func(ctx context.Context, req rag.QueryRequest) (*rag.Answer, error) {
			client, err := newClient()
			if err != nil {
				return nil, err
			}
			return client.Ask(ctx, req)
		})
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askFlags.bind(askCmd)
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "Print the answer as plain text instead of rendered markdown")
}
