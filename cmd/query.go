package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
)

// queryFlags are shared by every command that sends a question.
type queryFlags struct {
	novel   string
	version string
	topK    int
}

func (f *queryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.novel, "novel", "", "Knowledge base to query (default: query.novel from config)")
	cmd.Flags().StringVar(&f.version, "version", "", "Knowledge base version (default: query.version from config)")
	cmd.Flags().IntVar(&f.topK, "topk", 0, "Number of scenes to retrieve, 1-50 (default: query.top_k from config)")
}

// query merges the flags over the configured defaults.
func (f *queryFlags) query(args []string) orchestrator.Query {
	q := orchestrator.Query{
		Question: strings.Join(args, " "),
		Novel:    appConfig.Query.Novel,
		Version:  appConfig.Query.Version,
		TopK:     appConfig.Query.TopK,
	}
	if f.novel != "" {
		q.Novel = f.novel
	}
	if f.version != "" {
		q.Version = f.version
	}
	if f.topK != 0 {
		q.TopK = f.topK
	}
	return q
}

// confirm guards destructive commands behind --yes.
func confirm(yes bool) error {
	if !yes {
		return orchestrator.ErrConfirmationRequired
	}
	return nil
}
