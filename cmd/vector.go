package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/rag"
	"github.com/Yates-Labs/novelrag/internal/render"
)

var (
	vectorTopK    int
	vectorFilters []string
	vectorYes     bool
)

var vectorCmd = &cobra.Command{
	Use:   "vector",
	Short: "Inspect and administer the backend vector store",
}

var vectorStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store type and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		stats, err := client.VectorStats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.VectorStats(stats))
		return nil
	},
}

var vectorSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a raw similarity search",
	Long: `Run a similarity search directly against the vector store, bypassing context
assembly. Filters narrow the search by metadata.

Examples:
  novelrag vector search "城头" --topk 10
  novelrag vector search "城头" --filter novel=剑来 --filter version=v1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		if strings.TrimSpace(query) == "" {
			return orchestrator.ErrEmptyQuestion
		}
		if vectorTopK < 0 || vectorTopK > orchestrator.MaxTopK {
			return fmt.Errorf("%w: got %d", orchestrator.ErrTopKOutOfRange, vectorTopK)
		}
		filter, err := orchestrator.ParseFilter(vectorFilters)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		records, err := client.VectorSearch(ctx, rag.VectorSearchRequest{Query: query, TopK: vectorTopK, Filter: filter})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.VectorRecords(records))
		return nil
	},
}

var vectorDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete every vector matching a metadata filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := orchestrator.ParseFilter(vectorFilters)
		if err != nil {
			return err
		}
		if len(filter) == 0 {
			return fmt.Errorf("%w: at least one --filter is required (use \"vector reset\" to drop everything)", orchestrator.ErrInvalidFilter)
		}
		if err := confirm(vectorYes); err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := client.VectorDelete(ctx, filter); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Success("Deleted matching vectors"))
		return nil
	},
}

var vectorResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop every vector in the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := confirm(vectorYes); err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := client.VectorReset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Success("Vector store reset"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vectorCmd)
	vectorCmd.AddCommand(vectorStatsCmd, vectorSearchCmd, vectorDeleteCmd, vectorResetCmd)

	vectorSearchCmd.Flags().IntVar(&vectorTopK, "topk", 0, "Number of matches (0 = backend default)")
	for _, c := range []*cobra.Command{vectorSearchCmd, vectorDeleteCmd} {
		c.Flags().StringArrayVar(&vectorFilters, "filter", nil, "Metadata filter as key=value (repeatable)")
	}
	for _, c := range []*cobra.Command{vectorDeleteCmd, vectorResetCmd} {
		c.Flags().BoolVar(&vectorYes, "yes", false, "Confirm the deletion")
	}
}
