package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/render"
)

var (
	knowledgeYes         bool
	knowledgeConcurrency int
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Browse and delete knowledge bases",
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge bases with their versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		bases, err := orchestrator.Overview(ctx, client, knowledgeConcurrency)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.KnowledgeBases(bases))
		return nil
	},
}

var knowledgeVersionsCmd = &cobra.Command{
	Use:   "versions [novel]",
	Short: "List the ingested versions of a knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		novel, err := novelArg(args)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		versions, err := client.ListVersions(ctx, novel)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.List("Versions", versions))
		return nil
	},
}

var knowledgeScenesCmd = &cobra.Command{
	Use:   "scenes [novel]",
	Short: "List the scenes stored for a knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		novel, err := novelArg(args)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		scenes, err := client.ListScenes(ctx, novel)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Scenes(scenes))
		return nil
	},
}

var knowledgeDeleteCmd = &cobra.Command{
	Use:   "delete [novel]",
	Short: "Delete a knowledge base and all of its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		novel, err := novelArg(args)
		if err != nil {
			return err
		}
		if err := confirm(knowledgeYes); err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := client.DeleteKnowledgeBase(ctx, novel); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Success("Deleted knowledge base "+novel))
		return nil
	},
}

var knowledgeDeleteVersionCmd = &cobra.Command{
	Use:   "delete-version [novel] [version]",
	Short: "Delete one version of a knowledge base",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		novel, err := novelArg(args)
		if err != nil {
			return err
		}
		version := strings.TrimSpace(args[1])
		if version == "" {
			return fmt.Errorf("%w: version is required", orchestrator.ErrValidation)
		}
		if err := confirm(knowledgeYes); err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := client.DeleteVersion(ctx, novel, version); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Success(fmt.Sprintf("Deleted version %s of %s", version, novel)))
		return nil
	},
}

func novelArg(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", orchestrator.ErrEmptyNovel
	}
	return orchestrator.NovelName(args[0]), nil
}

func init() {
	rootCmd.AddCommand(knowledgeCmd)
	knowledgeCmd.AddCommand(knowledgeListCmd, knowledgeVersionsCmd, knowledgeScenesCmd, knowledgeDeleteCmd, knowledgeDeleteVersionCmd)

	knowledgeListCmd.Flags().IntVar(&knowledgeConcurrency, "concurrency", 4, "Parallel version lookups")
	for _, c := range []*cobra.Command{knowledgeDeleteCmd, knowledgeDeleteVersionCmd} {
		c.Flags().BoolVar(&knowledgeYes, "yes", false, "Confirm the deletion")
	}
}
