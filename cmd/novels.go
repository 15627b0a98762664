package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/render"
)

var (
	ingestVersion   string
	ingestMaxScenes int
	uploadOnly      bool
)

var novelsCmd = &cobra.Command{
	Use:   "novels",
	Short: "Upload novels and start ingestion",
}

var novelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded novel files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		novels, err := client.ListNovels(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.List("Novels", novels))
		return nil
	},
}

var novelsUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a .txt novel and ingest it",
	Long: `Upload a plain-text novel. Unless --upload-only is set, ingestion of the
uploaded file starts right away under the given version. Ingestion runs
asynchronously on the backend.

Examples:
  novelrag novels upload ./剑来.txt --version v1
  novelrag novels upload ./book.txt --max-scenes 200
  novelrag novels upload ./book.txt --upload-only`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return orchestrator.ErrNoFileSelected
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		out := cmd.OutOrStdout()
		if uploadOnly {
			upload, err := client.UploadNovelFile(ctx, path)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}
			fmt.Fprintln(out, render.Success(upload.Message))
			return nil
		}

		outcome, err := orchestrator.UploadAndIngest(ctx, client, path, orchestrator.IngestOptions{
			Version:   ingestVersion,
			MaxScenes: ingestMaxScenes,
		}, logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, render.Success(outcome.Upload.Message))
		fmt.Fprintln(out, render.Success(outcome.IngestMessage))
		fmt.Fprintln(out, render.ContextStyle.Render(fmt.Sprintf(
			"Knowledge base %q will appear once ingestion finishes (novelrag knowledge list)", orchestrator.NovelName(outcome.FileName))))
		return nil
	},
}

var novelsIngestCmd = &cobra.Command{
	Use:   "ingest [file-name]",
	Short: "Start ingestion of an already uploaded file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileName := ""
		if len(args) > 0 {
			fileName = args[0]
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		msg, err := orchestrator.Ingest(ctx, client, fileName, orchestrator.IngestOptions{
			Version:   ingestVersion,
			MaxScenes: ingestMaxScenes,
		}, logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Success(msg))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(novelsCmd)
	novelsCmd.AddCommand(novelsListCmd, novelsUploadCmd, novelsIngestCmd)

	for _, c := range []*cobra.Command{novelsUploadCmd, novelsIngestCmd} {
		c.Flags().StringVar(&ingestVersion, "version", "", "Knowledge base version to ingest into (default: backend default)")
		c.Flags().IntVar(&ingestMaxScenes, "max-scenes", 0, "Maximum number of scenes to ingest (0 = all)")
	}
	novelsUploadCmd.Flags().BoolVar(&uploadOnly, "upload-only", false, "Upload without starting ingestion")
}
