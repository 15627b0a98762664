package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yates-Labs/novelrag/internal/api"
	"github.com/Yates-Labs/novelrag/internal/config"
	"github.com/Yates-Labs/novelrag/internal/logging"
	"github.com/Yates-Labs/novelrag/internal/render"
)

var (
	cfgFile string
	apiURL  string
	timeout time.Duration
	verbose bool

	appConfig  *config.AppConfig
	configPath string
	logger     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "novelrag",
	Short: "novelrag - client for the novel RAG backend",
	Long: `novelrag talks to a novel retrieval-augmented-generation backend.

It uploads and ingests novels, browses knowledge bases, chats against them
with citations, administers the vector store and debugs the retrieval and
prompt-assembly pipeline.

Configuration is read from ./novelrag.yaml, then ~/.config/novelrag/config.yaml.
Environment overrides:
  NOVELRAG_API_URL    - backend API root (default: http://localhost:8080/api)
  NOVELRAG_LOG_LEVEL  - zap log level (default: warn)
  OPENAI_API_KEY      - key for "novelrag replay" (variable name configurable)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./novelrag.yaml or ~/.config/novelrag/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API root, overrides config and NOVELRAG_API_URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout, overrides config (e.g. 45s)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress and debug logs")
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.Error(err))
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
		configPath = cfgFile
	} else {
		appConfig, configPath, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if apiURL != "" {
		appConfig.API.BaseURL = apiURL
	}
	if timeout > 0 {
		appConfig.API.TimeoutSecs = int((timeout + time.Second - 1) / time.Second)
	}
	if verbose {
		appConfig.Log.Level = "debug"
	}

	if err := appConfig.Validate(); err != nil {
		return err
	}

	logger, err = logging.New(appConfig.Log.Level, appConfig.Log.Format)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded",
		zap.String("path", configPath),
		zap.String("api", appConfig.API.BaseURL),
	)
	return nil
}

// newClient builds the API client from the loaded configuration.
func newClient() (*api.Client, error) {
	return api.NewClient(api.Config{
		BaseURL:   appConfig.API.BaseURL,
		RAGPrefix: appConfig.API.RAGPrefix,
		Timeout:   appConfig.API.Timeout(),
		Logger:    logger,
	})
}

// commandContext is cancelled on interrupt so an in-flight request stops
// when the user presses ctrl+c.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}
