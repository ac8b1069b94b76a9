package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/warpzoneai/newsradar/internal/article"
	"github.com/warpzoneai/newsradar/internal/config"
	"github.com/warpzoneai/newsradar/internal/llm"
	"github.com/warpzoneai/newsradar/internal/pipeline"
	"github.com/warpzoneai/newsradar/internal/server"
	"github.com/warpzoneai/newsradar/internal/social"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newsradar",
	Short:   "AI Gaming news ranking",
	Long:    "Newsradar fetches a Feedly stream, ranks the articles against the WarpzoneAI relevance rubric with an LLM, and summarizes the top stories.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsradar", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newsradar/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Credentials come from the environment: OPENAI_API_KEY, FEEDLY_CLIENT_ID, FEEDLY_CLIENT_SECRET, FEEDLY_REFRESH_TOKEN, FEEDLY_STREAM_ID.")
		return nil
	},
}

// --- run command ---

var runDays int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, rank, and summarize articles once, printing the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := config.LoadCredentials()
		if err != nil {
			return err
		}

		days := cfg.Feedly.Days
		if runDays > 0 {
			days = runDays
		}

		provider := llm.NewOpenAIProvider(cfg.Scoring.Model, creds.OpenAIKey)
		pipe := pipeline.New(cfg, creds, provider, func(msg string) { fmt.Println(msg) })

		articles, err := pipe.Run(context.Background(), days)
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Println("No articles found.")
			return nil
		}

		printResults(articles, cfg.Scoring.Threshold)
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runDays, "days", 0, "Override lookback window (days)")
}

func printResults(articles []article.Article, threshold int) {
	fmt.Printf("\nRanked %d articles:\n\n", len(articles))
	for _, a := range articles {
		score := " -"
		if a.RelevanceScore != nil {
			score = fmt.Sprintf("%2d", *a.RelevanceScore)
		}
		fmt.Printf("  [%s] %s\n", score, a.Title)
	}

	fmt.Println("\nTop stories:")
	shown := 0
	for _, a := range articles {
		if a.BulletPoints == "" {
			continue
		}
		shown++
		fmt.Printf("\n%d. %s (%s)\n%s\n", shown, a.Title, a.PublicationDate, a.BulletPoints)
	}
	if shown == 0 {
		fmt.Printf("  none crossed the relevance threshold (%d)\n", threshold)
	}
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := config.LoadCredentials()
		if err != nil {
			return err
		}

		provider := llm.NewOpenAIProvider(cfg.Scoring.Model, creds.OpenAIKey)
		pipe := pipeline.New(cfg, creds, provider, nil)
		posts := social.NewGenerator(provider)

		port := cfg.Server.Port
		if servePort > 0 {
			port = servePort
		}

		fmt.Printf("Starting dashboard at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(pipe, posts, cfg.Feedly.Days, cfg.Scoring.Threshold, cfg.Scoring.TopN, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run the dashboard on (overrides config)")
}
