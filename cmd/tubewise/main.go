package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/tubewise/tubewise/internal/agent"
	"github.com/tubewise/tubewise/internal/config"
	"github.com/tubewise/tubewise/internal/database"
	"github.com/tubewise/tubewise/internal/learning"
	"github.com/tubewise/tubewise/internal/llm"
	"github.com/tubewise/tubewise/internal/memory"
	"github.com/tubewise/tubewise/internal/server"
	"github.com/tubewise/tubewise/internal/thumbnail"
	"github.com/tubewise/tubewise/internal/tools"
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
	Use:     "tubewise",
	Short:   "YouTube channel strategy agent",
	Long:    "Tubewise analyzes YouTube channels with a tool-calling agent, learns from outcomes, and suggests what to publish next.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
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
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(memoryCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tubewise", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/tubewise/",
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
		fmt.Println("Edit it to set API keys, the model, and the learning schedule.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and memory status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}
		memoryCount, err := openMemory().Count()
		if err != nil {
			return fmt.Errorf("counting memory: %w", err)
		}

		fmt.Println("Channels:")
		fmt.Printf("  Tracked: %d\n", stats.Channels)
		fmt.Printf("  Videos stored: %d\n", stats.Videos)
		fmt.Printf("  Videos scored: %d\n", stats.ScoredVideos)
		fmt.Println("\nAnalyses:")
		fmt.Printf("  Strategy runs: %d\n", stats.Analyses)
		fmt.Printf("  Batch runs: %d\n", stats.BatchRuns)
		fmt.Println("\nLearning:")
		fmt.Printf("  Suggestions: %d\n", stats.Suggestions)
		fmt.Printf("  Suggestion matches: %d\n", stats.SuggestionMatches)
		fmt.Printf("  Insights: %d\n", stats.LearningInsights)
		fmt.Printf("\nMemory lines: %d\n", memoryCount)
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server with scheduled learning",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		mem := openMemory()
		ag, err := buildAgent(cmd.Context(), db, mem)
		if err != nil {
			fmt.Printf("Warning: agent unavailable: %v\n", err)
		}

		opts := server.Options{
			RatePerMinute: cfg.Server.RatePerMinute,
			MemoryLines:   cfg.Memory.MaxLines,
			MaxVideos:     cfg.Learning.MaxVideos,
		}
		if ag != nil {
			opts.Analyzer = ag
		}
		if key := cfg.GeminiAPIKey(); key != "" {
			thumbs, err := thumbnail.New(cmd.Context(), key, cfg.Agent.ThumbnailModel)
			if err != nil {
				fmt.Printf("Warning: thumbnails unavailable: %v\n", err)
			} else {
				opts.Thumbnails = thumbs
			}
		}

		if cfg.Learning.Schedule != "" {
			c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
			_, err := c.AddFunc(cfg.Learning.Schedule, func() {
				cycle := &learning.Cycle{DB: db, Memory: mem, MaxVideos: cfg.Learning.MaxVideos}
				result, err := cycle.Run(nil)
				if err != nil {
					log.Printf("scheduled learning cycle: %v", err)
					return
				}
				log.Printf("scheduled learning cycle: %d videos, %d insights, %d matches",
					result.VideosAnalyzed, result.InsightsGenerated, result.MatchesFound)
			})
			if err != nil {
				return fmt.Errorf("invalid learning schedule %q: %w", cfg.Learning.Schedule, err)
			}
			c.Start()
			defer c.Stop()
			fmt.Printf("Learning cycle scheduled: %s\n", cfg.Learning.Schedule)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, mem, opts, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// --- analyze command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [channel_url]",
	Short: "Analyze one channel and print its strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ag, err := buildAgent(cmd.Context(), db, openMemory())
		if err != nil {
			return err
		}

		result, err := ag.AnalyzeChannel(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("analyzing channel: %w", err)
		}
		return printJSON(result)
	},
}

// --- batch command ---

var batchCmd = &cobra.Command{
	Use:   "batch [channel_url...]",
	Short: "Analyze several channels together and suggest next videos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ag, err := buildAgent(cmd.Context(), db, openMemory())
		if err != nil {
			return err
		}

		result, err := ag.AnalyzeBatch(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("batch analysis: %w", err)
		}

		fmt.Printf("Batch %s: %d channels analyzed\n\n", result.BatchID, len(result.Channels))
		if len(result.Strategy.NextVideoSuggestions) > 0 {
			fmt.Println("Next video suggestions:")
			for _, s := range result.Strategy.NextVideoSuggestions {
				fmt.Printf("  - %s (%s)\n", s.Topic, s.EstimatedAppeal)
				if s.Why != "" {
					fmt.Printf("    %s\n", s.Why)
				}
			}
			fmt.Println()
		}
		return printJSON(result.Strategy)
	},
}

// --- learn command ---

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Run the learning cycle against all stored videos",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		cycle := &learning.Cycle{DB: db, Memory: openMemory(), MaxVideos: cfg.Learning.MaxVideos}
		result, err := cycle.Run(nil)
		if err != nil {
			return fmt.Errorf("learning cycle: %w", err)
		}

		fmt.Printf("Analyzed %d videos, generated %d insights, found %d matches\n",
			result.VideosAnalyzed, result.InsightsGenerated, result.MatchesFound)
		for _, insight := range result.Insights {
			fmt.Printf("  - %s\n", insight)
		}
		return nil
	},
}

// --- memory command ---

var resetConfirm bool

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and edit the agent's memory journal",
}

var memoryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print recent memory lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := openMemory().ReadRecent(cfg.Memory.MaxLines)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("Memory is empty.")
			return nil
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

var memoryAddCmd = &cobra.Command{
	Use:   "add [reference] [findings] [next-step]",
	Short: "Append one entry to the memory journal",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := memory.Entry{Reference: args[0]}
		if len(args) > 1 {
			for _, f := range strings.Split(args[1], ",") {
				if f = strings.TrimSpace(f); f != "" {
					entry.Findings = append(entry.Findings, f)
				}
			}
		}
		if len(args) > 2 {
			entry.NextStep = args[2]
		}

		mem := openMemory()
		if err := mem.Append(entry); err != nil {
			return err
		}
		fmt.Println("Entry recorded.")
		return nil
	},
}

var memoryResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the memory journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := openMemory().Reset(resetConfirm); err != nil {
			return fmt.Errorf("%w (pass --confirm to proceed)", err)
		}
		fmt.Println("Memory reset.")
		return nil
	},
}

func init() {
	memoryResetCmd.Flags().BoolVar(&resetConfirm, "confirm", false, "Confirm erasing all memory")
	memoryCmd.AddCommand(memoryShowCmd)
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memoryResetCmd)
}

// buildAgent wires the agent from config: Gemini for the chat loop and
// Composio for tools when configured, the offline executor otherwise.
func buildAgent(ctx context.Context, db *database.DB, mem *memory.Log) (*agent.Agent, error) {
	ag := &agent.Agent{
		DB:           db,
		Memory:       mem,
		MaxVideos:    cfg.Learning.MaxVideos,
		DevMode:      cfg.Agent.DevMode,
		SamplePath:   cfg.Agent.SampleDataFile,
		DebugLogPath: filepath.Join(cfg.GetDataDir(), "agent_debug.log"),
	}
	if ag.DevMode {
		return ag, nil
	}

	client, err := llm.NewClient(ctx, cfg.GeminiAPIKey(), cfg.Agent.Model)
	if err != nil {
		return nil, err
	}
	ag.NewChat = func(systemPrompt string, specs []llm.ToolSpec) llm.Chat {
		return client.NewChat(systemPrompt, specs)
	}

	composio := tools.NewComposioClient(cfg.Composio.BaseURL, cfg.ComposioAPIKey(), cfg.Composio.UserID)
	if composio.IsConfigured() {
		ag.Executor = composio
	} else {
		log.Printf("composio not configured, using offline RSS executor")
		ag.Executor = tools.NewLocalExecutor()
	}
	return ag, nil
}

func openMemory() *memory.Log {
	return memory.New(cfg.MemoryFile())
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "tubewise.db")
	return database.Open(dbPath)
}
