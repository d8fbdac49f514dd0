package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pelangilabs/rainbowd/internal/config"
	"github.com/pelangilabs/rainbowd/internal/db"
	"github.com/pelangilabs/rainbowd/internal/engine"
	"github.com/pelangilabs/rainbowd/internal/logger"
	"github.com/pelangilabs/rainbowd/internal/models"
	"github.com/pelangilabs/rainbowd/internal/probe"
	"github.com/pelangilabs/rainbowd/internal/probe/anthropic"
	"github.com/pelangilabs/rainbowd/internal/probe/google"
	"github.com/pelangilabs/rainbowd/internal/probe/ollama"
	"github.com/pelangilabs/rainbowd/internal/probe/openai"
	"github.com/pelangilabs/rainbowd/internal/probe/perplexity"
	"github.com/pelangilabs/rainbowd/internal/providers"
	"github.com/pelangilabs/rainbowd/internal/review"
	"github.com/pelangilabs/rainbowd/internal/routing"
	"github.com/pelangilabs/rainbowd/internal/services"
	"github.com/pelangilabs/rainbowd/internal/templates"
)

var (
	cfgFile       string
	cfg           *config.Config
	database      db.Database
	engineClient  *engine.Client
	templateStore *templates.Store
	applier       *routing.Applier
	chain         *providers.Chain
	queue         *review.Queue
	statsService  *services.StatsService
	reportService *services.ReportService
	probeRunner   *probe.Runner
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rainbowd",
	Short: "Admin console for the Rainbow intent classifier",
	Long: `Rainbowd is the control plane for the Rainbow intent classification engine.

Manage routing templates and tier thresholds, reorder the LLM provider
fallback chain, and review pending predictions flagged for human validation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip init for the init command itself
		if cmd.Name() == "init" {
			return nil
		}

		// Load configuration
		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}

		if !config.Exists(cfgFile) {
			return fmt.Errorf("configuration file not found. Run 'rainbowd init' to create one")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.SetLevel(logger.ParseLogLevel(cfg.LogLevel))

		// Initialize databases
		sqlConfig := &models.Config{
			Provider: cfg.SQLDatabase.Provider,
			URI:      cfg.SQLDatabase.URI,
			Database: cfg.SQLDatabase.Database,
			Options:  cfg.SQLDatabase.Options,
		}
		nosqlConfig := &models.Config{
			Provider: cfg.NoSQLDatabase.Provider,
			URI:      cfg.NoSQLDatabase.URI,
			Database: cfg.NoSQLDatabase.Database,
			Options:  cfg.NoSQLDatabase.Options,
		}

		database, err = db.New(sqlConfig, nosqlConfig)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}

		ctx := context.Background()
		if err := database.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		// Initialize engine client
		timeout := time.Duration(cfg.Engine.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		engineClient = engine.New(cfg.Engine.BaseURL, timeout, cfg.Engine.RatePerSecond)

		// Initialize domain services
		templateStore = templates.NewStore(database)
		chain = providers.NewChain(engineClient, database, seedProviders(cfg))
		applier = routing.NewApplier(engineClient, database, templateStore, chain, routing.NewNotifier())
		queue = review.NewQueue(engineClient, database)
		statsService = services.NewStatsService(database)
		reportService = services.NewReportService(database, queue, applier)
		probeRunner = probe.NewRunner(buildProbeRegistry(cfg), database)

		// Restore cached state so the console is usable before the first apply
		if err := chain.LoadPersisted(ctx); err != nil {
			logger.Warning("failed to restore provider chain: %v", err)
		}
		if err := applier.LoadPersisted(ctx); err != nil {
			logger.Warning("failed to restore routing config: %v", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if database != nil {
			return database.Disconnect(context.Background())
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rainbowd/config.yaml)")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(schedulerCmd)
	rootCmd.AddCommand(migrateCmd)
}

// seedProviders builds the initial chain from configured providers. The
// persisted chain, then the engine's canonical answer, override this seed.
func seedProviders(cfg *config.Config) []models.ProviderEntry {
	entries := make([]models.ProviderEntry, 0, len(cfg.Providers))
	for i, p := range cfg.Providers {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		entries = append(entries, models.ProviderEntry{
			ID:       p.ID,
			Name:     name,
			Enabled:  true,
			Priority: i,
		})
	}
	return entries
}

// buildProbeRegistry registers a latency prober per configured provider
func buildProbeRegistry(cfg *config.Config) *probe.Registry {
	registry := probe.NewRegistry()
	for _, p := range cfg.Providers {
		switch p.Kind {
		case "openai":
			registry.Register(openai.New(p.ID, p.APIKey, p.BaseURL))
		case "anthropic":
			registry.Register(anthropic.New(p.ID, p.APIKey, p.BaseURL, p.Model))
		case "google":
			registry.Register(google.New(p.ID, p.APIKey, p.Model))
		case "ollama":
			registry.Register(ollama.New(p.ID, p.BaseURL))
		case "perplexity":
			registry.Register(perplexity.New(p.ID, p.APIKey))
		default:
			logger.Warning("unknown provider kind %q for %s, skipping probe", p.Kind, p.ID)
		}
	}
	return registry
}
