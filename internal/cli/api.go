package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pelangilabs/rainbowd/internal/api"
	"github.com/pelangilabs/rainbowd/internal/scheduler"
)

var (
	apiPort       string
	apiHost       string
	corsOrigin    string
	withScheduler bool
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the Rainbowd REST API server",
	Long: `Start the Rainbowd REST API server used by the admin console:
- Templates (list, save custom, delete, apply)
- Routing config (read live config, apply hand-edited config)
- Providers (list, reorder, set default, enable/disable, latency)
- Predictions (pending queue, confirm, correct, bulk-validate)
- Stats and daily report (read-only)

The API runs on HTTP (no authentication required for now).`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVarP(&apiPort, "port", "p", "8990", "Port to run the API server on")
	apiCmd.Flags().StringVarP(&apiHost, "host", "H", "0.0.0.0", "Host to bind the API server to")
	apiCmd.Flags().StringVarP(&corsOrigin, "cors-origin", "c", "", "CORS origin to allow (overrides config file, use '*' for all origins)")
	apiCmd.Flags().BoolVar(&withScheduler, "with-scheduler", true, "Run probe and report cron jobs alongside the API")
}

func runAPI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	selectedCORSOrigin := corsOrigin
	if selectedCORSOrigin == "" {
		if cfg.CORSOrigin != "" {
			selectedCORSOrigin = cfg.CORSOrigin
		} else {
			selectedCORSOrigin = "*"
		}
	}

	fmt.Printf("🚀 Starting Rainbowd API Server\n")
	fmt.Printf("===============================\n")
	fmt.Printf("Host: %s\n", apiHost)
	fmt.Printf("Port: %s\n", apiPort)
	fmt.Printf("Engine: %s\n", cfg.Engine.BaseURL)
	fmt.Printf("CORS Origin: %s\n", selectedCORSOrigin)
	fmt.Printf("URL: http://%s:%s/api/v1\n", apiHost, apiPort)
	fmt.Println()

	if err := database.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	fmt.Println("✅ Database connection successful!")

	if err := engineClient.Ping(ctx); err != nil {
		fmt.Printf("⚠️  Engine unreachable: %v (continuing, cached state only)\n", err)
	} else {
		fmt.Println("✅ Engine connection successful!")
	}

	if withScheduler {
		sched := scheduler.New(probeRunner, reportService, cfg.ProbeCron, cfg.ReportCron)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
		fmt.Println("✅ Probe and report scheduler running")
	}

	server := api.NewServer(database, engineClient, templateStore, applier, chain, queue, statsService, reportService, selectedCORSOrigin)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\n🛑 Shutting down API server...")
		database.Disconnect(ctx)
		os.Exit(0)
	}()

	fmt.Println("🌐 API Server is running!")
	fmt.Println()
	fmt.Println("📚 Available Endpoints:")
	fmt.Println("  Templates:")
	fmt.Println("    GET    /api/v1/templates             - List templates with active indicator")
	fmt.Println("    GET    /api/v1/templates/:id         - Get specific template")
	fmt.Println("    POST   /api/v1/templates             - Save live config as custom template")
	fmt.Println("    DELETE /api/v1/templates/:id         - Delete custom template")
	fmt.Println("    POST   /api/v1/templates/:id/apply   - Apply template to the engine")
	fmt.Println()
	fmt.Println("  Routing:")
	fmt.Println("    GET    /api/v1/routing               - Get live config and active template")
	fmt.Println("    PUT    /api/v1/routing               - Apply hand-edited config")
	fmt.Println()
	fmt.Println("  Providers:")
	fmt.Println("    GET    /api/v1/providers             - List fallback chain")
	fmt.Println("    POST   /api/v1/providers/reorder     - Move provider in the chain")
	fmt.Println("    POST   /api/v1/providers/:id/default - Promote provider to default")
	fmt.Println("    PATCH  /api/v1/providers/:id         - Enable or disable provider")
	fmt.Println("    GET    /api/v1/providers/latency     - Latest probe latencies")
	fmt.Println()
	fmt.Println("  Review:")
	fmt.Println("    GET    /api/v1/predictions/pending       - Pending review queue")
	fmt.Println("    GET    /api/v1/predictions/validated     - Validation history")
	fmt.Println("    GET    /api/v1/predictions/selection     - Compute bulk selection")
	fmt.Println("    POST   /api/v1/predictions/:id/confirm   - Confirm prediction")
	fmt.Println("    PATCH  /api/v1/predictions/:id           - Correct prediction")
	fmt.Println("    POST   /api/v1/predictions/bulk-validate - Validate a selection")
	fmt.Println()
	fmt.Println("  Stats:")
	fmt.Println("    GET    /api/v1/intents               - Known intents")
	fmt.Println("    GET    /api/v1/stats                 - Review statistics")
	fmt.Println("    GET    /api/v1/report                - Daily report")
	fmt.Println("    GET    /api/v1/health                - Health check")
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop the server")

	address := fmt.Sprintf("%s:%s", apiHost, apiPort)
	return server.Run(address)
}
