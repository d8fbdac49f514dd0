package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pelangilabs/rainbowd/internal/services"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the daily review report",
	Long:  `Build and print the daily review report for the last 24 hours.`,
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Pull the pending total from the engine so the report is not stale
	if _, err := queue.FetchPending(ctx, 1); err != nil {
		fmt.Printf("%s⚠️  Engine unreachable, pending count may be stale: %v%s\n", WarningStyle, err, Reset)
	}

	report, err := reportService.BuildDailyReport(ctx)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	fmt.Println(services.FormatReport(report))
	return nil
}
