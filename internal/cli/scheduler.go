package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pelangilabs/rainbowd/internal/scheduler"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the probe and report scheduler",
	Long:  `Manage the Rainbowd scheduler - periodic provider probes and the daily review report.`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler",
	RunE:  runSchedulerStart,
}

func init() {
	schedulerCmd.AddCommand(schedulerStartCmd)
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("%s🚀 Start Scheduler%s\n", FormatHeader(""), Reset)
	fmt.Printf("%s=================%s\n", DimStyle, Reset)
	fmt.Println()

	probeCron := cfg.ProbeCron
	if probeCron == "" {
		probeCron = scheduler.DefaultProbeCron
	}
	reportCron := cfg.ReportCron
	if reportCron == "" {
		reportCron = scheduler.DefaultReportCron
	}

	fmt.Printf("%sJobs:%s\n", LabelStyle, Reset)
	fmt.Printf("  %s1. %s%s\n", CountStyle, Reset, FormatValue("Provider latency probes"))
	fmt.Printf("     %sCron: %s%s\n", DimStyle, probeCron, Reset)
	fmt.Printf("  %s2. %s%s\n", CountStyle, Reset, FormatValue("Daily review report"))
	fmt.Printf("     %sCron: %s%s\n", DimStyle, reportCron, Reset)
	fmt.Println()

	sched := scheduler.New(probeRunner, reportService, probeCron, reportCron)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	fmt.Printf("%s✅ Scheduler started successfully%s\n", SuccessStyle, Reset)
	fmt.Printf("%s📝 Press Ctrl+C to stop the scheduler%s\n", InfoStyle, Reset)
	fmt.Println()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	fmt.Printf("\n%s⏹️  Stopping scheduler...%s\n", InfoStyle, Reset)
	sched.Stop()
	fmt.Printf("%s✅ Scheduler stopped%s\n", SuccessStyle, Reset)

	return nil
}
