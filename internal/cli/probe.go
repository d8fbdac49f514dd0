package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe all configured providers once",
	Long:  `Run a latency probe against every configured LLM provider backend and store the results.`,
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("%s📡 Probing providers%s\n", InfoStyle, Reset)
	fmt.Printf("%s====================%s\n", DimStyle, Reset)
	fmt.Println()

	results := probeRunner.RunAll(ctx)
	if len(results) == 0 {
		fmt.Printf("%s❌ No providers configured%s\n", ErrorStyle, Reset)
		fmt.Printf("%s💡 Add provider API keys under 'providers:' in the config file%s\n", InfoStyle, Reset)
		return nil
	}

	for _, r := range results {
		if r.OK {
			fmt.Printf("%s %s\n", FormatSuccess("✅ "+r.ProviderID), FormatDim(fmt.Sprintf("%dms", r.LatencyMs)))
		} else {
			fmt.Printf("%s %s\n", FormatError("❌ "+r.ProviderID), FormatDim(r.Error))
		}
	}

	fmt.Println()
	fmt.Printf("%sProbed %s provider(s)%s\n", LabelStyle, FormatCount(len(results)), Reset)
	fmt.Printf("%sResults stored for the latency view%s\n", MetaStyle, Reset)
	return nil
}
