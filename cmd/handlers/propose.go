package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"accountintel/internal/core"
)

// NewProposeCmd creates the propose command.
func NewProposeCmd() *cobra.Command {
	var reportFile string

	cmd := &cobra.Command{
		Use:   "propose <opportunity-title>",
		Short: "Generate a hypothesis proposal for a chosen opportunity",
		Long: `Run the proposal pipeline for a user-chosen opportunity, bypassing the
weekly schedule. An existing detail report can be supplied as context with
--report-file.

Examples:
  accountintel propose "KDDI×UVANCE: 生成AI共創提案"
  accountintel propose "5G協業提案" --report-file report.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()

			reportContent := ""
			if reportFile != "" {
				data, err := os.ReadFile(reportFile)
				if err != nil {
					return fmt.Errorf("failed to read report file: %w", err)
				}
				reportContent = string(data)
			}

			result := c.scheduler.RunManual(cmd.Context(), args[0], reportContent, printProgress)
			return printRunResult(result)
		},
	}

	cmd.Flags().StringVar(&reportFile, "report-file", "", "Markdown report to feed into the proposal prompt")
	return cmd
}

func printRunResult(result *core.RunResult) error {
	if !result.Success {
		fmt.Println(errorStyle.Render(result.Error))
		return fmt.Errorf("generation failed: %s", result.Error)
	}

	fmt.Println(successStyle.Render("生成完了: " + result.OpportunityTitle))
	fmt.Printf("スライド数: %d / 品質スコア計算済み\n", result.Metadata.SlideCount)
	if result.GammaURL != "" {
		fmt.Println("Gamma URL: " + result.GammaURL)
	}
	if result.Metadata.GammaError != "" {
		fmt.Println(dimStyle.Render("スライド生成スキップ: " + result.Metadata.GammaError))
	}
	return nil
}
