package handlers

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWeeklyCmd creates the weekly command.
func NewWeeklyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Run the weekly proposal generation flow",
		Long: `Run the automatic flow: accumulate partner intelligence, select an
opportunity title from the freshest news, generate the hypothesis proposal,
render slides through Gamma when configured, and record the run.

The flow only fires when the last run is seven days old or older; use
--force to override the schedule.

Examples:
  accountintel weekly
  accountintel weekly --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()

			if !c.scheduler.IsGenerationDue() && !force {
				days := c.scheduler.DaysSinceLastGeneration()
				fmt.Println(dimStyle.Render(fmt.Sprintf("前回の生成から%d日です。次回は7日経過後に実行されます（--forceで強制実行）。", days)))
				return nil
			}

			result := c.scheduler.RunWeekly(cmd.Context(), printProgress)
			return printRunResult(result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Run even when the weekly schedule is not due")
	return cmd
}

func printProgress(pct int, status string) {
	fmt.Printf("%s %s\n", scoreStyle.Render(fmt.Sprintf("[%3d%%]", pct)), status)
}
