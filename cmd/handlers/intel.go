package handlers

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewIntelCmd creates the intel command group.
func NewIntelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intel",
		Short: "Manage the accumulated partner intelligence log",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "accumulate",
		Short: "Fetch partner sources and append unseen entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()

			result := c.intelLog.Accumulate(c.feeds)
			fmt.Println(successStyle.Render(fmt.Sprintf("新規%d件を蓄積（総数%d件）", result.NewEntries, result.TotalEntries)))
			if len(result.Themes) > 0 {
				fmt.Println(dimStyle.Render("検出テーマ: " + fmt.Sprint(result.Themes)))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show the newest intelligence entries with detected themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()

			fmt.Println(c.intelLog.Summary(15))
			return nil
		},
	})

	return cmd
}
