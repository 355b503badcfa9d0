package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"accountintel/internal/opportunity"
)

// NewOpportunitiesCmd creates the opportunities command.
func NewOpportunitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "opportunities",
		Short: "Generate ranked business opportunities from fresh news",
		Long: `Fetch the latest partner and company news, then generate up to three
ranked opportunity candidates. Without an AI credential a fixed mock list
is shown instead.

Examples:
  accountintel opportunities`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()

			partnerNews, companyNews, partnerPress, companyPress := c.gatherNews()
			opportunities := c.opportunities.Generate(cmd.Context(), opportunity.Input{
				PartnerNews:  partnerNews,
				CompanyNews:  companyNews,
				PartnerPress: partnerPress,
				CompanyPress: companyPress,
			})

			fmt.Println(titleStyle.Render("ビジネスオポチュニティ"))
			for i, opp := range opportunities {
				fmt.Printf("%d. %s %s\n", i+1, opp.Title, scoreStyle.Render(fmt.Sprintf("[%d点]", opp.Score)))
				fmt.Println(dimStyle.Render(fmt.Sprintf("   %s / %s", opp.UvanceArea, opp.ScoreReason)))
			}
			return nil
		},
	}
}
