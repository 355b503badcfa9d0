package handlers

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"accountintel/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <opportunity-title>",
		Short: "Generate the six-section detail report for an opportunity",
		Long: `Generate the strategy report (想定仮説, 解決の方向性・コンセプト, 提案内容,
期待される効果, ROI試算, Why Fujitsu) for the given opportunity title and
save it as a styled HTML artifact under the static directory.

Examples:
  accountintel report "KDDI×UVANCE: 生成AI共創提案"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildComponents()
			if err != nil {
				return err
			}
			defer c.close()

			partnerNews, companyNews, partnerPress, companyPress := c.gatherNews()
			detail, err := c.reports.Generate(cmd.Context(), args[0], report.Input{
				PartnerNews:  partnerNews,
				CompanyNews:  companyNews,
				PartnerPress: partnerPress,
				CompanyPress: companyPress,
			})
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render(detail.OpportunityTitle))
			for _, section := range detail.Sections {
				fmt.Printf("■ %s (%d文字)\n", section.Name, len([]rune(section.Body)))
			}
			fmt.Println(successStyle.Render("保存先: " + filepath.Join(c.cfg.App.StaticDir, detail.Filename)))
			return nil
		},
	}
}
