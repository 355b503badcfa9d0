// Package handlers defines the CLI commands and wires the application
// components together from configuration.
package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"accountintel/internal/config"
	"accountintel/internal/contextlib"
	"accountintel/internal/core"
	"accountintel/internal/feeds"
	"accountintel/internal/gamma"
	"accountintel/internal/history"
	"accountintel/internal/intel"
	"accountintel/internal/llm"
	"accountintel/internal/logger"
	"accountintel/internal/opportunity"
	"accountintel/internal/proposal"
	"accountintel/internal/report"
	"accountintel/internal/scheduler"
	"accountintel/internal/store"
)

var cfgFile string

// Shared terminal styles.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	scoreStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "accountintel",
		Short: "Account intelligence dashboard for the Fujitsu x KDDI partnership",
		Long: `accountintel aggregates partner news and press releases, generates ranked
business opportunities, builds six-section strategy reports, and runs the
weekly hypothesis-proposal pipeline with optional Gamma slide rendering.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.accountintel.yaml)")

	rootCmd.AddCommand(NewOpportunitiesCmd())
	rootCmd.AddCommand(NewReportCmd())
	rootCmd.AddCommand(NewWeeklyCmd())
	rootCmd.AddCommand(NewProposeCmd())
	rootCmd.AddCommand(NewIntelCmd())
	rootCmd.AddCommand(NewContextCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// components holds the wired application parts shared by all commands.
type components struct {
	cfg           *config.Config
	client        llm.Client
	cache         *store.Store
	history       *history.Store
	intelLog      *intel.Log
	contexts      *contextlib.Library
	feeds         *feeds.Fetcher
	gamma         *gamma.Client
	opportunities *opportunity.Generator
	reports       *report.Generator
	scheduler     *scheduler.Scheduler
}

// buildComponents loads configuration and constructs the component graph. A
// missing AI credential degrades to mock mode rather than failing.
func buildComponents() (*components, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := llm.New(cfg)
	if err != nil {
		logger.Warn("AI backend unavailable, using mock data", "error", err.Error())
		client = nil
	}

	cache, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return nil, err
	}
	hist, err := history.NewStore(cfg.App.DataDir)
	if err != nil {
		return nil, err
	}
	intelLog, err := intel.NewLog(cfg.App.DataDir)
	if err != nil {
		return nil, err
	}
	contexts, err := contextlib.NewLibrary(filepath.Join(cfg.App.DataDir, "context"))
	if err != nil {
		return nil, err
	}

	fetcher := feeds.NewFetcher(cfg)
	gammaClient := gamma.NewClient(cfg)
	pipeline := proposal.NewPipeline(client, intelLog, contexts, hist, gammaClient.Available())

	return &components{
		cfg:           cfg,
		client:        client,
		cache:         cache,
		history:       hist,
		intelLog:      intelLog,
		contexts:      contexts,
		feeds:         fetcher,
		gamma:         gammaClient,
		opportunities: opportunity.NewGenerator(client, cache, hist),
		reports:       report.NewGenerator(client, cache, cfg.App.StaticDir),
		scheduler:     scheduler.New(client, fetcher, intelLog, pipeline, gammaClient, hist, cfg.App.StaticDir),
	}, nil
}

func (c *components) close() {
	if err := c.cache.Close(); err != nil {
		logger.Warn("cache close failed", "error", err.Error())
	}
}

// gatherNews fetches the article-title bundle fed to the generators.
func (c *components) gatherNews() (partnerNews, companyNews, partnerPress, companyPress []string) {
	return articleTitles(c.feeds.Search("KDDI", 8)),
		articleTitles(c.feeds.Search("富士通", 8)),
		articleTitles(c.feeds.PartnerPressReleases(5)),
		articleTitles(c.feeds.CompanyPressReleases(5))
}

func articleTitles(articles []core.Article) []string {
	var titles []string
	for _, a := range articles {
		if a.Title != "" {
			titles = append(titles, a.Title)
		}
	}
	return titles
}
