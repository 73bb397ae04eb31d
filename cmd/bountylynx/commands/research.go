package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bountylynx/bountylynx/internal/agent"
	"github.com/bountylynx/bountylynx/internal/reporting"
	"github.com/bountylynx/bountylynx/internal/research"
	"github.com/bountylynx/bountylynx/pkg/models"
	"github.com/bountylynx/bountylynx/pkg/utils"
)

func NewResearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research [target]...",
		Short: "Run the research pipeline against one or more targets",
		Long: `Run the full research pipeline against each target: reconnaissance through
public intelligence tools, vulnerability analysis, execution planning and
bounty estimation. Premium sessions can additionally confirm findings in an
isolated container environment.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runResearch,
	}

	cmd.Flags().StringSliceP("categories", "C", research.AllCategories(), "Vulnerability categories to analyze")
	cmd.Flags().Bool("premium", false, "Run with premium access (unlimited sessions, sandbox eligible)")
	cmd.Flags().StringP("api-key", "k", "", "Premium API key")
	cmd.Flags().Bool("sandbox", false, "Confirm actionable findings in an isolated container (premium only)")
	cmd.Flags().Bool("report", false, "Write a text report per target")
	cmd.Flags().IntP("timeout", "t", 10, "Per-target timeout in minutes")
	_ = viper.BindPFlag("research.categories", cmd.Flags().Lookup("categories"))
	_ = viper.BindPFlag("research.premium", cmd.Flags().Lookup("premium"))
	_ = viper.BindPFlag("research.api_key", cmd.Flags().Lookup("api-key"))
	_ = viper.BindPFlag("research.sandbox", cmd.Flags().Lookup("sandbox"))
	_ = viper.BindPFlag("research.report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("research.timeout", cmd.Flags().Lookup("timeout"))

	return cmd
}

func runResearch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	opts := agent.Options{
		APIKey:     viper.GetString("research.api_key"),
		Premium:    viper.GetBool("research.premium"),
		UseSandbox: viper.GetBool("research.sandbox"),
	}
	if opts.APIKey == "" {
		opts.APIKey = cfg.Access.APIKey
	}
	if opts.UseSandbox && !opts.Premium {
		logrus.Warn("Sandbox testing requires premium access, continuing without it")
		opts.UseSandbox = false
	}

	metrics := utils.NewAgentMetrics(false)
	a := agent.New(cfg, opts, logrus.StandardLogger(), metrics)
	logrus.Infof("Research session started: %s", a.SessionID())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()
	defer a.Cleanup(context.Background())

	categories := viper.GetStringSlice("research.categories")
	timeout := time.Duration(viper.GetInt("research.timeout")) * time.Minute
	generator := reporting.NewGenerator(cfg.Reporting, logrus.StandardLogger())

	for _, target := range args {
		targetCtx, targetCancel := context.WithTimeout(ctx, timeout)
		result, err := a.Research(targetCtx, target, categories)
		targetCancel()
		if err != nil {
			logrus.Errorf("Research failed for %s: %v", target, err)
			continue
		}
		if result.Denied() {
			fmt.Printf("\n%s: %s\n", target, result.Error)
			fmt.Println("Upgrade to premium or wait for the next billing cycle.")
			continue
		}

		displayResult(result)

		if viper.GetBool("research.report") {
			path, werr := generator.WriteReport(result)
			if werr != nil {
				logrus.Warnf("Failed to write report: %v", werr)
			} else {
				logrus.Infof("Report written: %s", path)
			}
		}
	}

	path, err := a.SaveSession()
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	logrus.Infof("Session saved: %s", path)
	return nil
}

func displayResult(result *models.ResearchResult) {
	fmt.Printf(`
Research Summary:
═══════════════════════════════════════════════════════════════
Target:            %s
Session:           %s
Vulnerabilities:   %d
Estimated Bounty:  %s - %s (%s confidence)
`, result.Target, result.SessionID, result.VulnerabilityCount,
		result.EstimatedBounty.Min, result.EstimatedBounty.Max, result.EstimatedBounty.Confidence)

	if result.Analysis != nil {
		for _, f := range result.Analysis.Vulnerabilities {
			fmt.Printf("  [%s] %s (confidence %.2f)\n", f.Severity, f.Title, f.Confidence)
		}
	}

	if result.SandboxTesting != nil {
		fmt.Printf("Sandbox:           %d tests, %d confirmed\n",
			result.SandboxTesting.TestsExecuted, len(result.SandboxTesting.VulnerabilitiesConfirmed))
	}
	fmt.Println("═══════════════════════════════════════════════════════════════")
}
