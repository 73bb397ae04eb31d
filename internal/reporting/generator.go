package reporting

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bountylynx/bountylynx/pkg/models"
	"github.com/bountylynx/bountylynx/pkg/utils"
)

// Generator renders research result records into human-readable reports.
type Generator struct {
	cfg    models.ReportingConfig
	logger *logrus.Logger
}

func NewGenerator(cfg models.ReportingConfig, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./reports"
	}
	return &Generator{cfg: cfg, logger: logger}
}

// Generate renders the text report for one result record.
func (g *Generator) Generate(result *models.ResearchResult) string {
	var b strings.Builder

	b.WriteString("Bug Bounty Research Report\n")
	b.WriteString("============================\n")
	fmt.Fprintf(&b, "Session ID: %s\n", result.SessionID)
	fmt.Fprintf(&b, "Target: %s\n", result.Target)
	fmt.Fprintf(&b, "Generated: %s\n\n", result.Timestamp.Format(time.RFC3339))

	b.WriteString("Executive Summary\n")
	b.WriteString("-------------------\n")
	fmt.Fprintf(&b, "- Vulnerabilities Identified: %d\n", result.VulnerabilityCount)
	if est := result.EstimatedBounty; est != nil {
		fmt.Fprintf(&b, "- Estimated Bounty Range: %s - %s\n", est.Min, est.Max)
		fmt.Fprintf(&b, "- Confidence Level: %s\n", est.Confidence)
	}
	b.WriteString("\n")

	if result.Analysis != nil {
		b.WriteString("Vulnerability Analysis\n")
		b.WriteString("------------------------\n")
		for _, f := range result.Analysis.Vulnerabilities {
			fmt.Fprintf(&b, "\n- %s (%s)\n", f.Title, f.Severity)
			fmt.Fprintf(&b, "  Description: %s\n", f.Description)
			fmt.Fprintf(&b, "  PoC Template: %s\n", firstLine(f.PoCTemplate))
			fmt.Fprintf(&b, "  Confidence: %.0f%%\n", f.Confidence*100)
		}

		if len(result.Analysis.Recommended) > 0 {
			b.WriteString("\nRecommended Tools\n")
			b.WriteString("-------------------\n")
			for _, tool := range result.Analysis.Recommended {
				fmt.Fprintf(&b, "- %s: %s (%d stars)\n", tool.Name, tool.Description, tool.Stars)
			}
		}
	}

	if plan := result.ExecutionPlan; plan != nil {
		b.WriteString("\nExecution Plan (Premium)\n")
		b.WriteString("--------------------------\n")
		fmt.Fprintf(&b, "- Estimated Time: %s\n", plan.EstimatedTime)
		fmt.Fprintf(&b, "- Testing Phases: %d\n", len(plan.TestingPhases))
		fmt.Fprintf(&b, "- Automation Scripts: %d\n", len(plan.AutomationScripts))
	}

	if sb := result.SandboxTesting; sb != nil {
		b.WriteString("\nSandbox Testing Summary\n")
		b.WriteString("-------------------------\n")
		fmt.Fprintf(&b, "- Tests Executed: %d\n", sb.TestsExecuted)
		fmt.Fprintf(&b, "- Vulnerabilities Confirmed: %d\n", len(sb.VulnerabilitiesConfirmed))
		fmt.Fprintf(&b, "- Testing Environments: %d\n", len(sb.TestingEnvironments))
	}

	return b.String()
}

// WriteReport renders the report and writes it under the configured output
// directory, returning the file path.
func (g *Generator) WriteReport(result *models.ResearchResult) (string, error) {
	if err := utils.EnsureDir(g.cfg.OutputDir); err != nil {
		return "", fmt.Errorf("ensure report dir: %w", err)
	}

	name := fmt.Sprintf("research_%s_%s.txt", result.SessionID, result.Timestamp.Format("20060102_150405"))
	path := filepath.Join(g.cfg.OutputDir, name)

	if err := utils.SafeWriteFile(path, []byte(g.Generate(result)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	g.logger.Infof("Report written to %s", path)
	return path, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
