package reporting

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bountylynx/bountylynx/pkg/models"
)

func sampleResult() *models.ResearchResult {
	return &models.ResearchResult{
		SessionID:          "abc12345",
		Target:             "example",
		Timestamp:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		VulnerabilityCount: 1,
		EstimatedBounty:    &models.BountyEstimate{Min: "$1500", Max: "$3600", Confidence: "low"},
		Analysis: &models.AnalysisData{
			Vulnerabilities: []models.Finding{
				{
					Title:       "Sequential ID Enumeration",
					Description: "Sequential wallet IDs are guessable",
					Severity:    models.SeverityHigh,
					PoCTemplate: "probe('/api/v2/wallets/1')\nsecond line",
					Confidence:  0.78,
				},
			},
			Recommended: []models.ToolRecommendation{
				{Name: "crypto-idor-scanner", Description: "IDOR detection for crypto APIs", Stars: 234, Relevance: "high"},
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	g := NewGenerator(models.ReportingConfig{}, nil)
	report := g.Generate(sampleResult())

	assert.Contains(t, report, "Bug Bounty Research Report")
	assert.Contains(t, report, "Session ID: abc12345")
	assert.Contains(t, report, "Target: example")
	assert.Contains(t, report, "Vulnerabilities Identified: 1")
	assert.Contains(t, report, "Estimated Bounty Range: $1500 - $3600")
	assert.Contains(t, report, "Sequential ID Enumeration (HIGH)")
	assert.Contains(t, report, "Confidence: 78%")
	assert.Contains(t, report, "crypto-idor-scanner")
	// Only the first PoC line appears in the report.
	assert.Contains(t, report, "probe('/api/v2/wallets/1')")
	assert.NotContains(t, report, "second line")
}

func TestGeneratePremiumSections(t *testing.T) {
	result := sampleResult()
	result.ExecutionPlan = &models.ExecutionPlan{
		TestingPhases:     []models.TestingPhase{{Phase: "Test Sequential ID Enumeration"}},
		EstimatedTime:     "4-6 hours",
		AutomationScripts: []string{"example_idor_scanner.py"},
	}
	result.SandboxTesting = &models.SandboxReport{
		TestsExecuted:            2,
		VulnerabilitiesConfirmed: []models.SandboxTest{{Vulnerability: "Sequential ID Enumeration"}},
		TestingEnvironments:      []models.SandboxEnvironmentInfo{{Type: "Kali Linux"}},
	}

	g := NewGenerator(models.ReportingConfig{}, nil)
	report := g.Generate(result)

	assert.Contains(t, report, "Execution Plan (Premium)")
	assert.Contains(t, report, "Estimated Time: 4-6 hours")
	assert.Contains(t, report, "Sandbox Testing Summary")
	assert.Contains(t, report, "Tests Executed: 2")
	assert.Contains(t, report, "Vulnerabilities Confirmed: 1")
}

func TestGenerateFreeTierOmitsPremiumSections(t *testing.T) {
	g := NewGenerator(models.ReportingConfig{}, nil)
	report := g.Generate(sampleResult())

	assert.NotContains(t, report, "Execution Plan")
	assert.NotContains(t, report, "Sandbox Testing Summary")
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(models.ReportingConfig{OutputDir: dir}, nil)

	path, err := g.WriteReport(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, path, "research_abc12345_20260801_120000.txt")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bug Bounty Research Report")
}
