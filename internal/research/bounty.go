package research

import (
	"fmt"

	"github.com/bountylynx/bountylynx/pkg/models"
)

// Severity-indexed base payouts, loosely tracking 2025 market rates.
var severityBase = map[string]int{
	models.SeverityCritical: 8000,
	models.SeverityHigh:     3000,
	models.SeverityMedium:   800,
	models.SeverityLow:      200,
}

const defaultBase = 500

// SingleBounty returns the base payout for one finding.
func SingleBounty(f models.Finding) int {
	if base, ok := severityBase[f.Severity]; ok {
		return base
	}
	return defaultBase
}

// EstimateBounty computes the aggregate payout range for a finding set.
// Each finding's base amount is scaled by a severity-specific factor pair
// and summed. Overall confidence is medium only once more than two findings
// are on the table.
func EstimateBounty(findings []models.Finding) models.BountyEstimate {
	if len(findings) == 0 {
		return models.BountyEstimate{Min: "$0", Max: "$0", Confidence: "low"}
	}

	var totalMin, totalMax float64
	for _, f := range findings {
		base := float64(SingleBounty(f))
		switch f.Severity {
		case models.SeverityCritical:
			totalMin += base * 0.7
			totalMax += base * 1.5
		case models.SeverityHigh:
			totalMin += base * 0.5
			totalMax += base * 1.2
		default:
			totalMin += base * 0.3
			totalMax += base * 0.8
		}
	}

	confidence := "low"
	if len(findings) > 2 {
		confidence = "medium"
	}

	return models.BountyEstimate{
		Min:        fmt.Sprintf("$%d", int(totalMin)),
		Max:        fmt.Sprintf("$%d", int(totalMax)),
		Confidence: confidence,
	}
}
