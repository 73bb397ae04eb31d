package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindingValidate(t *testing.T) {
	tests := []struct {
		name    string
		finding Finding
		wantErr bool
	}{
		{
			name:    "valid",
			finding: Finding{Title: "IDOR", Severity: SeverityHigh, Confidence: 0.8},
		},
		{
			name:    "missing title",
			finding: Finding{Severity: SeverityHigh, Confidence: 0.8},
			wantErr: true,
		},
		{
			name:    "bad severity",
			finding: Finding{Title: "IDOR", Severity: "EXTREME", Confidence: 0.8},
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			finding: Finding{Title: "IDOR", Severity: SeverityLow, Confidence: 1.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.finding.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindingIsActionable(t *testing.T) {
	assert.True(t, Finding{Severity: SeverityHigh}.IsActionable())
	assert.True(t, Finding{Severity: SeverityCritical}.IsActionable())
	assert.False(t, Finding{Severity: SeverityMedium}.IsActionable())
	assert.False(t, Finding{Severity: SeverityLow}.IsActionable())
}

func TestFindingSlugTitle(t *testing.T) {
	f := Finding{Title: "2FA Race Condition Bypass"}
	assert.Equal(t, "2fa_race_condition_bypass", f.SlugTitle())
}
