package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Finding is a single vulnerability intelligence record produced by a
// research module. It is a plain value object and is never mutated after
// construction.
type Finding struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	PoCTemplate string    `json:"poc_template"`
	Confidence  float64   `json:"confidence"`
	Sources     []string  `json:"sources"`
	Timestamp   time.Time `json:"timestamp"`
}

func (f Finding) Validate() error {
	if f.Title == "" {
		return fmt.Errorf("finding title is required")
	}
	switch f.Severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
	default:
		return fmt.Errorf("invalid severity: %s", f.Severity)
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1")
	}
	return nil
}

// IsActionable reports whether the finding is severe enough to drive
// execution planning and sandbox testing.
func (f Finding) IsActionable() bool {
	return f.Severity == SeverityHigh || f.Severity == SeverityCritical
}

// SlugTitle returns the finding title in snake_case for use in script and
// test names.
func (f Finding) SlugTitle() string {
	return strings.ReplaceAll(strings.ToLower(f.Title), " ", "_")
}
