package models

import "time"

// ReconData aggregates the intelligence gathered during the recon phase.
// Each entry is the raw response mapping returned by one tool adapter.
type ReconData struct {
	ThreatIntel map[string]interface{} `json:"threat_intel"`
	Tools       map[string]interface{} `json:"tools_available"`
	PublicIntel map[string]interface{} `json:"public_intel"`
	DNSIntel    DNSIntel               `json:"dns_intel,omitempty"`
}

// DNSIntel carries the supplemental DNS sweep of the target. Lookup
// failures leave it empty rather than failing recon.
type DNSIntel struct {
	Domain      string   `json:"domain,omitempty"`
	Addresses   []string `json:"addresses,omitempty"`
	Nameservers []string `json:"nameservers,omitempty"`
}

// ToolRecommendation is a code-host repository suggested during analysis.
type ToolRecommendation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Relevance   string `json:"relevance"`
}

type AnalysisData struct {
	Vulnerabilities []Finding            `json:"vulnerabilities"`
	AttackVectors   []string             `json:"attack_vectors"`
	Recommended     []ToolRecommendation `json:"tools_recommended"`
}

type TestingPhase struct {
	Phase              string `json:"phase"`
	Method             string `json:"method"`
	ExpectedOutcome    string `json:"expected_outcome"`
	AutomationPossible bool   `json:"automation_possible"`
}

type ExecutionPlan struct {
	TestingPhases      []TestingPhase `json:"testing_phases"`
	EstimatedTime      string         `json:"estimated_time"`
	AutomationScripts  []string       `json:"automation_scripts"`
	ReportingTemplates []string       `json:"reporting_templates"`
}

// SandboxTest records one script execution inside the isolated environment.
type SandboxTest struct {
	Vulnerability string `json:"vulnerability"`
	TestOutput    string `json:"test_output"`
	Confidence    string `json:"confidence"`
}

type SandboxEnvironmentInfo struct {
	Type           string   `json:"type"`
	Tools          []string `json:"tools"`
	IsolationLevel string   `json:"isolation_level"`
}

type SandboxReport struct {
	ContainersCreated      int                      `json:"containers_created"`
	TestsExecuted          int                      `json:"tests_executed"`
	VulnerabilitiesConfirmed []SandboxTest          `json:"vulnerabilities_confirmed"`
	TestingEnvironments    []SandboxEnvironmentInfo `json:"testing_environments"`
	Error                  string                   `json:"error,omitempty"`
}

type BountyEstimate struct {
	Min        string `json:"min"`
	Max        string `json:"max"`
	Confidence string `json:"confidence"`
}

// ResearchResult is the record returned by one orchestration call. It is
// assembled once and never mutated after return.
type ResearchResult struct {
	SessionID          string         `json:"session_id,omitempty"`
	Target             string         `json:"target,omitempty"`
	Timestamp          time.Time      `json:"timestamp,omitempty"`
	Recon              *ReconData     `json:"recon_data,omitempty"`
	Analysis           *AnalysisData  `json:"analysis_data,omitempty"`
	ExecutionPlan      *ExecutionPlan `json:"execution_plan,omitempty"`
	SandboxTesting     *SandboxReport `json:"sandbox_testing,omitempty"`
	VulnerabilityCount int            `json:"vulnerability_count"`
	EstimatedBounty    *BountyEstimate `json:"estimated_bounty_range,omitempty"`
	Error              string         `json:"error,omitempty"`
}

// Denied reports whether the result carries only an access-denial error.
func (r *ResearchResult) Denied() bool {
	return r.Error != "" && r.Analysis == nil
}
