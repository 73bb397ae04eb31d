package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bountylynx/bountylynx/pkg/models"
)

// AgentConfig mirrors the bedrock-agent-config.json file shipped alongside
// the IAM policy documents.
type AgentConfig struct {
	AgentName       string `json:"agentName"`
	Description     string `json:"description"`
	FoundationModel string `json:"foundationModel"`
	Instruction     string `json:"instruction"`
}

// Command is one deployment step with its validation check.
type Command struct {
	Step        string `json:"step"`
	Description string `json:"description"`
	Command     string `json:"command"`
	Validation  string `json:"validation"`
}

// ValidationIssue reports one problem found during pre-deployment checks.
type ValidationIssue struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// Helper generates the aws-cli deployment sequence for hosting the research
// agent behind a Bedrock agent endpoint.
type Helper struct {
	cfg    models.DeployConfig
	logger *logrus.Logger
}

func NewHelper(cfg models.DeployConfig, logger *logrus.Logger) *Helper {
	if logger == nil {
		logger = logrus.New()
	}
	return &Helper{cfg: cfg, logger: logger}
}

// LoadAgentConfig reads and validates the agent configuration file.
func (h *Helper) LoadAgentConfig() (*AgentConfig, error) {
	path := filepath.Join(h.cfg.PolicyDir, "bedrock-agent-config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bedrock-agent-config.json not found: %w", err)
	}

	var cfg AgentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	var missing []string
	if cfg.AgentName == "" {
		missing = append(missing, "agentName")
	}
	if cfg.Description == "" {
		missing = append(missing, "description")
	}
	if cfg.FoundationModel == "" {
		missing = append(missing, "foundationModel")
	}
	if cfg.Instruction == "" {
		missing = append(missing, "instruction")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	return &cfg, nil
}

// ValidatePolicyFiles checks the IAM policy documents. Every problem is
// collected and reported; validation keeps going past the first failure.
func (h *Helper) ValidatePolicyFiles() []ValidationIssue {
	files := map[string]string{
		"trust-policy.json":      "IAM trust policy",
		"permission-policy.json": "IAM permission policy",
	}

	var issues []ValidationIssue
	for filename, description := range files {
		path := filepath.Join(h.cfg.PolicyDir, filename)
		data, err := os.ReadFile(path)
		if err != nil {
			issues = append(issues, ValidationIssue{File: filename, Message: description + " file missing"})
			continue
		}
		if !json.Valid(data) {
			issues = append(issues, ValidationIssue{File: filename, Message: description + " invalid JSON"})
		}
	}
	return issues
}

// Commands generates the aws-cli deployment step sequence.
func (h *Helper) Commands(agent *AgentConfig) []Command {
	role := h.cfg.RoleName
	region := h.cfg.Region
	agentIDQuery := fmt.Sprintf("$(aws bedrock-agent list-agents --query 'agentSummaries[?agentName==`%s`].agentId' --output text)", agent.AgentName)

	return []Command{
		{
			Step:        "1. Create IAM Role",
			Description: "Create IAM role with Bedrock trust relationship",
			Command: fmt.Sprintf("aws iam create-role \\\n    --role-name %s \\\n    --assume-role-policy-document file://trust-policy.json \\\n    --description \"IAM role for the bug bounty research agent on Amazon Bedrock\" \\\n    --region %s",
				role, region),
			Validation: fmt.Sprintf("aws iam get-role --role-name %s --query 'Role.Arn' --output text", role),
		},
		{
			Step:        "2. Attach IAM Policy",
			Description: "Attach permissions policy to the role",
			Command: fmt.Sprintf("aws iam put-role-policy \\\n    --role-name %s \\\n    --policy-name BountylynxAgentPolicy \\\n    --policy-document file://permission-policy.json",
				role),
			Validation: fmt.Sprintf("aws iam list-role-policies --role-name %s", role),
		},
		{
			Step:        "3. Create Bedrock Agent",
			Description: "Create the agent with the configured foundation model",
			Command: fmt.Sprintf("aws bedrock-agent create-agent \\\n    --agent-name \"%s\" \\\n    --description \"%s\" \\\n    --foundation-model \"%s\" \\\n    --instruction '%s' \\\n    --agent-role-arn \"arn:aws:iam::$(aws sts get-caller-identity --query Account --output text):role/%s\" \\\n    --region %s",
				agent.AgentName, agent.Description, agent.FoundationModel, agent.Instruction, role, region),
			Validation: fmt.Sprintf("aws bedrock-agent list-agents --query 'agentSummaries[?agentName==`%s`]' --output table", agent.AgentName),
		},
		{
			Step:        "4. Prepare Agent",
			Description: "Create working draft for the agent",
			Command:     fmt.Sprintf("aws bedrock-agent prepare-agent \\\n    --agent-id %s \\\n    --region %s", agentIDQuery, region),
			Validation:  "# Check agent status shows PREPARED",
		},
		{
			Step:        "5. Create Production Alias",
			Description: "Create alias for production testing",
			Command:     fmt.Sprintf("aws bedrock-agent create-agent-alias \\\n    --agent-id %s \\\n    --agent-alias-name \"production\" \\\n    --description \"Production alias for the research agent\" \\\n    --region %s", agentIDQuery, region),
			Validation:  "# Agent alias created successfully",
		},
		{
			Step:        "6. Test Agent",
			Description: "Test with an IDOR analysis query",
			Command:     fmt.Sprintf("aws bedrock-agent-runtime invoke-agent \\\n    --agent-id %s \\\n    --session-id \"test-session-$(date +%%s)\" \\\n    --input-text \"Research IDOR vulnerabilities with Burp Suite payload generation\" \\\n    --region %s", agentIDQuery, region),
			Validation:  "# Should return structured vulnerability analysis",
		},
	}
}

// CostEstimate is a rough cost breakdown for running the hosted agent.
type CostEstimate struct {
	Deployment map[string]string `json:"deployment_costs"`
	Usage      map[string]string `json:"usage_costs"`
	Tips       []string          `json:"cost_optimization_tips"`
}

func (h *Helper) EstimateCosts() CostEstimate {
	return CostEstimate{
		Deployment: map[string]string{
			"IAM roles":              "$0.00 (free)",
			"Bedrock agent creation": "$0.00 (free)",
			"S3 storage":             "$0.00 (within free tier)",
		},
		Usage: map[string]string{
			"Claude 3 Sonnet input":          "$0.003 per 1K tokens",
			"Claude 3 Sonnet output":         "$0.015 per 1K tokens",
			"Typical vulnerability analysis": "$0.01 - $0.05 per query",
			"Daily testing (50 queries)":     "$0.50 - $2.50",
			"Monthly development":            "$15 - $75",
		},
		Tips: []string{
			"Use shorter test queries during development",
			"Clean up test resources regularly",
			"Set billing alerts at $10, $25, $50",
			"Monitor usage with AWS Cost Explorer",
		},
	}
}

// WriteGuide renders the full deployment sequence as a markdown document and
// writes it next to the policy files.
func (h *Helper) WriteGuide(agent *AgentConfig) (string, error) {
	var b strings.Builder

	b.WriteString("# Bedrock Agent Deployment Guide\n\n")
	fmt.Fprintf(&b, "Agent: **%s** (%s)\n\n", agent.AgentName, agent.FoundationModel)
	fmt.Fprintf(&b, "Region: %s\n\n", h.cfg.Region)

	b.WriteString("## Deployment Steps\n")
	for _, step := range h.Commands(agent) {
		fmt.Fprintf(&b, "\n### %s\n\n", step.Step)
		fmt.Fprintf(&b, "%s\n\n", step.Description)
		fmt.Fprintf(&b, "```bash\n%s\n```\n", step.Command)
		if step.Validation != "" {
			fmt.Fprintf(&b, "\nVerify:\n\n```bash\n%s\n```\n", step.Validation)
		}
	}

	estimate := h.EstimateCosts()
	b.WriteString("\n## Estimated Costs\n\n")
	for item, cost := range estimate.Deployment {
		fmt.Fprintf(&b, "- %s: %s\n", item, cost)
	}
	for item, cost := range estimate.Usage {
		fmt.Fprintf(&b, "- %s: %s\n", item, cost)
	}
	b.WriteString("\n## Cost Optimization\n\n")
	for _, tip := range estimate.Tips {
		fmt.Fprintf(&b, "- %s\n", tip)
	}

	path := filepath.Join(h.cfg.PolicyDir, "DEPLOYMENT_GUIDE.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write deployment guide: %w", err)
	}

	h.logger.Infof("Deployment guide written to %s", path)
	return path, nil
}
