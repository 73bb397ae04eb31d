package deploy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bountylynx/bountylynx/pkg/models"
)

func testDeployConfig(dir string) models.DeployConfig {
	return models.DeployConfig{
		Region:    "us-east-1",
		AgentName: "bountylynx-research-agent",
		RoleName:  "BountylynxBedrockAgentRole",
		PolicyDir: dir,
	}
}

func writeDeployFiles(t *testing.T, dir string) {
	t.Helper()
	agentCfg := `{
		"agentName": "bountylynx-research-agent",
		"description": "Research agent",
		"foundationModel": "anthropic.claude-3-sonnet-20240229-v1:0",
		"instruction": "Analyze targets for vulnerabilities"
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bedrock-agent-config.json"), []byte(agentCfg), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trust-policy.json"), []byte(`{"Version":"2012-10-17"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "permission-policy.json"), []byte(`{"Version":"2012-10-17"}`), 0o644))
}

func TestLoadAgentConfig(t *testing.T) {
	dir := t.TempDir()
	writeDeployFiles(t, dir)

	h := NewHelper(testDeployConfig(dir), nil)
	cfg, err := h.LoadAgentConfig()
	require.NoError(t, err)
	assert.Equal(t, "bountylynx-research-agent", cfg.AgentName)
	assert.Equal(t, "anthropic.claude-3-sonnet-20240229-v1:0", cfg.FoundationModel)
}

func TestLoadAgentConfigMissingFile(t *testing.T) {
	h := NewHelper(testDeployConfig(t.TempDir()), nil)

	_, err := h.LoadAgentConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bedrock-agent-config.json not found")
}

func TestLoadAgentConfigMissingFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bedrock-agent-config.json"),
		[]byte(`{"agentName":"x"}`), 0o644))

	h := NewHelper(testDeployConfig(dir), nil)
	_, err := h.LoadAgentConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
	assert.Contains(t, err.Error(), "foundationModel")
	assert.Contains(t, err.Error(), "instruction")
}

func TestValidatePolicyFiles(t *testing.T) {
	dir := t.TempDir()
	writeDeployFiles(t, dir)

	h := NewHelper(testDeployConfig(dir), nil)
	assert.Empty(t, h.ValidatePolicyFiles())
}

func TestValidatePolicyFilesCollectsAllIssues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trust-policy.json"), []byte("{broken"), 0o644))

	h := NewHelper(testDeployConfig(dir), nil)
	issues := h.ValidatePolicyFiles()
	require.Len(t, issues, 2)

	byFile := map[string]string{}
	for _, issue := range issues {
		byFile[issue.File] = issue.Message
	}
	assert.Contains(t, byFile["trust-policy.json"], "invalid JSON")
	assert.Contains(t, byFile["permission-policy.json"], "missing")
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	writeDeployFiles(t, dir)
	h := NewHelper(testDeployConfig(dir), nil)

	agentCfg, err := h.LoadAgentConfig()
	require.NoError(t, err)

	cmds := h.Commands(agentCfg)
	require.Len(t, cmds, 6)
	assert.Contains(t, cmds[0].Command, "aws iam create-role")
	assert.Contains(t, cmds[0].Command, "BountylynxBedrockAgentRole")
	assert.Contains(t, cmds[2].Command, "aws bedrock-agent create-agent")
	assert.Contains(t, cmds[2].Command, "anthropic.claude-3-sonnet-20240229-v1:0")
	assert.Contains(t, cmds[5].Command, "invoke-agent")
	for _, cmd := range cmds {
		assert.NotEmpty(t, cmd.Step)
		assert.NotEmpty(t, cmd.Description)
		assert.NotEmpty(t, cmd.Command)
	}
}

func TestEstimateCosts(t *testing.T) {
	h := NewHelper(testDeployConfig(t.TempDir()), nil)
	estimate := h.EstimateCosts()

	assert.Contains(t, estimate.Deployment, "IAM roles")
	assert.Contains(t, estimate.Usage, "Claude 3 Sonnet input")
	assert.NotEmpty(t, estimate.Tips)
}

func TestWriteGuide(t *testing.T) {
	dir := t.TempDir()
	writeDeployFiles(t, dir)
	h := NewHelper(testDeployConfig(dir), nil)

	agentCfg, err := h.LoadAgentConfig()
	require.NoError(t, err)

	path, err := h.WriteGuide(agentCfg)
	require.NoError(t, err)
	assert.Equal(t, "DEPLOYMENT_GUIDE.md", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	guide := string(data)
	assert.Contains(t, guide, "# Bedrock Agent Deployment Guide")
	assert.Contains(t, guide, "aws bedrock-agent create-agent")
	assert.Contains(t, guide, "## Estimated Costs")
}
