package agent

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bountylynx/bountylynx/internal/research"
	"github.com/bountylynx/bountylynx/internal/sandbox"
	"github.com/bountylynx/bountylynx/pkg/models"
)

// stubEnv is an in-memory sandbox for orchestrator tests.
type stubEnv struct {
	initErr   error
	execErr   error
	exitCode  int
	initCalls int
	executed  []string
	cleanups  int
}

func (s *stubEnv) Initialize(ctx context.Context) error {
	s.initCalls++
	return s.initErr
}

func (s *stubEnv) Execute(ctx context.Context, script, name string) (*sandbox.ExecResult, error) {
	if s.execErr != nil {
		return nil, s.execErr
	}
	s.executed = append(s.executed, name)
	return &sandbox.ExecResult{ExitCode: s.exitCode, Output: "ok", TestName: name}, nil
}

func (s *stubEnv) Cleanup(ctx context.Context) error {
	s.cleanups++
	return nil
}

func testConfig(t *testing.T) *models.Config {
	t.Helper()
	cfg := models.DefaultConfig()
	// Unroutable endpoints so live lookups fail fast onto the canned path.
	cfg.Recon.SearchEndpoint = "http://127.0.0.1:1"
	cfg.Recon.CodeHostEndpoint = "http://127.0.0.1:1"
	cfg.Recon.CallTimeout = 200 * time.Millisecond
	cfg.Recon.MinCallInterval = time.Millisecond
	cfg.Recon.DNSServer = "127.0.0.1:1"
	cfg.Recon.DNSTimeout = 100 * time.Millisecond
	cfg.Storage.SessionDir = t.TempDir()
	return cfg
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestFreeTierLimit(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, Options{}, quietLogger(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := a.Research(ctx, "example", nil)
		require.NoError(t, err)
		assert.False(t, result.Denied(), "search %d should be granted", i+1)
	}

	result, err := a.Research(ctx, "example", nil)
	require.NoError(t, err)
	assert.True(t, result.Denied())
	assert.Equal(t, "Premium access required for full research", result.Error)

	// Denied attempts are not logged, so the gate stays closed.
	assert.Len(t, a.SessionLog(), 3)
	result, err = a.Research(ctx, "example", nil)
	require.NoError(t, err)
	assert.True(t, result.Denied())
}

func TestPremiumAccess(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		granted bool
	}{
		{name: "production key", apiKey: "bb_prod_abc123", granted: true},
		{name: "test key", apiKey: "bb_test_abc123", granted: true},
		{name: "demo key", apiKey: "demo-premium-key", granted: true},
		{name: "malformed bb key", apiKey: "bb_nope_123", granted: false},
		{name: "no key falls through to grant", apiKey: "", granted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			a := New(cfg, Options{Premium: true, APIKey: tt.apiKey}, quietLogger(), nil)

			result, err := a.Research(context.Background(), "example", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.granted, !result.Denied())
		})
	}
}

func TestPremiumHasNoSessionCap(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, Options{Premium: true, APIKey: "bb_test_key"}, quietLogger(), nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		result, err := a.Research(ctx, "example", nil)
		require.NoError(t, err)
		assert.False(t, result.Denied())
	}
	assert.Len(t, a.SessionLog(), 10)
}

func TestResearchResultShape(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, Options{Premium: true, APIKey: "bb_test_key"}, quietLogger(), nil)

	result, err := a.Research(context.Background(), "NiceHash", []string{research.CategoryIDOR, research.CategoryAuthBypass})
	require.NoError(t, err)

	assert.Equal(t, a.SessionID(), result.SessionID)
	assert.Equal(t, "NiceHash", result.Target)
	assert.Equal(t, 2, result.VulnerabilityCount)
	require.NotNil(t, result.Recon)
	assert.NotNil(t, result.Recon.ThreatIntel)
	assert.NotNil(t, result.Recon.Tools)
	assert.NotNil(t, result.Recon.PublicIntel)
	require.NotNil(t, result.Analysis)
	require.Len(t, result.Analysis.Vulnerabilities, 2)
	require.NotNil(t, result.EstimatedBounty)
	assert.NotEqual(t, "$0", result.EstimatedBounty.Min)
	assert.Equal(t, "low", result.EstimatedBounty.Confidence)
}

func TestResearchUnknownCategorySkipped(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, Options{Premium: true, APIKey: "bb_test_key"}, quietLogger(), nil)

	result, err := a.Research(context.Background(), "example", []string{"nonexistent", research.CategoryIDOR})
	require.NoError(t, err)
	assert.Equal(t, 1, result.VulnerabilityCount)
}

func TestExecutionPlanPremiumOnly(t *testing.T) {
	cfg := testConfig(t)
	categories := []string{research.CategoryIDOR}

	free := New(cfg, Options{}, quietLogger(), nil)
	result, err := free.Research(context.Background(), "example", categories)
	require.NoError(t, err)
	assert.Nil(t, result.ExecutionPlan)

	premium := New(cfg, Options{Premium: true, APIKey: "bb_test_key"}, quietLogger(), nil)
	result, err = premium.Research(context.Background(), "Example", categories)
	require.NoError(t, err)
	require.NotNil(t, result.ExecutionPlan)
	assert.Len(t, result.ExecutionPlan.TestingPhases, 1)
	assert.Equal(t, "4-6 hours", result.ExecutionPlan.EstimatedTime)
	assert.Contains(t, result.ExecutionPlan.AutomationScripts, "example_idor_scanner.py")
}

func TestSandboxConfirmsActionableFindings(t *testing.T) {
	cfg := testConfig(t)
	env := &stubEnv{exitCode: 0}
	a := NewWithEnvironment(cfg, Options{Premium: true, APIKey: "bb_test_key", UseSandbox: true}, env, quietLogger(), nil)

	result, err := a.Research(context.Background(), "example",
		[]string{research.CategoryIDOR, research.CategoryAuthBypass, research.CategoryBusinessLogic})
	require.NoError(t, err)

	require.NotNil(t, result.SandboxTesting)
	// business_logic is MEDIUM and never reaches the sandbox.
	assert.Equal(t, 2, result.SandboxTesting.TestsExecuted)
	assert.Len(t, result.SandboxTesting.VulnerabilitiesConfirmed, 2)
	assert.Equal(t, 1, result.SandboxTesting.ContainersCreated)
	assert.Equal(t, 1, env.initCalls)
	assert.Contains(t, env.executed, "test_sequential_organization_id_enumeration")

	a.Cleanup(context.Background())
	assert.Equal(t, 1, env.cleanups)
}

func TestSandboxFailingTestsNotConfirmed(t *testing.T) {
	cfg := testConfig(t)
	env := &stubEnv{exitCode: 1}
	a := NewWithEnvironment(cfg, Options{Premium: true, APIKey: "bb_test_key", UseSandbox: true}, env, quietLogger(), nil)

	result, err := a.Research(context.Background(), "example", []string{research.CategoryIDOR})
	require.NoError(t, err)

	require.NotNil(t, result.SandboxTesting)
	assert.Equal(t, 1, result.SandboxTesting.TestsExecuted)
	assert.Empty(t, result.SandboxTesting.VulnerabilitiesConfirmed)
}

func TestSandboxInitFailureDisablesTesting(t *testing.T) {
	cfg := testConfig(t)
	env := &stubEnv{initErr: errors.New("docker daemon unreachable")}
	a := NewWithEnvironment(cfg, Options{Premium: true, APIKey: "bb_test_key", UseSandbox: true}, env, quietLogger(), nil)
	ctx := context.Background()

	result, err := a.Research(ctx, "example", []string{research.CategoryIDOR})
	require.NoError(t, err)
	assert.Nil(t, result.SandboxTesting)

	// No retry for the rest of the session.
	result, err = a.Research(ctx, "example", []string{research.CategoryIDOR})
	require.NoError(t, err)
	assert.Nil(t, result.SandboxTesting)
	assert.Equal(t, 1, env.initCalls)

	// Cleanup is a no-op for an environment that never came up.
	a.Cleanup(ctx)
	assert.Equal(t, 0, env.cleanups)
}

func TestSaveSessionRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, Options{}, quietLogger(), nil)

	_, err := a.Research(context.Background(), "example", []string{research.CategoryIDOR})
	require.NoError(t, err)

	path, err := a.SaveSession()
	require.NoError(t, err)
	assert.Contains(t, path, "bugbounty_research_"+a.SessionID())
}
