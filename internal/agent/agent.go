package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bountylynx/bountylynx/internal/recon"
	"github.com/bountylynx/bountylynx/internal/research"
	"github.com/bountylynx/bountylynx/internal/sandbox"
	"github.com/bountylynx/bountylynx/internal/storage"
	"github.com/bountylynx/bountylynx/pkg/models"
	"github.com/bountylynx/bountylynx/pkg/utils"
)

// Options selects the tier and sandbox behavior for one agent instance.
type Options struct {
	APIKey     string
	Premium    bool
	UseSandbox bool
}

// Agent is the hub of the research pipeline: it owns the tool adapters, the
// research module registry, the sandbox handle and the append-only session
// log. All mutable state is instance-local.
type Agent struct {
	cfg     *models.Config
	opts    Options
	logger  *logrus.Logger
	metrics *utils.AgentMetrics

	sessionID string
	tools     map[string]*recon.Adapter
	dns       *recon.DNSSweeper
	modules   map[string]research.ModuleFunc
	store     *storage.SessionStore

	mu              sync.Mutex
	sessionLog      []*models.ResearchResult
	env             sandbox.Environment
	sandboxReady    bool
	sandboxDisabled bool
}

// New builds an agent backed by a Docker sandbox environment.
func New(cfg *models.Config, opts Options, logger *logrus.Logger, metrics *utils.AgentMetrics) *Agent {
	a := newAgent(cfg, opts, logger, metrics)
	if opts.UseSandbox {
		a.env = sandbox.NewDockerEnvironment(cfg.Sandbox, a.sessionID, logger)
	}
	return a
}

// NewWithEnvironment builds an agent around a caller-supplied sandbox
// environment.
func NewWithEnvironment(cfg *models.Config, opts Options, env sandbox.Environment, logger *logrus.Logger, metrics *utils.AgentMetrics) *Agent {
	a := newAgent(cfg, opts, logger, metrics)
	a.env = env
	return a
}

func newAgent(cfg *models.Config, opts Options, logger *logrus.Logger, metrics *utils.AgentMetrics) *Agent {
	if cfg == nil {
		cfg = models.DefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	sessionID := utils.GenerateSessionID()

	return &Agent{
		cfg:       cfg,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
		sessionID: sessionID,
		tools: map[string]*recon.Adapter{
			recon.ToolPerplexity:   recon.NewAdapter(recon.ToolPerplexity, cfg.Recon.SearchEndpoint, cfg.Recon, logger, metrics),
			recon.ToolGithubSearch: recon.NewAdapter(recon.ToolGithubSearch, cfg.Recon.CodeHostEndpoint, cfg.Recon, logger, metrics),
			recon.ToolBraveSearch:  recon.NewAdapter(recon.ToolBraveSearch, "", cfg.Recon, logger, metrics),
			recon.ToolContext7:     recon.NewAdapter(recon.ToolContext7, "", cfg.Recon, logger, metrics),
		},
		dns:     recon.NewDNSSweeper(cfg.Recon, logger),
		modules: research.Modules(),
		store:   storage.NewSessionStore(cfg.Storage, logger),
	}
}

func (a *Agent) SessionID() string { return a.sessionID }

// SessionLog returns a copy of the accumulated result records.
func (a *Agent) SessionLog() []*models.ResearchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*models.ResearchResult, len(a.sessionLog))
	copy(out, a.sessionLog)
	return out
}

// Research runs the full pipeline for one target: recon, analysis, and for
// premium sessions execution planning and optional sandbox testing. The
// returned record is complete on return and never mutated afterwards.
func (a *Agent) Research(ctx context.Context, target string, categories []string) (*models.ResearchResult, error) {
	tier := "free"
	if a.opts.Premium {
		tier = "premium"
	}

	if !a.validateAccess() {
		if a.metrics != nil {
			a.metrics.Sessions.WithLabelValues(tier, "denied").Inc()
		}
		return &models.ResearchResult{Error: "Premium access required for full research"}, nil
	}

	log := a.logger.WithField("session_id", a.sessionID)
	log.Infof("Starting research session for target %s (focus: %s)", target, strings.Join(categories, ", "))

	reconData, err := a.reconPhase(ctx, target, categories)
	if err != nil {
		return nil, err
	}

	analysis := a.analysisPhase(reconData, categories)

	result := &models.ResearchResult{
		SessionID:          a.sessionID,
		Target:             target,
		Timestamp:          time.Now(),
		Recon:              reconData,
		Analysis:           analysis,
		VulnerabilityCount: len(analysis.Vulnerabilities),
	}

	if a.opts.Premium {
		result.ExecutionPlan = a.executionPlan(analysis, target)

		if report := a.sandboxPhase(ctx, analysis, target); report != nil {
			result.SandboxTesting = report
		}
	}

	estimate := research.EstimateBounty(analysis.Vulnerabilities)
	result.EstimatedBounty = &estimate

	a.mu.Lock()
	a.sessionLog = append(a.sessionLog, result)
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.Sessions.WithLabelValues(tier, "ok").Inc()
	}

	log.Infof("Research completed: %d findings, estimated bounty %s-%s",
		result.VulnerabilityCount, estimate.Min, estimate.Max)
	return result, nil
}

// reconPhase fans the tool adapter calls out and joins them. Adapter-level
// failures are already absorbed by the canned fallback, so only context
// cancellation surfaces here.
func (a *Agent) reconPhase(ctx context.Context, target string, categories []string) (*models.ReconData, error) {
	focus := strings.Join(categories, " ")
	data := &models.ReconData{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := a.tools[recon.ToolPerplexity].Call(gctx, map[string]string{
			"query": fmt.Sprintf("%s %s vulnerabilities 2025 bug bounty", target, focus),
		})
		data.ThreatIntel = resp
		return err
	})
	g.Go(func() error {
		resp, err := a.tools[recon.ToolGithubSearch].Call(gctx, map[string]string{
			"q": fmt.Sprintf("%s security testing %s", target, focus),
		})
		data.Tools = resp
		return err
	})
	g.Go(func() error {
		resp, err := a.tools[recon.ToolBraveSearch].Call(gctx, map[string]string{
			"query": fmt.Sprintf("%s bug bounty program API security", target),
		})
		data.PublicIntel = resp
		return err
	})
	g.Go(func() error {
		data.DNSIntel = a.dns.Sweep(gctx, target)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("recon phase: %w", err)
	}
	return data, nil
}

func (a *Agent) analysisPhase(reconData *models.ReconData, categories []string) *models.AnalysisData {
	analysis := &models.AnalysisData{
		Vulnerabilities: []models.Finding{},
		AttackVectors:   []string{},
		Recommended:     []models.ToolRecommendation{},
	}

	for _, category := range categories {
		module, ok := a.modules[category]
		if !ok {
			a.logger.Warnf("Unknown vulnerability category %q, skipping", category)
			continue
		}
		res := module(reconData)
		analysis.Vulnerabilities = append(analysis.Vulnerabilities, res.Vulnerabilities...)
		analysis.AttackVectors = append(analysis.AttackVectors, res.AttackVectors...)

		if a.metrics != nil {
			for _, f := range res.Vulnerabilities {
				a.metrics.FindingsTotal.WithLabelValues(f.Severity).Inc()
			}
		}
	}

	// Surface well-starred repositories from the code-host sweep as tooling
	// recommendations.
	if repos, ok := reconData.Tools["repositories"].([]recon.RepoSummary); ok {
		for _, repo := range repos {
			if repo.Stars <= 50 {
				continue
			}
			relevance := "medium"
			if repo.Stars > 200 {
				relevance = "high"
			}
			analysis.Recommended = append(analysis.Recommended, models.ToolRecommendation{
				Name:        repo.Name,
				Description: repo.Description,
				Stars:       repo.Stars,
				Relevance:   relevance,
			})
		}
	}

	return analysis
}

func (a *Agent) executionPlan(analysis *models.AnalysisData, target string) *models.ExecutionPlan {
	plan := &models.ExecutionPlan{
		TestingPhases:      []models.TestingPhase{},
		EstimatedTime:      "4-6 hours",
		ReportingTemplates: []string{},
	}

	for _, f := range analysis.Vulnerabilities {
		if !f.IsActionable() {
			continue
		}
		plan.TestingPhases = append(plan.TestingPhases, models.TestingPhase{
			Phase:              fmt.Sprintf("Test %s", f.Title),
			Method:             f.PoCTemplate,
			ExpectedOutcome:    fmt.Sprintf("Potential $%d bounty", research.SingleBounty(f)),
			AutomationPossible: true,
		})
	}

	lower := strings.ToLower(target)
	plan.AutomationScripts = []string{
		lower + "_idor_scanner.py",
		lower + "_auth_bypass_tester.py",
		lower + "_business_logic_fuzzer.py",
	}

	return plan
}

// sandboxPhase runs the generated scripts for actionable findings inside the
// isolated environment. Returns nil when the sandbox is not enabled or its
// setup failed; the result record then carries no sandbox section at all.
func (a *Agent) sandboxPhase(ctx context.Context, analysis *models.AnalysisData, target string) *models.SandboxReport {
	if !a.ensureSandbox(ctx) {
		return nil
	}

	report := &models.SandboxReport{
		VulnerabilitiesConfirmed: []models.SandboxTest{},
		TestingEnvironments: []models.SandboxEnvironmentInfo{
			{
				Type:           "Kali Linux",
				Tools:          []string{"nmap", "sqlmap", "gobuster", "custom_scripts"},
				IsolationLevel: "full_container",
			},
		},
	}

	for _, f := range analysis.Vulnerabilities {
		if !f.IsActionable() {
			continue
		}

		script := sandbox.GenerateTestScript(f, target)
		res, err := a.env.Execute(ctx, script, sandbox.TestName(f))
		report.TestsExecuted++

		status := "failed"
		switch {
		case err != nil:
			status = "error"
			a.logger.Warnf("Sandbox test for %q failed: %v", f.Title, err)
		case res.ExitCode == 0:
			status = "passed"
			report.VulnerabilitiesConfirmed = append(report.VulnerabilitiesConfirmed, models.SandboxTest{
				Vulnerability: f.Title,
				TestOutput:    res.Output,
				Confidence:    "high",
			})
		}
		if a.metrics != nil {
			a.metrics.SandboxTests.WithLabelValues(status).Inc()
		}
	}

	report.ContainersCreated = 1
	return report
}

// ensureSandbox lazily initializes the sandbox once per session. A failed
// setup disables the sandbox path for the rest of the session; there is no
// retry.
func (a *Agent) ensureSandbox(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.env == nil || a.sandboxDisabled {
		return false
	}
	if a.sandboxReady {
		return true
	}

	if err := a.env.Initialize(ctx); err != nil {
		a.logger.Warnf("Sandbox unavailable, disabling isolated testing: %v", err)
		a.sandboxDisabled = true
		return false
	}
	a.sandboxReady = true
	return true
}

// SaveSession writes the session log to disk and returns the file path.
func (a *Agent) SaveSession() (string, error) {
	return a.store.Save(a.sessionID, a.SessionLog())
}

// Cleanup releases the sandbox environment. Safe to call multiple times and
// on agents that never initialized one.
func (a *Agent) Cleanup(ctx context.Context) {
	a.mu.Lock()
	env, ready := a.env, a.sandboxReady
	a.sandboxReady = false
	a.mu.Unlock()

	if env != nil && ready {
		a.logger.Info("Cleaning up sandbox environment")
		_ = env.Cleanup(ctx)
	}
}
