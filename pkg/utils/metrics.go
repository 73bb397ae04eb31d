package utils

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AgentMetrics aggregates the prometheus instrumentation for one agent
// process: tool adapter traffic, research sessions and sandbox activity.
type AgentMetrics struct {
	registry *prometheus.Registry

	ToolCalls     *prometheus.CounterVec
	ToolFallbacks *prometheus.CounterVec
	ToolLatency   *prometheus.HistogramVec
	Sessions      *prometheus.CounterVec
	SandboxTests  *prometheus.CounterVec
	FindingsTotal *prometheus.CounterVec
}

func NewAgentMetrics(enableRuntimeMetrics bool) *AgentMetrics {
	reg := prometheus.NewRegistry()

	if enableRuntimeMetrics {
		_ = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		_ = reg.Register(collectors.NewGoCollector())
	}

	m := &AgentMetrics{
		registry: reg,
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bountylynx_tool_calls_total",
			Help: "Tool adapter calls by capability and response source.",
		}, []string{"tool", "source"}),
		ToolFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bountylynx_tool_fallbacks_total",
			Help: "Tool adapter calls answered from canned data.",
		}, []string{"tool"}),
		ToolLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bountylynx_tool_call_duration_seconds",
			Help:    "Tool adapter call latency including rate-limit wait.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		Sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bountylynx_research_sessions_total",
			Help: "Orchestration calls by tier and outcome.",
		}, []string{"tier", "outcome"}),
		SandboxTests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bountylynx_sandbox_tests_total",
			Help: "Sandbox script executions by result.",
		}, []string{"status"}),
		FindingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bountylynx_findings_total",
			Help: "Findings produced by research modules, by severity.",
		}, []string{"severity"}),
	}

	for _, c := range []prometheus.Collector{
		m.ToolCalls, m.ToolFallbacks, m.ToolLatency, m.Sessions, m.SandboxTests, m.FindingsTotal,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}

	return m
}

func (m *AgentMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *AgentMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
