package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Global    GlobalConfig    `yaml:"global" json:"global"`
	Recon     ReconConfig     `yaml:"recon" json:"recon"`
	Sandbox   SandboxConfig   `yaml:"sandbox" json:"sandbox"`
	Access    AccessConfig    `yaml:"access" json:"access"`
	Storage   StorageConfig   `yaml:"storage" json:"storage"`
	Reporting ReportingConfig `yaml:"reporting" json:"reporting"`
	Deploy    DeployConfig    `yaml:"deploy" json:"deploy"`
}

type GlobalConfig struct {
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`
	DataDir   string `yaml:"data_dir" json:"data_dir"`
	TempDir   string `yaml:"temp_dir" json:"temp_dir"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	Debug     bool   `yaml:"debug" json:"debug"`
}

type ReconConfig struct {
	CallTimeout     time.Duration `yaml:"call_timeout" json:"call_timeout"`
	MinCallInterval time.Duration `yaml:"min_call_interval" json:"min_call_interval"`
	SearchEndpoint  string        `yaml:"search_endpoint" json:"search_endpoint"`
	CodeHostEndpoint string       `yaml:"code_host_endpoint" json:"code_host_endpoint"`
	DNSServer       string        `yaml:"dns_server" json:"dns_server"`
	DNSTimeout      time.Duration `yaml:"dns_timeout" json:"dns_timeout"`
}

type SandboxConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	Image        string        `yaml:"image" json:"image"`
	NamePrefix   string        `yaml:"name_prefix" json:"name_prefix"`
	SetupTimeout time.Duration `yaml:"setup_timeout" json:"setup_timeout"`
}

type AccessConfig struct {
	Premium       bool   `yaml:"premium" json:"premium"`
	APIKey        string `yaml:"api_key" json:"api_key"`
	LicenseToken  string `yaml:"license_token" json:"license_token"`
	LicenseSecret string `yaml:"license_secret" json:"license_secret"`
	FreeTierLimit int    `yaml:"free_tier_limit" json:"free_tier_limit"`
}

type StorageConfig struct {
	SessionDir string `yaml:"session_dir" json:"session_dir"`
	Indent     bool   `yaml:"indent" json:"indent"`
}

type ReportingConfig struct {
	OutputDir string `yaml:"output_dir" json:"output_dir"`
	Format    string `yaml:"format" json:"format"`
}

type DeployConfig struct {
	Region        string `yaml:"region" json:"region"`
	AgentName     string `yaml:"agent_name" json:"agent_name"`
	FoundationModel string `yaml:"foundation_model" json:"foundation_model"`
	RoleName      string `yaml:"role_name" json:"role_name"`
	PolicyDir     string `yaml:"policy_dir" json:"policy_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Global: GlobalConfig{
			LogLevel:  "info",
			LogFormat: "json",
			DataDir:   "./data",
			TempDir:   os.TempDir(),
			UserAgent: "BugBounty-Research/1.0",
		},
		Recon: ReconConfig{
			CallTimeout:      5 * time.Second,
			MinCallInterval:  2 * time.Second,
			SearchEndpoint:   "https://api.duckduckgo.com",
			CodeHostEndpoint: "https://api.github.com",
			DNSServer:        "8.8.8.8:53",
			DNSTimeout:       3 * time.Second,
		},
		Sandbox: SandboxConfig{
			Enabled:      false,
			Image:        "kalilinux/kali-rolling",
			NamePrefix:   "bountylynx-testing",
			SetupTimeout: 5 * time.Minute,
		},
		Access: AccessConfig{
			FreeTierLimit: 3,
		},
		Storage: StorageConfig{
			SessionDir: "./sessions",
			Indent:     true,
		},
		Reporting: ReportingConfig{
			OutputDir: "./reports",
			Format:    "txt",
		},
		Deploy: DeployConfig{
			Region:          "us-east-1",
			AgentName:       "bountylynx-research-agent",
			FoundationModel: "anthropic.claude-3-sonnet-20240229-v1:0",
			RoleName:        "BountylynxBedrockAgentRole",
			PolicyDir:       "./deployment/aws",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	default:
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	if c.Recon.CallTimeout <= 0 {
		return fmt.Errorf("recon call_timeout must be positive")
	}
	if c.Recon.MinCallInterval < 0 {
		return fmt.Errorf("recon min_call_interval cannot be negative")
	}
	if c.Access.FreeTierLimit <= 0 {
		return fmt.Errorf("access free_tier_limit must be positive")
	}
	if c.Sandbox.Image == "" {
		return fmt.Errorf("sandbox image is required")
	}
	return nil
}
