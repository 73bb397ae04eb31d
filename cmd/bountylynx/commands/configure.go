package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bountylynx/bountylynx/pkg/models"
	"github.com/bountylynx/bountylynx/pkg/utils"
)

func NewConfigureCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Manage BountyLynx configuration",
		Long: `Manage BountyLynx configuration: initialize a config file with defaults,
show effective settings and mint license tokens for premium access.`,
	}

	cmd.AddCommand(newConfigureInitCommand())
	cmd.AddCommand(newConfigureShowCommand())
	cmd.AddCommand(newConfigureLicenseCommand())
	return cmd
}

func newConfigureInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a configuration file with defaults",
		RunE:  runConfigureInit,
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	_ = viper.BindPFlag("configure.force", cmd.Flags().Lookup("force"))
	return cmd
}

func newConfigureShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE:  runConfigureShow,
	}
}

func newConfigureLicenseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license <subject>",
		Short: "Mint a signed license token for premium access",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigureLicense,
	}
	cmd.Flags().String("secret", "", "HMAC signing secret (defaults to access.license_secret)")
	cmd.Flags().Duration("ttl", 30*24*time.Hour, "Token lifetime")
	_ = viper.BindPFlag("configure.license_secret", cmd.Flags().Lookup("secret"))
	_ = viper.BindPFlag("configure.license_ttl", cmd.Flags().Lookup("ttl"))
	return cmd
}

func runConfigureInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".bountylynx")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); err == nil && !viper.GetBool("configure.force") {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configFile)
	}

	if err := models.DefaultConfig().Save(configFile); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	logrus.Infof("Configuration initialized: %s", configFile)
	logrus.Info("Edit this file to customize defaults. Run `bountylynx configure show` to view.")
	return nil
}

func runConfigureShow(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	fmt.Println("Effective configuration:")
	fmt.Println("═══════════════════════════════════════════════════════════════")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "GENERAL:\t")
	fmt.Fprintf(w, "  Log Level:\t%s\n", cfg.Global.LogLevel)
	fmt.Fprintf(w, "  Log Format:\t%s\n", cfg.Global.LogFormat)
	fmt.Fprintf(w, "  Data Directory:\t%s\n", cfg.Global.DataDir)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "RECON:\t")
	fmt.Fprintf(w, "  Call Timeout:\t%s\n", cfg.Recon.CallTimeout)
	fmt.Fprintf(w, "  Min Call Interval:\t%s\n", cfg.Recon.MinCallInterval)
	fmt.Fprintf(w, "  DNS Server:\t%s\n", cfg.Recon.DNSServer)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SANDBOX:\t")
	fmt.Fprintf(w, "  Image:\t%s\n", cfg.Sandbox.Image)
	fmt.Fprintf(w, "  Name Prefix:\t%s\n", cfg.Sandbox.NamePrefix)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ACCESS:\t")
	fmt.Fprintf(w, "  Free Tier Limit:\t%d\n", cfg.Access.FreeTierLimit)
	fmt.Fprintf(w, "  API Key:\t%s\n", maskKey(cfg.Access.APIKey))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "STORAGE:\t")
	fmt.Fprintf(w, "  Session Directory:\t%s\n", cfg.Storage.SessionDir)
	fmt.Fprintf(w, "  Output Directory:\t%s\n", cfg.Reporting.OutputDir)

	return w.Flush()
}

func runConfigureLicense(cmd *cobra.Command, args []string) error {
	subject := strings.TrimSpace(args[0])
	if subject == "" {
		return fmt.Errorf("subject must not be empty")
	}

	secret := viper.GetString("configure.license_secret")
	if secret == "" {
		secret = buildConfig().Access.LicenseSecret
	}
	if secret == "" {
		return fmt.Errorf("no signing secret configured (set access.license_secret or pass --secret)")
	}

	token, err := utils.SignLicenseToken(secret, subject, viper.GetDuration("configure.license_ttl"))
	if err != nil {
		return fmt.Errorf("failed to sign license token: %w", err)
	}

	fmt.Println(token)
	return nil
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
